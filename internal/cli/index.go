package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"cardwall-cli/internal/model"
	"cardwall-cli/internal/source"
	"cardwall-cli/internal/store"
)

// indexPath resolves the SQLite index location inside the config directory.
func indexPath() (string, error) {
	dir, err := store.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "index.db"), nil
}

func newIndexCmd(app *App) *cobra.Command {
	var tag, search string

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Rebuild or query the card metadata index",
		Long: "Without flags, scans the notes directory and rebuilds the SQLite\n" +
			"metadata index. With --tag or --search, answers the query from the\n" +
			"index without touching note files.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := indexPath()
			if err != nil {
				return err
			}

			if tag != "" || search != "" {
				return queryIndex(cmd, path, tag, search)
			}
			return rebuildIndex(cmd, app, path)
		},
	}

	cmd.Flags().StringVar(&tag, "tag", "", "List indexed cards carrying this #tag")
	cmd.Flags().StringVar(&search, "search", "", "List indexed cards matching this query")
	return cmd
}

func rebuildIndex(cmd *cobra.Command, app *App, path string) error {
	root, err := resolveDir(app)
	if err != nil {
		return err
	}

	start := time.Now()
	cards, err := source.NewDirSource(root).Resolve(cmd.Context(), model.CardSet{Kind: model.CardSetFolder})
	if err != nil {
		return err
	}

	ix, err := source.OpenIndex(path)
	if err != nil {
		return err
	}
	defer ix.Close()

	if err := ix.Rebuild(cmd.Context(), cards); err != nil {
		return fmt.Errorf("rebuild index: %w", err)
	}

	app.logger.Debug("index rebuilt", "path", path, "cards", len(cards))
	fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d cards from %s (%s)\n",
		len(cards), root, time.Since(start).Round(time.Millisecond))
	return nil
}

func queryIndex(cmd *cobra.Command, path, tag, search string) error {
	ix, err := source.OpenIndex(path)
	if err != nil {
		return err
	}
	defer ix.Close()

	set := model.CardSet{Kind: model.CardSetTag, Value: tag}
	if search != "" {
		set = model.CardSet{Kind: model.CardSetSearch, Value: search}
	}

	cards, err := ix.Resolve(cmd.Context(), set)
	if err != nil {
		return err
	}
	for _, c := range cards {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", c.Path, c.Title)
	}
	if len(cards) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No matches. Run `cardwall index` to rebuild the index.")
	}
	return nil
}
