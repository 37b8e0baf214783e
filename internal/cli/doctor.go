package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"cardwall-cli/internal/model"
	"cardwall-cli/internal/source"
	"cardwall-cli/internal/store"
)

var errDoctorIssuesFound = errors.New("doctor found issues")

func newDoctorCmd(app *App) *cobra.Command {
	var fail bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the notes directory, settings and index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			issues := 0

			root, err := resolveDir(app)
			if err != nil {
				fmt.Fprintf(out, "FAIL notes directory: %v\n", err)
				issues++
			} else {
				cards, err := source.NewDirSource(root).Resolve(cmd.Context(), model.CardSet{Kind: model.CardSetFolder})
				if err != nil {
					fmt.Fprintf(out, "FAIL scan %s: %v\n", root, err)
					issues++
				} else {
					fmt.Fprintf(out, "ok   notes directory %s (%d cards)\n", root, len(cards))
				}
			}

			if _, err := store.LoadSettings(); err != nil {
				fmt.Fprintf(out, "FAIL settings: %v\n", err)
				issues++
			} else {
				fmt.Fprintln(out, "ok   settings")
			}

			if path, err := indexPath(); err != nil {
				fmt.Fprintf(out, "FAIL index path: %v\n", err)
				issues++
			} else if ix, err := source.OpenIndex(path); err != nil {
				fmt.Fprintf(out, "FAIL index %s: %v\n", path, err)
				issues++
			} else {
				n, err := ix.Count(cmd.Context())
				ix.Close()
				if err != nil {
					fmt.Fprintf(out, "FAIL index %s: %v\n", path, err)
					issues++
				} else {
					fmt.Fprintf(out, "ok   index %s (%d cards)\n", path, n)
				}
			}

			if issues > 0 {
				fmt.Fprintf(out, "%d issue(s) found\n", issues)
				if fail {
					return errDoctorIssuesFound
				}
				return nil
			}
			fmt.Fprintln(out, "All checks passed")
			return nil
		},
	}

	cmd.Flags().BoolVar(&fail, "fail", false, "Exit with non-zero status if issues are found")
	return cmd
}
