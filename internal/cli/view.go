package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cardwall-cli/internal/model"
)

func newViewCmd(app *App) *cobra.Command {
	var tag, search string

	cmd := &cobra.Command{
		Use:   "view [folder]",
		Short: "Open the interactive cards panel",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := cardSetFromArgs(args, tag, search)
			if err != nil {
				return err
			}
			return runPanel(app, set)
		},
	}

	cmd.Flags().StringVar(&tag, "tag", "", "Show only cards carrying this #tag")
	cmd.Flags().StringVar(&search, "search", "", "Show only cards matching this query")
	return cmd
}

func cardSetFromArgs(args []string, tag, search string) (model.CardSet, error) {
	tag = strings.TrimSpace(tag)
	search = strings.TrimSpace(search)

	filters := 0
	for _, f := range []string{tag, search} {
		if f != "" {
			filters++
		}
	}
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		filters++
	}
	if filters > 1 {
		return model.CardSet{}, fmt.Errorf("pick one of folder argument, --tag or --search")
	}

	switch {
	case tag != "":
		return model.CardSet{Kind: model.CardSetTag, Value: strings.TrimPrefix(tag, "#")}, nil
	case search != "":
		return model.CardSet{Kind: model.CardSetSearch, Value: search}, nil
	case len(args) > 0:
		return model.CardSet{Kind: model.CardSetFolder, Value: strings.TrimSpace(args[0])}, nil
	default:
		return model.CardSet{Kind: model.CardSetFolder}, nil
	}
}
