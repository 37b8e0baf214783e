package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"cardwall-cli/internal/model"
	"cardwall-cli/internal/store"
	"cardwall-cli/internal/tui"
)

// version is overridden at build time via -ldflags.
var version = "dev"

// App carries the persistent flag state shared by every subcommand.
type App struct {
	Dir     string
	Verbose bool

	logger *log.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "cardwall",
		Short:        "Card-style panel over a directory of markdown notes",
		Version:      version,
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Browse the current directory as a card wall
  cardwall

  # Browse a notes directory, filtered to one tag
  cardwall view --dir ~/notes --tag project/home

  # Rebuild the metadata index and query it
  cardwall index
  cardwall index --search "roadmap"
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive panel over the whole directory.
			return runPanel(app, model.CardSet{Kind: model.CardSetFolder})
		},
	}

	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		app.logger = newLogger(app.Verbose)
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("CARDWALL_DIR", ""), "Notes directory (default: current directory)")
	cmd.PersistentFlags().BoolVarP(&app.Verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(newViewCmd(app))
	cmd.AddCommand(newIndexCmd(app))
	cmd.AddCommand(newDoctorCmd(app))
	cmd.AddCommand(newConfigCmd(app))

	return cmd
}

func runPanel(app *App, set model.CardSet) error {
	root, err := resolveDir(app)
	if err != nil {
		return err
	}
	settings, err := store.LoadSettings()
	if err != nil {
		app.logger.Warn("settings unreadable, using defaults", "err", err)
	}
	return tui.Run(root, set, settings, app.logger)
}

func resolveDir(app *App) (string, error) {
	dir := strings.TrimSpace(app.Dir)
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		dir = wd
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	st, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("notes directory: %w", err)
	}
	if !st.IsDir() {
		return "", fmt.Errorf("notes directory %s is not a directory", abs)
	}
	return abs, nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
