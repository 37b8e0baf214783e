package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"cardwall-cli/internal/model"
	"cardwall-cli/internal/source"
	"cardwall-cli/internal/store"
)

// Run starts the cards panel over the notes directory at root, showing the
// given card set. It blocks until the user quits.
func Run(root string, set model.CardSet, settings store.Settings, logger *log.Logger) error {
	applyColorProfilePreference()
	applyThemePreference()

	m := newAppModel(root, set, settings, logger)

	ctx, cancel := context.WithCancel(context.Background())
	m.cancelWatch = cancel
	go func() {
		if err := source.Watch(ctx, root, logger, func() {
			select {
			case m.changes <- struct{}{}:
			default:
			}
		}); err != nil {
			logger.Warn("file watcher unavailable", "err", err)
		}
	}()

	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	cancel()
	return err
}
