package source

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces bursts of file events (editor save dances, bulk
// moves) into a single change notification.
const watchDebounce = 200 * time.Millisecond

// Watch runs an fsnotify watcher over root until ctx is canceled, invoking
// onChange (debounced) after any markdown file is created, written, renamed
// or removed. Directories created at runtime are added to the watch list.
//
// onChange is called from the watcher goroutine; callers hand the
// notification to their own event loop (the TUI forwards it as a message).
func Watch(ctx context.Context, root string, logger *log.Logger, onChange func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, root); err != nil {
		return err
	}
	logger.Debug("watcher started", "root", root)

	var debounce *time.Timer
	var fire <-chan time.Time
	schedule := func() {
		if debounce == nil {
			debounce = time.NewTimer(watchDebounce)
			fire = debounce.C
		} else {
			debounce.Reset(watchDebounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			logger.Debug("watcher stopped", "root", root)
			return nil

		case <-fire:
			onChange()

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op.Has(fsnotify.Create) {
				if st, err := os.Stat(ev.Name); err == nil && st.IsDir() {
					// New directories need explicit watches.
					_ = addDirsRecursive(w, ev.Name)
				}
			}
			if relevantEvent(ev) {
				schedule()
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "err", err)
		}
	}
}

func relevantEvent(ev fsnotify.Event) bool {
	if !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Write) &&
		!ev.Op.Has(fsnotify.Rename) && !ev.Op.Has(fsnotify.Remove) {
		return false
	}
	base := filepath.Base(ev.Name)
	if strings.HasPrefix(base, ".") {
		return false
	}
	// Directory events matter too (a folder of notes moved in or out);
	// everything else is filtered to markdown.
	return !strings.Contains(base, ".") || strings.EqualFold(filepath.Ext(base), ".md")
}

func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Races with deletions are expected; skip what vanished.
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if name := d.Name(); strings.HasPrefix(name, ".") && path != root {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}
