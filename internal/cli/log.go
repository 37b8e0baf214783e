package cli

import (
	"os"

	"github.com/charmbracelet/log"
)

// newLogger builds the CLI logger. Verbose mode enables debug output with
// timestamps; otherwise only warnings and errors surface, so log lines never
// interleave with command output or the panel.
func newLogger(verbose bool) *log.Logger {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: verbose,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}
