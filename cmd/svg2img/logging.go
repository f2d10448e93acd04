package main

import (
	"io"

	"github.com/charmbracelet/log"
)

// newLogger creates a stderr logger with timestamp formatting.
// --verbose enables debug output (browser lifecycle, per-file timing);
// --quiet keeps errors only.
func newLogger(w io.Writer, quiet, verbose bool) *log.Logger {
	level := log.InfoLevel
	switch {
	case verbose:
		level = log.DebugLevel
	case quiet:
		level = log.ErrorLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}
