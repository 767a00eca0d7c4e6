// Package logging builds the leveled console logger shared by the server and the CLI.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"Tasker/internal/config"
)

// New returns a logger writing to stderr, configured from cfg.
func New(cfg config.LogConfig, prefix string) *log.Logger {
	return NewWithWriter(os.Stderr, cfg, prefix)
}

// NewWithWriter is New with an explicit output, used by tests.
func NewWithWriter(w io.Writer, cfg config.LogConfig, prefix string) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           ParseLevel(cfg.Level),
		Formatter:       ParseFormatter(cfg.Format),
		ReportTimestamp: true,
		Prefix:          prefix,
	})
}

// ParseLevel maps a level name to a log.Level. Unknown names give info.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// ParseFormatter maps "json", "logfmt" or "text" to a formatter.
func ParseFormatter(format string) log.Formatter {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}
