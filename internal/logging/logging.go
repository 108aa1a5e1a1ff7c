// Package logging builds the leveled console logger used across the client.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// Options holds configuration for the console logger.
type Options struct {
	Level           log.Level
	ReportTimestamp bool
	Prefix          string
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Level:  log.WarnLevel,
		Prefix: "todo",
	}
}

// New creates a logger writing to w.
func New(w io.Writer, opts Options) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           opts.Level,
		Formatter:       log.TextFormatter,
		ReportTimestamp: opts.ReportTimestamp,
		Prefix:          opts.Prefix,
	})
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return New(io.Discard, Options{Level: log.FatalLevel})
}

// Configure creates a logger for a configured level name. An empty name
// selects fallback; debug forces the debug level.
func Configure(w io.Writer, level string, debug bool, fallback log.Level) (*log.Logger, error) {
	opts := DefaultOptions()
	switch {
	case debug:
		opts.Level = log.DebugLevel
	case strings.TrimSpace(level) == "":
		opts.Level = fallback
	default:
		lvl, err := ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		opts.Level = lvl
	}
	return New(w, opts), nil
}

// ParseLevel converts a config level name to a log.Level.
// Empty input yields the default warn level.
func ParseLevel(s string) (log.Level, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return log.WarnLevel, nil
	}
	return log.ParseLevel(s)
}
