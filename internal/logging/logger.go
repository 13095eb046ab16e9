// Package logging provides structured diagnostics on stderr.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger wraps slog with the fields this tool attaches.
type Logger struct {
	*slog.Logger
}

// ParseLevel maps a config level name to a slog level. Unknown names mean info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger creates a logger writing to stderr at the given level.
func NewLogger(level string) *Logger {
	return New(os.Stderr, level)
}

// New creates a logger writing text records to w.
func New(w io.Writer, level string) *Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
	})
	return &Logger{Logger: slog.New(handler)}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return New(io.Discard, "error")
}

// WithRun returns a logger tagged with a run id.
func (l *Logger) WithRun(runID string) *Logger {
	return &Logger{Logger: l.With(slog.String("run", runID))}
}

// WithCommand returns a logger tagged with the CLI command name.
func (l *Logger) WithCommand(name string) *Logger {
	return &Logger{Logger: l.With(slog.String("command", name))}
}
