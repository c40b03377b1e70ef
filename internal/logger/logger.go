// ABOUTME: Structured logging for vectorscope built on log/slog.
// ABOUTME: Wraps slog.Logger with explorer-specific fields and operation helpers.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger wraps slog.Logger with consistent field names for explorer events.
type Logger struct {
	*slog.Logger
}

// New creates a Logger with the given handler. A nil handler discards output.
func New(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(io.Discard, nil)
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewText creates a Logger writing human-readable lines to w.
func NewText(w io.Writer, level slog.Level) *Logger {
	return New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Nop returns a Logger that discards everything.
func Nop() *Logger {
	return New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000),
	}))
}

// ParseLevel converts a config level name into an slog level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
}

// OpenFile creates a text Logger appending to path. The returned closer must
// be closed when the program exits.
func OpenFile(path string, level slog.Level) (*Logger, io.Closer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return NewText(f, level), f, nil
}

// WithComponent tags every record with the emitting component.
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{Logger: l.Logger.With("component", name)}
}

// LogQuery logs a query submission and where it landed.
func (l *Logger) LogQuery(text string, x, y float64, scored int) {
	l.Debug("query submitted",
		"text", text,
		"x", x,
		"y", y,
		"scored", scored,
	)
}

// LogReload logs a layout reload triggered by a config change.
func (l *Logger) LogReload(path string, points int, err error) {
	if err != nil {
		l.Error("layout reload failed",
			"path", path,
			"error", err,
		)
		return
	}
	l.Info("layout reloaded",
		"path", path,
		"points", points,
	)
}

// LogTool logs an MCP tool call.
func (l *Logger) LogTool(name string, err error) {
	if err != nil {
		l.Warn("tool call rejected",
			"tool", name,
			"error", err,
		)
		return
	}
	l.Debug("tool call completed",
		"tool", name,
	)
}
