package squarelist

import (
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with squarelist-specific helpers.
// This provides structured logging with consistent field names.
//
// Only whole-structure events are logged (relayouts, bulk loads); point
// operations stay silent.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithName tags every record with a list name, for processes holding many lists.
func (l *Logger) WithName(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("list", name),
	}
}

// LogRelayout logs a backing-store reallocation.
func (l *Logger) LogRelayout(kind RelayoutKind, oldCapacity, newCapacity, size int, duration time.Duration, err error) {
	if err != nil {
		l.Error("relayout failed",
			"kind", kind.String(),
			"old_capacity", oldCapacity,
			"new_capacity", newCapacity,
			"size", size,
			"error", err,
		)
		return
	}
	l.Info("relayout completed",
		"kind", kind.String(),
		"old_capacity", oldCapacity,
		"new_capacity", newCapacity,
		"size", size,
		"duration", duration,
	)
}

// LogBulkLoad logs construction from a sorted source.
func (l *Logger) LogBulkLoad(count, capacity int, err error) {
	if err != nil {
		l.Error("bulk load failed",
			"loaded", count,
			"capacity", capacity,
			"error", err,
		)
		return
	}
	l.Info("bulk load completed",
		"count", count,
		"capacity", capacity,
	)
}

// LogShrinkSkipped logs a shrink request that left the layout unchanged.
func (l *Logger) LogShrinkSkipped(maxDepth, slack int) {
	l.Debug("shrink skipped, layout already fits",
		"max_depth", maxDepth,
		"slack", slack,
	)
}
