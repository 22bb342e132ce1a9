package shadercache

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with cache-specific context.
// This provides structured logging with consistent field names.
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

// WithPath adds the backing file path to the logger.
func (l *Logger) WithPath(path string) *Logger {
	return &Logger{
		Logger: l.Logger.With("path", path),
	}
}

// LogLoad logs a load of the backing file.
func (l *Logger) LogLoad(ctx context.Context, entries int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "cache load failed",
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "cache loaded",
			"entries", entries,
		)
	}
}

// LogCorrupt logs a backing file that could not be decoded.
func (l *Logger) LogCorrupt(ctx context.Context, err error) {
	l.WarnContext(ctx, "cache file is corrupt, starting empty",
		"error", err,
	)
}

// LogFlush logs a write of the backing file.
func (l *Logger) LogFlush(ctx context.Context, entries int, bytes int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "cache flush failed",
			"entries", entries,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "cache flushed",
			"entries", entries,
			"bytes", bytes,
		)
	}
}

// LogStoreRejected logs an entry that was not retained because of the memory limit.
func (l *Logger) LogStoreRejected(ctx context.Context, key string, size int, limit int64) {
	l.DebugContext(ctx, "cache entry exceeds memory limit",
		"key", key,
		"bytes", size,
		"limit", limit,
	)
}

// LogReload logs one pipeline rebuilt from cached or freshly compiled stages.
func (l *Logger) LogReload(ctx context.Context, pipeline string, hits, compiled int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "pipeline reload failed",
			"pipeline", pipeline,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "pipeline reloaded",
			"pipeline", pipeline,
			"hits", hits,
			"compiled", compiled,
		)
	}
}
