// Package slogger provides structured logging for skillkit components.
// The Logger interface is compatible with slog-style key-value logging and
// can be backed by any structured logging library.
package slogger

import (
	"context"
	"strings"
)

// DefaultLogger is used when no logger is configured on a component.
var DefaultLogger = NewDiscardLogger()

// Logger is the logging interface accepted throughout skillkit.
type Logger interface {
	// Debug logs a message at debug level with optional key-value pairs
	Debug(msg string, keysAndValues ...any)

	// Info logs a message at info level with optional key-value pairs
	Info(msg string, keysAndValues ...any)

	// Warn logs a message at warn level with optional key-value pairs
	Warn(msg string, keysAndValues ...any)

	// Error logs a message at error level with optional key-value pairs
	Error(msg string, keysAndValues ...any)

	// With returns a new Logger with the given key-value pairs added
	With(keysAndValues ...any) Logger
}

// DiscardLogger drops every message. It stands in wherever a component is
// constructed without an explicit logger, so callers never nil-check.
type DiscardLogger struct{}

// NewDiscardLogger returns a Logger that discards all output.
func NewDiscardLogger() *DiscardLogger {
	return &DiscardLogger{}
}

func (l *DiscardLogger) Debug(msg string, keysAndValues ...any) {}
func (l *DiscardLogger) Info(msg string, keysAndValues ...any)  {}
func (l *DiscardLogger) Warn(msg string, keysAndValues ...any)  {}
func (l *DiscardLogger) Error(msg string, keysAndValues ...any) {}
func (l *DiscardLogger) With(keysAndValues ...any) Logger       { return l }

type contextKey string

const loggerKey contextKey = "skillkit.logger"

// WithLogger returns a new context carrying the given logger.
func WithLogger(ctx context.Context, logger Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// Ctx returns the logger carried by the context, or DefaultLogger.
func Ctx(ctx context.Context) Logger {
	if ctx == nil {
		return DefaultLogger
	}
	if logger, ok := ctx.Value(loggerKey).(Logger); ok {
		return logger
	}
	return DefaultLogger
}

// LevelFromString converts a string to a LogLevel, defaulting to info.
func LevelFromString(level string) LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return DefaultLogLevel
	}
}
