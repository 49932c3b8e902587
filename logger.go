package extjson

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with extjson-specific context.
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

// WithStrategies adds the active strategy choices to the logger.
func (l *Logger) WithStrategies(s Strategies) *Logger {
	return &Logger{
		Logger: l.Logger.With(
			slog.Group("strategies",
				"binary", s.Binary.String(),
				"data", s.Data.String(),
				"date", s.Date.String(),
				"objectId", s.ObjectID.String(),
				"int64", s.Int64.String(),
				"keyedNil", s.KeyedNil.String(),
			),
		),
	}
}

// LogEncode logs an encode call.
func (l *Logger) LogEncode(ctx context.Context, err error) {
	l.logOp(ctx, "encode", err)
}

// LogDecode logs a decode call.
func (l *Logger) LogDecode(ctx context.Context, err error) {
	l.logOp(ctx, "decode", err)
}

func (l *Logger) logOp(ctx context.Context, op string, err error) {
	if err == nil {
		l.DebugContext(ctx, op+" completed")
		return
	}
	attrs := []any{"error", err}
	if e, ok := asError(err); ok {
		attrs = append(attrs, "path", e.Path.String())
		if e.Key != "" {
			attrs = append(attrs, "key", e.Key)
		}
	}
	l.DebugContext(ctx, op+" failed", attrs...)
}

// LogBatch logs a batch operation.
func (l *Logger) LogBatch(ctx context.Context, op string, count int, err error) {
	if err != nil {
		l.DebugContext(ctx, "batch "+op+" failed",
			"count", count,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "batch "+op+" completed",
			"count", count,
		)
	}
}
