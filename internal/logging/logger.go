// Package logging builds the service logger and carries request-scoped
// loggers through context so every log line during a traced operation
// includes the correlation identifiers the log pipeline joins on.
package logging

import (
	"context"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxKey struct{}

// New constructs the root logger writing the pipeline line format to stdout
// and returns it together with the atomic level so the level can be retuned
// at runtime.
func New(level string) (*zap.Logger, zap.AtomicLevel) {
	atomic := zap.NewAtomicLevelAt(ParseLevel(level))
	core := zapcore.NewCore(newPipelineEncoder(), zapcore.Lock(os.Stdout), atomic)
	return zap.New(core), atomic
}

// NewWithWriter is New with an explicit sink, used by tests to capture
// output.
func NewWithWriter(level string, w zapcore.WriteSyncer) (*zap.Logger, zap.AtomicLevel) {
	atomic := zap.NewAtomicLevelAt(ParseLevel(level))
	core := zapcore.NewCore(newPipelineEncoder(), w, atomic)
	return zap.New(core), atomic
}

// ParseLevel maps the configured level name to a zap level, defaulting to
// info on unknown values.
func ParseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// WithLogger returns a context carrying the given logger.
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext returns the logger carried by ctx, or a no-op logger when the
// context was never annotated. Correlation state always travels on the
// context, never through a process-wide variable, so concurrent requests
// cannot observe each other's identifiers.
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}

// WithFields annotates the context logger with additional fields. Because
// the binding is a context value, the enclosing scope's fields are restored
// automatically when the callee's context goes out of scope.
func WithFields(ctx context.Context, fields ...zap.Field) context.Context {
	return WithLogger(ctx, FromContext(ctx).With(fields...))
}

// WithCorrelation binds the trace and span identifiers of the active span
// into the context logger for the span's lifetime.
func WithCorrelation(ctx context.Context, traceID, spanID string) context.Context {
	return WithFields(ctx,
		zap.String(FieldTraceID, traceID),
		zap.String(FieldSpanID, spanID),
	)
}
