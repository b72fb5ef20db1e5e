package logging

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// lineFormat is the shape the downstream log pipeline parses. Every line must
// carry all four correlation brackets, populated or placeholder.
var lineFormat = regexp.MustCompile(
	`^\S+ \[[^\]]+\] [A-Z]+ \S+ \[traceId=[^\]]+\] \[spanId=[^\]]+\] \[userId=[^\]]+\] \[orderId=[^\]]+\] - .*$`)

func newCaptureLogger(level string) (*zap.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	logger, _ := NewWithWriter(level, zapcore.AddSync(&buf))
	return logger, &buf
}

func TestLineFormat(t *testing.T) {
	logger, buf := newCaptureLogger("info")

	logger.Info("user created successfully")
	require.NoError(t, logger.Sync())

	line := strings.TrimRight(buf.String(), "\n")
	assert.Regexp(t, lineFormat, line)
	assert.Contains(t, line, " INFO app ")
	assert.Contains(t, line, "[traceId=-] [spanId=-] [userId=-] [orderId=-] - user created successfully")
}

func TestPlaceholderForUnsetCorrelation(t *testing.T) {
	logger, buf := newCaptureLogger("info")

	logger.With(zap.String(FieldTraceID, "4bf92f3577b34da6a3ce929d0e0e4736")).Info("partial correlation")

	line := buf.String()
	assert.Contains(t, line, "[traceId=4bf92f3577b34da6a3ce929d0e0e4736]")
	assert.Contains(t, line, "[spanId=-]")
	assert.Contains(t, line, "[userId=-]")
	assert.Contains(t, line, "[orderId=-]")
}

func TestNamedLoggerAndThread(t *testing.T) {
	logger, buf := newCaptureLogger("info")

	logger.Named("service.order").Info("processing order", zap.String(FieldThread, "worker-3"))

	line := buf.String()
	assert.Contains(t, line, "[worker-3] INFO service.order")
}

func TestExtraFieldsAppendedSorted(t *testing.T) {
	logger, buf := newCaptureLogger("info")

	logger.Info("order created",
		zap.String("currency", "USD"),
		zap.Float64("amount", 1500.5))

	line := strings.TrimRight(buf.String(), "\n")
	assert.Regexp(t, lineFormat, line)
	assert.True(t, strings.HasSuffix(line, "- order created amount=1500.5 currency=USD"), line)
}

func TestCorrelationRestoredOnScopeExit(t *testing.T) {
	logger, buf := newCaptureLogger("info")
	ctx := WithLogger(context.Background(), logger)

	outer := WithCorrelation(ctx, "trace-1", "span-outer")
	inner := WithCorrelation(outer, "trace-1", "span-inner")

	FromContext(inner).Info("inner operation")
	FromContext(outer).Info("back in outer operation")

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "[spanId=span-inner]")
	assert.Contains(t, lines[1], "[spanId=span-outer]", "enclosing correlation must be visible again after the nested scope exits")
}

func TestConcurrentContextsDoNotShareCorrelation(t *testing.T) {
	logger, buf := newCaptureLogger("info")
	base := WithLogger(context.Background(), logger)

	done := make(chan struct{})
	go func() {
		ctx := WithCorrelation(base, "trace-a", "span-a")
		FromContext(ctx).Info("request a")
		close(done)
	}()
	<-done

	ctx := WithCorrelation(base, "trace-b", "span-b")
	FromContext(ctx).Info("request b")

	out := buf.String()
	assert.Contains(t, out, "[traceId=trace-a] [spanId=span-a] [userId=-] [orderId=-] - request a")
	assert.Contains(t, out, "[traceId=trace-b] [spanId=span-b] [userId=-] [orderId=-] - request b")
}

func TestFromContextFallsBackToNop(t *testing.T) {
	assert.NotPanics(t, func() {
		FromContext(context.Background()).Info("never emitted")
	})
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("info"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("banana"))
}

func TestAtomicLevelRetunesAtRuntime(t *testing.T) {
	var buf bytes.Buffer
	logger, level := NewWithWriter("info", zapcore.AddSync(&buf))

	logger.Debug("suppressed")
	level.SetLevel(zapcore.DebugLevel)
	logger.Debug("emitted")

	out := buf.String()
	assert.NotContains(t, out, "suppressed")
	assert.Contains(t, out, "DEBUG app")
	assert.Contains(t, out, "emitted")
}
