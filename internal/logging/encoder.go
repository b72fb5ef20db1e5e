package logging

import (
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

// Correlation field keys. The downstream log pipeline matches these brackets
// with a strict regular expression, so the keys and their order are fixed.
const (
	FieldTraceID = "traceId"
	FieldSpanID  = "spanId"
	FieldUserID  = "userId"
	FieldOrderID = "orderId"
	FieldThread  = "thread"

	// Placeholder emitted when a correlation field is not populated. The
	// bracket is always present; only the value changes.
	Placeholder = "-"
)

var bufferPool = buffer.NewPool()

// pipelineEncoder renders log entries in the fixed single-line format the
// log collector ingests:
//
//	<timestamp> [<thread>] <LEVEL> <logger> [traceId=<id>] [spanId=<id>] [userId=<id>] [orderId=<id>] - <message>
//
// Correlation fields that are unset render as the literal placeholder. Any
// remaining structured fields are appended after the message as key=value
// pairs, which the collector ignores.
type pipelineEncoder struct {
	*zapcore.MapObjectEncoder
}

func newPipelineEncoder() *pipelineEncoder {
	return &pipelineEncoder{MapObjectEncoder: zapcore.NewMapObjectEncoder()}
}

func (e *pipelineEncoder) Clone() zapcore.Encoder {
	clone := newPipelineEncoder()
	for k, v := range e.Fields {
		clone.Fields[k] = v
	}
	return clone
}

func (e *pipelineEncoder) EncodeEntry(entry zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	merged := zapcore.NewMapObjectEncoder()
	for k, v := range e.Fields {
		merged.Fields[k] = v
	}
	for _, f := range fields {
		f.AddTo(merged)
	}

	line := bufferPool.Get()

	line.AppendString(entry.Time.UTC().Format(time.RFC3339Nano))
	line.AppendString(" [")
	line.AppendString(stringField(merged.Fields, FieldThread, "main"))
	line.AppendString("] ")
	line.AppendString(entry.Level.CapitalString())
	line.AppendByte(' ')
	if entry.LoggerName != "" {
		line.AppendString(entry.LoggerName)
	} else {
		line.AppendString("app")
	}

	for _, key := range [...]string{FieldTraceID, FieldSpanID, FieldUserID, FieldOrderID} {
		line.AppendString(" [")
		line.AppendString(key)
		line.AppendByte('=')
		line.AppendString(stringField(merged.Fields, key, Placeholder))
		line.AppendByte(']')
	}

	line.AppendString(" - ")
	line.AppendString(entry.Message)

	extras := extraKeys(merged.Fields)
	for _, k := range extras {
		line.AppendByte(' ')
		line.AppendString(k)
		line.AppendByte('=')
		line.AppendString(fmt.Sprint(merged.Fields[k]))
	}

	if entry.Stack != "" {
		line.AppendByte('\n')
		line.AppendString(entry.Stack)
	}
	line.AppendByte('\n')

	return line, nil
}

func stringField(fields map[string]interface{}, key, fallback string) string {
	if v, ok := fields[key]; ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return fallback
}

// extraKeys returns the non-reserved field names in deterministic order.
func extraKeys(fields map[string]interface{}) []string {
	reserved := map[string]struct{}{
		FieldTraceID: {}, FieldSpanID: {}, FieldUserID: {}, FieldOrderID: {}, FieldThread: {},
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if _, ok := reserved[k]; ok {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
