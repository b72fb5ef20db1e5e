package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"telemetry-backend/internal/logging"
)

// Tracer runs operations inside spans and keeps the ambient span plus its
// log correlation on the call chain's context. Concurrent call chains each
// see their own ambient span, never each other's.
type Tracer struct {
	tracer trace.Tracer
}

// NewTracer returns a Tracer drawing spans from the given provider.
func NewTracer(provider trace.TracerProvider, serviceName string) *Tracer {
	return &Tracer{tracer: provider.Tracer(serviceName)}
}

// InSpan opens a span named name, makes it current for the duration of fn,
// and binds its identifiers into the context logger. A nested InSpan call
// becomes a child of the ambient span. On error the span is marked ERROR
// with the error message and the error recorded as an event; the error is
// returned unchanged. The span is ended on all paths.
func (t *Tracer) InSpan(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, span := t.tracer.Start(ctx, name)
	defer span.End()

	ctx = bindCorrelation(ctx, span)

	if err := fn(ctx); err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
		return err
	}
	span.SetStatus(codes.Ok, "")
	return nil
}

// Start opens a span and binds its correlation identifiers, for callers
// that manage the span's status and end themselves (the HTTP dispatcher).
func (t *Tracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	ctx, span := t.tracer.Start(ctx, name, opts...)
	return bindCorrelation(ctx, span), span
}

// InSpanValue is InSpan for operations that produce a result.
func InSpanValue[T any](ctx context.Context, t *Tracer, name string, fn func(context.Context) (T, error)) (T, error) {
	var result T
	err := t.InSpan(ctx, name, func(ctx context.Context) error {
		var innerErr error
		result, innerErr = fn(ctx)
		return innerErr
	})
	return result, err
}

// bindCorrelation copies the active span's identifiers into the context
// logger. The binding is a context value, so when a nested span's scope
// exits the enclosing span's identifiers are visible again. Correlation is
// restored on exit rather than cleared.
func bindCorrelation(ctx context.Context, span trace.Span) context.Context {
	sc := span.SpanContext()
	if !sc.IsValid() {
		return ctx
	}
	return logging.WithCorrelation(ctx, sc.TraceID().String(), sc.SpanID().String())
}

// AddAttribute sets a string attribute on the ambient span. With no active
// span this is a no-op.
func AddAttribute(ctx context.Context, key, value string) {
	trace.SpanFromContext(ctx).SetAttributes(attribute.String(key, value))
}

// AddEvent records a named event on the ambient span. With no active span
// this is a no-op.
func AddEvent(ctx context.Context, name string) {
	trace.SpanFromContext(ctx).AddEvent(name)
}

// AddBusinessContext annotates the ambient span with the entity being
// operated on.
func AddBusinessContext(ctx context.Context, entityType, entityID, operation string) {
	trace.SpanFromContext(ctx).SetAttributes(
		attribute.String("business.entity.type", entityType),
		attribute.String("business.entity.id", entityID),
		attribute.String("business.operation", operation),
	)
}

// RecordBusinessEvent records a business event on the ambient span together
// with the entity it concerns.
func RecordBusinessEvent(ctx context.Context, eventName, entityType, entityID string) {
	span := trace.SpanFromContext(ctx)
	span.AddEvent(eventName)
	span.SetAttributes(
		attribute.String("event.entity.type", entityType),
		attribute.String("event.entity.id", entityID),
	)
}
