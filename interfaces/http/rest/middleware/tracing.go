// Package middleware holds the request-lifecycle middleware: the root span
// wrapper that correlates traces and logs, Prometheus request metrics, and
// panic recovery.
package middleware

import (
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"telemetry-backend/internal/logging"
	"telemetry-backend/internal/telemetry"
)

// ContextLogger installs the base logger into every request context so
// downstream layers and the correlation bridge can annotate it.
func ContextLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(logging.WithLogger(r.Context(), logger)))
		})
	}
}

// RootSpan wraps every request, regardless of route, in one root span named
// "http.request". The sampling decision made here is inherited by all
// descendant spans. The span's identifiers are bound into the context
// logger for the request's lifetime, and the span status follows the HTTP
// status.
func RootSpan(tracer *telemetry.Tracer) func(http.Handler) http.Handler {
	propagator := otel.GetTextMapPropagator()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))

			ctx, span := tracer.Start(ctx, "http.request",
				trace.WithSpanKind(trace.SpanKindServer))
			defer span.End()

			telemetry.AddBusinessContext(ctx, "http.request", r.URL.Path, r.Method)

			if sc := span.SpanContext(); sc.HasTraceID() {
				w.Header().Set("X-Trace-ID", sc.TraceID().String())
			}
			propagator.Inject(ctx, propagation.HeaderCarrier(w.Header()))

			ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r.WithContext(ctx))

			if ww.status >= http.StatusBadRequest {
				span.SetStatus(codes.Error, http.StatusText(ww.status))
			} else {
				span.SetStatus(codes.Ok, "")
			}
		})
	}
}
