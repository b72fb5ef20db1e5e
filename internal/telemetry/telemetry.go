// Package telemetry wires distributed tracing and aggregated metrics for the
// service: OTLP export to an out-of-process collector, a ratio-based sampler
// fixed per environment tier, a closed metric catalog with a fallback sink,
// and span helpers that keep trace/log correlation on the request context.
package telemetry

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

// Config holds telemetry configuration.
type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	Endpoint       string
	SampleRate     float64
	Enabled        bool
	ExportInterval time.Duration
}

// Telemetry bundles the tracer and metric registry together with the
// shutdown hooks that flush pending export batches.
type Telemetry struct {
	Tracer   *Tracer
	Registry *Registry

	shutdownFns []func(context.Context) error
}

// Init builds the tracer and meter providers with OTLP gRPC export, applies
// the environment's sampling tier, and pre-registers the metric catalog.
// With telemetry disabled everything is backed by no-op providers; callers
// keep the same API either way.
func Init(ctx context.Context, cfg Config, logger *zap.Logger) (*Telemetry, error) {
	if cfg.ServiceName == "" {
		cfg.ServiceName = "telemetry-backend"
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = "localhost:4317"
	}
	if cfg.ExportInterval == 0 {
		cfg.ExportInterval = 30 * time.Second
	}

	if !cfg.Enabled {
		logger.Info("telemetry disabled, using no-op providers")
		registry, err := NewRegistry(metricnoop.NewMeterProvider().Meter(cfg.ServiceName+"-metrics"), logger)
		if err != nil {
			return nil, err
		}
		return &Telemetry{
			Tracer:   NewTracer(tracenoop.NewTracerProvider(), cfg.ServiceName),
			Registry: registry,
		}, nil
	}

	res, err := buildResource(cfg)
	if err != nil {
		return nil, fmt.Errorf("build resource: %w", err)
	}

	tracerProvider, err := buildTracerProvider(ctx, cfg, res)
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	meterProvider, err := buildMeterProvider(ctx, cfg, res)
	if err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	otel.SetTracerProvider(tracerProvider)
	otel.SetMeterProvider(meterProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	registry, err := NewRegistry(meterProvider.Meter(cfg.ServiceName+"-metrics"), logger)
	if err != nil {
		return nil, err
	}

	logger.Info("telemetry initialized",
		zap.String("service", cfg.ServiceName),
		zap.String("endpoint", cfg.Endpoint),
		zap.String("environment", cfg.Environment),
	)

	return &Telemetry{
		Tracer:   NewTracer(tracerProvider, cfg.ServiceName),
		Registry: registry,
		shutdownFns: []func(context.Context) error{
			tracerProvider.Shutdown,
			meterProvider.Shutdown,
		},
	}, nil
}

// Shutdown flushes and stops the providers.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var firstErr error
	for _, fn := range t.shutdownFns {
		if err := fn(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func buildResource(cfg Config) (*resource.Resource, error) {
	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(semconv.SchemaURL,
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
			attribute.String("deployment.environment", cfg.Environment),
		),
	)
}

func buildTracerProvider(ctx context.Context, cfg Config, res *resource.Resource) (*sdktrace.TracerProvider, error) {
	exporter, err := otlptrace.New(ctx, otlptracegrpc.NewClient(grpcTraceOptions(cfg.Endpoint)...))
	if err != nil {
		return nil, fmt.Errorf("create trace exporter: %w", err)
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(newSampler(cfg)),
	), nil
}

func buildMeterProvider(ctx context.Context, cfg Config, res *resource.Resource) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.Endpoint)}
	if isLoopback(cfg.Endpoint) {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}
	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create metric exporter: %w", err)
	}

	return sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter,
			sdkmetric.WithInterval(cfg.ExportInterval))),
	), nil
}

// newSampler returns the environment tier's sampler. The decision is made
// once at the trace root and inherited by every descendant span.
func newSampler(cfg Config) sdktrace.Sampler {
	switch cfg.Environment {
	case "production":
		rate := cfg.SampleRate
		if rate <= 0 {
			rate = 0.10
		}
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(rate))
	case "staging":
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(0.50))
	default:
		return sdktrace.AlwaysSample()
	}
}

func grpcTraceOptions(endpoint string) []otlptracegrpc.Option {
	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(endpoint)}
	if isLoopback(endpoint) {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}
	return opts
}

func isLoopback(endpoint string) bool {
	return strings.HasPrefix(endpoint, "localhost:") || strings.HasPrefix(endpoint, "127.0.0.1:")
}
