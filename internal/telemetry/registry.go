package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"telemetry-backend/internal/logging"
)

// Registry pre-creates one instrument per catalog entry and serves
// increment/record operations by name. The maps are written once during
// construction and only read afterwards, so concurrent use needs no locking;
// the instruments themselves are safe for concurrent use.
//
// No registry operation returns an error: unknown names are redirected to
// the reserved fallback counter so metric emission can never fail a caller.
type Registry struct {
	counters   map[string]metric.Int64Counter
	histograms map[string]metric.Float64Histogram
}

// NewRegistry builds every counter and histogram in the catalog. A duplicate
// name in the catalog is a configuration error and fatal at startup.
func NewRegistry(meter metric.Meter, logger *zap.Logger) (*Registry, error) {
	r := &Registry{
		counters:   make(map[string]metric.Int64Counter, len(counterCatalog)),
		histograms: make(map[string]metric.Float64Histogram, len(histogramCatalog)),
	}

	for _, def := range counterCatalog {
		if _, exists := r.counters[def.Name]; exists {
			return nil, fmt.Errorf("duplicate counter in catalog: %s", def.Name)
		}
		counter, err := meter.Int64Counter(def.Name,
			metric.WithDescription(def.Description),
			metric.WithUnit(CounterUnit),
		)
		if err != nil {
			return nil, fmt.Errorf("create counter %s: %w", def.Name, err)
		}
		r.counters[def.Name] = counter
	}

	for _, def := range histogramCatalog {
		if _, exists := r.histograms[def.Name]; exists {
			return nil, fmt.Errorf("duplicate histogram in catalog: %s", def.Name)
		}
		histogram, err := meter.Float64Histogram(def.Name,
			metric.WithDescription(def.Description),
			metric.WithUnit(def.Unit),
		)
		if err != nil {
			return nil, fmt.Errorf("create histogram %s: %w", def.Name, err)
		}
		r.histograms[def.Name] = histogram
	}

	logger.Info("metrics registry initialized",
		zap.Int("counters", len(r.counters)),
		zap.Int("histograms", len(r.histograms)),
	)
	return r, nil
}

// Increment adds one to the named counter, redirecting unknown names to the
// fallback counter.
func (r *Registry) Increment(ctx context.Context, name string) {
	counter, ok := r.counters[name]
	if !ok {
		counter = r.counters[UnknownMetricCount]
	}
	counter.Add(ctx, 1)
}

// Record writes value into the named histogram. An unknown histogram name is
// logged and converted into a unit increment of the fallback counter; the
// value is dropped.
func (r *Registry) Record(ctx context.Context, name string, value float64) {
	histogram, ok := r.histograms[name]
	if !ok {
		logging.FromContext(ctx).Warn("unknown histogram, recording to fallback counter",
			zap.String("histogram", name))
		r.Increment(ctx, UnknownMetricCount)
		return
	}
	histogram.Record(ctx, value)
}

// RecordDuration is Record with a debug annotation naming the operation the
// duration belongs to. The operation label does not affect the recorded
// value.
func (r *Registry) RecordDuration(ctx context.Context, name string, value float64, operation string) {
	r.Record(ctx, name, value)
	logging.FromContext(ctx).Debug("recorded duration",
		zap.Float64("ms", value),
		zap.String("operation", operation))
}

// RecordSuccess increments the "<operation>.total" counter. Derived names
// outside the catalog land on the fallback counter.
func (r *Registry) RecordSuccess(ctx context.Context, operation string) {
	r.Increment(ctx, operation+".total")
}

// RecordError increments the "<operation>.errors.total" counter and logs the
// error for debugging. Derived names outside the catalog land on the
// fallback counter.
func (r *Registry) RecordError(ctx context.Context, operation string, err error) {
	r.Increment(ctx, operation+".errors.total")
	if err != nil {
		logging.FromContext(ctx).Debug("recorded error",
			zap.String("operation", operation),
			zap.String("error", err.Error()))
	}
}
