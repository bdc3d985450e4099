package level1

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "fslshim.level1"

const (
	outcomeSuccess               = "success"
	outcomeEmptyBatch            = "empty_batch"
	outcomeInconsistentInterval  = "inconsistent_interval"
	outcomeInconsistentContrasts = "inconsistent_contrasts"
	outcomeCanceled              = "canceled"
	outcomeRunError              = "run_error"
)

var durationBuckets = []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5}

// Metrics records batch translation counters and durations.
type Metrics struct {
	translations metric.Int64Counter
	runs         metric.Int64Counter
	duration     metric.Float64Histogram
}

// NewMetrics registers the level-1 instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	translations, err := meter.Int64Counter(
		"fslshim_level1_translations_total",
		metric.WithDescription("Batch translations by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create translations counter: %w", err)
	}
	runs, err := meter.Int64Counter(
		"fslshim_level1_runs_total",
		metric.WithDescription("Runs submitted for translation"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create runs counter: %w", err)
	}
	duration, err := meter.Float64Histogram(
		"fslshim_level1_translation_duration_seconds",
		metric.WithDescription("Batch translation duration"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBuckets...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}
	return &Metrics{translations: translations, runs: runs, duration: duration}, nil
}

func defaultMetrics() *Metrics {
	m, err := NewMetrics(otel.GetMeterProvider().Meter(meterName))
	if err != nil {
		return nil
	}
	return m
}

func (m *Metrics) record(ctx context.Context, outcome string, runs int, elapsed time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	m.translations.Add(ctx, 1, attrs)
	m.runs.Add(ctx, int64(runs), attrs)
	m.duration.Record(ctx, elapsed.Seconds(), attrs)
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return outcomeSuccess
	case errors.Is(err, ErrEmptyBatch):
		return outcomeEmptyBatch
	case errors.Is(err, ErrInconsistentInterval):
		return outcomeInconsistentInterval
	case errors.Is(err, ErrInconsistentContrasts):
		return outcomeInconsistentContrasts
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return outcomeCanceled
	default:
		return outcomeRunError
	}
}
