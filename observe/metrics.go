package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records guard execution metrics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordExecution records one guarded execution with its duration and
	// error status.
	RecordExecution(ctx context.Context, meta GuardMeta, duration time.Duration, err error)

	// RecordRejection records a fast-fail rejection (open breaker, drained
	// limiter) that never invoked the operation.
	RecordRejection(ctx context.Context, meta GuardMeta, reason string)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	meter          metric.Meter
	totalCount     metric.Int64Counter
	errorCount     metric.Int64Counter
	rejectionCount metric.Int64Counter
	durationHist   metric.Float64Histogram
}

// newMetrics creates a new Metrics instance with the given meter.
func newMetrics(meter metric.Meter) (*metricsImpl, error) {
	totalCount, err := meter.Int64Counter(
		"guard.exec.total",
		metric.WithDescription("Total number of guarded executions"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"guard.exec.errors",
		metric.WithDescription("Total number of guarded execution errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	rejectionCount, err := meter.Int64Counter(
		"guard.exec.rejections",
		metric.WithDescription("Total number of fast-fail rejections"),
		metric.WithUnit("{rejection}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"guard.exec.duration_ms",
		metric.WithDescription("Guarded execution duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		meter:          meter,
		totalCount:     totalCount,
		errorCount:     errorCount,
		rejectionCount: rejectionCount,
		durationHist:   durationHist,
	}, nil
}

// NewMetrics creates a Metrics instance recording to the given meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	return newMetrics(meter)
}

func (m *metricsImpl) attrs(meta GuardMeta) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("guard.name", meta.Name),
	}
	if meta.Kind != "" {
		attrs = append(attrs, attribute.String("guard.kind", meta.Kind))
	}
	return attrs
}

func (m *metricsImpl) RecordExecution(ctx context.Context, meta GuardMeta, duration time.Duration, err error) {
	attrs := metric.WithAttributes(m.attrs(meta)...)

	m.totalCount.Add(ctx, 1, attrs)
	if err != nil {
		m.errorCount.Add(ctx, 1, attrs)
	}
	m.durationHist.Record(ctx, float64(duration.Milliseconds()), attrs)
}

func (m *metricsImpl) RecordRejection(ctx context.Context, meta GuardMeta, reason string) {
	attrs := append(m.attrs(meta), attribute.String("guard.rejection_reason", reason))
	m.rejectionCount.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// noopMetrics is a Metrics implementation that does nothing.
type noopMetrics struct{}

func (noopMetrics) RecordExecution(ctx context.Context, meta GuardMeta, duration time.Duration, err error) {
}
func (noopMetrics) RecordRejection(ctx context.Context, meta GuardMeta, reason string) {}
