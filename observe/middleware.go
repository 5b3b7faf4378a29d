package observe

import (
	"context"
	"errors"
	"time"
)

// GuardedFunc is the signature of a guarded operation.
type GuardedFunc func(ctx context.Context) error

// Middleware wraps guarded operations with observability (tracing, metrics,
// logging).
//
// Contract:
//   - Concurrency: Wrap() returns a thread-safe GuardedFunc.
//   - Context: propagates context through tracing spans.
//   - Errors: errors from the wrapped function are recorded and propagated
//     unchanged.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewMiddleware creates a new Middleware with the given observability
// components.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	return &Middleware{
		tracer:  tracer,
		metrics: metrics,
		logger:  logger,
	}
}

// Wrap instruments fn with a span, execution metrics and a log record,
// attributed to the given guard.
func (m *Middleware) Wrap(meta GuardMeta, fn GuardedFunc) GuardedFunc {
	return func(ctx context.Context) error {
		ctx, span := m.tracer.StartSpan(ctx, meta)

		start := time.Now()
		err := fn(ctx)
		duration := time.Since(start)

		m.tracer.EndSpan(span, err)
		m.metrics.RecordExecution(ctx, meta, duration, err)

		guardLogger := m.logger.WithGuard(meta)
		fields := []Field{
			{Key: "duration_ms", Value: float64(duration.Milliseconds())},
		}

		switch {
		case err == nil:
			guardLogger.Debug(ctx, "guarded execution completed", fields...)
		case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
			guardLogger.Warn(ctx, "guarded execution cancelled", append(fields, Field{Key: "error", Value: err.Error()})...)
		default:
			guardLogger.Error(ctx, "guarded execution failed", append(fields, Field{Key: "error", Value: err.Error()})...)
		}

		return err
	}
}

// MiddlewareFromObserver creates a Middleware from an Observer.
func MiddlewareFromObserver(obs Observer) (*Middleware, error) {
	tracer := newTracer(obs.Tracer())

	metrics, err := newMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}

	return NewMiddleware(tracer, metrics, obs.Logger()), nil
}
