package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// GuardMeta identifies a guard instance (a retry policy, circuit breaker,
// rate limiter or memoized value) for telemetry purposes.
type GuardMeta struct {
	Name string // guard instance name (required)
	Kind string // guard kind, e.g. "retry", "breaker", "rate_limiter" (optional)
}

// SpanName returns the deterministic span name for this guard.
// Format: guard.exec.<kind>.<name> or guard.exec.<name>
func (m GuardMeta) SpanName() string {
	if m.Kind != "" {
		return "guard.exec." + m.Kind + "." + m.Name
	}
	return "guard.exec." + m.Name
}

// Tracer wraps OpenTelemetry tracing with guard-specific span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartSpan starts a new span for a guarded execution.
	StartSpan(ctx context.Context, meta GuardMeta) (context.Context, trace.Span)

	// EndSpan ends the span, recording any error.
	EndSpan(span trace.Span, err error)
}

// tracerImpl is the concrete implementation of Tracer.
type tracerImpl struct {
	tracer trace.Tracer
}

// newTracer creates a new Tracer wrapping the given OpenTelemetry tracer.
func newTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

// StartSpan starts a new span with guard metadata as attributes.
func (t *tracerImpl) StartSpan(ctx context.Context, meta GuardMeta) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("guard.name", meta.Name),
		attribute.Bool("guard.error", false), // updated in EndSpan on error
	}
	if meta.Kind != "" {
		attrs = append(attrs, attribute.String("guard.kind", meta.Kind))
	}

	return t.tracer.Start(ctx, meta.SpanName(),
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpan ends the span and records the error status if present.
func (t *tracerImpl) EndSpan(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.Bool("guard.error", true))
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// noopTracer is a tracer that does nothing.
type noopTracer struct {
	noop trace.Tracer
}

// newNoopTracer creates a no-op tracer.
func newNoopTracer() Tracer {
	return &noopTracer{
		noop: tracenoop.NewTracerProvider().Tracer("noop"),
	}
}

func (t *noopTracer) StartSpan(ctx context.Context, meta GuardMeta) (context.Context, trace.Span) {
	return t.noop.Start(ctx, meta.SpanName())
}

func (t *noopTracer) EndSpan(span trace.Span, err error) {
	span.End()
}
