package observe

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// TestGuardMeta_SpanNameWithKind verifies span name includes the guard kind.
func TestGuardMeta_SpanNameWithKind(t *testing.T) {
	meta := GuardMeta{
		Name: "payments-db",
		Kind: "breaker",
	}

	expected := "guard.exec.breaker.payments-db"
	if got := meta.SpanName(); got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}

// TestGuardMeta_SpanNameWithoutKind verifies span name without a kind.
func TestGuardMeta_SpanNameWithoutKind(t *testing.T) {
	meta := GuardMeta{
		Name: "fetch",
	}

	expected := "guard.exec.fetch"
	if got := meta.SpanName(); got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}

// TestTracer_SpanAttributes verifies all attributes are present on the span.
func TestTracer_SpanAttributes(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := tp.Tracer("test")

	tr := &tracerImpl{tracer: tracer}
	meta := GuardMeta{
		Name: "payments-db",
		Kind: "breaker",
	}

	ctx, span := tr.StartSpan(context.Background(), meta)
	tr.EndSpan(span, nil)
	_ = ctx

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}

	s := spans[0]

	if s.Name() != "guard.exec.breaker.payments-db" {
		t.Errorf("expected span name 'guard.exec.breaker.payments-db', got %q", s.Name())
	}

	attrMap := make(map[string]attribute.Value)
	for _, a := range s.Attributes() {
		attrMap[string(a.Key)] = a.Value
	}

	if v, ok := attrMap["guard.name"]; !ok || v.AsString() != "payments-db" {
		t.Errorf("expected guard.name='payments-db', got %v", v)
	}
	if v, ok := attrMap["guard.kind"]; !ok || v.AsString() != "breaker" {
		t.Errorf("expected guard.kind='breaker', got %v", v)
	}
	if v, ok := attrMap["guard.error"]; !ok || v.AsBool() != false {
		t.Errorf("expected guard.error=false, got %v", v)
	}
}

// TestTracer_SpanAttributesMinimal verifies the kind attribute is absent when empty.
func TestTracer_SpanAttributesMinimal(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := tp.Tracer("test")

	tr := &tracerImpl{tracer: tracer}
	meta := GuardMeta{Name: "fetch"}

	ctx, span := tr.StartSpan(context.Background(), meta)
	tr.EndSpan(span, nil)
	_ = ctx

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}

	attrMap := make(map[string]attribute.Value)
	for _, a := range spans[0].Attributes() {
		attrMap[string(a.Key)] = a.Value
	}

	if _, ok := attrMap["guard.name"]; !ok {
		t.Error("expected guard.name attribute")
	}
	if v, ok := attrMap["guard.kind"]; ok && v.AsString() != "" {
		t.Errorf("expected no guard.kind, got %v", v)
	}
}

// TestTracer_ContextPropagation verifies parent span is propagated.
func TestTracer_ContextPropagation(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := tp.Tracer("test")

	tr := &tracerImpl{tracer: tracer}
	meta := GuardMeta{Name: "child_guard"}

	parentCtx, parentSpan := tracer.Start(context.Background(), "parent")

	childCtx, childSpan := tr.StartSpan(parentCtx, meta)
	tr.EndSpan(childSpan, nil)
	parentSpan.End()
	_ = childCtx

	spans := recorder.Ended()
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}

	var child sdktrace.ReadOnlySpan
	for _, s := range spans {
		if s.Name() == "guard.exec.child_guard" {
			child = s
			break
		}
	}
	if child == nil {
		t.Fatal("child span not found")
	}

	if child.Parent().TraceID() != parentSpan.SpanContext().TraceID() {
		t.Error("child span should have same trace ID as parent")
	}
	if !child.Parent().SpanID().IsValid() {
		t.Error("child span should have valid parent span ID")
	}
}

// TestTracer_ErrorRecording verifies error sets span status and attribute.
func TestTracer_ErrorRecording(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := tp.Tracer("test")

	tr := &tracerImpl{tracer: tracer}
	meta := GuardMeta{Name: "failing_guard"}

	ctx, span := tr.StartSpan(context.Background(), meta)
	testErr := errors.New("execution failed")
	tr.EndSpan(span, testErr)
	_ = ctx

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}

	s := spans[0]

	if s.Status().Code != codes.Error {
		t.Errorf("expected error status, got %v", s.Status().Code)
	}

	var guardError bool
	for _, a := range s.Attributes() {
		if string(a.Key) == "guard.error" {
			guardError = a.Value.AsBool()
			break
		}
	}
	if !guardError {
		t.Error("expected guard.error=true")
	}
}
