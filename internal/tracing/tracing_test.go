package tracing

import (
	"context"
	"testing"

	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

func TestNewTracer(t *testing.T) {
	tp := tracenoop.NewTracerProvider()
	tracer := NewTracer(tp, "test-client")

	if tracer == nil {
		t.Fatal("NewTracer() should return non-nil tracer")
		return
	}
	if tracer.serviceName != "test-client" {
		t.Errorf("serviceName = %q, want %q", tracer.serviceName, "test-client")
	}
}

func TestTracer_StartMetadataFetch(t *testing.T) {
	tracer := NoopTracer()
	ctx, span := tracer.StartMetadataFetch(context.Background(), "https://svc.example.com/odata")
	defer span.End()
	if ctx == nil {
		t.Error("StartMetadataFetch() should return non-nil context")
	}
}

func TestTracer_StartPageFetch(t *testing.T) {
	tracer := NoopTracer()
	ctx, span := tracer.StartPageFetch(context.Background(), "Products")
	defer span.End()
	if ctx == nil {
		t.Error("StartPageFetch() should return non-nil context")
	}
}

func TestTracer_StartOdpFetch(t *testing.T) {
	tracer := NoopTracer()
	ctx, span := tracer.StartOdpFetch(context.Background(), "20260101_000000_EntityOfSomeSet")
	defer span.End()
	if ctx == nil {
		t.Error("StartOdpFetch() should return non-nil context")
	}
}

func TestTracer_RecordError_NilIsNoop(t *testing.T) {
	tracer := NoopTracer()
	_, span := tracer.StartSpan(context.Background(), "erpl.test")
	defer span.End()
	tracer.RecordError(span, nil)
}

func TestConfig_DefaultsToNoop(t *testing.T) {
	cfg := NewConfig()
	if err := cfg.Initialize(); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if cfg.IsEnabled() {
		t.Error("IsEnabled() should be false with no providers configured")
	}
	if cfg.Tracer() == nil {
		t.Error("Tracer() should never return nil")
	}
	if cfg.Metrics() == nil {
		t.Error("Metrics() should never return nil")
	}
}
