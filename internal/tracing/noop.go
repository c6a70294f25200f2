package tracing

import (
	"go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// NoopTracer creates a tracer that does nothing. Used as the default
// when no TracerProvider is configured.
func NoopTracer() *Tracer {
	return &Tracer{
		tracer:      tracenoop.NewTracerProvider().Tracer(""),
		serviceName: "",
	}
}

// NoopMetrics creates metrics that do nothing.
func NoopMetrics() *Metrics {
	meter := noop.NewMeterProvider().Meter("")
	m := &Metrics{}
	m.requestDuration, _ = meter.Float64Histogram("erpl.request.duration")
	m.requestCount, _ = meter.Int64Counter("erpl.request.count")
	m.rowsEmitted, _ = meter.Int64Histogram("erpl.rows.emitted")
	m.retryCount, _ = meter.Int64Counter("erpl.retry.count")
	m.errorCount, _ = meter.Int64Counter("erpl.error.count")
	return m
}
