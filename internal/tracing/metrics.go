package tracing

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the client-specific metric instruments.
type Metrics struct {
	requestDuration metric.Float64Histogram
	requestCount    metric.Int64Counter
	rowsEmitted     metric.Int64Histogram
	retryCount      metric.Int64Counter
	errorCount      metric.Int64Counter
}

// NewMetrics creates a new Metrics instance with the given MeterProvider.
func NewMetrics(mp metric.MeterProvider) *Metrics {
	meter := mp.Meter(MeterName)
	m := &Metrics{}

	m.requestDuration, _ = meter.Float64Histogram(
		"erpl.request.duration",
		metric.WithDescription("Duration of outbound HTTP requests in milliseconds"),
		metric.WithUnit("ms"),
	)
	m.requestCount, _ = meter.Int64Counter(
		"erpl.request.count",
		metric.WithDescription("Total number of outbound HTTP requests"),
		metric.WithUnit("{request}"),
	)
	m.rowsEmitted, _ = meter.Int64Histogram(
		"erpl.rows.emitted",
		metric.WithDescription("Rows emitted per page fetch"),
		metric.WithUnit("{row}"),
	)
	m.retryCount, _ = meter.Int64Counter(
		"erpl.retry.count",
		metric.WithDescription("Total number of transport retries"),
		metric.WithUnit("{retry}"),
	)
	m.errorCount, _ = meter.Int64Counter(
		"erpl.error.count",
		metric.WithDescription("Total number of client errors"),
		metric.WithUnit("{error}"),
	)
	return m
}

// RecordRequest records metrics for a completed outbound request.
func (m *Metrics) RecordRequest(ctx context.Context, entitySet string, statusCode int, duration time.Duration) {
	attrs := metric.WithAttributes(EntitySetAttr(entitySet))
	m.requestDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
	m.requestCount.Add(ctx, 1, attrs)
}

// RecordRowsEmitted records the number of rows emitted by one page fetch.
func (m *Metrics) RecordRowsEmitted(ctx context.Context, entitySet string, count int64) {
	m.rowsEmitted.Record(ctx, count, metric.WithAttributes(EntitySetAttr(entitySet)))
}

// RecordRetry records a transport-level retry.
func (m *Metrics) RecordRetry(ctx context.Context) {
	m.retryCount.Add(ctx, 1)
}

// RecordError records a client error occurrence.
func (m *Metrics) RecordError(ctx context.Context, operation, errorType string) {
	m.errorCount.Add(ctx, 1, metric.WithAttributes(
		OperationAttr(operation),
		attribute.String("error.type", errorType),
	))
}
