package tracing

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracer wraps an OpenTelemetry tracer with client-specific span helpers.
type Tracer struct {
	tracer      trace.Tracer
	serviceName string
}

// NewTracer creates a new Tracer using the given TracerProvider.
func NewTracer(tp trace.TracerProvider, serviceName string) *Tracer {
	return &Tracer{
		tracer:      tp.Tracer(TracerName),
		serviceName: serviceName,
	}
}

// StartSpan starts a generically-named span with attributes.
func (t *Tracer) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// StartMetadataFetch starts a span for an EDM $metadata retrieval.
func (t *Tracer) StartMetadataFetch(ctx context.Context, serviceURL string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "erpl.metadata_fetch", trace.WithAttributes(
		ServiceURLAttr(serviceURL),
		OperationAttr(OpMetadataFetch),
	))
}

// StartPageFetch starts a span for fetching one page of an entity set.
func (t *Tracer) StartPageFetch(ctx context.Context, entitySet string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "erpl.page_fetch", trace.WithAttributes(
		EntitySetAttr(entitySet),
		OperationAttr(OpPageFetch),
	))
}

// StartOdpFetch starts a span for an ODP subscription fetch cycle.
func (t *Tracer) StartOdpFetch(ctx context.Context, subscriptionID string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "erpl.odp_fetch", trace.WithAttributes(
		SubscriptionIDAttr(subscriptionID),
		OperationAttr(OpOdpFetch),
	))
}

// StartTokenAcquire starts a span for an OAuth2 token acquisition.
func (t *Tracer) StartTokenAcquire(ctx context.Context, authType string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "erpl.token_acquire", trace.WithAttributes(
		attribute.String(AttrAuthType, authType),
		OperationAttr(OpTokenAcquire),
	))
}

// SetHTTPStatus sets the HTTP status code on the current span.
func (t *Tracer) SetHTTPStatus(ctx context.Context, statusCode int) {
	span := trace.SpanFromContext(ctx)
	span.SetAttributes(attribute.Int(AttrHttpStatusCode, statusCode))
	if statusCode >= 400 {
		span.SetStatus(codes.Error, "")
	}
}

// RecordError records an error on the span.
func (t *Tracer) RecordError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// LoggerWithTrace returns a logger enriched with trace context.
func LoggerWithTrace(ctx context.Context, logger *slog.Logger) *slog.Logger {
	span := trace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return logger
	}
	return logger.With(
		slog.String(LogFieldTraceID, span.SpanContext().TraceID().String()),
		slog.String(LogFieldSpanID, span.SpanContext().SpanID().String()),
	)
}
