package tracing

import (
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Config holds the observability configuration for the client stack.
type Config struct {
	// TracerProvider is the OpenTelemetry tracer provider. If nil,
	// tracing is disabled.
	TracerProvider trace.TracerProvider

	// MeterProvider is the OpenTelemetry meter provider. If nil,
	// metrics collection is disabled.
	MeterProvider metric.MeterProvider

	// ServiceName identifies this client in traces and metrics.
	ServiceName string

	tracer  *Tracer
	metrics *Metrics
}

// Option is a functional option for configuring tracing: the tracer
// provider, the meter provider and the service name. ERPL_TRACE_LEVEL
// and ERPL_TRACE_DIR are read only by internal/config; no Option uses them.
type Option func(*Config)

func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Config) { c.TracerProvider = tp }
}

func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(c *Config) { c.MeterProvider = mp }
}

func WithServiceName(name string) Option {
	return func(c *Config) { c.ServiceName = name }
}

// NewConfig creates a new tracing configuration with the given options.
func NewConfig(opts ...Option) *Config {
	cfg := &Config{ServiceName: "erpl"}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Initialize sets up the tracer and metrics based on configuration. Call
// after all options are set.
func (c *Config) Initialize() error {
	if c.TracerProvider != nil {
		c.tracer = NewTracer(c.TracerProvider, c.ServiceName)
	} else {
		c.tracer = NoopTracer()
	}
	if c.MeterProvider != nil {
		c.metrics = NewMetrics(c.MeterProvider)
	} else {
		c.metrics = NoopMetrics()
	}
	return nil
}

// Tracer returns the configured tracer, or a no-op tracer if not configured.
func (c *Config) Tracer() *Tracer {
	if c == nil || c.tracer == nil {
		return NoopTracer()
	}
	return c.tracer
}

// Metrics returns the configured metrics, or no-op metrics if not configured.
func (c *Config) Metrics() *Metrics {
	if c == nil || c.metrics == nil {
		return NoopMetrics()
	}
	return c.metrics
}

// IsEnabled reports whether any observability features are configured.
func (c *Config) IsEnabled() bool {
	return c != nil && (c.TracerProvider != nil || c.MeterProvider != nil)
}
