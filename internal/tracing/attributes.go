// Package tracing provides OpenTelemetry-based instrumentation for the
// client stack (see spec.md §4.2, §9). All features are opt-in: when no
// provider is configured, no-op implementations are used.
//
// Adapted from the teacher's internal/observability package, which
// instruments an inbound OData server; here the same attribute/span
// vocabulary instruments an outbound client talking to a remote service.
package tracing

import "go.opentelemetry.io/otel/attribute"

const (
	// TracerName is the instrumentation name for tracing.
	TracerName = "github.com/erpl-go/erpl"
	// MeterName is the instrumentation name for metrics.
	MeterName = "github.com/erpl-go/erpl"
)

// Client-facing semantic attribute keys.
const (
	AttrServiceURL     = "erpl.service_url"
	AttrEntitySet      = "erpl.entity_set"
	AttrEntityKey      = "erpl.entity_key"
	AttrODataVersion   = "erpl.odata_version"
	AttrOperation      = "erpl.operation"
	AttrHttpMethod     = "http.method"
	AttrHttpStatusCode = "http.status_code"
	AttrHttpURL        = "http.url"
	AttrRowsEmitted    = "erpl.rows_emitted"
	AttrHasMore        = "erpl.has_more"
	AttrSubscriptionID = "erpl.subscription_id"
	AttrAuthType       = "erpl.auth_type"

	OpHttpRequest    = "http_request"
	OpMetadataFetch  = "metadata_fetch"
	OpPageFetch      = "page_fetch"
	OpOdpFetch       = "odp_fetch"
	OpTokenAcquire   = "token_acquire"

	LogFieldTraceID = "trace_id"
	LogFieldSpanID  = "span_id"
)

func ServiceURLAttr(v string) attribute.KeyValue { return attribute.String(AttrServiceURL, v) }
func EntitySetAttr(v string) attribute.KeyValue  { return attribute.String(AttrEntitySet, v) }
func EntityKeyAttr(v string) attribute.KeyValue  { return attribute.String(AttrEntityKey, v) }
func OperationAttr(v string) attribute.KeyValue  { return attribute.String(AttrOperation, v) }
func SubscriptionIDAttr(v string) attribute.KeyValue {
	return attribute.String(AttrSubscriptionID, v)
}
