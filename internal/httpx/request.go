// Package httpx implements the blocking HTTP transport of spec.md §4.2:
// retries with backoff, TLS configuration, decompression, keep-alive,
// and request/response logging.
//
// Grounded on the teacher's observability/tracing conventions
// (internal/observability/tracing.go, adapted into internal/tracing)
// applied to an outbound client rather than an inbound server — the
// teacher itself builds no outbound HTTP client, so the retry/backoff
// shape follows the transient-status handling described in spec.md §4.2
// directly.
package httpx

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Method is one of the HTTP verbs the core needs (spec.md §3).
type Method string

const (
	MethodGet     Method = http.MethodGet
	MethodPost    Method = http.MethodPost
	MethodPut     Method = http.MethodPut
	MethodPatch   Method = http.MethodPatch
	MethodDelete  Method = http.MethodDelete
	MethodHead    Method = http.MethodHead
	MethodOptions Method = http.MethodOptions
	MethodTrace   Method = http.MethodTrace
	MethodConnect Method = http.MethodConnect
)

// Header is a case-insensitive, multi-value header mapping (spec.md §3).
type Header map[string][]string

func canonicalHeaderKey(name string) string {
	return http.CanonicalHeaderKey(name)
}

// Set overwrites all values for name.
func (h Header) Set(name, value string) {
	h[canonicalHeaderKey(name)] = []string{value}
}

// Add appends a value for name.
func (h Header) Add(name, value string) {
	key := canonicalHeaderKey(name)
	h[key] = append(h[key], value)
}

// Get returns the first value for name, or "".
func (h Header) Get(name string) string {
	values := h[canonicalHeaderKey(name)]
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// Request is the blocking HTTP request value from spec.md §3.
type Request struct {
	Method        Method
	URL           string
	Headers       Header
	Body          []byte
	ContentType   string
	ODataVersion  string // hint, empty if not yet detected
}

// NewRequest constructs a Request with an initialized header map.
func NewRequest(method Method, url string) *Request {
	return &Request{Method: method, URL: url, Headers: Header{}}
}

// ToCacheKey computes the cache key described in spec.md §3: "method +
// full URL + hash(body)". The hash is stable for a fixed (method, url,
// body) per spec.md §8's cache-key-stability law.
func (r *Request) ToCacheKey() string {
	sum := xxhash.Sum64(r.Body)
	return fmt.Sprintf("%s %s %x", r.Method, r.URL, sum)
}

// SanitizedHeaders returns a copy of the headers with sensitive values
// (Authorization) redacted, for the request logging in spec.md §4.2.
func (r *Request) SanitizedHeaders() string {
	var names []string
	for k := range r.Headers {
		names = append(names, k)
	}
	sort.Strings(names)
	var b strings.Builder
	for i, k := range names {
		if i > 0 {
			b.WriteString(", ")
		}
		v := strings.Join(r.Headers[k], ",")
		if strings.EqualFold(k, "Authorization") || strings.EqualFold(k, "X-Api-Key") {
			v = "[redacted]"
		}
		b.WriteString(k)
		b.WriteString("=")
		b.WriteString(v)
	}
	return b.String()
}

// Response is the HTTP response value from spec.md §3.
type Response struct {
	StatusCode  int
	ContentType string
	Headers     Header
	Body        []byte
}

// IsSuccess reports a 2xx status.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// BodyPreview truncates the body for log lines (spec.md §4.2: "a
// truncated preview (cap ~1 KiB)").
func (r *Response) BodyPreview() string {
	const cap = 1024
	if len(r.Body) <= cap {
		return string(r.Body)
	}
	return string(r.Body[:cap]) + "...(truncated)"
}
