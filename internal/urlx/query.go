package urlx

import (
	"strings"
)

// QueryOptions is an order-preserving, deduplicating mapping from query
// key to raw (already-encoded) value string, used by the pushdown
// planner to apply OData query options onto a base URL (spec.md §4.5
// "URL application": "parse into a mapping (deduplicating)... Reserialize
// the query in insertion order").
type QueryOptions struct {
	keys   []string
	values map[string]string
}

// ParseQueryOptions parses a raw query string (without the leading '?')
// into an order-preserving mapping. Values are kept as the caller
// provided them — this planner never re-encodes values the caller
// already encoded (spec.md §4.5).
func ParseQueryOptions(raw string) QueryOptions {
	q := QueryOptions{values: make(map[string]string)}
	if raw == "" {
		return q
	}
	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}
		key := pair
		value := ""
		if idx := strings.IndexByte(pair, '='); idx >= 0 {
			key = pair[:idx]
			value = pair[idx+1:]
		}
		q.Set(key, value)
	}
	return q
}

// Set overwrites (or inserts) a key's value, preserving first-seen
// insertion order.
func (q *QueryOptions) Set(key, value string) {
	if _, exists := q.values[key]; !exists {
		q.keys = append(q.keys, key)
	}
	q.values[key] = value
}

// SetIfAbsent sets a key only when it is not already present — used for
// $expand, which spec.md §4.5 says is applied "only if not already
// present in the base URL".
func (q *QueryOptions) SetIfAbsent(key, value string) {
	if _, exists := q.values[key]; exists {
		return
	}
	q.Set(key, value)
}

// Get returns a key's value and whether it was present.
func (q QueryOptions) Get(key string) (string, bool) {
	v, ok := q.values[key]
	return v, ok
}

// String reserializes the query options in insertion order.
func (q QueryOptions) String() string {
	var b strings.Builder
	for i, k := range q.keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		if v := q.values[k]; v != "" {
			b.WriteByte('=')
			b.WriteString(v)
		}
	}
	return b.String()
}
