// Package erpl implements an OData v2/v4 client stack for database
// extensions that expose remote entity sets as queryable tables (see
// spec.md and SPEC_FULL.md).
package erpl

import (
	"errors"
	"fmt"
)

// Sentinel errors for the error kinds in spec.md §7. Wrap these with
// fmt.Errorf("...: %w", ...) so callers can use errors.Is/errors.As.
var (
	// ErrInvalidInput indicates misuse at table-function bind time
	// (missing parameters, bad URL, invalid secret, non-ODP URL for ODP
	// APIs).
	ErrInvalidInput = errors.New("erpl: invalid input")

	// ErrIoError indicates a transport failure after retries exhausted.
	ErrIoError = errors.New("erpl: io error")

	// ErrHttpError indicates an HTTP status != 2xx after retries exhausted.
	ErrHttpError = errors.New("erpl: http error")

	// ErrParseError indicates EDM XML or OData JSON failed to parse or validate.
	ErrParseError = errors.New("erpl: parse error")

	// ErrUnresolvedType indicates an EDM type reference did not bind.
	ErrUnresolvedType = errors.New("erpl: unresolved type")

	// ErrUnsupportedPrimitive indicates a recognized-but-unprojectable
	// EDM primitive (e.g. non-point Geography/Geometry).
	ErrUnsupportedPrimitive = errors.New("erpl: unsupported primitive")

	// ErrUnsupportedFilter indicates a filter variant the pushdown planner
	// cannot translate; per spec.md §7 this is logged and the filter is
	// dropped rather than raised to the host.
	ErrUnsupportedFilter = errors.New("erpl: unsupported filter")

	// ErrAuthError indicates token acquisition or refresh failed.
	ErrAuthError = errors.New("erpl: auth error")

	// ErrStateConflict indicates an ODP subscription concurrency violation.
	ErrStateConflict = errors.New("erpl: state conflict")
)

// HttpError carries the HTTP status and a body preview for a non-2xx
// response surfaced after retries are exhausted (spec.md §3, §7).
type HttpError struct {
	StatusCode  int
	BodyPreview string
}

func (e *HttpError) Error() string {
	return fmt.Sprintf("erpl: http error: status %d: %s", e.StatusCode, e.BodyPreview)
}

func (e *HttpError) Unwrap() error { return ErrHttpError }

// IoError wraps a non-HTTP transport failure (connection refused, DNS,
// timeout) after retries are exhausted.
type IoError struct {
	Message string
}

func (e *IoError) Error() string {
	return fmt.Sprintf("erpl: io error: %s", e.Message)
}

func (e *IoError) Unwrap() error { return ErrIoError }

// ParseError reports a parse/validation failure with the best location
// information available (an XML line number, or a JSON path).
type ParseError struct {
	Location string
	Message  string
}

func (e *ParseError) Error() string {
	if e.Location != "" {
		return fmt.Sprintf("erpl: parse error at %s: %s", e.Location, e.Message)
	}
	return fmt.Sprintf("erpl: parse error: %s", e.Message)
}

func (e *ParseError) Unwrap() error { return ErrParseError }

// Component prefixes a message the way spec.md §7 requires for
// host-visible errors: "ODATA_BIND: ...".
func Component(name string, err error) error {
	return fmt.Errorf("%s: %w", name, err)
}
