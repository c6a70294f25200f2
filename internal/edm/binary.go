package edm

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

func init() {
	RegisterType("Edm.Binary", NewBinary)
	RegisterType("Edm.Stream", NewBinary)
}

// Binary represents an Edm.Binary or Edm.Stream value, projected to the
// table type "bytes" per spec §4.1. OData transmits binary payloads as
// base64 strings; the public row representation re-encodes them with a
// sentinel prefix (spec §3) so callers don't need to validate UTF-8.
type Binary struct {
	value  []byte
	isNull bool
	facets Facets
}

// BinarySentinelPrefix marks base64-encoded binary content in the row
// representation exposed to callers (spec §3, §9 "binary charset-converter
// special case").
const BinarySentinelPrefix = "\x00base64:"

// NewBinary creates a new Edm.Binary from a value.
func NewBinary(value interface{}, facets Facets) (Type, error) {
	if value == nil {
		return &Binary{isNull: true, facets: facets}, nil
	}

	var v []byte
	switch val := value.(type) {
	case []byte:
		v = val
	case string:
		decoded, err := base64.StdEncoding.DecodeString(val)
		if err != nil {
			return nil, fmt.Errorf("cannot decode base64 Edm.Binary: %w", err)
		}
		v = decoded
	default:
		return nil, fmt.Errorf("cannot convert %T to Edm.Binary", value)
	}
	if facets.MaxLength != nil {
		if err := ValidateLengthFacet(len(v), facets); err != nil {
			return nil, err
		}
	}
	return &Binary{value: v, facets: facets}, nil
}

func (b *Binary) TypeName() string { return "Edm.Binary" }
func (b *Binary) IsNull() bool     { return b.isNull }
func (b *Binary) Validate() error  { return nil }
func (b *Binary) SetFacets(f Facets) error {
	b.facets = f
	return nil
}
func (b *Binary) GetFacets() Facets { return b.facets }

func (b *Binary) Value() interface{} {
	if b.isNull {
		return nil
	}
	return b.value
}

func (b *Binary) String() string {
	if b.isNull {
		return "null"
	}
	return BinarySentinelPrefix + base64.StdEncoding.EncodeToString(b.value)
}

func (b *Binary) MarshalJSON() ([]byte, error) {
	if b.isNull {
		return []byte("null"), nil
	}
	return json.Marshal(base64.StdEncoding.EncodeToString(b.value))
}

func (b *Binary) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		b.isNull = true
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	decoded, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return fmt.Errorf("cannot decode base64 Edm.Binary: %w", err)
	}
	b.value = decoded
	b.isNull = false
	return nil
}
