package edm

import (
	"encoding/json"
	"fmt"
	"math"
)

func init() {
	RegisterType("Edm.Int8", NewInt8)
}

// Int8 represents the table-type projection of Edm.Byte/Edm.SByte (spec §4.1):
// both collapse to a signed 8-bit value at the table-type boundary.
type Int8 struct {
	value  int8
	isNull bool
	facets Facets
}

// NewInt8 creates a new Int8 from a value, range-checking per spec §8
// ("deserializing JSON -129 into int8 fails with ParseError; 127 succeeds").
func NewInt8(value interface{}, facets Facets) (Type, error) {
	if value == nil {
		return &Int8{isNull: true, facets: facets}, nil
	}

	var v int8
	switch val := value.(type) {
	case int8:
		v = val
	case int:
		if val < math.MinInt8 || val > math.MaxInt8 {
			return nil, fmt.Errorf("value %d out of range for Edm.Int8", val)
		}
		v = int8(val)
	case int32:
		if val < math.MinInt8 || val > math.MaxInt8 {
			return nil, fmt.Errorf("value %d out of range for Edm.Int8", val)
		}
		v = int8(val)
	case int64:
		if val < math.MinInt8 || val > math.MaxInt8 {
			return nil, fmt.Errorf("value %d out of range for Edm.Int8", val)
		}
		v = int8(val)
	case float64:
		if val < math.MinInt8 || val > math.MaxInt8 {
			return nil, fmt.Errorf("value %g out of range for Edm.Int8", val)
		}
		v = int8(val)
	default:
		return nil, fmt.Errorf("cannot convert %T to Edm.Int8", value)
	}
	return &Int8{value: v, facets: facets}, nil
}

func (i *Int8) TypeName() string       { return "Edm.Int8" }
func (i *Int8) IsNull() bool           { return i.isNull }
func (i *Int8) Validate() error        { return nil }
func (i *Int8) SetFacets(f Facets) error {
	i.facets = f
	return nil
}
func (i *Int8) GetFacets() Facets { return i.facets }

func (i *Int8) Value() interface{} {
	if i.isNull {
		return nil
	}
	return i.value
}

func (i *Int8) String() string {
	if i.isNull {
		return "null"
	}
	return fmt.Sprintf("%d", i.value)
}

func (i *Int8) MarshalJSON() ([]byte, error) {
	if i.isNull {
		return []byte("null"), nil
	}
	return json.Marshal(i.value)
}

func (i *Int8) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		i.isNull = true
		return nil
	}
	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		var s string
		if serr := json.Unmarshal(data, &s); serr != nil {
			return err
		}
		var perr error
		n, perr = parseInt(s)
		if perr != nil {
			return perr
		}
	}
	if n < math.MinInt8 || n > math.MaxInt8 {
		return fmt.Errorf("value %d out of range for Edm.Int8", n)
	}
	i.value = int8(n)
	i.isNull = false
	return nil
}
