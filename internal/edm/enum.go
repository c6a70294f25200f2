package edm

import (
	"encoding/json"
)

// Enum represents a text-valued EDM enumeration member, per spec §4.3:
// unknown member names fall back to the raw string rather than failing.
type Enum struct {
	typeName string
	member   string
	isNull   bool
	facets   Facets
}

// NewEnum constructs an enum value. memberName is the resolved member
// name, or the raw JSON string if it didn't match any declared member.
func NewEnum(typeName, memberName string) *Enum {
	return &Enum{typeName: typeName, member: memberName}
}

// NewNullEnum returns a null enum value.
func NewNullEnum(typeName string) *Enum {
	return &Enum{typeName: typeName, isNull: true}
}

func (e *Enum) TypeName() string { return e.typeName }
func (e *Enum) IsNull() bool     { return e.isNull }
func (e *Enum) Validate() error  { return nil }
func (e *Enum) SetFacets(f Facets) error {
	e.facets = f
	return nil
}
func (e *Enum) GetFacets() Facets { return e.facets }

func (e *Enum) Value() interface{} {
	if e.isNull {
		return nil
	}
	return e.member
}

func (e *Enum) String() string {
	if e.isNull {
		return "null"
	}
	return e.typeName + "'" + e.member + "'"
}

func (e *Enum) MarshalJSON() ([]byte, error) {
	if e.isNull {
		return []byte("null"), nil
	}
	return json.Marshal(e.member)
}

func (e *Enum) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		e.isNull = true
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	e.member = s
	e.isNull = false
	return nil
}
