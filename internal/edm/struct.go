package edm

import (
	"encoding/json"
	"fmt"
)

// Struct represents a ComplexType value (struct field), per spec §4.1.
// Fields are keyed by property name and, per spec §4.3, missing JSON
// fields materialize as NULL rather than failing the row.
type Struct struct {
	typeName string
	fields   map[string]Type
	order    []string
	isNull   bool
	facets   Facets
}

// NewStruct wraps already-constructed field values, preserving the
// declared field order from the projected type.
func NewStruct(typeName string, order []string, fields map[string]Type) *Struct {
	return &Struct{typeName: typeName, order: order, fields: fields}
}

// NewNullStruct returns a null complex-type value.
func NewNullStruct(typeName string) *Struct {
	return &Struct{typeName: typeName, isNull: true}
}

func (s *Struct) TypeName() string { return s.typeName }
func (s *Struct) IsNull() bool     { return s.isNull }
func (s *Struct) Validate() error  { return nil }
func (s *Struct) SetFacets(f Facets) error {
	s.facets = f
	return nil
}
func (s *Struct) GetFacets() Facets { return s.facets }

// Field returns the value of a declared field, or nil if undeclared.
func (s *Struct) Field(name string) Type { return s.fields[name] }

// FieldOrder returns the declared field names in projection order.
func (s *Struct) FieldOrder() []string { return s.order }

func (s *Struct) Value() interface{} {
	if s.isNull {
		return nil
	}
	m := make(map[string]interface{}, len(s.fields))
	for k, v := range s.fields {
		m[k] = v.Value()
	}
	return m
}

func (s *Struct) String() string {
	if s.isNull {
		return "null"
	}
	out := "{"
	for i, name := range s.order {
		if i > 0 {
			out += ","
		}
		out += fmt.Sprintf("%s=%s", name, s.fields[name].String())
	}
	return out + "}"
}

func (s *Struct) MarshalJSON() ([]byte, error) {
	if s.isNull {
		return []byte("null"), nil
	}
	m := make(map[string]Type, len(s.fields))
	for k, v := range s.fields {
		m[k] = v
	}
	return json.Marshal(m)
}

func (s *Struct) UnmarshalJSON(data []byte) error {
	return fmt.Errorf("edm.Struct must be constructed via the content deserializer, not json.Unmarshal")
}
