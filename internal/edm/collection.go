package edm

import (
	"encoding/json"
	"fmt"
)

// List represents a Collection(T) value, projected to "list<T>" per
// spec §4.1. Unlike the scalar primitives it is not registered under a
// fixed type name — "Collection(X)" is resolved recursively by the EDM
// type resolver (spec §4.1) which then constructs a List directly.
type List struct {
	elements   []Type
	elemType   string
	isNull     bool
	facets     Facets
}

// NewList wraps already-constructed element values.
func NewList(elemType string, elements []Type, facets Facets) *List {
	return &List{elemType: elemType, elements: elements, facets: facets}
}

// NewNullList returns a null Collection(T) value.
func NewNullList(elemType string) *List {
	return &List{elemType: elemType, isNull: true}
}

func (l *List) TypeName() string { return "Collection(" + l.elemType + ")" }
func (l *List) IsNull() bool     { return l.isNull }
func (l *List) Validate() error  { return nil }
func (l *List) SetFacets(f Facets) error {
	l.facets = f
	return nil
}
func (l *List) GetFacets() Facets { return l.facets }

// Elements returns the list's materialized element values.
func (l *List) Elements() []Type { return l.elements }

func (l *List) Value() interface{} {
	if l.isNull {
		return nil
	}
	values := make([]interface{}, len(l.elements))
	for i, e := range l.elements {
		values[i] = e.Value()
	}
	return values
}

func (l *List) String() string {
	if l.isNull {
		return "null"
	}
	s := "["
	for i, e := range l.elements {
		if i > 0 {
			s += ","
		}
		s += e.String()
	}
	return s + "]"
}

func (l *List) MarshalJSON() ([]byte, error) {
	if l.isNull {
		return []byte("null"), nil
	}
	return json.Marshal(l.elements)
}

func (l *List) UnmarshalJSON(data []byte) error {
	return fmt.Errorf("edm.List must be constructed via the content deserializer, not json.Unmarshal")
}
