package edm

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

func init() {
	RegisterType("Edm.Guid", NewGuid)
}

// Guid represents an Edm.Guid value.
type Guid struct {
	value  uuid.UUID
	isNull bool
	facets Facets
}

// NewGuid creates a new Edm.Guid from a value.
func NewGuid(value interface{}, facets Facets) (Type, error) {
	if value == nil {
		return &Guid{isNull: true, facets: facets}, nil
	}

	var v uuid.UUID
	switch val := value.(type) {
	case uuid.UUID:
		v = val
	case string:
		parsed, err := uuid.Parse(val)
		if err != nil {
			return nil, fmt.Errorf("cannot parse '%s' as Edm.Guid: %w", val, err)
		}
		v = parsed
	default:
		return nil, fmt.Errorf("cannot convert %T to Edm.Guid", value)
	}
	return &Guid{value: v, facets: facets}, nil
}

func (g *Guid) TypeName() string { return "Edm.Guid" }
func (g *Guid) IsNull() bool     { return g.isNull }
func (g *Guid) Validate() error  { return nil }
func (g *Guid) SetFacets(f Facets) error {
	g.facets = f
	return nil
}
func (g *Guid) GetFacets() Facets { return g.facets }

func (g *Guid) Value() interface{} {
	if g.isNull {
		return nil
	}
	return g.value
}

func (g *Guid) String() string {
	if g.isNull {
		return "null"
	}
	return g.value.String()
}

func (g *Guid) MarshalJSON() ([]byte, error) {
	if g.isNull {
		return []byte("null"), nil
	}
	return json.Marshal(g.value.String())
}

func (g *Guid) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		g.isNull = true
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return fmt.Errorf("cannot parse '%s' as Edm.Guid: %w", s, err)
	}
	g.value = parsed
	g.isNull = false
	return nil
}
