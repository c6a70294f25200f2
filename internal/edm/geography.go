package edm

import (
	"encoding/json"
	"fmt"
)

func init() {
	RegisterType("Edm.GeographyPoint", NewGeographyPoint)
}

// GeographyPoint represents an Edm.GeographyPoint value, projected to
// "list<float64>" (longitude, latitude) per spec §4.1. Other Geography/
// Geometry primitives are deliberately unsupported (spec §4.1 table).
type GeographyPoint struct {
	coords []float64
	isNull bool
	facets Facets
}

type geoJSONPoint struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// NewGeographyPoint parses a GeoJSON Point payload, the shape OData
// services emit for Edm.GeographyPoint values.
func NewGeographyPoint(value interface{}, facets Facets) (Type, error) {
	if value == nil {
		return &GeographyPoint{isNull: true, facets: facets}, nil
	}
	switch v := value.(type) {
	case []float64:
		return &GeographyPoint{coords: v, facets: facets}, nil
	case map[string]interface{}:
		coordsRaw, ok := v["coordinates"].([]interface{})
		if !ok {
			return nil, fmt.Errorf("Edm.GeographyPoint missing coordinates")
		}
		coords := make([]float64, 0, len(coordsRaw))
		for _, c := range coordsRaw {
			f, ok := c.(float64)
			if !ok {
				return nil, fmt.Errorf("Edm.GeographyPoint coordinate is not numeric")
			}
			coords = append(coords, f)
		}
		return &GeographyPoint{coords: coords, facets: facets}, nil
	default:
		return nil, fmt.Errorf("cannot convert %T to Edm.GeographyPoint", value)
	}
}

func (g *GeographyPoint) TypeName() string { return "Edm.GeographyPoint" }
func (g *GeographyPoint) IsNull() bool     { return g.isNull }
func (g *GeographyPoint) Validate() error  { return nil }
func (g *GeographyPoint) SetFacets(f Facets) error {
	g.facets = f
	return nil
}
func (g *GeographyPoint) GetFacets() Facets { return g.facets }

func (g *GeographyPoint) Value() interface{} {
	if g.isNull {
		return nil
	}
	return g.coords
}

func (g *GeographyPoint) String() string {
	if g.isNull {
		return "null"
	}
	return fmt.Sprintf("geography'POINT(%g %g)'", g.coords[0], g.coords[1])
}

func (g *GeographyPoint) MarshalJSON() ([]byte, error) {
	if g.isNull {
		return []byte("null"), nil
	}
	return json.Marshal(geoJSONPoint{Type: "Point", Coordinates: g.coords})
}

func (g *GeographyPoint) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		g.isNull = true
		return nil
	}
	var p geoJSONPoint
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("cannot parse Edm.GeographyPoint: %w", err)
	}
	g.coords = p.Coordinates
	g.isNull = false
	return nil
}
