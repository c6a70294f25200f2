// Package content implements spec.md §4.3: OData JSON version detection,
// row extraction, next-link/count extraction, and deserialization of
// JSON values against a projected edmmodel.TableColumn shape.
//
// Grounded on the teacher's internal/response package (the inverse
// direction — it formats entity/collection JSON for an OData server;
// this package parses the same shapes arriving from one) and on
// internal/edmmodel's projection for deserialization targets.
package content

import "encoding/json"

// Version is the detected OData protocol version of a response body.
type Version int

const (
	VersionV4 Version = iota
	VersionV2
)

func (v Version) String() string {
	if v == VersionV2 {
		return "v2"
	}
	return "v4"
}

// DetectVersion implements spec.md §4.3's version-detection algorithm
// over a parsed root JSON object.
func DetectVersion(root map[string]any) Version {
	if arr, ok := root["value"]; ok {
		if _, isArray := arr.([]any); isArray {
			return VersionV4
		}
	}
	if d, ok := root["d"]; ok {
		if _, isArray := d.([]any); isArray {
			return VersionV2
		}
		if dObj, isObj := d.(map[string]any); isObj {
			if _, hasResults := dObj["results"].([]any); hasResults {
				return VersionV2
			}
			if _, hasMetadata := dObj["__metadata"].(map[string]any); hasMetadata {
				return VersionV2
			}
		}
	}
	if _, ok := root["@odata.context"]; ok {
		return VersionV4
	}
	return VersionV4
}

// ParseRoot unmarshals raw JSON into a root object map, the first step
// before DetectVersion/ExtractRows/etc.
func ParseRoot(raw []byte) (map[string]any, error) {
	var root map[string]any
	if err := json.Unmarshal(raw, &root); err != nil {
		return nil, err
	}
	return root, nil
}
