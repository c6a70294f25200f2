package content

import (
	"fmt"

	"github.com/erpl-go/erpl/internal/edm"
	"github.com/erpl-go/erpl/internal/edmmodel"
)

// DeserializeError mirrors spec.md §4.3's ParseError{expected,
// actualJsonType}, raised only for non-null required primitives.
type DeserializeError struct {
	Expected   string
	ActualType string
}

func (e *DeserializeError) Error() string {
	return fmt.Sprintf("content: expected %s, got %s", e.Expected, e.ActualType)
}

// edmTypeNameFor maps a projected table type back to the Edm.* type
// name edm.ParseType expects.
func edmTypeNameFor(tableType string) (string, bool) {
	switch tableType {
	case "bytes":
		return "Edm.Binary", true
	case "bool":
		return "Edm.Boolean", true
	case "int8":
		return "Edm.SByte", true
	case "int16":
		return "Edm.Int16", true
	case "int32":
		return "Edm.Int32", true
	case "int64":
		return "Edm.Int64", true
	case "float32":
		return "Edm.Single", true
	case "float64":
		return "Edm.Double", true
	case "decimal":
		return "Edm.Decimal", true
	case "text":
		return "Edm.String", true
	case "uuid":
		return "Edm.Guid", true
	case "date":
		return "Edm.Date", true
	case "timestamp":
		return "Edm.DateTimeOffset", true
	case "time":
		return "Edm.TimeOfDay", true
	case "interval":
		return "Edm.Duration", true
	default:
		return "", false
	}
}

// DeserializeJsonValue implements spec.md §4.3's DeserializeJsonValue(json, T):
// recursively converts a parsed JSON value into edm.Type values shaped
// by col. A list element that fails to deserialize is dropped from the
// list and a struct field that fails becomes NULL; neither failure is
// returned to the caller or logged.
func DeserializeJsonValue(value any, col edmmodel.TableColumn) (edm.Type, error) {
	if value == nil {
		return deserializeNull(col)
	}

	switch col.TypeName {
	case "list":
		arr, ok := value.([]any)
		if !ok {
			return nil, &DeserializeError{Expected: "array", ActualType: jsonTypeName(value)}
		}
		return deserializeList(arr, col)
	case "struct":
		obj, ok := value.(map[string]any)
		if !ok {
			return nil, &DeserializeError{Expected: "object", ActualType: jsonTypeName(value)}
		}
		return deserializeStruct(obj, col)
	case "enum":
		return deserializeEnum(value, col)
	default:
		return deserializeScalar(value, col)
	}
}

func deserializeNull(col edmmodel.TableColumn) (edm.Type, error) {
	switch col.TypeName {
	case "list":
		return edm.NewNullList(col.ElemTypeName), nil
	case "struct":
		return edm.NewNullStruct("struct"), nil
	case "enum":
		return edm.NewNullEnum("enum"), nil
	default:
		typeName, ok := edmTypeNameFor(col.TypeName)
		if !ok {
			return nil, &DeserializeError{Expected: col.TypeName, ActualType: "null"}
		}
		return edm.ParseType(typeName, nil, edm.Facets{Nullable: true})
	}
}

func deserializeScalar(value any, col edmmodel.TableColumn) (edm.Type, error) {
	typeName, ok := edmTypeNameFor(col.TypeName)
	if !ok {
		return nil, &DeserializeError{Expected: col.TypeName, ActualType: jsonTypeName(value)}
	}
	return edm.ParseType(typeName, value, edm.Facets{Nullable: col.Nullable})
}

func deserializeList(arr []any, col edmmodel.TableColumn) (edm.Type, error) {
	elemCol := edmmodel.TableColumn{TypeName: col.ElemTypeName, Fields: col.Fields}
	elements := make([]edm.Type, 0, len(arr))
	for _, raw := range arr {
		elem, err := DeserializeJsonValue(raw, elemCol)
		if err != nil {
			// a failed element is skipped, row still produced (spec.md §4.3)
			continue
		}
		elements = append(elements, elem)
	}
	return edm.NewList(col.ElemTypeName, elements, edm.Facets{}), nil
}

func deserializeStruct(obj map[string]any, col edmmodel.TableColumn) (edm.Type, error) {
	order := make([]string, 0, len(col.Fields))
	fields := make(map[string]edm.Type, len(col.Fields))
	for _, fieldCol := range col.Fields {
		order = append(order, fieldCol.Name)
		raw, present := obj[fieldCol.Name]
		if !present {
			null, err := deserializeNull(fieldCol)
			if err != nil {
				continue
			}
			fields[fieldCol.Name] = null
			continue
		}
		val, err := DeserializeJsonValue(raw, fieldCol)
		if err != nil {
			// field failures degrade to NULL (spec.md §4.3)
			null, nullErr := deserializeNull(fieldCol)
			if nullErr != nil {
				continue
			}
			fields[fieldCol.Name] = null
			continue
		}
		fields[fieldCol.Name] = val
	}
	return edm.NewStruct("struct", order, fields), nil
}

func deserializeEnum(value any, col edmmodel.TableColumn) (edm.Type, error) {
	name, ok := value.(string)
	if !ok {
		return nil, &DeserializeError{Expected: "string", ActualType: jsonTypeName(value)}
	}
	for _, member := range col.EnumMembers {
		if member == name {
			return edm.NewEnum("enum", name), nil
		}
	}
	// unknown names fall back to the raw string as text (spec.md §4.3)
	return edm.NewEnum("enum", name), nil
}

func jsonTypeName(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return "unknown"
	}
}
