package edmmodel

import "fmt"

// TableColumn is one field of a projected table/struct type (spec.md §3
// "Projected table type").
type TableColumn struct {
	Name     string
	TypeName string // table type, e.g. "int32", "text", "list<float64>"
	Nullable bool
	// Fields is set when TypeName == "struct": the nested projection of
	// a ComplexType property.
	Fields []TableColumn
	// ElemTypeName is set when TypeName == "list": the element table type.
	ElemTypeName string
	// EnumMembers is set when TypeName == "enum": the allowed text values.
	EnumMembers []string
}

// primitiveTableType maps an EDM primitive to its table type per spec.md
// §4.1's primitive -> table type mapping.
func primitiveTableType(primitiveName string) (string, error) {
	switch primitiveName {
	case "Edm.Binary", "Edm.Stream":
		return "bytes", nil
	case "Edm.Boolean":
		return "bool", nil
	case "Edm.Byte", "Edm.SByte":
		return "int8", nil
	case "Edm.Int16":
		return "int16", nil
	case "Edm.Int32":
		return "int32", nil
	case "Edm.Int64":
		return "int64", nil
	case "Edm.Single":
		return "float32", nil
	case "Edm.Double":
		return "float64", nil
	case "Edm.Decimal":
		return "decimal", nil
	case "Edm.String":
		return "text", nil
	case "Edm.Guid":
		return "uuid", nil
	case "Edm.Date":
		return "date", nil
	case "Edm.DateTimeOffset":
		return "timestamp", nil
	case "Edm.TimeOfDay":
		return "time", nil
	case "Edm.Duration":
		return "interval", nil
	case "Edm.GeographyPoint":
		return "list<float64>", nil
	default:
		return "", &UnsupportedPrimitiveError{TypeName: primitiveName}
	}
}

// ProjectEntityType projects an EntityType to an ordered table-column
// list per spec.md §3/§4.1: inherited properties first, navigation
// properties omitted from the scalar projection.
func ProjectEntityType(edmx *Edmx, et *EntityType) ([]TableColumn, error) {
	props, err := AllProperties(edmx, et)
	if err != nil {
		return nil, err
	}
	return projectProperties(edmx, props)
}

// ProjectComplexType projects a ComplexType the same way.
func ProjectComplexType(edmx *Edmx, ct *ComplexType) ([]TableColumn, error) {
	props, err := AllComplexProperties(edmx, ct)
	if err != nil {
		return nil, err
	}
	return projectProperties(edmx, props)
}

func projectProperties(edmx *Edmx, props []*Property) ([]TableColumn, error) {
	out := make([]TableColumn, 0, len(props))
	for _, p := range props {
		col, err := projectProperty(edmx, p)
		if err != nil {
			return nil, err
		}
		out = append(out, col)
	}
	return out, nil
}

func projectProperty(edmx *Edmx, p *Property) (TableColumn, error) {
	col := TableColumn{Name: p.Name, Nullable: p.Nullable}
	resolved, err := Resolve(edmx, p.TypeName)
	if err != nil {
		return col, fmt.Errorf("property %q: %w", p.Name, err)
	}

	tt, err := projectResolved(edmx, resolved)
	if err != nil {
		return col, fmt.Errorf("property %q: %w", p.Name, err)
	}
	col.TypeName = tt.TypeName
	col.Fields = tt.Fields
	col.ElemTypeName = tt.ElemTypeName
	col.EnumMembers = tt.EnumMembers
	return col, nil
}

func projectResolved(edmx *Edmx, resolved *ResolvedType) (TableColumn, error) {
	if resolved.IsCollection {
		elemCol, err := projectResolved(edmx, resolved.Elem)
		if err != nil {
			return TableColumn{}, err
		}
		return TableColumn{TypeName: "list", ElemTypeName: elemCol.TypeName, Fields: elemCol.Fields}, nil
	}

	switch resolved.Kind {
	case KindPrimitive:
		tt, err := primitiveTableType(resolved.PrimitiveName)
		if err != nil {
			return TableColumn{}, err
		}
		return TableColumn{TypeName: tt}, nil
	case KindEnum:
		members := make([]string, len(resolved.Enum.Members))
		for i, m := range resolved.Enum.Members {
			members[i] = m.Name
		}
		return TableColumn{TypeName: "enum", EnumMembers: members}, nil
	case KindTypeDefinition:
		tt, err := primitiveTableType(resolved.TypeDef.UnderlyingPrimitive)
		if err != nil {
			return TableColumn{}, err
		}
		return TableColumn{TypeName: tt}, nil
	case KindComplexType:
		fields, err := ProjectComplexType(edmx, resolved.Complex)
		if err != nil {
			return TableColumn{}, err
		}
		return TableColumn{TypeName: "struct", Fields: fields}, nil
	default:
		return TableColumn{}, &UnresolvedTypeError{TypeName: "navigation property or unsupported kind"}
	}
}
