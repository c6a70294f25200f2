package edmmodel

import (
	"fmt"
	"strings"
)

// UnresolvedTypeError is returned when a typeName cannot be bound to any
// primitive, enum, type definition, complex type, or entity type within
// the Edmx (spec.md §4.1, §7).
type UnresolvedTypeError struct {
	TypeName string
}

func (e *UnresolvedTypeError) Error() string {
	return fmt.Sprintf("edm: unresolved type %q", e.TypeName)
}

// UnsupportedPrimitiveError flags a recognized-but-unprojectable EDM
// primitive (spec.md §4.1: "other Geography/Geometry → fail 'unsupported'").
type UnsupportedPrimitiveError struct {
	TypeName string
}

func (e *UnsupportedPrimitiveError) Error() string {
	return fmt.Sprintf("edm: unsupported primitive type %q", e.TypeName)
}

// primitiveNames is the recognized EDM primitive vocabulary (spec.md Glossary).
var primitiveNames = map[string]bool{
	"Edm.Binary": true, "Edm.Boolean": true, "Edm.Byte": true, "Edm.SByte": true,
	"Edm.Int16": true, "Edm.Int32": true, "Edm.Int64": true,
	"Edm.Single": true, "Edm.Double": true, "Edm.Decimal": true,
	"Edm.String": true, "Edm.Guid": true, "Edm.Date": true,
	"Edm.DateTimeOffset": true, "Edm.TimeOfDay": true, "Edm.Duration": true,
	"Edm.Stream": true, "Edm.GeographyPoint": true,
}

// unsupportedGeoPrefixes covers Geography/Geometry primitives other than
// GeographyPoint (spec.md §4.1 table).
var unsupportedGeoPrefixes = []string{"Edm.Geography", "Edm.Geometry"}

// ResolvedKind discriminates what a typeName resolved to.
type ResolvedKind int

const (
	KindPrimitive ResolvedKind = iota
	KindEnum
	KindTypeDefinition
	KindComplexType
	KindEntityType
)

// ResolvedType is the result of resolving a Property/NavigationProperty
// TypeName against an Edmx (spec.md §4.1 "Type resolution").
type ResolvedType struct {
	Kind         ResolvedKind
	IsCollection bool
	PrimitiveName string // set when Kind == KindPrimitive
	Enum         *EnumType
	TypeDef      *TypeDefinition
	Complex      *ComplexType
	Entity       *EntityType
	// Elem is set when IsCollection is true: the resolved element type.
	Elem *ResolvedType
}

// Resolve implements spec.md §4.1's type resolution algorithm:
//  1. Collection(X) unwraps and resolves X recursively.
//  2. A dotted qualifier splits into namespace + local name and is looked
//     up against every Schema's namespace or alias.
//  3. An unqualified primitive tag resolves directly.
//  4. Anything else fails with UnresolvedTypeError.
func Resolve(edmx *Edmx, typeName string) (*ResolvedType, error) {
	if strings.HasPrefix(typeName, "Collection(") && strings.HasSuffix(typeName, ")") {
		inner := typeName[len("Collection(") : len(typeName)-1]
		elem, err := Resolve(edmx, inner)
		if err != nil {
			return nil, err
		}
		return &ResolvedType{Kind: elem.Kind, IsCollection: true, Elem: elem,
			PrimitiveName: elem.PrimitiveName, Enum: elem.Enum, TypeDef: elem.TypeDef,
			Complex: elem.Complex, Entity: elem.Entity}, nil
	}

	for _, prefix := range unsupportedGeoPrefixes {
		if strings.HasPrefix(typeName, prefix) && typeName != "Edm.GeographyPoint" {
			return nil, &UnsupportedPrimitiveError{TypeName: typeName}
		}
	}

	if primitiveNames[typeName] {
		return &ResolvedType{Kind: KindPrimitive, PrimitiveName: typeName}, nil
	}

	if idx := strings.LastIndex(typeName, "."); idx > 0 {
		namespace := typeName[:idx]
		local := typeName[idx+1:]
		for _, schema := range edmx.DataServices {
			if schema.Namespace != namespace && schema.Alias != namespace {
				continue
			}
			for _, e := range schema.EnumTypes {
				if e.Name == local {
					return &ResolvedType{Kind: KindEnum, Enum: e}, nil
				}
			}
			for _, td := range schema.TypeDefinitions {
				if td.Name == local {
					return &ResolvedType{Kind: KindTypeDefinition, TypeDef: td}, nil
				}
			}
			for _, c := range schema.ComplexTypes {
				if c.Name == local {
					return &ResolvedType{Kind: KindComplexType, Complex: c}, nil
				}
			}
			for _, et := range schema.EntityTypes {
				if et.Name == local {
					return &ResolvedType{Kind: KindEntityType, Entity: et}, nil
				}
			}
		}
	}

	return nil, &UnresolvedTypeError{TypeName: typeName}
}

// FindEntitySet locates an EntitySet declaration by name across all
// schemas' entity containers (used to map an entity-set URL's final path
// segment to its declared EntityTypeName, spec.md §4.4).
func FindEntitySet(edmx *Edmx, name string) (*EntitySet, bool) {
	for _, schema := range edmx.DataServices {
		for _, c := range schema.EntityContainers {
			for _, es := range c.EntitySets {
				if es.Name == name {
					return es, true
				}
			}
		}
	}
	return nil, false
}

// FindEntityType locates an EntityType declaration by its (possibly
// qualified) name.
func FindEntityType(edmx *Edmx, typeName string) (*EntityType, error) {
	resolved, err := Resolve(edmx, typeName)
	if err != nil {
		return nil, err
	}
	if resolved.Kind != KindEntityType || resolved.Entity == nil {
		return nil, &UnresolvedTypeError{TypeName: typeName}
	}
	return resolved.Entity, nil
}

// AllProperties returns an EntityType's properties including inherited
// ones from BaseType, base fields first, per spec.md §3's projection
// invariant ("field count and order equal the ordered union of the
// type's properties with inherited properties first").
func AllProperties(edmx *Edmx, et *EntityType) ([]*Property, error) {
	var chain []*EntityType
	cur := et
	for cur != nil {
		chain = append([]*EntityType{cur}, chain...)
		if cur.BaseType == "" {
			break
		}
		base, err := FindEntityType(edmx, cur.BaseType)
		if err != nil {
			return nil, err
		}
		cur = base
	}
	var out []*Property
	for _, t := range chain {
		out = append(out, t.Properties...)
	}
	return out, nil
}

// AllComplexProperties is AllProperties's analogue for ComplexType.
func AllComplexProperties(edmx *Edmx, ct *ComplexType) ([]*Property, error) {
	var chain []*ComplexType
	cur := ct
	for cur != nil {
		chain = append([]*ComplexType{cur}, chain...)
		if cur.BaseType == "" {
			break
		}
		resolved, err := Resolve(edmx, cur.BaseType)
		if err != nil {
			return nil, err
		}
		if resolved.Kind != KindComplexType {
			break
		}
		cur = resolved.Complex
	}
	var out []*Property
	for _, t := range chain {
		out = append(out, t.Properties...)
	}
	return out, nil
}
