package edmmodel

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseError reports an XML $metadata document that failed to parse or
// validate (spec.md §4.1, §7).
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("edm parse error at line %d: %s", e.Line, e.Message)
	}
	return fmt.Sprintf("edm parse error: %s", e.Message)
}

// rawElement is a generic XML element used to walk the EDMX tree without
// committing to one schema version's exact nesting up front.
type rawElement struct {
	XMLName  xml.Name
	Attrs    []xml.Attr   `xml:",any,attr"`
	Children []rawElement `xml:",any"`
	Chardata string       `xml:",chardata"`
}

func (e *rawElement) attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

func (e *rawElement) childrenNamed(local string) []rawElement {
	var out []rawElement
	for _, c := range e.Children {
		if c.XMLName.Local == local {
			out = append(out, c)
		}
	}
	return out
}

// ParseXML parses a raw $metadata document into an Edmx value (spec.md §4.1).
func ParseXML(data []byte) (*Edmx, error) {
	var root rawElement
	dec := xml.NewDecoder(newReader(data))
	if err := dec.Decode(&root); err != nil {
		return nil, &ParseError{Message: fmt.Sprintf("malformed XML: %v", err)}
	}
	if root.XMLName.Local != "Edmx" {
		return nil, &ParseError{Message: fmt.Sprintf("expected root element Edmx, got %s", root.XMLName.Local)}
	}

	edmx := &Edmx{}
	versionAttr, _ := root.attr("Version")
	hasAssociation := xmlContainsAssociation(&root)
	dsv, hasDSV := root.attr("DataServiceVersion")
	if !hasDSV {
		for _, ds := range root.childrenNamed("DataServices") {
			if v, ok := ds.attr("DataServiceVersion"); ok {
				dsv, hasDSV = v, true
			}
		}
	}

	switch {
	case versionAttr == "1.0" && hasDSV:
		edmx.Version = VersionV2
	case hasAssociation:
		edmx.Version = VersionV2
	case versionAttr == "4.0":
		edmx.Version = VersionV4
	default:
		edmx.Version = VersionV4 // default to v4 when ambiguous, spec.md §4.1
	}
	_ = dsv

	for _, ref := range root.childrenNamed("Reference") {
		r := Reference{}
		if uri, ok := ref.attr("Uri"); ok {
			r.URI = uri
		}
		for _, inc := range ref.childrenNamed("Include") {
			if ns, ok := inc.attr("Namespace"); ok {
				r.Includes = append(r.Includes, ns)
			}
		}
		edmx.References = append(edmx.References, r)
	}

	for _, ds := range root.childrenNamed("DataServices") {
		for _, schemaEl := range ds.childrenNamed("Schema") {
			schema, err := parseSchema(&schemaEl)
			if err != nil {
				return nil, err
			}
			edmx.DataServices = append(edmx.DataServices, schema)
		}
	}

	return edmx, nil
}

func newReader(data []byte) io.Reader {
	return strings.NewReader(string(data))
}

func xmlContainsAssociation(el *rawElement) bool {
	if el.XMLName.Local == "Association" {
		return true
	}
	for _, c := range el.Children {
		if xmlContainsAssociation(&c) {
			return true
		}
	}
	return false
}

func parseSchema(el *rawElement) (*Schema, error) {
	s := &Schema{}
	s.Namespace, _ = el.attr("Namespace")
	s.Alias, _ = el.attr("Alias")
	s.Annotations = parseAnnotations(el)

	for _, et := range el.childrenNamed("EnumType") {
		enum, err := parseEnumType(&et)
		if err != nil {
			return nil, err
		}
		s.EnumTypes = append(s.EnumTypes, enum)
	}
	for _, td := range el.childrenNamed("TypeDefinition") {
		typeDef, err := parseTypeDefinition(&td)
		if err != nil {
			return nil, err
		}
		s.TypeDefinitions = append(s.TypeDefinitions, typeDef)
	}
	for _, ct := range el.childrenNamed("ComplexType") {
		complexType, err := parseComplexType(&ct)
		if err != nil {
			return nil, err
		}
		complexType.schema = s
		s.ComplexTypes = append(s.ComplexTypes, complexType)
	}
	for _, et := range el.childrenNamed("EntityType") {
		entityType, err := parseEntityType(&et)
		if err != nil {
			return nil, err
		}
		entityType.schema = s
		s.EntityTypes = append(s.EntityTypes, entityType)
	}
	for _, assoc := range el.childrenNamed("Association") {
		a, err := parseAssociation(&assoc)
		if err != nil {
			return nil, err
		}
		s.Associations = append(s.Associations, a)
	}
	for _, fn := range el.childrenNamed("Function") {
		name, _ := fn.attr("Name")
		_, bound := fn.attr("IsBound")
		s.Functions = append(s.Functions, &Function{Name: name, IsBound: bound})
	}
	for _, act := range el.childrenNamed("Action") {
		name, _ := act.attr("Name")
		_, bound := act.attr("IsBound")
		s.Actions = append(s.Actions, &Action{Name: name, IsBound: bound})
	}
	for _, ec := range el.childrenNamed("EntityContainer") {
		container, err := parseEntityContainer(&ec)
		if err != nil {
			return nil, err
		}
		s.EntityContainers = append(s.EntityContainers, container)
	}

	return s, nil
}

func parseAnnotations(el *rawElement) []Annotation {
	var out []Annotation
	for _, a := range el.childrenNamed("Annotation") {
		term, _ := a.attr("Term")
		value, hasString := a.attr("String")
		if !hasString {
			value, _ = a.attr("Bool")
		}
		out = append(out, Annotation{Term: term, Value: value})
	}
	return out
}

func parseEnumType(el *rawElement) (*EnumType, error) {
	e := &EnumType{}
	e.Name, _ = el.attr("Name")
	underlying, ok := el.attr("UnderlyingType")
	if !ok {
		underlying = "Edm.Int32"
	}
	e.UnderlyingPrimitive = underlying
	if flags, ok := el.attr("IsFlags"); ok {
		e.IsFlags = flags == "true"
	}
	e.Annotations = parseAnnotations(el)

	nextValue := int64(0)
	for _, m := range el.childrenNamed("Member") {
		name, _ := m.attr("Name")
		member := EnumMember{Name: name, IntValue: nextValue}
		if v, ok := m.attr("Value"); ok {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return nil, &ParseError{Message: fmt.Sprintf("invalid enum member value %q: %v", v, err)}
			}
			member.IntValue = n
		}
		nextValue = member.IntValue + 1
		e.Members = append(e.Members, member)
	}
	return e, nil
}

func parseTypeDefinition(el *rawElement) (*TypeDefinition, error) {
	t := &TypeDefinition{}
	t.Name, _ = el.attr("Name")
	t.UnderlyingPrimitive, _ = el.attr("UnderlyingType")
	facets, err := parseFacets(el)
	if err != nil {
		return nil, err
	}
	t.Facets = facets
	t.Annotations = parseAnnotations(el)
	return t, nil
}

func parseComplexType(el *rawElement) (*ComplexType, error) {
	c := &ComplexType{}
	c.Name, _ = el.attr("Name")
	c.BaseType, _ = el.attr("BaseType")
	if v, ok := el.attr("Abstract"); ok {
		c.Abstract = v == "true"
	}
	if v, ok := el.attr("OpenType"); ok {
		c.Open = v == "true"
	}
	if v, ok := el.attr("HasStream"); ok {
		c.HasStream = v == "true"
	}
	c.Annotations = parseAnnotations(el)

	props, err := parseProperties(el)
	if err != nil {
		return nil, err
	}
	c.Properties = props
	c.NavigationProperties = parseNavigationProperties(el)
	return c, nil
}

func parseEntityType(el *rawElement) (*EntityType, error) {
	e := &EntityType{}
	e.Name, _ = el.attr("Name")
	e.BaseType, _ = el.attr("BaseType")
	if v, ok := el.attr("Abstract"); ok {
		e.Abstract = v == "true"
	}
	if v, ok := el.attr("OpenType"); ok {
		e.Open = v == "true"
	}
	if v, ok := el.attr("HasStream"); ok {
		e.HasStream = v == "true"
	}
	e.Annotations = parseAnnotations(el)

	for _, keyEl := range el.childrenNamed("Key") {
		for _, pr := range keyEl.childrenNamed("PropertyRef") {
			name, _ := pr.attr("Name")
			e.Key = append(e.Key, PropertyRef{Name: name})
		}
	}

	props, err := parseProperties(el)
	if err != nil {
		return nil, err
	}
	e.Properties = props
	e.NavigationProperties = parseNavigationProperties(el)
	return e, nil
}

func parseProperties(el *rawElement) ([]*Property, error) {
	var props []*Property
	for _, p := range el.childrenNamed("Property") {
		prop := &Property{}
		prop.Name, _ = p.attr("Name")
		prop.TypeName, _ = p.attr("Type")
		if v, ok := p.attr("Nullable"); ok {
			prop.Nullable = v == "true"
		} else {
			prop.Nullable = true
		}
		if v, ok := p.attr("DefaultValue"); ok {
			prop.Default = &v
		}
		facets, err := parseFacets(&p)
		if err != nil {
			return nil, err
		}
		prop.MaxLength = facets.MaxLength
		prop.Precision = facets.Precision
		prop.Scale = facets.Scale
		prop.SRID = facets.SRID
		if facets.Unicode != nil {
			prop.Unicode = *facets.Unicode
		} else {
			prop.Unicode = true
		}
		prop.Annotations = parseAnnotations(&p)
		props = append(props, prop)
	}
	return props, nil
}

func parseNavigationProperties(el *rawElement) []*NavigationProperty {
	var navs []*NavigationProperty
	for _, n := range el.childrenNamed("NavigationProperty") {
		nav := &NavigationProperty{}
		nav.Name, _ = n.attr("Name")
		nav.TypeName, _ = n.attr("Type")
		if v, ok := n.attr("Nullable"); ok {
			nav.Nullable = v == "true"
		}
		nav.Partner, _ = n.attr("Partner")
		if v, ok := n.attr("ContainsTarget"); ok {
			nav.ContainsTarget = v == "true"
		}
		for _, rc := range n.childrenNamed("ReferentialConstraint") {
			prop, _ := rc.attr("Property")
			refProp, _ := rc.attr("ReferencedProperty")
			nav.ReferentialConstraints = append(nav.ReferentialConstraints, ReferentialConstraint{
				Property:           prop,
				ReferencedProperty: refProp,
			})
		}
		nav.Annotations = parseAnnotations(&n)
		navs = append(navs, nav)
	}
	return navs
}

// parseFacets extracts the typed facet attributes described in spec.md
// §4.1: Scale="variable" becomes the -1 sentinel, MaxLength="max"
// becomes -1.
func parseFacets(el *rawElement) (Facets, error) {
	var f Facets
	if v, ok := el.attr("MaxLength"); ok {
		if v == "max" {
			n := -1
			f.MaxLength = &n
		} else {
			n, err := strconv.Atoi(v)
			if err != nil {
				return f, &ParseError{Message: fmt.Sprintf("invalid MaxLength %q: %v", v, err)}
			}
			f.MaxLength = &n
		}
	}
	if v, ok := el.attr("Precision"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return f, &ParseError{Message: fmt.Sprintf("invalid Precision %q: %v", v, err)}
		}
		f.Precision = &n
	}
	if v, ok := el.attr("Scale"); ok {
		if v == "variable" {
			n := -1
			f.Scale = &n
		} else {
			n, err := strconv.Atoi(v)
			if err != nil {
				return f, &ParseError{Message: fmt.Sprintf("invalid Scale %q: %v", v, err)}
			}
			f.Scale = &n
		}
	}
	if v, ok := el.attr("SRID"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return f, &ParseError{Message: fmt.Sprintf("invalid SRID %q: %v", v, err)}
		}
		f.SRID = &n
	}
	if v, ok := el.attr("Unicode"); ok {
		b := v == "true"
		f.Unicode = &b
	}
	if v, ok := el.attr("Nullable"); ok {
		f.Nullable = v == "true"
	}
	if v, ok := el.attr("DefaultValue"); ok {
		f.Default = &v
	}
	return f, nil
}

func parseAssociation(el *rawElement) (*Association, error) {
	a := &Association{}
	a.Name, _ = el.attr("Name")
	for _, end := range el.childrenNamed("End") {
		t, _ := end.attr("Type")
		role, _ := end.attr("Role")
		mult, _ := end.attr("Multiplicity")
		a.Ends = append(a.Ends, AssociationEnd{Type: t, Role: role, Multiplicity: mult})
	}
	for _, ref := range el.childrenNamed("ReferentialConstraint") {
		for _, principal := range ref.childrenNamed("Principal") {
			for _, pr := range principal.childrenNamed("PropertyRef") {
				name, _ := pr.attr("Name")
				a.ReferentialConstraints = append(a.ReferentialConstraints, ReferentialConstraint{ReferencedProperty: name})
			}
		}
		for _, dependent := range ref.childrenNamed("Dependent") {
			for i, pr := range dependent.childrenNamed("PropertyRef") {
				name, _ := pr.attr("Name")
				if i < len(a.ReferentialConstraints) {
					a.ReferentialConstraints[i].Property = name
				}
			}
		}
	}
	return a, nil
}

func parseEntityContainer(el *rawElement) (*EntityContainer, error) {
	c := &EntityContainer{}
	c.Name, _ = el.attr("Name")
	for _, es := range el.childrenNamed("EntitySet") {
		name, _ := es.attr("Name")
		entityType, _ := es.attr("EntityType")
		c.EntitySets = append(c.EntitySets, &EntitySet{
			Name:           name,
			EntityTypeName: entityType,
			Annotations:    parseAnnotations(&es),
		})
	}
	for _, ai := range el.childrenNamed("ActionImport") {
		name, _ := ai.attr("Name")
		action, _ := ai.attr("Action")
		c.ActionImports = append(c.ActionImports, &ActionImport{Name: name, Action: action})
	}
	for _, fi := range el.childrenNamed("FunctionImport") {
		name, _ := fi.attr("Name")
		fn, _ := fi.attr("Function")
		c.FunctionImports = append(c.FunctionImports, &FunctionImport{Name: name, Function: fn})
	}
	for _, as := range el.childrenNamed("AssociationSet") {
		name, _ := as.attr("Name")
		assoc, _ := as.attr("Association")
		c.AssociationSets = append(c.AssociationSets, &AssociationSet{Name: name, AssociationName: assoc})
	}
	return c, nil
}
