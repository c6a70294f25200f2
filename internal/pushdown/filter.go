// Package pushdown implements the predicate/projection/limit pushdown
// planner of spec.md §4.5: translating an engine-supplied filter tree
// and column activation set into OData query-option strings.
//
// Grounded on the teacher's internal/query package's filter-expression
// node shapes (ast.go's Comparison/Logical node split, not carried
// forward verbatim since that package parses OData text rather than
// emitting it — see DESIGN.md), reproduced here as a small tagged-union
// tree the planner walks in the opposite direction.
package pushdown

import "fmt"

// CompareOp is a comparison operator recognized by the planner.
type CompareOp int

const (
	OpEQ CompareOp = iota
	OpNE
	OpLT
	OpLE
	OpGT
	OpGE
	OpUnsupported
)

func (op CompareOp) odataToken() (string, bool) {
	switch op {
	case OpEQ:
		return "eq", true
	case OpNE:
		return "ne", true
	case OpLT:
		return "lt", true
	case OpLE:
		return "le", true
	case OpGT:
		return "gt", true
	case OpGE:
		return "ge", true
	default:
		return "", false
	}
}

// LogicalOp joins two filter subtrees.
type LogicalOp int

const (
	LogicalAnd LogicalOp = iota
	LogicalOr
)

// ValueKind tags a comparison constant's literal shape.
type ValueKind int

const (
	ValueString ValueKind = iota
	ValueNumber
	ValueBoolean
)

// Filter is a tagged-union filter tree node. Exactly one of the
// Comparison/Logical/IsNull/Optional shapes is populated, selected by
// Kind.
type Filter struct {
	Kind FilterKind

	// Comparison
	ColumnIndex int
	Op          CompareOp
	ValueKind   ValueKind
	StringValue string
	NumberValue string // preserves the caller's literal formatting
	BoolValue   bool

	// Logical
	LogicalOp LogicalOp
	Left      *Filter
	Right     *Filter

	// IsNull/IsNotNull
	Negated bool

	// Optional/dynamic wrapper
	Inner *Filter
}

// FilterKind discriminates the Filter variant.
type FilterKind int

const (
	KindComparison FilterKind = iota
	KindLogical
	KindIsNull
	KindOptional
)

// UnsupportedFilterError reports a filter variant the planner cannot
// translate (spec.md §7: "logged and dropped silently", never raised
// to the host — callers of Translate check the ok return rather than
// treating this as fatal).
type UnsupportedFilterError struct {
	Detail string
}

func (e *UnsupportedFilterError) Error() string {
	return fmt.Sprintf("pushdown: unsupported filter: %s", e.Detail)
}

// NameResolver maps an activated column index to its OData property
// name, bridging the engine's index-based activation to schema names.
type NameResolver func(columnIndex int) (string, bool)

// Translate converts a filter tree into its OData $filter text, per
// spec.md §4.5. Returns ok=false (never an error) when any filter
// variant could not be translated; Plan.Apply then leaves $filter unset
// and does not log the dropped filter.
func Translate(f *Filter, version ODataVersion, resolve NameResolver) (expr string, ok bool) {
	if f == nil {
		return "", false
	}
	switch f.Kind {
	case KindOptional:
		return Translate(f.Inner, version, resolve)
	case KindComparison:
		return translateComparison(f, version, resolve)
	case KindIsNull:
		name, found := resolve(f.ColumnIndex)
		if !found {
			return "", false
		}
		if f.Negated {
			return name + " ne null", true
		}
		return name + " eq null", true
	case KindLogical:
		leftExpr, leftOK := Translate(f.Left, version, resolve)
		rightExpr, rightOK := Translate(f.Right, version, resolve)
		if !leftOK || !rightOK {
			return "", false
		}
		joiner := " and "
		if f.LogicalOp == LogicalOr {
			joiner = " or "
		}
		return "(" + leftExpr + joiner + rightExpr + ")", true
	default:
		return "", false
	}
}

func translateComparison(f *Filter, version ODataVersion, resolve NameResolver) (string, bool) {
	token, ok := f.Op.odataToken()
	if !ok {
		return "", false
	}
	name, found := resolve(f.ColumnIndex)
	if !found {
		return "", false
	}

	literal, ok := translateLiteral(f, version)
	if !ok {
		return "", false
	}

	return fmt.Sprintf("%s %s %s", name, token, literal), true
}

func translateLiteral(f *Filter, version ODataVersion) (string, bool) {
	switch f.ValueKind {
	case ValueString:
		if f.StringValue == "" || len(f.StringValue) > 1000 {
			return "", false
		}
		return "'" + escapeODataString(f.StringValue, version) + "'", true
	case ValueNumber:
		return f.NumberValue, true
	case ValueBoolean:
		if f.BoolValue {
			return "true", true
		}
		return "false", true
	default:
		return "", false
	}
}

// escapeODataString doubles internal single quotes; both v2 and v4 use
// this escaping, but spec.md §4.5 calls it out specifically for v2.
func escapeODataString(s string, _ ODataVersion) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\'' {
			out = append(out, '\'', '\'')
			continue
		}
		out = append(out, s[i])
	}
	return string(out)
}
