package pushdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nameResolver(names ...string) NameResolver {
	return func(idx int) (string, bool) {
		if idx < 0 || idx >= len(names) {
			return "", false
		}
		return names[idx], true
	}
}

func TestTranslate_SimpleComparison(t *testing.T) {
	f := &Filter{Kind: KindComparison, ColumnIndex: 0, Op: OpEQ, ValueKind: ValueString, StringValue: "Berlin"}
	expr, ok := Translate(f, VersionV4, nameResolver("City"))
	require.True(t, ok)
	assert.Equal(t, "City eq 'Berlin'", expr)
}

func TestTranslate_NumberComparison(t *testing.T) {
	f := &Filter{Kind: KindComparison, ColumnIndex: 0, Op: OpGE, ValueKind: ValueNumber, NumberValue: "18"}
	expr, ok := Translate(f, VersionV4, nameResolver("Age"))
	require.True(t, ok)
	assert.Equal(t, "Age ge 18", expr)
}

func TestTranslate_BooleanComparison(t *testing.T) {
	f := &Filter{Kind: KindComparison, ColumnIndex: 0, Op: OpEQ, ValueKind: ValueBoolean, BoolValue: true}
	expr, ok := Translate(f, VersionV4, nameResolver("Active"))
	require.True(t, ok)
	assert.Equal(t, "Active eq true", expr)
}

func TestTranslate_StringEscapesQuotes(t *testing.T) {
	f := &Filter{Kind: KindComparison, ColumnIndex: 0, Op: OpEQ, ValueKind: ValueString, StringValue: "O'Brien"}
	expr, ok := Translate(f, VersionV2, nameResolver("Name"))
	require.True(t, ok)
	assert.Equal(t, "Name eq 'O''Brien'", expr)
}

func TestTranslate_EmptyStringRejected(t *testing.T) {
	f := &Filter{Kind: KindComparison, ColumnIndex: 0, Op: OpEQ, ValueKind: ValueString, StringValue: ""}
	_, ok := Translate(f, VersionV4, nameResolver("Name"))
	assert.False(t, ok)
}

func TestTranslate_OverLongStringRejected(t *testing.T) {
	long := make([]byte, 1001)
	for i := range long {
		long[i] = 'x'
	}
	f := &Filter{Kind: KindComparison, ColumnIndex: 0, Op: OpEQ, ValueKind: ValueString, StringValue: string(long)}
	_, ok := Translate(f, VersionV4, nameResolver("Name"))
	assert.False(t, ok)
}

func TestTranslate_IsNull(t *testing.T) {
	f := &Filter{Kind: KindIsNull, ColumnIndex: 0}
	expr, ok := Translate(f, VersionV4, nameResolver("Manager"))
	require.True(t, ok)
	assert.Equal(t, "Manager eq null", expr)
}

func TestTranslate_IsNotNull(t *testing.T) {
	f := &Filter{Kind: KindIsNull, ColumnIndex: 0, Negated: true}
	expr, ok := Translate(f, VersionV4, nameResolver("Manager"))
	require.True(t, ok)
	assert.Equal(t, "Manager ne null", expr)
}

func TestTranslate_LogicalAndParenthesizes(t *testing.T) {
	left := &Filter{Kind: KindComparison, ColumnIndex: 0, Op: OpEQ, ValueKind: ValueString, StringValue: "Berlin"}
	right := &Filter{Kind: KindComparison, ColumnIndex: 1, Op: OpGE, ValueKind: ValueNumber, NumberValue: "18"}
	f := &Filter{Kind: KindLogical, LogicalOp: LogicalAnd, Left: left, Right: right}
	expr, ok := Translate(f, VersionV4, nameResolver("City", "Age"))
	require.True(t, ok)
	assert.Equal(t, "(City eq 'Berlin' and Age ge 18)", expr)
}

func TestTranslate_LogicalOr(t *testing.T) {
	left := &Filter{Kind: KindComparison, ColumnIndex: 0, Op: OpEQ, ValueKind: ValueString, StringValue: "A"}
	right := &Filter{Kind: KindComparison, ColumnIndex: 0, Op: OpEQ, ValueKind: ValueString, StringValue: "B"}
	f := &Filter{Kind: KindLogical, LogicalOp: LogicalOr, Left: left, Right: right}
	expr, ok := Translate(f, VersionV4, nameResolver("City"))
	require.True(t, ok)
	assert.Equal(t, "(City eq 'A' or City eq 'B')", expr)
}

func TestTranslate_UnresolvableColumnFails(t *testing.T) {
	f := &Filter{Kind: KindComparison, ColumnIndex: 5, Op: OpEQ, ValueKind: ValueString, StringValue: "x"}
	_, ok := Translate(f, VersionV4, nameResolver("City"))
	assert.False(t, ok)
}

func TestTranslate_OptionalUnwraps(t *testing.T) {
	inner := &Filter{Kind: KindComparison, ColumnIndex: 0, Op: OpEQ, ValueKind: ValueString, StringValue: "x"}
	f := &Filter{Kind: KindOptional, Inner: inner}
	expr, ok := Translate(f, VersionV4, nameResolver("City"))
	require.True(t, ok)
	assert.Equal(t, "City eq 'x'", expr)
}

func TestUnsupportedFilterError_Message(t *testing.T) {
	err := &UnsupportedFilterError{Detail: "contains()"}
	assert.Contains(t, err.Error(), "contains()")
}
