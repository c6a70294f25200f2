package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erpl-go/erpl/internal/edmmodel"
	"github.com/erpl-go/erpl/internal/pushdown"
)

var testColumns = []edmmodel.TableColumn{
	{Name: "Age", TypeName: "int32"},
	{Name: "Name", TypeName: "text"},
	{Name: "Active", TypeName: "boolean"},
}

func TestParseSimpleFilter_Number(t *testing.T) {
	f, err := parseSimpleFilter(testColumns, "Age gt 30")
	require.NoError(t, err)
	assert.Equal(t, 0, f.ColumnIndex)
	assert.Equal(t, pushdown.OpGT, f.Op)
	assert.Equal(t, pushdown.ValueNumber, f.ValueKind)
	assert.Equal(t, "30", f.NumberValue)
}

func TestParseSimpleFilter_String(t *testing.T) {
	f, err := parseSimpleFilter(testColumns, "Name eq 'Alice'")
	require.NoError(t, err)
	assert.Equal(t, pushdown.ValueString, f.ValueKind)
	assert.Equal(t, "Alice", f.StringValue)
}

func TestParseSimpleFilter_Boolean(t *testing.T) {
	f, err := parseSimpleFilter(testColumns, "Active eq true")
	require.NoError(t, err)
	assert.Equal(t, pushdown.ValueBoolean, f.ValueKind)
	assert.True(t, f.BoolValue)
}

func TestParseSimpleFilter_UnknownColumn(t *testing.T) {
	_, err := parseSimpleFilter(testColumns, "Missing eq 1")
	assert.Error(t, err)
}

func TestParseSimpleFilter_UnknownOperator(t *testing.T) {
	_, err := parseSimpleFilter(testColumns, "Age xx 1")
	assert.Error(t, err)
}

func TestActivatedColumns_DefaultsToAll(t *testing.T) {
	indices, err := activatedColumns(testColumns, "")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, indices)
}

func TestActivatedColumns_RespectsSelect(t *testing.T) {
	indices, err := activatedColumns(testColumns, "Active, Age")
	require.NoError(t, err)
	assert.Equal(t, []int{2, 0}, indices)
}
