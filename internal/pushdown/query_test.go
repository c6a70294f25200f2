package pushdown

import (
	"testing"

	"github.com/erpl-go/erpl/internal/edmmodel"
	"github.com/erpl-go/erpl/internal/urlx"
	"github.com/stretchr/testify/assert"
)

func testColumns() []edmmodel.TableColumn {
	return []edmmodel.TableColumn{
		{Name: "Id", TypeName: "int32"},
		{Name: "City", TypeName: "text"},
		{Name: "Emails", TypeName: "list", ElemTypeName: "text"},
	}
}

func TestPlan_SelectOmittedWhenAllColumnsActive(t *testing.T) {
	plan := NewPlan(testColumns())
	plan.ActivateColumns([]int{0, 1, 2})

	q := urlx.ParseQueryOptions("")
	plan.Apply(&q, VersionV4, false)

	_, ok := q.Get("$select")
	assert.False(t, ok)
}

func TestPlan_SelectEmittedWhenPartiallyActive(t *testing.T) {
	plan := NewPlan(testColumns())
	plan.ActivateColumns([]int{0, 1})

	q := urlx.ParseQueryOptions("")
	plan.Apply(&q, VersionV4, false)

	v, ok := q.Get("$select")
	assert.True(t, ok)
	assert.Equal(t, "Id,City", v)
}

func TestPlan_FilterAndLimitAndOffset(t *testing.T) {
	plan := NewPlan(testColumns())
	plan.ActivateColumns([]int{0, 1, 2})
	plan.AddFilters(&Filter{Kind: KindComparison, ColumnIndex: 1, Op: OpEQ, ValueKind: ValueString, StringValue: "Berlin"})
	plan.ConsumeLimit(10)
	plan.ConsumeOffset(20)

	q := urlx.ParseQueryOptions("")
	plan.Apply(&q, VersionV4, false)

	filter, _ := q.Get("$filter")
	assert.Equal(t, "City eq 'Berlin'", filter)
	top, _ := q.Get("$top")
	assert.Equal(t, "10", top)
	skip, _ := q.Get("$skip")
	assert.Equal(t, "20", skip)
}

func TestPlan_MultipleFiltersAreAnded(t *testing.T) {
	plan := NewPlan(testColumns())
	plan.ActivateColumns([]int{0, 1})
	plan.AddFilters(
		&Filter{Kind: KindComparison, ColumnIndex: 0, Op: OpGT, ValueKind: ValueNumber, NumberValue: "1"},
		&Filter{Kind: KindComparison, ColumnIndex: 1, Op: OpEQ, ValueKind: ValueString, StringValue: "Berlin"},
	)

	q := urlx.ParseQueryOptions("")
	plan.Apply(&q, VersionV4, false)

	filter, _ := q.Get("$filter")
	assert.Equal(t, "(Id gt 1 and City eq 'Berlin')", filter)
}

func TestPlan_CountOptionV4(t *testing.T) {
	plan := NewPlan(testColumns())
	plan.ActivateColumns([]int{0})
	q := urlx.ParseQueryOptions("")
	plan.Apply(&q, VersionV4, true)
	v, ok := q.Get("$count")
	assert.True(t, ok)
	assert.Equal(t, "true", v)
}

func TestPlan_CountOptionV2UsesInlinecount(t *testing.T) {
	plan := NewPlan(testColumns())
	plan.ActivateColumns([]int{0})
	q := urlx.ParseQueryOptions("")
	plan.Apply(&q, VersionV2, true)
	v, ok := q.Get("$inlinecount")
	assert.True(t, ok)
	assert.Equal(t, "allpages", v)
}

func TestQueryOptions_SetIfAbsentKeepsBaseExpand(t *testing.T) {
	plan := NewPlan(testColumns())
	q := urlx.ParseQueryOptions("$expand=Manager")
	q.SetIfAbsent("$expand", "Other")
	v, _ := q.Get("$expand")
	assert.Equal(t, "Manager", v)
	_ = plan
}

func TestPlan_SelectOmittedWhenActivatedColumnIsComplex(t *testing.T) {
	plan := NewPlan(testColumns())
	plan.ActivateColumns([]int{0, 2}) // Id, Emails

	q := urlx.ParseQueryOptions("")
	plan.Apply(&q, VersionV4, false)

	_, ok := q.Get("$select")
	assert.False(t, ok)
}

func TestIsComplexFieldName(t *testing.T) {
	assert.True(t, IsComplexFieldName("Emails"))
	assert.True(t, IsComplexFieldName("AddressInfo"))
	assert.False(t, IsComplexFieldName("City"))
}
