package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/erpl-go/erpl/internal/edmmodel"
	"github.com/erpl-go/erpl/internal/pushdown"
)

// activatedColumns resolves a comma-separated --select list to column
// indices, defaulting to every column when select is empty.
func activatedColumns(columns []edmmodel.TableColumn, selectCSV string) ([]int, error) {
	if selectCSV == "" {
		all := make([]int, len(columns))
		for i := range columns {
			all[i] = i
		}
		return all, nil
	}
	names := strings.Split(selectCSV, ",")
	out := make([]int, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		idx := columnIndex(columns, name)
		if idx < 0 {
			return nil, fmt.Errorf("erplctl: unknown column %q", name)
		}
		out = append(out, idx)
	}
	return out, nil
}

func columnIndex(columns []edmmodel.TableColumn, name string) int {
	for i, c := range columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

var compareTokens = map[string]pushdown.CompareOp{
	"eq": pushdown.OpEQ, "ne": pushdown.OpNE,
	"lt": pushdown.OpLT, "le": pushdown.OpLE,
	"gt": pushdown.OpGT, "ge": pushdown.OpGE,
}

// parseSimpleFilter parses "<column> <op> <value>" into a single
// comparison pushdown.Filter. It does not support logical composition;
// the planner's Filter tree supports it, but one comparison covers the
// CLI's demo use case.
func parseSimpleFilter(columns []edmmodel.TableColumn, expr string) (*pushdown.Filter, error) {
	parts := strings.SplitN(expr, " ", 3)
	if len(parts) != 3 {
		return nil, fmt.Errorf("erplctl: --filter expects \"column op value\", got %q", expr)
	}
	colName, opToken, rawValue := parts[0], parts[1], strings.TrimSpace(parts[2])
	idx := columnIndex(columns, colName)
	if idx < 0 {
		return nil, fmt.Errorf("erplctl: unknown column %q", colName)
	}
	op, ok := compareTokens[strings.ToLower(opToken)]
	if !ok {
		return nil, fmt.Errorf("erplctl: unknown filter operator %q", opToken)
	}

	f := &pushdown.Filter{Kind: pushdown.KindComparison, ColumnIndex: idx, Op: op}
	switch {
	case strings.HasPrefix(rawValue, "'") && strings.HasSuffix(rawValue, "'") && len(rawValue) >= 2:
		f.ValueKind = pushdown.ValueString
		f.StringValue = strings.Trim(rawValue, "'")
	case rawValue == "true" || rawValue == "false":
		f.ValueKind = pushdown.ValueBoolean
		f.BoolValue = rawValue == "true"
	default:
		if _, err := strconv.ParseFloat(rawValue, 64); err != nil {
			return nil, fmt.Errorf("erplctl: cannot parse filter value %q", rawValue)
		}
		f.ValueKind = pushdown.ValueNumber
		f.NumberValue = rawValue
	}
	return f, nil
}
