package pushdown

import (
	"strconv"

	"github.com/erpl-go/erpl/internal/edmmodel"
	"github.com/erpl-go/erpl/internal/urlx"
)

// ODataVersion distinguishes the v2/v4 query-option vocabulary.
type ODataVersion int

const (
	VersionV4 ODataVersion = iota
	VersionV2
)

// complexFieldNames is spec.md §4.5's hard-coded set of property names
// treated as always-complex for $select-omission purposes, pending the
// metadata-derived detection spec.md §9 flags as preferable (see
// DESIGN.md Open Questions).
var complexFieldNames = map[string]bool{
	"Emails":      true,
	"AddressInfo": true,
	"HomeAddress": true,
	"Features":    true,
}

// Plan accumulates the pushdown state for a single entity-set read:
// activated columns, filters, and row limit/offset, per spec.md §4.5's
// ActivateColumns/AddFilters/ConsumeLimit/ConsumeOffset API.
type Plan struct {
	columns  []edmmodel.TableColumn
	active   map[int]bool
	filters  []*Filter
	limit    int64
	hasLimit bool
	offset   int64
}

// NewPlan builds a Plan over an entity set's full projected schema.
func NewPlan(columns []edmmodel.TableColumn) *Plan {
	return &Plan{columns: columns, active: make(map[int]bool)}
}

// ActivateColumns marks which schema column indices the caller wants
// back. Columns never activated are candidates for $select omission.
func (p *Plan) ActivateColumns(indices []int) {
	for _, idx := range indices {
		p.active[idx] = true
	}
}

// AddFilters appends caller-supplied filter trees, ANDed together when
// more than one is present.
func (p *Plan) AddFilters(filters ...*Filter) {
	p.filters = append(p.filters, filters...)
}

// ConsumeLimit records a row limit (OData $top).
func (p *Plan) ConsumeLimit(n int64) {
	p.limit = n
	p.hasLimit = true
}

// ConsumeOffset records a row offset (OData $skip).
func (p *Plan) ConsumeOffset(n int64) {
	p.offset = n
}

// combinedFilter ANDs every AddFilters call into a single tree.
func (p *Plan) combinedFilter() *Filter {
	if len(p.filters) == 0 {
		return nil
	}
	combined := p.filters[0]
	for _, next := range p.filters[1:] {
		combined = &Filter{Kind: KindLogical, LogicalOp: LogicalAnd, Left: combined, Right: next}
	}
	return combined
}

// selectNames returns the $select list per spec.md §4.5's omission
// rule: $select is omitted entirely when every column is active (the
// full schema was requested), or when any activated column is a known
// complex field (some servers reject $select alongside those names).
func (p *Plan) selectNames() ([]string, bool) {
	if len(p.active) >= len(p.columns) {
		return nil, false
	}
	names := make([]string, 0, len(p.active))
	for i, col := range p.columns {
		if p.active[i] {
			if IsComplexFieldName(col.Name) {
				return nil, false
			}
			names = append(names, col.Name)
		}
	}
	return names, true
}

// resolver builds a NameResolver bound to this plan's schema.
func (p *Plan) resolver() NameResolver {
	return func(columnIndex int) (string, bool) {
		if columnIndex < 0 || columnIndex >= len(p.columns) {
			return "", false
		}
		return p.columns[columnIndex].Name, true
	}
}

// Apply writes the plan's $select/$filter/$top/$skip/count options onto
// base, per spec.md §4.5's "URL application" rules: $select/$filter/
// $top/$skip overwrite, and the count option name differs between v2 and
// v4. Apply sets no $expand; a $expand already in base is left as is.
func (p *Plan) Apply(base *urlx.QueryOptions, version ODataVersion, includeCount bool) {
	if names, ok := p.selectNames(); ok && len(names) > 0 {
		base.Set("$select", joinComma(names))
	}

	if combined := p.combinedFilter(); combined != nil {
		if expr, ok := Translate(combined, version, p.resolver()); ok {
			base.Set("$filter", expr)
		}
	}

	if p.hasLimit {
		base.Set("$top", strconv.FormatInt(p.limit, 10))
	}
	if p.offset > 0 {
		base.Set("$skip", strconv.FormatInt(p.offset, 10))
	}

	if includeCount {
		if version == VersionV2 {
			base.Set("$inlinecount", "allpages")
		} else {
			base.Set("$count", "true")
		}
	}
}

func joinComma(names []string) string {
	out := ""
	for i, n := range names {
		if i > 0 {
			out += ","
		}
		out += n
	}
	return out
}

// IsComplexFieldName reports whether name is in spec.md §4.5's
// hard-coded always-complex set.
func IsComplexFieldName(name string) bool {
	return complexFieldNames[name]
}
