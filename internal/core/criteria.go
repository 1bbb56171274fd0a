package core

import "strings"

// SortKey selects the comparator used by the engine.
type SortKey string

const (
	SortCreatedDesc SortKey = "createdAt_desc"
	SortCreatedAsc  SortKey = "createdAt_asc"
	SortETAAsc      SortKey = "eta_asc"
	SortETADesc     SortKey = "eta_desc"
	SortClientAsc   SortKey = "client_asc"
	SortClientDesc  SortKey = "client_desc"
)

// SortKeys lists the selectable sort keys in display order.
var SortKeys = []SortKey{
	SortCreatedDesc, SortCreatedAsc,
	SortETAAsc, SortETADesc,
	SortClientAsc, SortClientDesc,
}

// AllWarehouses disables the warehouse filter.
const AllWarehouses = "all"

// DefaultPageSize is the page size used when none is selected.
const DefaultPageSize = 10

// PageSizes are the page sizes offered by the dashboard.
var PageSizes = []int{5, 10, 20, 50}

// Column is a table/CSV column name.
type Column string

const (
	ColID        Column = "id"
	ColClient    Column = "client"
	ColWarehouse Column = "warehouse"
	ColCreatedAt Column = "createdAt"
	ColETA       Column = "eta"
	ColItems     Column = "items"
	ColStatus    Column = "status"
	ColProgress  Column = "progress"
)

// ColumnOrder is the canonical column order for the table and CSV export.
var ColumnOrder = []Column{
	ColID, ColClient, ColWarehouse, ColCreatedAt,
	ColETA, ColItems, ColStatus, ColProgress,
}

// columnLabels are the human-readable headers.
var columnLabels = map[Column]string{
	ColID:        "ID",
	ColClient:    "Client",
	ColWarehouse: "Warehouse",
	ColCreatedAt: "Created",
	ColETA:       "ETA",
	ColItems:     "Items",
	ColStatus:    "Status",
	ColProgress:  "Progress",
}

// Label returns the display header for the column.
func (c Column) Label() string {
	if l, ok := columnLabels[c]; ok {
		return l
	}
	return string(c)
}

// Columns maps a column to its visibility. Missing entries count as visible.
type Columns map[Column]bool

// DefaultColumns returns every column visible.
func DefaultColumns() Columns {
	cols := make(Columns, len(ColumnOrder))
	for _, c := range ColumnOrder {
		cols[c] = true
	}
	return cols
}

// Visible reports whether c is shown.
func (cs Columns) Visible(c Column) bool {
	v, ok := cs[c]
	return !ok || v
}

// VisibleOrdered returns the visible columns in canonical order.
func (cs Columns) VisibleOrdered() []Column {
	out := make([]Column, 0, len(ColumnOrder))
	for _, c := range ColumnOrder {
		if cs.Visible(c) {
			out = append(out, c)
		}
	}
	return out
}

func (cs Columns) clone() Columns {
	out := make(Columns, len(cs))
	for k, v := range cs {
		out[k] = v
	}
	return out
}

// Criteria is the set of filter, sort and pagination selections.
//
// DateFrom and DateTo are calendar dates in YYYY-MM-DD form; empty means unset.
type Criteria struct {
	Query     string
	Statuses  []Status
	Warehouse string
	DateFrom  string
	DateTo    string
	SortBy    SortKey
	Page      int
	PageSize  int
	Columns   Columns
}

// DefaultCriteria returns the selections of a fresh dashboard.
func DefaultCriteria() Criteria {
	return Criteria{
		Warehouse: AllWarehouses,
		SortBy:    SortCreatedDesc,
		Page:      1,
		PageSize:  DefaultPageSize,
		Columns:   DefaultColumns(),
	}
}

// Clone returns a copy that shares no mutable state with c.
func (c Criteria) Clone() Criteria {
	out := c
	out.Statuses = append([]Status(nil), c.Statuses...)
	if c.Columns != nil {
		out.Columns = c.Columns.clone()
	}
	return out
}

// normalizedQuery is the trimmed, lower-cased free-text query.
func (c Criteria) normalizedQuery() string {
	return strings.ToLower(strings.TrimSpace(c.Query))
}

// hasStatus reports whether st is among the selected statuses.
func (c Criteria) hasStatus(st Status) bool {
	for _, s := range c.Statuses {
		if s == st {
			return true
		}
	}
	return false
}

// CriteriaState owns the current criteria of one dashboard session.
// Every filter, sort or page-size change sends the user back to page 1.
type CriteriaState struct {
	c Criteria
}

// NewCriteriaState starts from the default criteria.
func NewCriteriaState() *CriteriaState {
	return &CriteriaState{c: DefaultCriteria()}
}

// Current returns a copy of the current criteria.
func (s *CriteriaState) Current() Criteria {
	return s.c.Clone()
}

// Replace swaps in a whole criteria value, e.g. one decoded from a link.
func (s *CriteriaState) Replace(c Criteria) {
	s.c = c.Clone()
}

// SetQuery sets the free-text query.
func (s *CriteriaState) SetQuery(q string) {
	s.c.Query = q
	s.c.Page = 1
}

// ToggleStatus adds st to the selected statuses or removes it.
func (s *CriteriaState) ToggleStatus(st Status) {
	for i, cur := range s.c.Statuses {
		if cur == st {
			s.c.Statuses = append(s.c.Statuses[:i:i], s.c.Statuses[i+1:]...)
			s.c.Page = 1
			return
		}
	}
	s.c.Statuses = append(s.c.Statuses, st)
	s.c.Page = 1
}

// SetWarehouse selects a warehouse; empty selects all.
func (s *CriteriaState) SetWarehouse(wh string) {
	if wh == "" {
		wh = AllWarehouses
	}
	s.c.Warehouse = wh
	s.c.Page = 1
}

// SetDateRange sets the inclusive created-at date range.
func (s *CriteriaState) SetDateRange(from, to string) {
	s.c.DateFrom = from
	s.c.DateTo = to
	s.c.Page = 1
}

// SetSort selects the sort key.
func (s *CriteriaState) SetSort(k SortKey) {
	s.c.SortBy = k
	s.c.Page = 1
}

// SetPage requests a page. Values below 1 become 1; the engine clamps the top.
func (s *CriteriaState) SetPage(p int) {
	if p < 1 {
		p = 1
	}
	s.c.Page = p
}

// SetPageSize changes the page size. Non-positive sizes are ignored.
func (s *CriteriaState) SetPageSize(n int) {
	if n < 1 {
		return
	}
	s.c.PageSize = n
	s.c.Page = 1
}

// ToggleColumn flips the visibility of a column.
func (s *CriteriaState) ToggleColumn(col Column) {
	if s.c.Columns == nil {
		s.c.Columns = DefaultColumns()
	}
	s.c.Columns[col] = !s.c.Columns.Visible(col)
}

// Reset restores the default criteria.
func (s *CriteriaState) Reset() {
	s.c = DefaultCriteria()
}
