package core

// engine.go turns a list of orders plus the current criteria into the
// displayed page. It never mutates its inputs: filtering builds a new slice,
// sorting is stable on that slice, pagination slices it.

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// dateLayout is the calendar-date form used by date-range criteria.
const dateLayout = "2006-01-02"

// Result is the output of one engine run.
type Result struct {
	Filtered   []Order // every matching order, sorted
	Rows       []Order // the current page of Filtered
	Total      int
	TotalPages int
	Page       int // effective page after clamping
	PageSize   int
}

// Engine filters, sorts and paginates orders.
//
// Date-range bounds are interpreted in Location; client names are compared
// with the collation rules of Language.
type Engine struct {
	Location *time.Location
	Language language.Tag
}

// NewEngine returns an engine for the given location and collation language.
// A nil location means time.Local.
func NewEngine(loc *time.Location, lang language.Tag) Engine {
	if loc == nil {
		loc = time.Local
	}
	return Engine{Location: loc, Language: lang}
}

func (e Engine) location() *time.Location {
	if e.Location == nil {
		return time.Local
	}
	return e.Location
}

// Run applies c to orders. Identical inputs always produce identical output.
func (e Engine) Run(orders []Order, c Criteria) Result {
	filtered := e.Filter(orders, c)
	e.Sort(filtered, c.SortBy)
	return Paginate(filtered, c.Page, c.PageSize)
}

// Filter returns the orders that pass every predicate of c, in input order.
func (e Engine) Filter(orders []Order, c Criteria) []Order {
	q := c.normalizedQuery()
	from, hasFrom := e.startOfDay(c.DateFrom)
	to, hasTo := e.endOfDay(c.DateTo)
	wh := c.Warehouse

	out := make([]Order, 0, len(orders))
	for _, o := range orders {
		if q != "" && !matchesQuery(o, q) {
			continue
		}
		if len(c.Statuses) > 0 && !c.hasStatus(o.Status) {
			continue
		}
		if wh != "" && wh != AllWarehouses && o.Warehouse != wh {
			continue
		}
		if hasFrom && o.CreatedAt.UnixMilli() < from.UnixMilli() {
			continue
		}
		if hasTo && o.CreatedAt.UnixMilli() > to.UnixMilli() {
			continue
		}
		out = append(out, o)
	}
	return out
}

// matchesQuery reports whether any searchable field contains q.
// q must already be trimmed and lower-cased.
func matchesQuery(o Order, q string) bool {
	for _, field := range []string{o.ID, o.Client, string(o.Status), o.Warehouse} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// startOfDay parses a YYYY-MM-DD date as midnight in the engine location.
func (e Engine) startOfDay(date string) (time.Time, bool) {
	date = strings.TrimSpace(date)
	if date == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(dateLayout, date, e.location())
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// endOfDay parses a YYYY-MM-DD date as 23:59:59 in the engine location.
func (e Engine) endOfDay(date string) (time.Time, bool) {
	t, ok := e.startOfDay(date)
	if !ok {
		return t, false
	}
	return t.Add(23*time.Hour + 59*time.Minute + 59*time.Second), true
}

// Sort orders the slice in place by key. The sort is stable, so entries that
// compare equal keep their relative order. Unknown keys leave the slice as is.
func (e Engine) Sort(orders []Order, key SortKey) {
	var less func(a, b Order) bool

	switch key {
	case SortCreatedDesc:
		less = func(a, b Order) bool { return a.CreatedAt.UnixMilli() > b.CreatedAt.UnixMilli() }
	case SortCreatedAsc:
		less = func(a, b Order) bool { return a.CreatedAt.UnixMilli() < b.CreatedAt.UnixMilli() }
	case SortETAAsc:
		less = func(a, b Order) bool { return a.ETA.UnixMilli() < b.ETA.UnixMilli() }
	case SortETADesc:
		less = func(a, b Order) bool { return a.ETA.UnixMilli() > b.ETA.UnixMilli() }
	case SortClientAsc, SortClientDesc:
		// Collators keep scratch buffers, so each sort gets its own.
		col := collate.New(e.Language)
		if key == SortClientAsc {
			less = func(a, b Order) bool { return col.CompareString(a.Client, b.Client) < 0 }
		} else {
			less = func(a, b Order) bool { return col.CompareString(b.Client, a.Client) < 0 }
		}
	default:
		return
	}

	sort.SliceStable(orders, func(i, j int) bool {
		return less(orders[i], orders[j])
	})
}

// TotalPages returns max(1, ceil(count/pageSize)).
func TotalPages(count, pageSize int) int {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	pages := (count + pageSize - 1) / pageSize
	if pages < 1 {
		pages = 1
	}
	return pages
}

// Paginate clamps page into [1, TotalPages] and slices out that page.
func Paginate(orders []Order, page, pageSize int) Result {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	total := len(orders)
	totalPages := TotalPages(total, pageSize)

	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Result{
		Filtered:   orders,
		Rows:       orders[start:end:end],
		Total:      total,
		TotalPages: totalPages,
		Page:       page,
		PageSize:   pageSize,
	}
}

// Warehouses returns the distinct warehouse codes present in orders, sorted.
func Warehouses(orders []Order) []string {
	seen := make(map[string]bool)
	var out []string
	for _, o := range orders {
		if o.Warehouse == "" || seen[o.Warehouse] {
			continue
		}
		seen[o.Warehouse] = true
		out = append(out, o.Warehouse)
	}
	sort.Strings(out)
	return out
}
