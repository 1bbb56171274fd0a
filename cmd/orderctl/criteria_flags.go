package main

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/OrderTrack/internal/core"
)

// criteriaFlags are the filter, sort and page selections shared by the
// list, kpi, export and share commands. A --link is decoded first; the
// individual flags then override it.
type criteriaFlags struct {
	link     string
	query    string
	statuses []string
	wh       string
	from     string
	to       string
	sort     string
	page     int
	pageSize int
	hide     []string
}

func (f *criteriaFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.link, "link", "", "shareable link or query string to start from")
	fs.StringVarP(&f.query, "query", "q", "", "free-text search over id, client, status and warehouse")
	fs.StringSliceVar(&f.statuses, "status", nil, "statuses to include (repeatable or comma-separated)")
	fs.StringVar(&f.wh, "warehouse", "", `warehouse to include ("all" for every warehouse)`)
	fs.StringVar(&f.from, "from", "", "earliest created date, YYYY-MM-DD")
	fs.StringVar(&f.to, "to", "", "latest created date, YYYY-MM-DD")
	fs.StringVar(&f.sort, "sort", "", "sort key, e.g. eta_asc or client_desc")
	fs.IntVar(&f.page, "page", 1, "page to show")
	fs.IntVar(&f.pageSize, "page-size", 0, "rows per page")
	fs.StringSliceVar(&f.hide, "hide", nil, "columns to hide, e.g. warehouse,progress")
}

// criteria resolves the flags through a CriteriaState so the usual setter
// rules apply. def is the service's default criteria; links are decoded
// against it the same way the dashboard decodes them.
func (f *criteriaFlags) criteria(cmd *cobra.Command, def core.Criteria) (core.Criteria, error) {
	cs := core.NewCriteriaState()
	cs.Replace(def)

	if f.link != "" {
		raw := f.link
		if u, err := url.Parse(f.link); err == nil && u.RawQuery != "" {
			raw = u.RawQuery
		}
		c, err := core.DecodeCriteriaQueryFrom(raw, def)
		if err != nil {
			slog.Debug("ignoring malformed link parameters", "error", err)
		}
		cs.Replace(c)
	}

	changed := cmd.Flags().Changed
	if changed("query") {
		cs.SetQuery(f.query)
	}
	if changed("status") {
		cur := cs.Current()
		for _, st := range cur.Statuses {
			cs.ToggleStatus(st)
		}
		for _, st := range f.statuses {
			cs.ToggleStatus(core.Status(strings.TrimSpace(st)))
		}
	}
	if changed("warehouse") {
		cs.SetWarehouse(f.wh)
	}
	if changed("from") || changed("to") {
		cur := cs.Current()
		from, to := cur.DateFrom, cur.DateTo
		if changed("from") {
			from = f.from
		}
		if changed("to") {
			to = f.to
		}
		cs.SetDateRange(from, to)
	}
	if changed("sort") {
		cs.SetSort(core.SortKey(f.sort))
	}
	if changed("page-size") {
		if f.pageSize < 1 {
			return core.Criteria{}, fmt.Errorf("--page-size must be positive, got %d", f.pageSize)
		}
		cs.SetPageSize(f.pageSize)
	}
	for _, col := range f.hide {
		c := core.Column(strings.TrimSpace(col))
		if !knownColumn(c) {
			return core.Criteria{}, fmt.Errorf("unknown column %q", col)
		}
		if cs.Current().Columns.Visible(c) {
			cs.ToggleColumn(c)
		}
	}
	cs.SetPage(f.page)

	return cs.Current(), nil
}

func knownColumn(c core.Column) bool {
	for _, known := range core.ColumnOrder {
		if c == known {
			return true
		}
	}
	return false
}
