// Package templates renders the dashboard HTML. The components live in the
// .templ files; run `templ generate` after editing them. This file holds the
// page models and the plain Go helpers the components call.
package templates

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/JonMunkholm/OrderTrack/internal/core"
)

// DashboardPage is what the dashboard renders for one request.
type DashboardPage struct {
	View core.DashboardView

	// Defaults are the criteria links are encoded against. They must match
	// what the server decodes links with. Zero means core.DefaultCriteria.
	Defaults core.Criteria

	Role     core.Role
	Checked  map[string]bool
	Location *time.Location
	Layout   string
}

func (p DashboardPage) defaults() core.Criteria {
	if p.Defaults.PageSize == 0 {
		return core.DefaultCriteria()
	}
	return p.Defaults
}

// Detail tabs.
const (
	TabInfo     = "info"
	TabTimeline = "timeline"
	TabFiles    = "files"
)

// ParseTab returns the named tab, defaulting to info.
func ParseTab(s string) string {
	switch s {
	case TabTimeline, TabFiles:
		return s
	}
	return TabInfo
}

// DetailPage is what the order detail view renders.
type DetailPage struct {
	Order    core.Order
	Tab      string
	Location *time.Location
	Layout   string
}

var sortLabels = map[core.SortKey]string{
	core.SortCreatedDesc: "Newest first",
	core.SortCreatedAsc:  "Oldest first",
	core.SortETAAsc:      "ETA ascending",
	core.SortETADesc:     "ETA descending",
	core.SortClientAsc:   "Client A-Z",
	core.SortClientDesc:  "Client Z-A",
}

var roles = []core.Role{core.RoleViewer, core.RoleAdmin}

// DashboardHref links to the dashboard with c applied on the given page.
// The page parameter is always present, so the link never falls back to
// the session's stored criteria.
func DashboardHref(def, c core.Criteria, page int) string {
	v := core.EncodeCriteriaFrom(c, def)
	if page < 1 {
		page = 1
	}
	v.Set("page", strconv.Itoa(page))
	return "/?" + v.Encode()
}

// ExportHref links to the CSV export of c. Like DashboardHref it always
// carries a query so the export matches what the link was built from.
func ExportHref(def, c core.Criteria) string {
	v := core.EncodeCriteriaFrom(c, def)
	v.Set("page", "1")
	return "/api/export?" + v.Encode()
}

// OrderHref links to an order's detail page.
func OrderHref(id, tab string) string {
	href := "/orders/" + url.PathEscape(id)
	if tab != "" {
		href += "?tab=" + url.QueryEscape(tab)
	}
	return href
}

func fileHref(id, name string) string {
	return "/api/orders/" + url.PathEscape(id) + "/files/" + url.PathEscape(name)
}

func formatTime(t time.Time, loc *time.Location, layout string) string {
	if t.IsZero() {
		return "-"
	}
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(layout)
}

func errorTitle(status int) string {
	return strconv.Itoa(status) + " " + http.StatusText(status)
}

// shareValue shows "/" for the default criteria so the box is never empty.
func shareValue(u string) string {
	if u == "" {
		return "/"
	}
	return u
}

func statusChecked(c core.Criteria, st core.Status) bool {
	for _, sel := range c.Statuses {
		if sel == st {
			return true
		}
	}
	return false
}

// columnsValue is the cols parameter the filter form carries along.
func columnsValue(p DashboardPage) string {
	return core.EncodeCriteriaFrom(p.View.Criteria, p.defaults()).Get("cols")
}

// columnToggleHref keeps the current page and flips one column.
func columnToggleHref(p DashboardPage, col core.Column) string {
	toggled := p.View.Criteria.Clone()
	if toggled.Columns == nil {
		toggled.Columns = core.DefaultColumns()
	}
	toggled.Columns[col] = !toggled.Columns.Visible(col)
	return DashboardHref(p.defaults(), toggled, p.View.Result.Page)
}

func columnMark(c core.Criteria, col core.Column) string {
	if c.Columns.Visible(col) {
		return "+"
	}
	return "-"
}

func pageIDs(rows []core.Order) string {
	ids := make([]string, len(rows))
	for i, o := range rows {
		ids[i] = o.ID
	}
	return strings.Join(ids, ",")
}

// pageChecked reports whether every row on the page is checked.
func pageChecked(p DashboardPage) bool {
	if len(p.View.Result.Rows) == 0 {
		return false
	}
	for _, o := range p.View.Result.Rows {
		if !p.Checked[o.ID] {
			return false
		}
	}
	return true
}

func emptyColSpan(p DashboardPage) int {
	n := len(p.View.Criteria.Columns.VisibleOrdered())
	if p.Role.CanMutate() {
		n++
	}
	return n
}

// cellText is the plain-text value of a table cell.
func cellText(o core.Order, col core.Column, loc *time.Location, layout string) string {
	switch col {
	case core.ColID:
		return o.ID
	case core.ColClient:
		return o.Client
	case core.ColWarehouse:
		return o.Warehouse
	case core.ColCreatedAt:
		return formatTime(o.CreatedAt, loc, layout)
	case core.ColETA:
		return formatTime(o.ETA, loc, layout)
	case core.ColItems:
		return strconv.Itoa(o.Items)
	case core.ColStatus:
		return string(o.Status)
	case core.ColProgress:
		return strconv.Itoa(o.Progress()) + "%"
	}
	return ""
}

type detailTab struct {
	key   string
	label string
}

func detailTabs(o core.Order) []detailTab {
	return []detailTab{
		{TabInfo, "Info"},
		{TabTimeline, "Timeline"},
		{TabFiles, "Documents (" + strconv.Itoa(len(o.Files)) + ")"},
	}
}

func infoRows(o core.Order, loc *time.Location, layout string) [][2]string {
	return [][2]string{
		{"Client", o.Client},
		{"Warehouse", o.Warehouse},
		{"Created", formatTime(o.CreatedAt, loc, layout)},
		{"ETA", formatTime(o.ETA, loc, layout)},
		{"Items", strconv.Itoa(o.Items)},
		{"Status", string(o.Status)},
		{"Progress", strconv.Itoa(o.Progress()) + "%"},
	}
}

func timelineClass(e core.TimelineEntry) string {
	switch {
	case e.Current:
		return "reached current"
	case e.Reached:
		return "reached"
	}
	return "pending"
}

func timelineWhen(e core.TimelineEntry, loc *time.Location, layout string) string {
	if e.TS == nil {
		return "pending"
	}
	return formatTime(*e.TS, loc, layout)
}

const styles = `
body{font-family:system-ui,sans-serif;margin:0;background:#f6f7f9;color:#1f2933}
header{display:flex;justify-content:space-between;align-items:center;padding:12px 24px;background:#fff;border-bottom:1px solid #e4e7eb}
main{padding:16px 24px}
.kpis{display:grid;grid-template-columns:repeat(4,1fr);gap:12px;margin-bottom:16px}
.kpi{background:#fff;border:1px solid #e4e7eb;border-radius:8px;padding:12px}
.kpi b{display:block;font-size:24px}
form.filters,.toolbar,.bulk{display:flex;flex-wrap:wrap;gap:8px;align-items:center;margin-bottom:12px}
table{width:100%;border-collapse:collapse;background:#fff}
th,td{padding:8px;border-bottom:1px solid #e4e7eb;text-align:left}
progress.bar{width:100px;height:8px}
.pager{display:flex;gap:12px;align-items:center;margin-top:12px}
.alert{border:1px solid #f5c2c7;background:#f8d7da;padding:12px;border-radius:8px}
.tabs a{margin-right:12px}
.tabs a.active{font-weight:bold}
ol.timeline li.reached{color:#1f7a3d}
ol.timeline li.current{font-weight:bold}
ol.timeline li.pending,.muted{color:#7b8794}
`

const dashboardScript = `
function post(url, body) {
  return fetch(url, {method: 'POST', body: body, headers: {'Accept': 'application/json'}})
    .then(function (r) {
      return r.json().catch(function () { return {}; }).then(function (data) {
        if (!r.ok) {
          alert((data.message || r.statusText) + (data.action ? '\n' + data.action : ''));
          throw data;
        }
        return data;
      });
    });
}
function form(fields) {
  var f = new FormData();
  Object.keys(fields).forEach(function (k) {
    [].concat(fields[k]).forEach(function (v) { f.append(k, v); });
  });
  return f;
}
function showChecked(data) {
  var el = document.getElementById('checked-count');
  if (el) { el.textContent = data.checked.length; }
}
document.querySelectorAll('[data-check]').forEach(function (el) {
  el.addEventListener('change', function () {
    post('/api/checked', form({op: 'toggle', id: el.dataset.check})).then(showChecked);
  });
});
document.querySelectorAll('[data-check-page]').forEach(function (el) {
  el.addEventListener('change', function () {
    var ids = el.dataset.checkPage ? el.dataset.checkPage.split(',') : [];
    post('/api/checked', form({op: el.checked ? 'set' : 'unset', id: ids})).then(function (data) {
      document.querySelectorAll('[data-check]').forEach(function (box) { box.checked = el.checked; });
      showChecked(data);
    });
  });
});
function bulkShip() {
  post('/api/bulk/ship').then(function () { location.reload(); });
}
function bulkDelete() {
  var n = document.getElementById('checked-count').textContent;
  if (n === '0' || !confirm('Delete ' + n + ' selected order(s)?')) { return; }
  post('/api/bulk/delete', form({confirm: 'true'})).then(function () { location.reload(); });
}
function setRole(role) {
  post('/api/role', form({role: role})).then(function () { location.reload(); });
}
function resetSeed() {
  if (!confirm('Replace every order with the sample data?')) { return; }
  post('/api/reset').then(function () { location.reload(); });
}
function copyShare() {
  var el = document.getElementById('share');
  var link = new URL(el.value, location.href).href;
  if (navigator.clipboard) { navigator.clipboard.writeText(link); } else { el.select(); }
}
document.getElementById('import').addEventListener('submit', function (e) {
  e.preventDefault();
  post('/api/import', new FormData(e.target)).then(function (data) {
    alert('Imported ' + data.imported + ' order(s)');
    location.reload();
  });
});
if (window.EventSource) {
  new EventSource('/api/events').addEventListener('changed', function () { location.reload(); });
}
`
