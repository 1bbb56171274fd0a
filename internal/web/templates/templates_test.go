package templates

import (
	"bytes"
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"
	"golang.org/x/text/language"

	"github.com/JonMunkholm/OrderTrack/internal/core"
)

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return buf.String()
}

func seedView(c core.Criteria) core.DashboardView {
	orders := core.SeedOrders()
	engine := core.NewEngine(time.UTC, language.English)
	res := engine.Run(orders, c)
	return core.DashboardView{
		Criteria:   c,
		Result:     res,
		KPIs:       core.Aggregate(res.Filtered, time.Date(2025, 8, 12, 20, 0, 0, 0, time.UTC), time.UTC),
		Warehouses: core.Warehouses(orders),
		ShareURL:   core.ShareURL("", c),
	}
}

func TestDashboardHref_AlwaysCarriesPage(t *testing.T) {
	def := core.DefaultCriteria()
	if got := DashboardHref(def, def, 0); got != "/?page=1" {
		t.Errorf("DashboardHref(defaults, 0) = %q, want /?page=1", got)
	}

	c := def.Clone()
	c.Warehouse = "ALA-DC2"
	got := DashboardHref(def, c, 3)
	u, err := url.Parse(got)
	if err != nil {
		t.Fatalf("DashboardHref() = %q: %v", got, err)
	}
	if u.Query().Get("page") != "3" || u.Query().Get("wh") != "ALA-DC2" {
		t.Errorf("DashboardHref() = %q", got)
	}
}

func TestDashboardHref_PageSizeAgainstConfiguredDefault(t *testing.T) {
	def := core.DefaultCriteria()
	def.PageSize = 20

	tests := []struct {
		name     string
		pageSize int
		wantPS   string
	}{
		{"configured size omitted", 20, ""},
		{"built-in size kept", 10, "10"},
		{"other size kept", 5, "5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := def.Clone()
			c.PageSize = tt.pageSize
			for _, href := range []string{DashboardHref(def, c, 2), ExportHref(def, c)} {
				u, err := url.Parse(href)
				if err != nil {
					t.Fatalf("parse %q: %v", href, err)
				}
				if got := u.Query().Get("ps"); got != tt.wantPS {
					t.Errorf("%s ps = %q, want %q", href, got, tt.wantPS)
				}
			}
		})
	}
}

func TestExportHref(t *testing.T) {
	def := core.DefaultCriteria()
	c := def.Clone()
	c.Query = "nomad"
	got := ExportHref(def, c)
	if !strings.HasPrefix(got, "/api/export?") || !strings.Contains(got, "q=nomad") {
		t.Errorf("ExportHref() = %q", got)
	}
}

func TestParseTab(t *testing.T) {
	tests := map[string]string{"": TabInfo, "files": TabFiles, "timeline": TabTimeline, "bogus": TabInfo}
	for in, want := range tests {
		if got := ParseTab(in); got != want {
			t.Errorf("ParseTab(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDashboard_ViewerHidesBulkControls(t *testing.T) {
	out := renderString(t, Dashboard(DashboardPage{
		View:     seedView(core.DefaultCriteria()),
		Role:     core.RoleViewer,
		Location: time.UTC,
		Layout:   core.DefaultDateTimeLayout,
	}))

	for _, want := range []string{
		"ORD-001234",
		"Kusto Logistics",
		"In progress<b>3</b>",
		"SLA<b>100%</b>",
		"Page 1 of 1 (4 orders)",
		`placeholder="Search id, client, status or warehouse"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("dashboard missing %q", want)
		}
	}
	if strings.Contains(out, "Mark shipped") || strings.Contains(out, "data-check=") {
		t.Error("viewer dashboard shows bulk controls")
	}
}

func TestDashboard_AdminShowsCheckedState(t *testing.T) {
	out := renderString(t, Dashboard(DashboardPage{
		View:     seedView(core.DefaultCriteria()),
		Role:     core.RoleAdmin,
		Checked:  map[string]bool{"ORD-001235": true},
		Location: time.UTC,
		Layout:   core.DefaultDateTimeLayout,
	}))

	if !strings.Contains(out, `data-check="ORD-001235" checked`) {
		t.Error("checked order not marked")
	}
	if strings.Contains(out, `data-check="ORD-001234" checked`) {
		t.Error("unchecked order marked")
	}
	if !strings.Contains(out, `<span id="checked-count">1</span>`) {
		t.Error("checked count not rendered")
	}
}

func TestDashboard_EscapesUserText(t *testing.T) {
	c := core.DefaultCriteria()
	c.Query = `"><script>alert(1)</script>`
	out := renderString(t, Dashboard(DashboardPage{View: seedView(c), Location: time.UTC, Layout: time.RFC3339}))

	if strings.Contains(out, "<script>alert(1)") {
		t.Error("query rendered unescaped")
	}
	if !strings.Contains(out, "No orders match") {
		t.Error("empty result message missing")
	}
}

func TestDashboard_HiddenColumn(t *testing.T) {
	c := core.DefaultCriteria()
	c.Columns[core.ColWarehouse] = false
	out := renderString(t, Dashboard(DashboardPage{View: seedView(c), Location: time.UTC, Layout: time.RFC3339}))

	if strings.Contains(out, "<th>Warehouse</th>") {
		t.Error("hidden column has a header")
	}
	if !strings.Contains(out, `name="cols"`) {
		t.Error("column visibility not carried by the filter form")
	}
}

func TestDashboard_PagerLinksKeepPageSize(t *testing.T) {
	def := core.DefaultCriteria()
	def.PageSize = 20
	c := def.Clone()
	c.PageSize = 2

	out := renderString(t, Dashboard(DashboardPage{
		View:     seedView(c),
		Defaults: def,
		Location: time.UTC,
		Layout:   time.RFC3339,
	}))

	if !strings.Contains(out, "Page 1 of 2 (4 orders)") {
		t.Fatal("pager text missing")
	}
	if want := `href="/?page=2&amp;ps=2"`; !strings.Contains(out, want) {
		t.Errorf("next link missing %s", want)
	}
	if want := `href="/api/export?page=1&amp;ps=2"`; !strings.Contains(out, want) {
		t.Errorf("export link missing %s", want)
	}
}

func TestOrderDetail_Tabs(t *testing.T) {
	order := core.SeedOrders()[0]

	tests := []struct {
		tab  string
		want []string
	}{
		{TabInfo, []string{"Kusto Logistics", "ALA-DC1", "60%"}},
		{TabTimeline, []string{`<li class="reached">Received`, `<li class="reached current">Packed`, "Delivered <span class=\"muted\">pending"}},
		{TabFiles, []string{"invoice_001234.pdf", "124 KB", "/api/orders/ORD-001234/files/invoice_001234.pdf"}},
	}

	for _, tt := range tests {
		t.Run(tt.tab, func(t *testing.T) {
			out := renderString(t, OrderDetail(DetailPage{Order: order, Tab: tt.tab, Location: time.UTC, Layout: time.RFC3339}))
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("tab %s missing %q", tt.tab, want)
				}
			}
		})
	}
}

func TestErrorPage(t *testing.T) {
	out := renderString(t, ErrorPage(404, "Order not found", "Refresh the list", "ORD001"))
	for _, want := range []string{"<title>404 Not Found</title>", "Order not found", "Refresh the list", "Code: ORD001"} {
		if !strings.Contains(out, want) {
			t.Errorf("error page missing %q", want)
		}
	}
}
