package core

import (
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEncodeCriteria_DefaultsAreEmpty(t *testing.T) {
	if got := ShareQuery(DefaultCriteria()); got != "" {
		t.Errorf("ShareQuery(defaults) = %q, want empty", got)
	}
	if got := ShareURL("https://ops.example/", DefaultCriteria()); got != "https://ops.example/" {
		t.Errorf("ShareURL(defaults) = %q, want base unchanged", got)
	}
}

func TestEncodeCriteria_NonDefaults(t *testing.T) {
	c := DefaultCriteria()
	c.Query = "altai & co"
	c.Statuses = []Status{StatusShipped, StatusDelivered}
	c.Warehouse = "ALA-DC2"
	c.SortBy = SortETAAsc
	c.DateFrom = "2025-08-01"
	c.DateTo = "2025-08-31"
	c.PageSize = 20
	c.Page = 4
	c.Columns[ColItems] = false

	v := EncodeCriteria(c)
	want := url.Values{
		"q":      {"altai & co"},
		"status": {"Shipped,Delivered"},
		"wh":     {"ALA-DC2"},
		"sort":   {"eta_asc"},
		"df":     {"2025-08-01"},
		"dt":     {"2025-08-31"},
		"ps":     {"20"},
		"cols":   {`{"items":false}`},
	}
	if diff := cmp.Diff(want, v); diff != "" {
		t.Errorf("EncodeCriteria() mismatch (-want +got):\n%s", diff)
	}
}

func TestShareURL_AppendsToExistingQuery(t *testing.T) {
	c := DefaultCriteria()
	c.Query = "x"
	if got := ShareURL("/?tab=orders", c); got != "/?tab=orders&q=x" {
		t.Errorf("ShareURL() = %q, want /?tab=orders&q=x", got)
	}
	if got := ShareURL("/", c); got != "/?q=x" {
		t.Errorf("ShareURL() = %q, want /?q=x", got)
	}
}

func TestCriteria_RoundTrip(t *testing.T) {
	build := func(fn func(*CriteriaState)) Criteria {
		s := NewCriteriaState()
		fn(s)
		return s.Current()
	}

	tests := []struct {
		name string
		c    Criteria
	}{
		{"defaults", DefaultCriteria()},
		{"query", build(func(s *CriteriaState) { s.SetQuery("Eurasia Pharma") })},
		{"statuses", build(func(s *CriteriaState) {
			s.ToggleStatus(StatusPacked)
			s.ToggleStatus(StatusReceived)
		})},
		{"warehouse", build(func(s *CriteriaState) { s.SetWarehouse("ALA-DC1") })},
		{"dates", build(func(s *CriteriaState) { s.SetDateRange("2025-08-05", "2025-08-12") })},
		{"sort", build(func(s *CriteriaState) { s.SetSort(SortClientDesc) })},
		{"page size", build(func(s *CriteriaState) { s.SetPageSize(50) })},
		{"hidden columns", build(func(s *CriteriaState) {
			s.ToggleColumn(ColProgress)
			s.ToggleColumn(ColWarehouse)
		})},
		{"everything", build(func(s *CriteriaState) {
			s.SetQuery("a,b=c&d")
			s.ToggleStatus(StatusShipped)
			s.SetWarehouse("ALA-DC2")
			s.SetDateRange("2025-08-01", "")
			s.SetSort(SortCreatedAsc)
			s.SetPageSize(5)
			s.ToggleColumn(ColItems)
		})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeCriteriaQuery(ShareQuery(tt.c))
			if err != nil {
				t.Fatalf("DecodeCriteriaQuery() error = %v", err)
			}
			if diff := cmp.Diff(tt.c, got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeCriteria_MalformedFallsBack(t *testing.T) {
	got, err := DecodeCriteriaQuery("?q=x&cols=%7Bnot-json&ps=zero")
	if err == nil {
		t.Error("DecodeCriteriaQuery() error = nil, want malformed parameters reported")
	} else {
		for _, param := range []string{"cols", "ps"} {
			if !strings.Contains(err.Error(), param) {
				t.Errorf("error %q should mention %s", err, param)
			}
		}
	}

	want := DefaultCriteria()
	want.Query = "x"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DecodeCriteriaQuery() mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeCriteria_UnknownKeysIgnored(t *testing.T) {
	got, err := DecodeCriteria(url.Values{"page": {"7"}, "foo": {"bar"}})
	if err != nil {
		t.Fatalf("DecodeCriteria() error = %v", err)
	}
	if diff := cmp.Diff(DefaultCriteria(), got); diff != "" {
		t.Errorf("DecodeCriteria() mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeCriteria_ColumnsMergeOntoDefaults(t *testing.T) {
	got, err := DecodeCriteriaQuery(`cols={"eta":false,"progress":true}`)
	if err != nil {
		t.Fatalf("DecodeCriteriaQuery() error = %v", err)
	}
	want := DefaultColumns()
	want[ColETA] = false
	if diff := cmp.Diff(want, got.Columns); diff != "" {
		t.Errorf("Columns mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeCriteria_ReproducesPage(t *testing.T) {
	c := DefaultCriteria()
	c.Query = "ala"
	c.SortBy = SortClientAsc
	c.PageSize = 2

	decoded, err := DecodeCriteriaQuery(ShareQuery(c))
	if err != nil {
		t.Fatalf("DecodeCriteriaQuery() error = %v", err)
	}
	a := utcEngine().Run(SeedOrders(), c)
	b := utcEngine().Run(SeedOrders(), decoded)
	if !equalStrings(ids(a.Rows), ids(b.Rows)) {
		t.Errorf("shared link shows %v, want %v", ids(b.Rows), ids(a.Rows))
	}
}

func TestCriteriaFrom_PageSizeMeasuredAgainstDefaults(t *testing.T) {
	def := DefaultCriteria()
	def.PageSize = 20

	tests := []struct {
		name     string
		pageSize int
		wantQS   string
	}{
		{"configured size", 20, "q=ord"},
		{"built-in size", 10, "ps=10&q=ord"},
		{"other size", 50, "ps=50&q=ord"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := def.Clone()
			c.Query = "ord"
			c.PageSize = tt.pageSize

			qs := EncodeCriteriaFrom(c, def).Encode()
			if qs != tt.wantQS {
				t.Errorf("EncodeCriteriaFrom() = %q, want %q", qs, tt.wantQS)
			}

			got, err := DecodeCriteriaQueryFrom(qs, def)
			if err != nil {
				t.Fatalf("DecodeCriteriaQueryFrom(%q) error = %v", qs, err)
			}
			c.Page = 1
			if diff := cmp.Diff(c, got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCriteriaFrom_ColumnsAgainstDefaults(t *testing.T) {
	def := DefaultCriteria()
	def.Columns[ColItems] = false

	c := def.Clone()
	if got := EncodeCriteriaFrom(c, def).Get("cols"); got != "" {
		t.Errorf("cols = %q, want empty for the default set", got)
	}

	got, err := DecodeCriteriaFrom(url.Values{}, def)
	if err != nil {
		t.Fatal(err)
	}
	if got.Columns.Visible(ColItems) {
		t.Error("empty query did not keep the default column set")
	}
}
