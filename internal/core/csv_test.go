package core

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"
)

func counterIDs() IDFunc {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("ORD-GEN%03d", n)
	}
}

func utcExport() ExportOptions {
	return ExportOptions{Location: time.UTC, Layout: DefaultDateTimeLayout}
}

func TestExportCSV_Format(t *testing.T) {
	var buf bytes.Buffer
	orders := SeedOrders()[:1]
	if err := ExportCSV(&buf, orders, DefaultColumns(), utcExport()); err != nil {
		t.Fatalf("ExportCSV() error = %v", err)
	}

	want := "\uFEFF" +
		`"ID","Client","Warehouse","Created","ETA","Items","Status","Progress"` + "\n" +
		`"ORD-001234","Kusto Logistics","ALA-DC1","8/5/2025, 9:20:00 AM","8/21/2025, 3:00:00 PM","18","Packed","60%"`
	if got := buf.String(); got != want {
		t.Errorf("ExportCSV() =\n%q\nwant\n%q", got, want)
	}
}

func TestExportCSV_VisibleColumnsInCanonicalOrder(t *testing.T) {
	cols := Columns{
		ColProgress: true, ColID: true, ColClient: false, ColWarehouse: false,
		ColCreatedAt: false, ColETA: false, ColItems: false, ColStatus: true,
	}
	var buf bytes.Buffer
	if err := ExportCSV(&buf, SeedOrders()[2:3], cols, utcExport()); err != nil {
		t.Fatalf("ExportCSV() error = %v", err)
	}

	want := "\uFEFF" + `"ID","Status","Progress"` + "\n" + `"ORD-001236","Delivered","100%"`
	if got := buf.String(); got != want {
		t.Errorf("ExportCSV() = %q, want %q", got, want)
	}
}

func TestExportCSV_EscapesQuotes(t *testing.T) {
	orders := []Order{{ID: "A", Client: `Say "hi", Inc`}}
	cols := Columns{}
	for _, c := range ColumnOrder {
		cols[c] = c == ColID || c == ColClient
	}

	var buf bytes.Buffer
	if err := ExportCSV(&buf, orders, cols, utcExport()); err != nil {
		t.Fatalf("ExportCSV() error = %v", err)
	}
	if !strings.HasSuffix(buf.String(), "\n"+`"A","Say ""hi"", Inc"`) {
		t.Errorf("ExportCSV() = %q, want escaped client cell", buf.String())
	}
}

func TestExportCSV_NoRows(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportCSV(&buf, nil, DefaultColumns(), utcExport()); err != nil {
		t.Fatalf("ExportCSV() error = %v", err)
	}
	if strings.Contains(buf.String(), "\n") {
		t.Errorf("ExportCSV(nil) = %q, want header only", buf.String())
	}
}

func TestImportCSV_Defaults(t *testing.T) {
	now := ts(t, "2025-08-20T10:00:00Z")
	text := "Client,Items,Unused\nAcme,abc,x\n\n  \n,5 boxes,y\r\n"

	got := ImportCSV(text, ImportOptions{Now: now, NewID: counterIDs(), Location: time.UTC})
	if len(got) != 2 {
		t.Fatalf("ImportCSV() returned %d orders, want 2", len(got))
	}

	first := got[0]
	if first.ID != "ORD-GEN001" {
		t.Errorf("ID = %q, want generated ORD-GEN001", first.ID)
	}
	if first.Client != "Acme" || first.Items != 0 {
		t.Errorf("first = %q/%d, want Acme/0", first.Client, first.Items)
	}
	if first.Warehouse != DefaultImportWarehouse {
		t.Errorf("Warehouse = %q, want %q", first.Warehouse, DefaultImportWarehouse)
	}
	if first.Status != StatusReceived {
		t.Errorf("Status = %q, want Received", first.Status)
	}
	if !first.CreatedAt.Equal(now) {
		t.Errorf("CreatedAt = %v, want %v", first.CreatedAt, now)
	}
	if want := now.Add(72 * time.Hour); !first.ETA.Equal(want) {
		t.Errorf("ETA = %v, want %v", first.ETA, want)
	}
	if first.Files == nil || len(first.Files) != 0 {
		t.Errorf("Files = %#v, want empty non-nil", first.Files)
	}

	second := got[1]
	if second.Client != DefaultImportClient || second.Items != 5 {
		t.Errorf("second = %q/%d, want Unknown/5", second.Client, second.Items)
	}
}

func TestImportCSV_IgnoresMilestoneData(t *testing.T) {
	now := ts(t, "2025-08-20T10:00:00Z")
	text := "id,status,progress,milestones\nORD-1,Delivered,100%,everything"

	got := ImportCSV(text, ImportOptions{Now: now, Location: time.UTC})
	if len(got) != 1 {
		t.Fatalf("ImportCSV() returned %d orders, want 1", len(got))
	}
	o := got[0]
	if o.Status != StatusDelivered {
		t.Errorf("Status = %q, want Delivered from the file", o.Status)
	}
	if len(o.Milestones) != 5 {
		t.Fatalf("len(Milestones) = %d, want 5", len(o.Milestones))
	}
	for i, m := range o.Milestones {
		if m.Key != StatusSequence[i] {
			t.Errorf("Milestones[%d].Key = %q, want %q", i, m.Key, StatusSequence[i])
		}
		if i == 0 {
			if m.TS == nil || !m.TS.Equal(now) {
				t.Errorf("Received TS = %v, want %v", m.TS, now)
			}
		} else if m.TS != nil {
			t.Errorf("Milestones[%d].TS = %v, want nil", i, *m.TS)
		}
	}
}

func TestImportCSV_HeaderLookup(t *testing.T) {
	text := `"ID","CLIENT","Created","eta","WAREHOUSE"` + "\n" +
		`"ORD-9","Altai, Foods","2025-08-10T10:10:00Z","8/20/2025, 12:00:00 PM","ALA-DC2"`

	got := ImportCSV(text, ImportOptions{Now: time.Now(), Location: time.UTC})
	if len(got) != 1 {
		t.Fatalf("ImportCSV() returned %d orders, want 1", len(got))
	}
	o := got[0]
	if o.ID != "ORD-9" || o.Client != "Altai, Foods" || o.Warehouse != "ALA-DC2" {
		t.Errorf("order = %q/%q/%q, want ORD-9/Altai, Foods/ALA-DC2", o.ID, o.Client, o.Warehouse)
	}
	if want := ts(t, "2025-08-10T10:10:00Z"); !o.CreatedAt.Equal(want) {
		t.Errorf("CreatedAt = %v, want %v", o.CreatedAt, want)
	}
	if want := ts(t, "2025-08-20T12:00:00Z"); !o.ETA.Equal(want) {
		t.Errorf("ETA = %v, want %v", o.ETA, want)
	}
}

func TestImportCSV_HeaderOnlyOrEmpty(t *testing.T) {
	for _, text := range []string{"", "\n\n", "id,client\n"} {
		if got := ImportCSV(text, ImportOptions{}); len(got) != 0 {
			t.Errorf("ImportCSV(%q) returned %d orders, want 0", text, len(got))
		}
	}
}

func TestCSV_RoundTrip(t *testing.T) {
	seed := SeedOrders()
	seed[0].Client = `Kusto "KL", Logistics`

	var buf bytes.Buffer
	if err := ExportCSV(&buf, seed, DefaultColumns(), utcExport()); err != nil {
		t.Fatalf("ExportCSV() error = %v", err)
	}

	text, err := ReadImportText(&buf, 0)
	if err != nil {
		t.Fatalf("ReadImportText() error = %v", err)
	}
	got := ImportCSV(text, ImportOptions{Now: time.Now(), Location: time.UTC})
	if len(got) != len(seed) {
		t.Fatalf("round trip returned %d orders, want %d", len(got), len(seed))
	}

	for i := range seed {
		want, o := seed[i], got[i]
		if o.ID != want.ID || o.Client != want.Client || o.Warehouse != want.Warehouse ||
			o.Items != want.Items || o.Status != want.Status {
			t.Errorf("row %d = {%s %q %s %d %s}, want {%s %q %s %d %s}", i,
				o.ID, o.Client, o.Warehouse, o.Items, o.Status,
				want.ID, want.Client, want.Warehouse, want.Items, want.Status)
		}
		if !o.CreatedAt.Equal(want.CreatedAt) {
			t.Errorf("row %d CreatedAt = %v, want %v", i, o.CreatedAt, want.CreatedAt)
		}
	}
}

func TestSplitCSVLine(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{`a,b,c`, []string{"a", "b", "c"}},
		{`"a,b",c`, []string{"a,b", "c"}},
		{`"he said ""hi""",x`, []string{`he said "hi"`, "x"}},
		{`,,`, []string{"", "", ""}},
		{``, []string{""}},
		{`"abc"def,g`, []string{"abcdef", "g"}},
		{`"unterminated,x`, []string{"unterminated,x"}},
		{` a , b `, []string{" a ", " b "}},
		{`"",""`, []string{"", ""}},
	}

	for _, tt := range tests {
		got := SplitCSVLine(tt.line)
		if !equalStrings(got, tt.want) {
			t.Errorf("SplitCSVLine(%q) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestMakeHeaderIndex(t *testing.T) {
	idx := MakeHeaderIndex([]string{" ID ", "Client", `="Items"`, "client"})

	tests := []struct {
		key     string
		wantPos int
		wantOK  bool
	}{
		{"id", 0, true},
		{"client", 1, true}, // first duplicate wins
		{"items", 2, true},
		{"eta", 0, false},
	}
	for _, tt := range tests {
		pos, ok := idx[tt.key]
		if ok != tt.wantOK || (ok && pos != tt.wantPos) {
			t.Errorf("idx[%q] = %d, %v, want %d, %v", tt.key, pos, ok, tt.wantPos, tt.wantOK)
		}
	}
}
