package core

import (
	"bytes"
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"golang.org/x/text/language"

	"github.com/JonMunkholm/OrderTrack/internal/events"
	"github.com/JonMunkholm/OrderTrack/internal/storage"
)

func newTestService(t *testing.T, slot storage.Slot) (*Service, *events.Recorder) {
	t.Helper()
	rec := &events.Recorder{}
	svc := NewService(slot, rec, Options{
		Location:    time.UTC,
		Language:    language.English,
		SeedOnEmpty: true,
		Now:         fixedClock(t, "2025-08-20T09:00:00Z"),
		NewID:       counterIDs(),
	})
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return svc, rec
}

func slotOrders(t *testing.T, slot storage.Slot) []Order {
	t.Helper()
	data, err := slot.Load(context.Background())
	if err != nil {
		t.Fatalf("slot.Load() error = %v", err)
	}
	orders, err := UnmarshalOrders(data)
	if err != nil {
		t.Fatalf("UnmarshalOrders() error = %v", err)
	}
	return orders
}

func TestService_LoadSeedsEmptySlot(t *testing.T) {
	slot := storage.NewMemorySlot()
	svc, _ := newTestService(t, slot)

	if got := ids(svc.Orders()); !equalStrings(got, ids(SeedOrders())) {
		t.Errorf("Orders() = %v, want seed", got)
	}
	if got := ids(slotOrders(t, slot)); !equalStrings(got, ids(SeedOrders())) {
		t.Errorf("slot = %v, want seed saved", got)
	}
}

func TestService_LoadWithoutSeeding(t *testing.T) {
	slot := storage.NewMemorySlot()
	svc := NewService(slot, nil, Options{Location: time.UTC})
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := len(svc.Orders()); got != 0 {
		t.Errorf("len(Orders()) = %d, want 0", got)
	}
	if got := slotOrders(t, slot); len(got) != 0 {
		t.Errorf("slot holds %d orders, want 0", len(got))
	}
}

func TestService_LoadExisting(t *testing.T) {
	slot := storage.NewMemorySlot()
	if err := slot.Save(context.Background(), []byte(`[{"id":"ORD-KEEP","status":"Packed"}]`)); err != nil {
		t.Fatal(err)
	}
	svc, _ := newTestService(t, slot)
	if got := ids(svc.Orders()); !equalStrings(got, []string{"ORD-KEEP"}) {
		t.Errorf("Orders() = %v, want [ORD-KEEP]", got)
	}
}

func TestService_LoadCorruptReseeds(t *testing.T) {
	slot := storage.NewMemorySlot()
	if err := slot.Save(context.Background(), []byte(`{not json`)); err != nil {
		t.Fatal(err)
	}
	svc, _ := newTestService(t, slot)
	if got := len(svc.Orders()); got != 4 {
		t.Errorf("len(Orders()) = %d, want 4 seed orders", got)
	}
}

type failingSlot struct{ storage.MemorySlot }

func (*failingSlot) Load(context.Context) ([]byte, error) {
	return nil, errors.New("load slot orders: connection refused")
}

func TestService_LoadError(t *testing.T) {
	svc := NewService(&failingSlot{}, nil, Options{})
	err := svc.Load(context.Background())
	if err == nil {
		t.Fatal("Load() error = nil, want slot error")
	}
	if code := MapError(err).Code; code != "STORE001" {
		t.Errorf("MapError(Load()).Code = %q, want STORE001", code)
	}
}

func TestService_ViewKPIsCoverFilteredList(t *testing.T) {
	svc, _ := newTestService(t, storage.NewMemorySlot())

	c := svc.DefaultCriteria()
	c.Warehouse = "ALA-DC1"
	c.PageSize = 1
	v := svc.View(c)

	if v.Result.Total != 3 || len(v.Result.Rows) != 1 {
		t.Errorf("Total/Rows = %d/%d, want 3/1", v.Result.Total, len(v.Result.Rows))
	}
	if v.KPIs.Total != 3 || v.KPIs.InProgress != 3 || v.KPIs.SLA != 0 {
		t.Errorf("KPIs = %+v, want Total 3, InProgress 3, SLA 0", v.KPIs)
	}
	if !equalStrings(v.Warehouses, []string{"ALA-DC1", "ALA-DC2"}) {
		t.Errorf("Warehouses = %v, want every warehouse", v.Warehouses)
	}
	if !strings.Contains(v.ShareURL, "wh=ALA-DC1") || !strings.Contains(v.ShareURL, "ps=1") {
		t.Errorf("ShareURL = %q", v.ShareURL)
	}
}

func TestService_MarkShippedPersistsAndPublishes(t *testing.T) {
	slot := storage.NewMemorySlot()
	svc, rec := newTestService(t, slot)
	sess := svc.NewSession("sess-1")
	sess.UpdateChecked(func(c CheckedSet) { c.Toggle("ORD-001237") })

	ctx := ContextWithActor(context.Background(), Actor{SessionID: "sess-1"})
	n, err := svc.MarkShipped(ctx, sess)
	if err != nil || n != 1 {
		t.Fatalf("MarkShipped() = %d, %v, want 1, nil", n, err)
	}

	for _, o := range slotOrders(t, slot) {
		if o.ID == "ORD-001237" && o.Status != StatusShipped {
			t.Errorf("saved status = %q, want Shipped", o.Status)
		}
	}

	got := rec.Events()
	if len(got) != 1 {
		t.Fatalf("published %d events, want 1", len(got))
	}
	e := got[0]
	if e.Type != events.TypeShipped || e.Actor != "sess-1" || !equalStrings(e.OrderIDs, []string{"ORD-001237"}) {
		t.Errorf("event = %+v", e)
	}
}

func TestService_MarkShippedNothingChecked(t *testing.T) {
	svc, rec := newTestService(t, storage.NewMemorySlot())
	n, err := svc.MarkShipped(context.Background(), svc.NewSession("s"))
	if err != nil || n != 0 {
		t.Errorf("MarkShipped() = %d, %v, want 0, nil", n, err)
	}
	if len(rec.Events()) != 0 {
		t.Error("no-op published an event")
	}
}

func TestService_DeleteChecked(t *testing.T) {
	slot := storage.NewMemorySlot()
	svc, rec := newTestService(t, slot)
	sess := svc.NewSession("s")
	sess.UpdateChecked(func(c CheckedSet) { c.Set([]string{"ORD-001234", "ORD-001235"}, true) })

	if _, err := svc.DeleteChecked(context.Background(), sess, Declined); !errors.Is(err, ErrConfirmationRequired) {
		t.Fatalf("DeleteChecked(declined) error = %v", err)
	}
	if len(svc.Orders()) != 4 || len(rec.Events()) != 0 {
		t.Fatal("declined delete changed state")
	}

	n, err := svc.DeleteChecked(context.Background(), sess, Confirmed)
	if err != nil || n != 2 {
		t.Fatalf("DeleteChecked() = %d, %v, want 2, nil", n, err)
	}
	if got := len(slotOrders(t, slot)); got != 2 {
		t.Errorf("slot holds %d orders, want 2", got)
	}
	if e := rec.Events(); len(e) != 1 || e[0].Type != events.TypeDeleted {
		t.Errorf("events = %+v, want one delete", e)
	}
}

func TestService_Import(t *testing.T) {
	slot := storage.NewMemorySlot()
	svc, rec := newTestService(t, slot)

	csv := "\uFEFFid,client,items\nORD-NEW1,Acme,3\n,Beta,x\n"
	n, err := svc.Import(context.Background(), strings.NewReader(csv))
	if err != nil || n != 2 {
		t.Fatalf("Import() = %d, %v, want 2, nil", n, err)
	}

	got := ids(svc.Orders())
	want := []string{"ORD-NEW1", "ORD-GEN001", "ORD-001234", "ORD-001235", "ORD-001236", "ORD-001237"}
	if !equalStrings(got, want) {
		t.Errorf("Orders() = %v, want %v", got, want)
	}
	if got := len(slotOrders(t, slot)); got != 6 {
		t.Errorf("slot holds %d orders, want 6", got)
	}
	if e := rec.Events(); len(e) != 1 || e[0].Type != events.TypeImported || e[0].Count != 2 {
		t.Errorf("events = %+v, want one import of 2", e)
	}
}

func TestService_ImportErrors(t *testing.T) {
	svc := NewService(storage.NewMemorySlot(), nil, Options{MaxImportSize: 10})
	if err := svc.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Import(context.Background(), strings.NewReader("")); !errors.Is(err, ErrEmptyFile) {
		t.Errorf("Import(empty) error = %v, want ErrEmptyFile", err)
	}
	if _, err := svc.Import(context.Background(), strings.NewReader(strings.Repeat("x", 11))); !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("Import(large) error = %v, want ErrFileTooLarge", err)
	}
	if n, err := svc.Import(context.Background(), strings.NewReader("id,client\n")); err != nil || n != 0 {
		t.Errorf("Import(header only) = %d, %v, want 0, nil", n, err)
	}
}

func TestService_ExportAllPages(t *testing.T) {
	svc, _ := newTestService(t, storage.NewMemorySlot())
	c := svc.DefaultCriteria()
	c.PageSize = 1
	c.Page = 2

	var buf bytes.Buffer
	if err := svc.Export(&buf, c); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if lines := strings.Count(buf.String(), "\n"); lines != 4 {
		t.Errorf("Export() wrote %d data rows, want 4", lines)
	}
}

func TestService_ResetToSeed(t *testing.T) {
	svc, rec := newTestService(t, storage.NewMemorySlot())
	sess := svc.NewSession("s")
	sess.UpdateChecked(func(c CheckedSet) { c.Toggle("ORD-001234") })
	if _, err := svc.DeleteChecked(context.Background(), sess, Confirmed); err != nil {
		t.Fatal(err)
	}

	if err := svc.ResetToSeed(context.Background()); err != nil {
		t.Fatalf("ResetToSeed() error = %v", err)
	}
	if got := len(svc.Orders()); got != 4 {
		t.Errorf("len(Orders()) = %d, want 4", got)
	}
	if e := rec.Events(); e[len(e)-1].Type != events.TypeReset {
		t.Errorf("last event = %q, want reset", e[len(e)-1].Type)
	}
}

func TestService_SubscribeSeesCommits(t *testing.T) {
	svc, _ := newTestService(t, storage.NewMemorySlot())
	ch, stop := svc.Subscribe()
	defer stop()

	if err := svc.ResetToSeed(context.Background()); err != nil {
		t.Fatal(err)
	}
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("no change signal after reset")
	}
}

func TestService_LinksUseConfiguredPageSize(t *testing.T) {
	svc := NewService(storage.NewMemorySlot(), nil, Options{PageSize: 20, Location: time.UTC})

	c := svc.DefaultCriteria()
	if got := svc.ShareQuery(c); got != "" {
		t.Errorf("ShareQuery(defaults) = %q, want empty", got)
	}

	c.PageSize = 10
	qs := svc.ShareQuery(c)
	if qs != "ps=10" {
		t.Fatalf("ShareQuery() = %q, want ps=10", qs)
	}
	v, _ := url.ParseQuery(qs)
	got, err := svc.DecodeCriteria(v)
	if err != nil {
		t.Fatal(err)
	}
	if got.PageSize != 10 {
		t.Errorf("decoded PageSize = %d, want 10", got.PageSize)
	}

	got, _ = svc.DecodeCriteria(url.Values{})
	if got.PageSize != 20 {
		t.Errorf("empty link PageSize = %d, want 20", got.PageSize)
	}
	if u := svc.ShareURL(c); u != "?ps=10" {
		t.Errorf("ShareURL() = %q, want ?ps=10", u)
	}
}

func TestService_OrderNotFound(t *testing.T) {
	svc, _ := newTestService(t, storage.NewMemorySlot())
	if _, err := svc.Order("ORD-404"); !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("Order() error = %v, want ErrOrderNotFound", err)
	}
}
