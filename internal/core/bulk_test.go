package core

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fixedClock(t *testing.T, s string) func() time.Time {
	now := ts(t, s)
	return func() time.Time { return now }
}

func TestBulk_MarkShipped(t *testing.T) {
	store := NewStore(SeedOrders())
	b := NewBulkProcessor(store, fixedClock(t, "2025-08-20T09:00:00Z"))

	n, err := b.MarkShipped(context.Background(), map[string]bool{"ORD-001237": true, "ORD-001236": true})
	if err != nil || n != 2 {
		t.Fatalf("MarkShipped() = %d, %v, want 2, nil", n, err)
	}

	received, _ := store.Get("ORD-001237")
	if received.Status != StatusShipped {
		t.Errorf("Status = %q, want Shipped", received.Status)
	}
	shippedAt, ok := received.Milestone(StatusShipped)
	if !ok || !shippedAt.Equal(ts(t, "2025-08-20T09:00:00Z")) {
		t.Errorf("Shipped milestone = %v, %v, want stamped now", shippedAt, ok)
	}
	if _, ok := received.Milestone(StatusPicked); ok {
		t.Error("Picked milestone was stamped; other milestones must stay untouched")
	}

	// Delivered orders move back to Shipped and keep their Delivered stamp.
	delivered, _ := store.Get("ORD-001236")
	if delivered.Status != StatusShipped {
		t.Errorf("Status = %q, want Shipped", delivered.Status)
	}
	if _, ok := delivered.Milestone(StatusDelivered); !ok {
		t.Error("Delivered stamp lost")
	}

	other, _ := store.Get("ORD-001234")
	if other.Status != StatusPacked {
		t.Errorf("unchecked order changed to %q", other.Status)
	}
}

func TestBulk_EmptySelectionIsNoop(t *testing.T) {
	store := NewStore(SeedOrders())
	commits := 0
	store.OnCommit(func(context.Context, []Order) error { commits++; return nil })
	b := NewBulkProcessor(store, nil)

	confirmAsked := false
	confirm := ConfirmFunc(func(int) bool { confirmAsked = true; return true })

	if n, err := b.MarkShipped(context.Background(), nil); n != 0 || err != nil {
		t.Errorf("MarkShipped(empty) = %d, %v", n, err)
	}
	if n, err := b.Delete(context.Background(), map[string]bool{}, confirm); n != 0 || err != nil {
		t.Errorf("Delete(empty) = %d, %v", n, err)
	}
	if confirmAsked {
		t.Error("empty delete asked for confirmation")
	}
	if commits != 0 {
		t.Errorf("commits = %d, want 0", commits)
	}
}

func TestBulk_DeleteNeedsConfirmation(t *testing.T) {
	tests := []struct {
		name    string
		confirm Confirmer
	}{
		{"declined", Declined},
		{"nil", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewStore(SeedOrders())
			b := NewBulkProcessor(store, nil)
			n, err := b.Delete(context.Background(), map[string]bool{"ORD-001234": true}, tt.confirm)
			if !errors.Is(err, ErrConfirmationRequired) || n != 0 {
				t.Errorf("Delete() = %d, %v, want 0, ErrConfirmationRequired", n, err)
			}
			if store.Len() != 4 {
				t.Errorf("Len() = %d, want 4", store.Len())
			}
		})
	}
}

func TestBulk_DeleteConfirmed(t *testing.T) {
	store := NewStore(SeedOrders())
	b := NewBulkProcessor(store, nil)

	var askedFor int
	confirm := ConfirmFunc(func(n int) bool { askedFor = n; return true })
	n, err := b.Delete(context.Background(), map[string]bool{"ORD-001234": true, "ORD-001235": true}, confirm)
	if err != nil || n != 2 {
		t.Fatalf("Delete() = %d, %v, want 2, nil", n, err)
	}
	if askedFor != 2 {
		t.Errorf("confirmation asked for %d orders, want 2", askedFor)
	}
	if got := ids(store.All()); !equalStrings(got, []string{"ORD-001236", "ORD-001237"}) {
		t.Errorf("All() = %v", got)
	}
}

func TestBulk_SessionCheckedSet(t *testing.T) {
	ctx := context.Background()
	store := NewStore(SeedOrders())
	b := NewBulkProcessor(store, nil)
	sess := NewSession("s")
	sess.UpdateChecked(func(c CheckedSet) { c.Set([]string{"ORD-001234", "ORD-001235"}, true) })

	if _, err := b.DeleteChecked(ctx, sess, Declined); !errors.Is(err, ErrConfirmationRequired) {
		t.Fatalf("DeleteChecked(declined) error = %v", err)
	}
	if got := len(sess.Checked()); got != 2 {
		t.Errorf("checked after declined delete = %d, want 2", got)
	}

	if n, err := b.MarkShippedChecked(ctx, sess); err != nil || n != 2 {
		t.Fatalf("MarkShippedChecked() = %d, %v", n, err)
	}
	if got := len(sess.Checked()); got != 0 {
		t.Errorf("checked after ship = %d, want 0", got)
	}

	sess.UpdateChecked(func(c CheckedSet) { c.Toggle("ORD-001237") })
	if n, err := b.DeleteChecked(ctx, sess, Confirmed); err != nil || n != 1 {
		t.Fatalf("DeleteChecked() = %d, %v", n, err)
	}
	if got := len(sess.Checked()); got != 0 {
		t.Errorf("checked after delete = %d, want 0", got)
	}
	if store.Len() != 3 {
		t.Errorf("Len() = %d, want 3", store.Len())
	}
}
