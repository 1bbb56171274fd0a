package core

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestStore_ReadsAreCopies(t *testing.T) {
	s := NewStore(SeedOrders())

	all := s.All()
	all[0].Client = "changed"
	all[0].Milestones[1].TS = nil

	o, err := s.Get(all[0].ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if o.Client == "changed" || o.Milestones[1].TS == nil {
		t.Error("mutating a read copy changed the store")
	}
}

func TestStore_GetMissing(t *testing.T) {
	_, err := NewStore(nil).Get("nope")
	if !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("Get() error = %v, want ErrOrderNotFound", err)
	}
}

func TestStore_PrependKeepsGivenOrder(t *testing.T) {
	s := NewStore([]Order{{ID: "old"}})
	if err := s.Prepend(context.Background(), Order{ID: "n1"}, Order{ID: "n2"}); err != nil {
		t.Fatalf("Prepend() error = %v", err)
	}
	if got := ids(s.All()); !equalStrings(got, []string{"n1", "n2", "old"}) {
		t.Errorf("All() = %v, want [n1 n2 old]", got)
	}
}

func TestStore_CommitHook(t *testing.T) {
	s := NewStore(SeedOrders())
	var commits [][]Order
	s.OnCommit(func(_ context.Context, orders []Order) error {
		commits = append(commits, orders)
		return nil
	})

	ctx := context.Background()
	n, err := s.Remove(ctx, map[string]bool{"ORD-001234": true, "missing": true})
	if err != nil || n != 1 {
		t.Fatalf("Remove() = %d, %v, want 1, nil", n, err)
	}
	if len(commits) != 1 {
		t.Fatalf("commits = %d, want 1", len(commits))
	}
	if len(commits[0]) != 3 {
		t.Errorf("committed %d orders, want 3", len(commits[0]))
	}

	// no-op mutations do not commit
	if n, _ := s.Remove(ctx, map[string]bool{"missing": true}); n != 0 {
		t.Errorf("Remove(missing) = %d, want 0", n)
	}
	if len(commits) != 1 {
		t.Errorf("no-op Remove committed; commits = %d, want 1", len(commits))
	}
}

func TestStore_HookErrorKeepsChange(t *testing.T) {
	s := NewStore(SeedOrders())
	boom := errors.New("save slot orders: disk full")
	s.OnCommit(func(context.Context, []Order) error { return boom })

	err := s.Update(context.Background(), "ORD-001237", func(o *Order) { o.Items = 99 })
	if !errors.Is(err, boom) {
		t.Fatalf("Update() error = %v, want hook error", err)
	}
	o, _ := s.Get("ORD-001237")
	if o.Items != 99 {
		t.Errorf("Items = %d, want 99 kept in memory", o.Items)
	}
}

func TestStore_UpdateMissing(t *testing.T) {
	err := NewStore(nil).Update(context.Background(), "x", func(*Order) {})
	if !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("Update() error = %v, want ErrOrderNotFound", err)
	}
}

func TestStore_Subscribe(t *testing.T) {
	s := NewStore(nil)
	ch, cancel := s.Subscribe()

	ctx := context.Background()
	_ = s.Add(ctx, Order{ID: "a"})
	_ = s.Add(ctx, Order{ID: "b"}) // coalesces with the first signal

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("no change signal after Add")
	}
	select {
	case <-ch:
		t.Fatal("signals did not coalesce")
	default:
	}

	cancel()
	if _, open := <-ch; open {
		t.Error("channel still open after cancel")
	}
	cancel() // second cancel is harmless
}

func TestMarshalOrders_RoundTrip(t *testing.T) {
	data, err := MarshalOrders(SeedOrders())
	if err != nil {
		t.Fatalf("MarshalOrders() error = %v", err)
	}
	got, err := UnmarshalOrders(data)
	if err != nil {
		t.Fatalf("UnmarshalOrders() error = %v", err)
	}
	if !equalStrings(ids(got), ids(SeedOrders())) {
		t.Errorf("ids = %v, want seed ids", ids(got))
	}
	if got[3].Milestones[1].TS != nil {
		t.Error("null milestone timestamp decoded as set")
	}

	empty, _ := MarshalOrders(nil)
	if string(empty) != "[]" {
		t.Errorf("MarshalOrders(nil) = %s, want []", empty)
	}
	if _, err := UnmarshalOrders([]byte("{bad")); err == nil {
		t.Error("UnmarshalOrders(bad json) error = nil")
	}
}
