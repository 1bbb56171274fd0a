package core

import (
	"testing"
	"time"
)

func ts(t *testing.T, s string) time.Time {
	t.Helper()
	v, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return v
}

func ids(orders []Order) []string {
	out := make([]string, len(orders))
	for i, o := range orders {
		out[i] = o.ID
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// deliveredOrder builds a delivered order with the given ETA and delivery time.
// An empty delivered string leaves the Delivered milestone unset.
func deliveredOrder(t *testing.T, id, eta, delivered string) Order {
	t.Helper()
	o := Order{
		ID:         id,
		Client:     "Client " + id,
		Warehouse:  "ALA-DC1",
		CreatedAt:  ts(t, "2025-08-01T00:00:00Z"),
		ETA:        ts(t, eta),
		Status:     StatusDelivered,
		Milestones: NewMilestones(ts(t, "2025-08-01T00:00:00Z")),
	}
	if delivered != "" {
		d := ts(t, delivered)
		o.Milestones[len(o.Milestones)-1].TS = &d
	}
	return o
}
