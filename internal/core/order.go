package core

import (
	"math"
	"time"
)

// Status is a stage in the fixed shipment process.
type Status string

const (
	StatusReceived  Status = "Received"
	StatusPicked    Status = "Picked"
	StatusPacked    Status = "Packed"
	StatusShipped   Status = "Shipped"
	StatusDelivered Status = "Delivered"
)

// StatusSequence is the ordered process every order moves through.
var StatusSequence = []Status{
	StatusReceived,
	StatusPicked,
	StatusPacked,
	StatusShipped,
	StatusDelivered,
}

// IsKnown reports whether s is one of the five process stages.
func (s Status) IsKnown() bool {
	for _, st := range StatusSequence {
		if st == s {
			return true
		}
	}
	return false
}

// InProgress reports whether an order in this status still counts as open work.
func (s Status) InProgress() bool {
	switch s {
	case StatusReceived, StatusPicked, StatusPacked, StatusShipped:
		return true
	}
	return false
}

// Milestone is a named stage with an optional completion time.
// A nil TS means the stage has not been reached.
type Milestone struct {
	Key Status     `json:"key"`
	TS  *time.Time `json:"ts"`
}

// File is an attached document. Only the name and a display size are tracked.
type File struct {
	Name string `json:"name"`
	Size string `json:"size"`
}

// Order is one shipment record.
type Order struct {
	ID         string      `json:"id"`
	Client     string      `json:"client"`
	Warehouse  string      `json:"warehouse"`
	CreatedAt  time.Time   `json:"createdAt"`
	ETA        time.Time   `json:"eta"`
	Items      int         `json:"items"`
	Status     Status      `json:"status"`
	Milestones []Milestone `json:"milestones"`
	Files      []File      `json:"files"`
}

// NewMilestones returns the five-entry milestone sequence with only
// Received stamped at receivedAt.
func NewMilestones(receivedAt time.Time) []Milestone {
	ms := make([]Milestone, len(StatusSequence))
	for i, st := range StatusSequence {
		ms[i] = Milestone{Key: st}
	}
	ts := receivedAt
	ms[0].TS = &ts
	return ms
}

// Milestone returns the timestamp recorded for the given stage, if any.
func (o Order) Milestone(key Status) (time.Time, bool) {
	for _, m := range o.Milestones {
		if m.Key == key && m.TS != nil {
			return *m.TS, true
		}
	}
	return time.Time{}, false
}

// Progress returns the share of reached milestones as a rounded percentage.
func (o Order) Progress() int {
	total := len(o.Milestones)
	if total == 0 {
		return 0
	}
	done := 0
	for _, m := range o.Milestones {
		if m.TS != nil {
			done++
		}
	}
	return roundHalfUp(float64(done) * 100 / float64(total))
}

// Clone returns a deep copy so callers can mutate without touching the store.
func (o Order) Clone() Order {
	c := o
	if o.Milestones != nil {
		c.Milestones = make([]Milestone, len(o.Milestones))
		for i, m := range o.Milestones {
			c.Milestones[i] = Milestone{Key: m.Key}
			if m.TS != nil {
				ts := *m.TS
				c.Milestones[i].TS = &ts
			}
		}
	}
	if o.Files != nil {
		c.Files = append([]File(nil), o.Files...)
	}
	return c
}

// TimelineEntry is one row of the status timeline shown on the detail view.
type TimelineEntry struct {
	Key     Status     `json:"key"`
	TS      *time.Time `json:"ts"`
	Reached bool       `json:"reached"`
	Current bool       `json:"current"`
}

// Timeline lays the milestones out in process order.
func (o Order) Timeline() []TimelineEntry {
	entries := make([]TimelineEntry, 0, len(o.Milestones))
	for _, m := range o.Milestones {
		entries = append(entries, TimelineEntry{
			Key:     m.Key,
			TS:      m.TS,
			Reached: m.TS != nil,
			Current: m.Key == o.Status,
		})
	}
	return entries
}

// roundHalfUp rounds .5 away from zero for positive values, matching the
// rounding used for every displayed percentage.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

// cloneOrders deep-copies a slice of orders.
func cloneOrders(orders []Order) []Order {
	out := make([]Order, len(orders))
	for i, o := range orders {
		out[i] = o.Clone()
	}
	return out
}
