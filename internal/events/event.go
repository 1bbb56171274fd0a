// Package events announces committed order changes to other systems.
package events

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event types.
const (
	TypeShipped  = "order.shipped"
	TypeDeleted  = "order.deleted"
	TypeImported = "order.imported"
	TypeReset    = "order.reset"
)

// Event describes one committed change to the order list.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OrderIDs   []string  `json:"orderIds"`
	Status     string    `json:"status,omitempty"`
	Count      int       `json:"count"`
	Actor      string    `json:"actor,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// New builds an event with a fresh id. ids are sorted so payloads are stable.
func New(typ string, ids []string, status string, at time.Time) Event {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	return Event{
		ID:         uuid.NewString(),
		Type:       typ,
		OrderIDs:   sorted,
		Status:     status,
		Count:      len(sorted),
		OccurredAt: at.UTC(),
	}
}

// Publisher delivers events. Publish must not be called after Close.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Noop discards every event.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
func (Noop) Close() error                         { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, e Event) error {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
	return nil
}

func (r *Recorder) Close() error { return nil }

// Events returns a copy of everything published so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}
