package core

// store.go holds the authoritative order list.
//
// Every mutation runs under the write lock, then the committed list is handed
// to the on-commit hook (persistence) and change subscribers are notified.
// Readers always receive deep copies, so nothing outside the store can
// change an order in place.

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// CommitFunc is called with the full committed list after every mutation.
type CommitFunc func(ctx context.Context, orders []Order) error

// Store is the in-memory order list.
type Store struct {
	mu     sync.RWMutex
	orders []Order

	onCommit CommitFunc

	listenerMu sync.Mutex
	listeners  map[int]chan struct{}
	nextID     int
}

// NewStore creates a store holding a copy of orders.
func NewStore(orders []Order) *Store {
	return &Store{
		orders:    cloneOrders(orders),
		listeners: make(map[int]chan struct{}),
	}
}

// OnCommit installs the hook run after each mutation.
func (s *Store) OnCommit(fn CommitFunc) {
	s.mu.Lock()
	s.onCommit = fn
	s.mu.Unlock()
}

// All returns a copy of every order in store order.
func (s *Store) All() []Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneOrders(s.orders)
}

// Len returns the number of orders.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orders)
}

// Get returns the order with the given id.
func (s *Store) Get(id string) (Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.orders {
		if o.ID == id {
			return o.Clone(), nil
		}
	}
	return Order{}, fmt.Errorf("%w: %s", ErrOrderNotFound, id)
}

// Prepend adds orders to the front of the list, keeping their given order.
func (s *Store) Prepend(ctx context.Context, orders ...Order) error {
	if len(orders) == 0 {
		return nil
	}
	return s.mutate(ctx, func(cur []Order) ([]Order, bool) {
		next := make([]Order, 0, len(cur)+len(orders))
		next = append(next, cloneOrders(orders)...)
		next = append(next, cur...)
		return next, true
	})
}

// Add appends orders to the end of the list.
func (s *Store) Add(ctx context.Context, orders ...Order) error {
	if len(orders) == 0 {
		return nil
	}
	return s.mutate(ctx, func(cur []Order) ([]Order, bool) {
		return append(cur, cloneOrders(orders)...), true
	})
}

// Remove deletes every order whose id is in ids and reports how many went.
func (s *Store) Remove(ctx context.Context, ids map[string]bool) (int, error) {
	removed := 0
	err := s.mutate(ctx, func(cur []Order) ([]Order, bool) {
		next := make([]Order, 0, len(cur))
		for _, o := range cur {
			if ids[o.ID] {
				removed++
				continue
			}
			next = append(next, o)
		}
		return next, removed > 0
	})
	return removed, err
}

// UpdateWhere applies fn to every order whose id is in ids.
func (s *Store) UpdateWhere(ctx context.Context, ids map[string]bool, fn func(*Order)) (int, error) {
	updated := 0
	err := s.mutate(ctx, func(cur []Order) ([]Order, bool) {
		for i := range cur {
			if ids[cur[i].ID] {
				fn(&cur[i])
				updated++
			}
		}
		return cur, updated > 0
	})
	return updated, err
}

// Update applies fn to a single order.
func (s *Store) Update(ctx context.Context, id string, fn func(*Order)) error {
	n, err := s.UpdateWhere(ctx, map[string]bool{id: true}, fn)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrOrderNotFound, id)
	}
	return nil
}

// Replace swaps the whole list.
func (s *Store) Replace(ctx context.Context, orders []Order) error {
	return s.mutate(ctx, func([]Order) ([]Order, bool) {
		return cloneOrders(orders), true
	})
}

// mutate runs fn under the write lock. When fn reports a change, the new list
// is committed and listeners are notified. The hook error is returned, but
// the in-memory change stands.
func (s *Store) mutate(ctx context.Context, fn func([]Order) ([]Order, bool)) error {
	s.mu.Lock()
	next, changed := fn(s.orders)
	if !changed {
		s.mu.Unlock()
		return nil
	}
	s.orders = next
	snapshot := cloneOrders(next)
	hook := s.onCommit
	s.mu.Unlock()

	var err error
	if hook != nil {
		err = hook(ctx, snapshot)
	}
	s.notify()
	return err
}

// Subscribe returns a channel that receives a signal after each commit and a
// function to stop listening. Signals coalesce when the reader is slow.
func (s *Store) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	s.listenerMu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = ch
	s.listenerMu.Unlock()

	return ch, func() {
		s.listenerMu.Lock()
		if c, ok := s.listeners[id]; ok {
			delete(s.listeners, id)
			close(c)
		}
		s.listenerMu.Unlock()
	}
}

func (s *Store) notify() {
	s.listenerMu.Lock()
	defer s.listenerMu.Unlock()
	for _, ch := range s.listeners {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// MarshalOrders encodes the list in the persisted JSON layout.
func MarshalOrders(orders []Order) ([]byte, error) {
	if orders == nil {
		orders = []Order{}
	}
	return json.Marshal(orders)
}

// UnmarshalOrders decodes the persisted JSON layout.
func UnmarshalOrders(data []byte) ([]Order, error) {
	var orders []Order
	if err := json.Unmarshal(data, &orders); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return orders, nil
}
