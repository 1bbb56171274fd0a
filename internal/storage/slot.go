// Package storage persists the order list as a single opaque value under a
// key. Every backend implements Slot; Open picks one from configuration.
package storage

import (
	"context"
	"errors"
)

// ErrSlotEmpty is returned by Load when nothing has been saved yet.
var ErrSlotEmpty = errors.New("slot is empty")

// Slot holds one serialized value.
type Slot interface {
	// Load returns the last saved value, or ErrSlotEmpty.
	Load(ctx context.Context) ([]byte, error)

	// Save replaces the stored value.
	Save(ctx context.Context, data []byte) error

	// Close releases any connection held by the slot.
	Close() error
}
