package storage

import (
	"context"
	"sync"
)

// MemorySlot keeps the value in process memory. Nothing survives a restart.
type MemorySlot struct {
	mu   sync.RWMutex
	data []byte
	set  bool
}

// NewMemorySlot returns an empty in-memory slot.
func NewMemorySlot() *MemorySlot {
	return &MemorySlot{}
}

func (m *MemorySlot) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.set {
		return nil, ErrSlotEmpty
	}
	return append([]byte(nil), m.data...), nil
}

func (m *MemorySlot) Save(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	m.data = append([]byte(nil), data...)
	m.set = true
	m.mu.Unlock()
	return nil
}

func (m *MemorySlot) Close() error { return nil }
