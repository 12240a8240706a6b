package store

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store. It is the default backend and
// the test double for everything that consumes the Store capability.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

// Get implements Store.
func (m *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	value, ok := m.data[key]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

// Set implements Store.
func (m *MemoryStore) Set(ctx context.Context, key string, value []byte) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	m.mu.Lock()
	m.data[key] = stored
	m.mu.Unlock()
	return nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}

// Keys implements Store.
func (m *MemoryStore) Keys(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	keys := make([]string, 0, len(m.data))
	for key := range m.data {
		keys = append(keys, key)
	}
	m.mu.RUnlock()
	return keys, nil
}

// Clear implements Store.
func (m *MemoryStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	m.data = make(map[string][]byte)
	m.mu.Unlock()
	return nil
}
