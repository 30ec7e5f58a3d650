package storage

import (
	"context"
	"fmt"
	"sync"
)

// MemoryBackend keeps collections in a map. Used by tests.
type MemoryBackend struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryBackend returns an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[string][]byte)}
}

// Ensure creates an empty collection if missing.
func (b *MemoryBackend) Ensure(_ context.Context, collection string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.data[collection]; !ok {
		b.data[collection] = append([]byte(nil), emptyCollection...)
	}
	return nil
}

// Load returns a copy of the stored array.
func (b *MemoryBackend) Load(_ context.Context, collection string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	data, ok := b.data[collection]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCollectionNotFound, collection)
	}
	return append([]byte(nil), data...), nil
}

// Save stores a copy of data.
func (b *MemoryBackend) Save(_ context.Context, collection string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data[collection] = append([]byte(nil), data...)
	return nil
}

// Ping always succeeds.
func (b *MemoryBackend) Ping(_ context.Context) error { return nil }

// Close is a no-op.
func (b *MemoryBackend) Close() error { return nil }
