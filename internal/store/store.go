package store

import (
	"context"
	"errors"
	"maps"
	"sync"
)

// ErrEmptyKey is returned when Delete is called without a key.
var ErrEmptyKey = errors.New("record key cannot be empty")

// Store persists a single authorization record as a flat key/value map.
//
// Each method is atomic on its own. Nothing spans several calls, so a
// read followed by a write may interleave with writes from elsewhere.
type Store interface {
	// All returns a copy of every persisted key. A missing record is an empty map.
	All(ctx context.Context) (map[string]any, error)
	// Set merges partial into the persisted record, overwriting existing keys.
	Set(ctx context.Context, partial map[string]any) error
	// Delete removes key from the persisted record. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// MemoryStore keeps the record in process memory. It is useful for tests and
// for one-shot commands that must not touch the user's config directory.
type MemoryStore struct {
	mu     sync.RWMutex
	record map[string]any
}

// NewMemoryStore creates a MemoryStore seeded with a copy of initial.
func NewMemoryStore(initial map[string]any) *MemoryStore {
	record := make(map[string]any, len(initial))
	maps.Copy(record, initial)
	return &MemoryStore{record: record}
}

func (m *MemoryStore) All(ctx context.Context) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return maps.Clone(m.record), nil
}

func (m *MemoryStore) Set(ctx context.Context, partial map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	maps.Copy(m.record, partial)
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.record, key)
	return nil
}
