// internal/store/memory.go
//
// In-memory session store.
// Holds live sessions (human games, bot sessions, versus matches) keyed by ID
// for the lifetime of the process. Nothing here survives a restart.
//
// Characteristics:
//   - Generic over any value that reports its own key.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Get returns ErrNotFound for missing IDs.
//   - Prune evicts stale sessions; callers decide what stale means.

package store

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned by Get for unknown keys.
var ErrNotFound = errors.New("not found")

// Keyed is implemented by values a Store can hold.
type Keyed interface {
	Key() string
}

// Store defines the persistence interface for live sessions.
type Store[T Keyed] interface {
	// Save persists or updates a session.
	Save(ctx context.Context, v T) error

	// Get retrieves a session by key.
	Get(ctx context.Context, key string) (T, error)

	// Prune drops every session for which expired returns true and
	// reports how many were dropped.
	Prune(ctx context.Context, expired func(T) bool) int
}

// memory is an in-memory map-based Store implementation.
type memory[T Keyed] struct {
	mu    sync.RWMutex // guards items
	items map[string]T
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore[T Keyed]() Store[T] {
	return &memory[T]{items: make(map[string]T)}
}

func (m *memory[T]) Save(ctx context.Context, v T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[v.Key()] = v
	return nil
}

func (m *memory[T]) Get(ctx context.Context, key string) (T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.items[key]; ok {
		return v, nil
	}
	var zero T
	return zero, ErrNotFound
}

func (m *memory[T]) Prune(ctx context.Context, expired func(T) bool) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k, v := range m.items {
		if expired(v) {
			delete(m.items, k)
			n++
		}
	}
	return n
}
