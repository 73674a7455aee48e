package testutils

import (
	"context"
	"sync"

	"github.com/aaravmahajanofficial/storefront/internal/storage"
)

// MemoryStore is an in-memory storage.Store with injectable failures.
type MemoryStore struct {
	mu        sync.Mutex
	data      map[string][]byte
	LoadErr   error
	SaveErr   error
	DeleteErr error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string][]byte{}}
}

func (m *MemoryStore) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.LoadErr != nil {
		return nil, m.LoadErr
	}

	v, ok := m.data[key]
	if !ok {
		return nil, storage.ErrNotFound
	}

	return append([]byte{}, v...), nil
}

func (m *MemoryStore) Save(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SaveErr != nil {
		return m.SaveErr
	}

	m.data[key] = append([]byte{}, value...)
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.DeleteErr != nil {
		return m.DeleteErr
	}

	if _, ok := m.data[key]; !ok {
		return storage.ErrNotFound
	}

	delete(m.data, key)
	return nil
}

func (m *MemoryStore) Close() error { return nil }

// Get returns the raw value under key, if any.
func (m *MemoryStore) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.data[key]
	return v, ok
}

// Set seeds key with value.
func (m *MemoryStore) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = append([]byte{}, value...)
}
