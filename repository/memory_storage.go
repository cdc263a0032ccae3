package repository

import (
	"context"
	"sync"

	"storefront/models"
)

// MemoryStorage is an in-memory implementation of StorageInterface.
// Values are lost when the process exits.
type MemoryStorage struct {
	mu     sync.RWMutex
	items  map[string]string
	closed bool
}

// NewMemoryStorage creates a new in-memory storage
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		items: make(map[string]string),
	}
}

// Ensure MemoryStorage implements StorageInterface
var _ StorageInterface = (*MemoryStorage)(nil)

// GetItem retrieves a value from memory
func (m *MemoryStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return "", false, models.ErrStorageClosed
	}
	value, ok := m.items[key]
	return value, ok, nil
}

// SetItem stores a value in memory
func (m *MemoryStorage) SetItem(ctx context.Context, key string, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return models.ErrStorageClosed
	}
	m.items[key] = value
	return nil
}

// RemoveItem deletes a value from memory
func (m *MemoryStorage) RemoveItem(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return models.ErrStorageClosed
	}
	delete(m.items, key)
	return nil
}

// Close marks the storage unusable
func (m *MemoryStorage) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
