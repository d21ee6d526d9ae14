package storage

import (
	"context"
	"sync"

	"github.com/glowadvisor/backend/internal/domain"
)

// MemoryStorage is a thread-safe in-memory key/value store. State is lost
// when the process exits.
type MemoryStorage struct {
	data  map[string]string
	mutex sync.RWMutex
}

// NewMemoryStorage creates an empty in-memory storage
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		data: make(map[string]string),
	}
}

// GetItem retrieves a value by key
func (s *MemoryStorage) GetItem(ctx context.Context, key string) (string, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	value, exists := s.data[key]
	if !exists {
		return "", domain.ErrStorageKeyNotFound
	}
	return value, nil
}

// SetItem stores a value under key, replacing any previous value
func (s *MemoryStorage) SetItem(ctx context.Context, key, value string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.data[key] = value
	return nil
}

// RemoveItem deletes a key. Removing a missing key is not an error.
func (s *MemoryStorage) RemoveItem(ctx context.Context, key string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	delete(s.data, key)
	return nil
}
