package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/glowadvisor/backend/internal/domain"
)

// DefaultSelectionKey is the storage key holding the serialized selection
const DefaultSelectionKey = "selectedProducts"

// DefaultPersistTimeout bounds a single storage write
const DefaultPersistTimeout = 5 * time.Second

// SelectionStoreConfig holds configuration for the selection store
type SelectionStoreConfig struct {
	StorageKey     string
	PersistTimeout time.Duration
	Logger         *slog.Logger
}

// SelectionStore is the ordered, duplicate-free list of selected products.
// Every mutation is written through to storage before it returns, then
// observers registered with OnChange are notified.
type SelectionStore struct {
	mu       sync.RWMutex
	items    []domain.Product
	storage  domain.LocalStorage
	key      string
	timeout  time.Duration
	logger   *slog.Logger
	watchers []func([]domain.Product)
}

// NewSelectionStore creates an empty store backed by storage. Call Restore
// once at startup to load previously persisted state.
func NewSelectionStore(storage domain.LocalStorage, config SelectionStoreConfig) *SelectionStore {
	key := config.StorageKey
	if key == "" {
		key = DefaultSelectionKey
	}
	timeout := config.PersistTimeout
	if timeout <= 0 {
		timeout = DefaultPersistTimeout
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &SelectionStore{
		items:   []domain.Product{},
		storage: storage,
		key:     key,
		timeout: timeout,
		logger:  logger.With("component", "selection"),
	}
}

// OnChange registers fn to be called with a snapshot after every mutation
func (s *SelectionStore) OnChange(fn func([]domain.Product)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watchers = append(s.watchers, fn)
}

// Restore replaces the in-memory selection with the persisted one. A missing
// key, an unavailable storage, or unparseable content all yield an empty
// selection.
func (s *SelectionStore) Restore(ctx context.Context) {
	s.mu.Lock()

	s.items = []domain.Product{}
	raw, err := s.storage.GetItem(ctx, s.key)
	switch {
	case errors.Is(err, domain.ErrStorageKeyNotFound):
		s.logger.Debug("no persisted selection")
	case err != nil:
		s.logger.Warn("storage is not available, selection will not persist", "error", err)
	default:
		var restored []domain.Product
		if err := json.Unmarshal([]byte(raw), &restored); err != nil {
			s.logger.Warn("persisted selection is unreadable, starting empty", "error", err)
			break
		}
		for _, p := range restored {
			if indexOf(s.items, p.Key()) < 0 {
				s.items = append(s.items, p)
			}
		}
		s.logger.Info("selection restored", "count", len(s.items))
	}

	snapshot, watchers := s.snapshotLocked()
	s.mu.Unlock()
	notify(watchers, snapshot)
}

// Add appends product unless an entry with the same key exists. It reports
// whether the selection changed.
func (s *SelectionStore) Add(ctx context.Context, product domain.Product) bool {
	return s.mutate(ctx, func(items []domain.Product) ([]domain.Product, bool) {
		if indexOf(items, product.Key()) >= 0 {
			return items, false
		}
		return append(items, product), true
	})
}

// Remove deletes the entry with key. It reports whether the selection changed.
func (s *SelectionStore) Remove(ctx context.Context, key domain.ProductKey) bool {
	return s.mutate(ctx, func(items []domain.Product) ([]domain.Product, bool) {
		i := indexOf(items, key)
		if i < 0 {
			return items, false
		}
		return deleteAt(items, i), true
	})
}

// RemoveAt deletes the entry at index and returns it
func (s *SelectionStore) RemoveAt(ctx context.Context, index int) (domain.Product, error) {
	var removed domain.Product
	var err error
	s.mutate(ctx, func(items []domain.Product) ([]domain.Product, bool) {
		if index < 0 || index >= len(items) {
			err = fmt.Errorf("%w: %d (selection has %d items)", domain.ErrSelectionIndex, index, len(items))
			return items, false
		}
		removed = items[index]
		return deleteAt(items, index), true
	})
	return removed, err
}

// Toggle adds product if absent and removes it if present. It returns true
// when the product is selected afterwards.
func (s *SelectionStore) Toggle(ctx context.Context, product domain.Product) bool {
	selected := false
	s.mutate(ctx, func(items []domain.Product) ([]domain.Product, bool) {
		if i := indexOf(items, product.Key()); i >= 0 {
			return deleteAt(items, i), true
		}
		selected = true
		return append(items, product), true
	})
	return selected
}

// Clear empties the selection. The empty state is persisted even when the
// selection was already empty.
func (s *SelectionStore) Clear(ctx context.Context) {
	s.mutate(ctx, func(items []domain.Product) ([]domain.Product, bool) {
		return []domain.Product{}, true
	})
}

// Persist writes the current selection to storage. Failures are logged and
// returned; the in-memory state is kept either way.
func (s *SelectionStore) Persist(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.persistLocked(ctx)
}

// Contains reports whether a product with key is selected
func (s *SelectionStore) Contains(key domain.ProductKey) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return indexOf(s.items, key) >= 0
}

// Items returns a copy of the selection in order
func (s *SelectionStore) Items() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Product{}, s.items...)
}

// Len returns the number of selected products
func (s *SelectionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// mutate applies fn under the lock; when fn reports a change the result is
// persisted and observers are notified after the lock is released.
func (s *SelectionStore) mutate(ctx context.Context, fn func([]domain.Product) ([]domain.Product, bool)) bool {
	s.mu.Lock()
	items, changed := fn(s.items)
	if !changed {
		s.mu.Unlock()
		return false
	}
	s.items = items
	_ = s.persistLocked(ctx)
	snapshot, watchers := s.snapshotLocked()
	s.mu.Unlock()

	notify(watchers, snapshot)
	return true
}

// persistLocked writes the selection detached from ctx cancellation: the
// in-memory change is already committed, so storage must follow it even when
// the caller has gone away.
func (s *SelectionStore) persistLocked(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	items := s.items
	if items == nil {
		items = []domain.Product{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode selection: %w", err)
	}
	if err := s.storage.SetItem(ctx, s.key, string(data)); err != nil {
		s.logger.Warn("failed to persist selection", "key", s.key, "error", err)
		return err
	}
	return nil
}

func (s *SelectionStore) snapshotLocked() ([]domain.Product, []func([]domain.Product)) {
	snapshot := append([]domain.Product{}, s.items...)
	watchers := append([]func([]domain.Product){}, s.watchers...)
	return snapshot, watchers
}

func notify(watchers []func([]domain.Product), snapshot []domain.Product) {
	for _, fn := range watchers {
		fn(snapshot)
	}
}

func indexOf(items []domain.Product, key domain.ProductKey) int {
	for i, p := range items {
		if p.Key() == key {
			return i
		}
	}
	return -1
}

// deleteAt returns a new slice without element i, leaving the input untouched
func deleteAt(items []domain.Product, i int) []domain.Product {
	out := make([]domain.Product, 0, len(items)-1)
	out = append(out, items[:i]...)
	return append(out, items[i+1:]...)
}
