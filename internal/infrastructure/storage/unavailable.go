package storage

import (
	"context"

	"github.com/glowadvisor/backend/internal/domain"
)

// Unavailable is the storage used when no backend could be opened. Every call
// fails with domain.ErrStorageUnavailable so callers degrade to in-memory state.
type Unavailable struct {
	Reason error
}

func (u Unavailable) err() error {
	if u.Reason != nil {
		return u.Reason
	}
	return domain.ErrStorageUnavailable
}

func (u Unavailable) GetItem(ctx context.Context, key string) (string, error) { return "", u.err() }

func (u Unavailable) SetItem(ctx context.Context, key, value string) error { return u.err() }

func (u Unavailable) RemoveItem(ctx context.Context, key string) error { return u.err() }
