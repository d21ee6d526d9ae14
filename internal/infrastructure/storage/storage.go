// Package storage implements domain.LocalStorage backends.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/glowadvisor/backend/internal/domain"
)

// Storage types accepted by Open
const (
	TypeMemory = "memory"
	TypeFile   = "file"
	TypeRedis  = "redis"
	TypeSQLite = "sqlite"
)

// Options selects and configures a backend
type Options struct {
	Type     string
	Path     string
	RedisURL string
	Prefix   string
	Timeout  time.Duration
}

// Open builds the configured backend. The returned close function is never nil.
func Open(ctx context.Context, opts Options) (domain.LocalStorage, func() error, error) {
	noop := func() error { return nil }

	switch opts.Type {
	case TypeMemory, "":
		return NewMemoryStorage(), noop, nil
	case TypeFile:
		s, err := NewFileStorage(opts.Path)
		if err != nil {
			return nil, noop, err
		}
		return s, noop, nil
	case TypeRedis:
		s, err := NewRedisStorage(ctx, opts.RedisURL, opts.Prefix, opts.Timeout)
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil
	case TypeSQLite:
		s, err := NewSQLiteStorage(ctx, opts.Path)
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil
	default:
		return nil, noop, fmt.Errorf("%w: unknown storage type %q", domain.ErrStorageUnavailable, opts.Type)
	}
}
