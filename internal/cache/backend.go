package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by a Backend when the key is absent or expired
var ErrMiss = errors.New("cache miss")

// Backend is a key/value store with TTL semantics
type Backend interface {
	// Get returns ErrMiss when key is absent
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key for ttl
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// DeleteByPrefix removes every key starting with prefix and returns how many were removed
	DeleteByPrefix(ctx context.Context, prefix string) (int, error)

	// Ping checks that the backend is reachable
	Ping(ctx context.Context) error

	// Name identifies the backend in logs and stats
	Name() string

	// Close releases backend resources
	Close() error
}
