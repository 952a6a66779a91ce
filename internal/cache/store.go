package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/BarkinBalci/churn-prediction-service/internal/domain"
	"github.com/BarkinBalci/churn-prediction-service/internal/dto"
)

// Stats is a point-in-time view of cache effectiveness
type Stats struct {
	Enabled bool
	Backend string
	Hits    uint64
	Misses  uint64
	Errors  uint64
}

// HitRate returns hits over all lookups that reached the backend
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses + s.Errors
	if total == 0 {
		return 0.0
	}
	return float64(s.Hits) / float64(total)
}

// Store caches predictions keyed by the fingerprint of their input features.
// Backend failures never reach the caller: reads degrade to a miss and writes are skipped.
type Store struct {
	backend Backend
	ttl     time.Duration
	timeout time.Duration
	log     *zap.Logger

	hits   atomic.Uint64
	misses atomic.Uint64
	errors atomic.Uint64
}

// NewStore creates a store over backend. A nil backend yields a disabled store.
func NewStore(backend Backend, ttl, timeout time.Duration, log *zap.Logger) *Store {
	return &Store{
		backend: backend,
		ttl:     ttl,
		timeout: timeout,
		log:     log,
	}
}

// NewDisabledStore creates a store that always misses
func NewDisabledStore(log *zap.Logger) *Store {
	return NewStore(nil, 0, 0, log)
}

// Enabled reports whether a backend is configured
func (s *Store) Enabled() bool {
	return s.backend != nil
}

// Get returns the cached prediction for features, if any
func (s *Store) Get(ctx context.Context, features *dto.CustomerFeatures) (*domain.CachedPrediction, bool) {
	if !s.Enabled() {
		return nil, false
	}

	key, err := Key(features)
	if err != nil {
		s.log.Error("Failed to compute cache key", zap.Error(err))
		return nil, false
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	raw, err := s.backend.Get(ctx, key)
	if errors.Is(err, ErrMiss) {
		s.misses.Add(1)
		s.log.Debug("Cache miss", zap.String("key", shortKey(key)))
		return nil, false
	}
	if err != nil {
		s.errors.Add(1)
		s.log.Warn("Cache degraded, falling back to model",
			zap.String("backend", s.backend.Name()),
			zap.String("key", shortKey(key)),
			zap.Error(err))
		return nil, false
	}

	var cached domain.CachedPrediction
	if err := json.Unmarshal(raw, &cached); err != nil {
		s.errors.Add(1)
		s.log.Warn("Discarding undecodable cache entry",
			zap.String("key", shortKey(key)),
			zap.Error(err))
		return nil, false
	}

	s.hits.Add(1)
	s.log.Debug("Cache hit", zap.String("key", shortKey(key)))
	return &cached, true
}

// Put stores a prediction for features. Failures are logged and otherwise ignored.
func (s *Store) Put(ctx context.Context, features *dto.CustomerFeatures, prediction domain.CachedPrediction) {
	if !s.Enabled() {
		return
	}

	key, err := Key(features)
	if err != nil {
		s.log.Error("Failed to compute cache key", zap.Error(err))
		return
	}

	raw, err := json.Marshal(prediction)
	if err != nil {
		s.log.Error("Failed to marshal cache entry", zap.Error(err))
		return
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.backend.Set(ctx, key, raw, s.ttl); err != nil {
		s.errors.Add(1)
		s.log.Warn("Cache degraded, skipping write",
			zap.String("backend", s.backend.Name()),
			zap.String("key", shortKey(key)),
			zap.Error(err))
		return
	}

	s.log.Debug("Cached prediction", zap.String("key", shortKey(key)), zap.Duration("ttl", s.ttl))
}

// InvalidateAll removes every cached prediction
func (s *Store) InvalidateAll(ctx context.Context) (int, error) {
	if !s.Enabled() {
		return 0, nil
	}

	removed, err := s.backend.DeleteByPrefix(ctx, KeyPrefix)
	if err != nil {
		s.log.Error("Failed to invalidate cache",
			zap.String("backend", s.backend.Name()),
			zap.Int("removed", removed),
			zap.Error(err))
		return removed, err
	}

	s.log.Info("Cleared cached predictions", zap.Int("removed", removed))
	return removed, nil
}

// Ping checks backend reachability; a disabled store is always reachable
func (s *Store) Ping(ctx context.Context) error {
	if !s.Enabled() {
		return nil
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.backend.Ping(ctx)
}

// Stats returns hit/miss/error counters
func (s *Store) Stats() Stats {
	stats := Stats{
		Enabled: s.Enabled(),
		Hits:    s.hits.Load(),
		Misses:  s.misses.Load(),
		Errors:  s.errors.Load(),
	}
	if s.Enabled() {
		stats.Backend = s.backend.Name()
	}
	return stats
}

// Close releases the backend
func (s *Store) Close() error {
	if !s.Enabled() {
		return nil
	}
	return s.backend.Close()
}

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func shortKey(key string) string {
	if len(key) > len(KeyPrefix)+16 {
		return key[:len(KeyPrefix)+16]
	}
	return key
}
