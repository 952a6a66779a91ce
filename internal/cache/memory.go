package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

type memoryItem struct {
	value      []byte
	expiration int64
}

// MemoryBackend is an in-process Backend with per-entry expiry and a size bound
type MemoryBackend struct {
	items   map[string]memoryItem
	mu      sync.RWMutex
	maxSize int
	now     func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

// NewMemoryBackend creates a memory backend holding at most maxSize entries
// and sweeping expired entries every cleanupInterval
func NewMemoryBackend(maxSize int, cleanupInterval time.Duration) *MemoryBackend {
	b := &MemoryBackend{
		items:   make(map[string]memoryItem),
		maxSize: maxSize,
		now:     time.Now,
		stop:    make(chan struct{}),
	}

	if cleanupInterval > 0 {
		go b.cleanup(cleanupInterval)
	}

	return b
}

func (b *MemoryBackend) Get(_ context.Context, key string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	item, exists := b.items[key]
	if !exists || b.now().UnixNano() > item.expiration {
		return nil, ErrMiss
	}

	return item.value, nil
}

func (b *MemoryBackend) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.items[key]; !exists && b.maxSize > 0 && len(b.items) >= b.maxSize {
		b.evictLocked()
	}

	stored := make([]byte, len(value))
	copy(stored, value)

	b.items[key] = memoryItem{
		value:      stored,
		expiration: b.now().Add(ttl).UnixNano(),
	}
	return nil
}

func (b *MemoryBackend) DeleteByPrefix(_ context.Context, prefix string) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	removed := 0
	for key := range b.items {
		if strings.HasPrefix(key, prefix) {
			delete(b.items, key)
			removed++
		}
	}
	return removed, nil
}

func (b *MemoryBackend) Ping(_ context.Context) error {
	return nil
}

func (b *MemoryBackend) Name() string {
	return "memory"
}

// Len returns the number of stored entries, expired or not
func (b *MemoryBackend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.items)
}

func (b *MemoryBackend) Close() error {
	b.stopOnce.Do(func() { close(b.stop) })
	return nil
}

// evictLocked drops expired entries, or the entry closest to expiry when none have expired
func (b *MemoryBackend) evictLocked() {
	now := b.now().UnixNano()
	b.removeExpiredLocked(now)
	if len(b.items) < b.maxSize {
		return
	}

	var victim string
	var earliest int64
	for key, item := range b.items {
		if victim == "" || item.expiration < earliest {
			victim = key
			earliest = item.expiration
		}
	}
	delete(b.items, victim)
}

func (b *MemoryBackend) removeExpiredLocked(now int64) {
	for key, item := range b.items {
		if now > item.expiration {
			delete(b.items, key)
		}
	}
}

func (b *MemoryBackend) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-b.stop:
			return
		case <-ticker.C:
			b.mu.Lock()
			b.removeExpiredLocked(b.now().UnixNano())
			b.mu.Unlock()
		}
	}
}
