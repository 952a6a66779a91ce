// Package ratelimit implements per-client token buckets.
package ratelimit

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type client struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64
}

// Limiter admits at most RequestsPerMinute requests per client identity, with bursts up to Burst.
// Buckets are created on first use and dropped after IdleTTL without traffic.
type Limiter struct {
	clients sync.Map
	limit   rate.Limit
	burst   int
	idleTTL time.Duration
	window  time.Duration
	now     func() time.Time
	log     *zap.Logger
}

func NewLimiter(requestsPerMinute, burst int, idleTTL time.Duration, log *zap.Logger) *Limiter {
	return &Limiter{
		limit:   rate.Limit(float64(requestsPerMinute) / time.Minute.Seconds()),
		burst:   burst,
		idleTTL: idleTTL,
		window:  time.Minute,
		now:     time.Now,
		log:     log,
	}
}

// Allow consumes one token for identity. When no token is available it returns
// false and how long the client should wait before retrying.
func (l *Limiter) Allow(identity string) (bool, time.Duration) {
	now := l.now()
	c := l.client(identity, now)
	c.lastSeen.Store(now.UnixNano())

	reservation := c.limiter.ReserveN(now, 1)
	if !reservation.OK() {
		return false, l.window
	}

	delay := reservation.DelayFrom(now)
	if delay > 0 {
		reservation.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// Window is the period the configured request count applies to
func (l *Limiter) Window() time.Duration {
	return l.window
}

// Sweep drops buckets idle for longer than the idle TTL and returns how many were removed
func (l *Limiter) Sweep() int {
	cutoff := l.now().Add(-l.idleTTL).UnixNano()
	removed := 0

	l.clients.Range(func(key, value interface{}) bool {
		if value.(*client).lastSeen.Load() < cutoff {
			l.clients.Delete(key)
			removed++
		}
		return true
	})
	return removed
}

// Run sweeps idle buckets every interval until ctx is cancelled
func (l *Limiter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := l.Sweep(); removed > 0 {
				l.log.Debug("Swept idle rate limit buckets", zap.Int("removed", removed))
			}
		}
	}
}

func (l *Limiter) client(identity string, now time.Time) *client {
	if existing, ok := l.clients.Load(identity); ok {
		return existing.(*client)
	}

	fresh := &client{limiter: rate.NewLimiter(l.limit, l.burst)}
	fresh.lastSeen.Store(now.UnixNano())
	actual, _ := l.clients.LoadOrStore(identity, fresh)
	return actual.(*client)
}
