// Package ratelimit provides a keyed token bucket limiter for outbound calls.
// Each upstream (Google Books, Spotify, the zero-shot endpoint) draws from its
// own bucket so one slow provider cannot starve the others.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limit describes a bucket: steady requests per second plus burst size.
type Limit struct {
	RPS   float64
	Burst int
}

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// KeyedRateLimiter manages per-key rate limiting.
// Keys without an override share the default Limit but never a bucket.
type KeyedRateLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*entry
	def       Limit
	overrides map[string]Limit
	idleTTL   time.Duration
	now       func() time.Time

	done     chan struct{}
	stopOnce sync.Once
}

// Option configures a KeyedRateLimiter.
type Option func(*KeyedRateLimiter)

// WithLimit overrides the bucket used for key.
func WithLimit(key string, l Limit) Option {
	return func(krl *KeyedRateLimiter) {
		krl.overrides[key] = l
	}
}

// WithIdleTTL sets how long an unused bucket survives before eviction.
func WithIdleTTL(d time.Duration) Option {
	return func(krl *KeyedRateLimiter) {
		krl.idleTTL = d
	}
}

// New creates a new keyed rate limiter.
// rps: requests per second allowed.
// burst: maximum burst size (tokens available immediately).
func New(rps float64, burst int, opts ...Option) *KeyedRateLimiter {
	krl := &KeyedRateLimiter{
		limiters:  make(map[string]*entry),
		def:       Limit{RPS: rps, Burst: burst},
		overrides: make(map[string]Limit),
		idleTTL:   10 * time.Minute,
		now:       time.Now,
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(krl)
	}

	go krl.cleanup()

	return krl
}

// Allow reports whether a call for key may proceed now, without blocking.
func (krl *KeyedRateLimiter) Allow(key string) bool {
	return krl.getLimiter(key).Allow()
}

// Wait blocks until a call for key is allowed or ctx is done.
func (krl *KeyedRateLimiter) Wait(ctx context.Context, key string) error {
	return krl.getLimiter(key).Wait(ctx)
}

// Len returns the number of live buckets.
func (krl *KeyedRateLimiter) Len() int {
	krl.mu.Lock()
	defer krl.mu.Unlock()
	return len(krl.limiters)
}

func (krl *KeyedRateLimiter) getLimiter(key string) *rate.Limiter {
	krl.mu.Lock()
	defer krl.mu.Unlock()

	e, ok := krl.limiters[key]
	if !ok {
		l, ok := krl.overrides[key]
		if !ok {
			l = krl.def
		}
		e = &entry{limiter: rate.NewLimiter(rate.Limit(l.RPS), l.Burst)}
		krl.limiters[key] = e
	}
	e.lastSeen = krl.now()
	return e.limiter
}

// Stop shuts down the cleanup goroutine. Safe to call more than once.
func (krl *KeyedRateLimiter) Stop() {
	krl.stopOnce.Do(func() {
		close(krl.done)
	})
}

// Shutdown implements do.Shutdowner.
func (krl *KeyedRateLimiter) Shutdown() error {
	krl.Stop()
	return nil
}

func (krl *KeyedRateLimiter) cleanup() {
	interval := krl.idleTTL / 2
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-krl.done:
			return
		case <-ticker.C:
			krl.evictIdle()
		}
	}
}

// evictIdle drops buckets that have not been used within idleTTL.
func (krl *KeyedRateLimiter) evictIdle() {
	krl.mu.Lock()
	defer krl.mu.Unlock()

	cutoff := krl.now().Add(-krl.idleTTL)
	for key, e := range krl.limiters {
		if e.lastSeen.Before(cutoff) {
			delete(krl.limiters, key)
		}
	}
}
