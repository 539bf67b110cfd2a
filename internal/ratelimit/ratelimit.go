// Package ratelimit implements the process-wide, in-process token-bucket
// admission control guarding the ingest surface.
//
// This is deliberately NOT backed by Redis: admission decisions happen at
// per-packet, microsecond scale and a network round-trip would defeat the
// purpose. See DESIGN.md for the full rationale.
package ratelimit

import (
	"sync"
	"time"

	"github.com/aryorithm/blackbox/internal/model"
)

// Limiter is a mutex-guarded, keyed set of token buckets.
type Limiter struct {
	mu             sync.Mutex
	buckets        map[string]*model.TokenBucket
	refillRate     float64
	maxBurst       float64
	evictionHorizon time.Duration
	now            func() time.Time
}

// New creates a Limiter with the given refill rate (tokens/sec) and max
// burst capacity.
func New(refillRate, maxBurst float64) *Limiter {
	return &Limiter{
		buckets:         make(map[string]*model.TokenBucket),
		refillRate:      refillRate,
		maxBurst:        maxBurst,
		evictionHorizon: 10 * 300 * time.Second,
		now:             time.Now,
	}
}

// ShouldAllow consumes one token for source, creating a fresh bucket
// pre-filled to max burst on first contact. Returns true if the request is
// admitted.
func (l *Limiter) ShouldAllow(source string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	bucket, ok := l.buckets[source]
	if !ok {
		bucket = &model.TokenBucket{
			Tokens:     l.maxBurst,
			MaxBurst:   l.maxBurst,
			RefillRate: l.refillRate,
			LastRefill: now,
		}
		l.buckets[source] = bucket
	}

	elapsed := now.Sub(bucket.LastRefill).Seconds()
	if elapsed > 0 {
		bucket.Tokens += elapsed * bucket.RefillRate
		if bucket.Tokens > bucket.MaxBurst {
			bucket.Tokens = bucket.MaxBurst
		}
		bucket.LastRefill = now
	}

	if bucket.Tokens >= 1.0 {
		bucket.Tokens -= 1.0
		return true
	}
	return false
}

// Cleanup removes buckets idle longer than the eviction horizon (default
// 10x the alert cooldown window) to bound memory.
func (l *Limiter) Cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for source, bucket := range l.buckets {
		if now.Sub(bucket.LastRefill) > l.evictionHorizon {
			delete(l.buckets, source)
		}
	}
}

// Len returns the number of tracked sources, for tests and introspection.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}
