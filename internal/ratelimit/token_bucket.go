package ratelimit

import (
	"sync"
	"time"
)

// TokenBucket implements a per-key token bucket rate limiter held in
// process memory. The state is one bucket per client key; buckets refill
// continuously at refill tokens per second up to capacity.
type TokenBucket struct {
	mu       sync.Mutex
	buckets  map[string]*bucket
	capacity int
	refill   float64 // tokens per second
	nowFn    func() time.Time
}

type bucket struct {
	tokens float64
	last   time.Time
}

// NewTokenBucket constructs a bucket set with the provided capacity/refill.
func NewTokenBucket(capacity int, refillPerSecond float64) *TokenBucket {
	return &TokenBucket{
		buckets:  make(map[string]*bucket),
		capacity: capacity,
		refill:   refillPerSecond,
		nowFn:    time.Now,
	}
}

// Allow consumes a single token for the given key if available.
// Returns allowed flag and current token count.
func (b *TokenBucket) Allow(key string) (bool, float64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.nowFn()
	st, ok := b.buckets[key]
	if !ok {
		st = &bucket{tokens: float64(b.capacity), last: now}
		b.buckets[key] = st
	}

	delta := now.Sub(st.last).Seconds()
	if delta > 0 {
		st.tokens = min(float64(b.capacity), st.tokens+delta*b.refill)
		st.last = now
	}

	if st.tokens >= 1 {
		st.tokens--
		return true, st.tokens
	}
	return false, st.tokens
}
