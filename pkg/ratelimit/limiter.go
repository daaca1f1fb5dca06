package ratelimit

import (
	"sync"
	"time"

	"trade-journal/pkg/cache"

	"golang.org/x/time/rate"
)

// LimiterStore hands out one token bucket per key. Buckets idle for longer
// than the TTL are evicted, so unknown keys cannot grow the store forever.
type LimiterStore struct {
	limiters cache.Cache
	mu       sync.Mutex
	r        rate.Limit
	burst    int
	ttl      time.Duration
}

func NewLimiterStore(r rate.Limit, burst int, ttl time.Duration) *LimiterStore {
	return &LimiterStore{
		limiters: cache.NewCache(ttl, ttl),
		r:        r,
		burst:    burst,
		ttl:      ttl,
	}
}

// PerMinute builds a store allowing n events per minute per key, bursting up to n.
// An idle bucket refills completely within a minute, so that is its TTL.
func PerMinute(n int) *LimiterStore {
	return NewLimiterStore(rate.Limit(float64(n)/60.0), n, time.Minute)
}

func (s *LimiterStore) GetLimiter(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	limiter, ok := cache.GetFromCache[*rate.Limiter](s.limiters, key)
	if !ok {
		limiter = rate.NewLimiter(s.r, s.burst)
	}
	// every access pushes the expiry back
	s.limiters.Set(key, limiter, s.ttl)
	return limiter
}

// Allow reports whether an event for key may happen now.
func (s *LimiterStore) Allow(key string) bool {
	return s.GetLimiter(key).Allow()
}

// Forget drops the bucket for key.
func (s *LimiterStore) Forget(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limiters.Delete(key)
}
