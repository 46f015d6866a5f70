package memory

import (
	"context"
	"math"
	"sync"
	"time"

	"bank-simulator/internal/core/ports"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// RateLimitStore implements ports.RateLimitStore with one token bucket per key.
// A bucket holds limit tokens and refills at limit per window, so bursts up to
// limit are allowed and the sustained rate matches the Redis fixed window.
// Buckets idle for two windows are dropped.
type RateLimitStore struct {
	mu      sync.Mutex
	buckets *gocache.Cache
	now     func() time.Time
}

// NewRateLimitStore creates an in-process rate limit store.
func NewRateLimitStore(cleanup time.Duration) *RateLimitStore {
	return &RateLimitStore{
		buckets: gocache.New(gocache.NoExpiration, cleanup),
		now:     time.Now,
	}
}

// Allow takes one token from key's bucket.
func (s *RateLimitStore) Allow(_ context.Context, key string, limit int64, window time.Duration) (*ports.RateLimitResult, error) {
	if window <= 0 {
		window = time.Second
	}
	if limit < 1 {
		limit = 1
	}
	now := s.now()

	s.mu.Lock()
	lim := s.bucket(key, limit, window)
	allowed := lim.AllowN(now, 1)
	tokens := lim.TokensAt(now)
	s.buckets.Set(key, lim, 2*window)
	s.mu.Unlock()

	remaining := int64(math.Floor(tokens))
	if remaining < 0 {
		remaining = 0
	}

	// Time until the bucket holds at least one token again.
	perToken := window / time.Duration(limit)
	wait := time.Duration(0)
	if tokens < 1 {
		wait = time.Duration((1 - tokens) * float64(perToken))
	}

	return &ports.RateLimitResult{
		Allowed:   allowed,
		Limit:     limit,
		Remaining: remaining,
		ResetAt:   now.Add(wait).Unix(),
	}, nil
}

func (s *RateLimitStore) bucket(key string, limit int64, window time.Duration) *rate.Limiter {
	if v, ok := s.buckets.Get(key); ok {
		if lim, ok := v.(*rate.Limiter); ok && lim.Burst() == int(limit) {
			return lim
		}
	}
	return rate.NewLimiter(rate.Limit(float64(limit)/window.Seconds()), int(limit))
}
