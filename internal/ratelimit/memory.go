package ratelimit

import (
	"context"
	"time"

	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// Limiter throttles by key using an in-process sliding window. The service is
// single-instance, so process-local state is the whole picture; the login
// endpoint is the only consumer.
type Limiter struct {
	Store limiter.Store
}

// NewMemoryLimiter builds a limiter backed by the in-memory store.
func NewMemoryLimiter() Limiter {
	return Limiter{Store: memory.NewStore()}
}

// Allow registers an event for the given key and reports whether it is within
// the limit.
func (l Limiter) Allow(ctx context.Context, key string, window time.Duration, max int) (allowed bool, remaining int, reset time.Time, err error) {
	if l.Store == nil || max <= 0 || window <= 0 {
		return true, max, time.Now().Add(window), nil
	}
	rate := limiter.Rate{Period: window, Limit: int64(max)}
	lctx, err := l.Store.Get(ctx, key, rate)
	if err != nil {
		return false, 0, time.Now().Add(window), err
	}
	return !lctx.Reached, int(lctx.Remaining), time.Unix(lctx.Reset, 0), nil
}
