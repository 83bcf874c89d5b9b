// Package ratelimit implements a Redis-backed fixed-window rate limiter,
// used to cap how often OTP codes can be requested per account.
package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter decides whether an action identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// FixedWindow allows at most limit hits per key within each window. The
// counter lives in Redis, so the limit holds across instances.
type FixedWindow struct {
	client *redis.Client
	prefix string
	limit  int64
	window time.Duration
}

// NewFixedWindow creates a limiter with the given hit limit and window size.
func NewFixedWindow(client *redis.Client, limit int64, window time.Duration) *FixedWindow {
	return &FixedWindow{
		client: client,
		prefix: "ratelimit:",
		limit:  limit,
		window: window,
	}
}

// Allow increments the counter for key and reports whether the hit is within
// the limit. The window TTL starts on the first hit.
func (f *FixedWindow) Allow(ctx context.Context, key string) (bool, error) {
	fk := f.prefix + key

	count, err := f.client.Incr(ctx, fk).Result()
	if err != nil {
		return false, err
	}

	if count == 1 {
		if err := f.client.Expire(ctx, fk, f.window).Err(); err != nil {
			return false, err
		}
	}

	return count <= f.limit, nil
}
