package redis

import (
	"context"
	"fmt"
	"time"
)

const rateWindow = time.Minute

// RateLimiter counts requests per caller in fixed one-minute windows. Each
// window gets its own key, so counters never leak between windows and stale
// keys expire on their own.
type RateLimiter struct {
	client *Client
	limit  int64
}

// NewRateLimiter creates a rate limiter allowing requestsPerMinute plus
// burst requests per window.
func NewRateLimiter(client *Client, requestsPerMinute, burst int) *RateLimiter {
	return &RateLimiter{
		client: client,
		limit:  int64(requestsPerMinute + burst),
	}
}

// Allow records one request for caller and reports whether it fits in the
// current window, how many requests remain, and when the window resets.
func (r *RateLimiter) Allow(ctx context.Context, caller string) (bool, int, time.Time, error) {
	windowStart := time.Now().Truncate(rateWindow)
	key := fmt.Sprintf("rate:%s:%d", caller, windowStart.Unix())

	pipe := r.client.rdb.Pipeline()
	count := pipe.Incr(ctx, key)
	// Keep the key past the window end so the last requests still resolve.
	pipe.Expire(ctx, key, 2*rateWindow)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, time.Time{}, fmt.Errorf("rate limit incr for %s: %w", caller, err)
	}

	used := count.Val()
	remaining := r.limit - used
	if remaining < 0 {
		remaining = 0
	}

	return used <= r.limit, int(remaining), windowStart.Add(rateWindow), nil
}
