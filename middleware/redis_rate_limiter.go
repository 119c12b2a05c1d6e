package middleware

import (
	"context"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// RedisRateLimiter is a fixed-window counter shared by every instance, for
// deployments where the per-process limiter's cap would multiply. Degrades
// open: if Redis is unreachable the request is allowed rather than failing
// the settlement path on an infra outage.
type RedisRateLimiter struct {
	client *redis.Client
	window time.Duration
	max    int
	prefix string
}

func NewRedisRateLimiter(client *redis.Client, maxReq int, window time.Duration) *RedisRateLimiter {
	return &RedisRateLimiter{
		client: client,
		window: window,
		max:    maxReq,
		prefix: "ratelimit:",
	}
}

func (l *RedisRateLimiter) Limit() int { return l.max }

func (l *RedisRateLimiter) Allow(key string) RateResult {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	rkey := l.prefix + key
	count, err := l.client.Incr(ctx, rkey).Result()
	if err != nil {
		return RateResult{Allowed: true, Remaining: l.max}
	}
	if count == 1 {
		// first hit opens the window
		_ = l.client.Expire(ctx, rkey, l.window).Err()
	}
	if int(count) <= l.max {
		return RateResult{Allowed: true, Remaining: l.max - int(count)}
	}

	retryAfter := int(l.window.Seconds())
	if ttl, err := l.client.TTL(ctx, rkey).Result(); err == nil && ttl > 0 {
		retryAfter = int(ttl.Seconds())
		if retryAfter < 1 {
			retryAfter = 1
		}
	}
	return RateResult{Allowed: false, Remaining: 0, RetryAfter: retryAfter}
}
