package middleware

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
)

func newTestRedisLimiter(t *testing.T, maxReq int, window time.Duration) (*RedisRateLimiter, *miniredis.Miniredis) {
	t.Helper()
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisRateLimiter(client, maxReq, window), s
}

func TestRedisRateLimiter_AllowsUpToLimit(t *testing.T) {
	l, _ := newTestRedisLimiter(t, 3, time.Minute)
	for i := 0; i < 3; i++ {
		if res := l.Allow("member-a:203.0.113.5"); !res.Allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	res := l.Allow("member-a:203.0.113.5")
	if res.Allowed {
		t.Fatal("4th request inside the window should be rejected")
	}
	if res.RetryAfter < 1 {
		t.Fatalf("retry-after hint should be at least 1s, got %d", res.RetryAfter)
	}
}

func TestRedisRateLimiter_KeysAreIndependent(t *testing.T) {
	l, _ := newTestRedisLimiter(t, 1, time.Minute)
	if res := l.Allow("member-a:ip1"); !res.Allowed {
		t.Fatal("first key should be allowed")
	}
	if res := l.Allow("member-b:ip1"); !res.Allowed {
		t.Fatal("different actor must not share the first actor's window")
	}
	if res := l.Allow("member-a:ip1"); res.Allowed {
		t.Fatal("second hit for the same key should be rejected")
	}
}

func TestRedisRateLimiter_WindowResets(t *testing.T) {
	l, s := newTestRedisLimiter(t, 1, time.Minute)
	if res := l.Allow("k"); !res.Allowed {
		t.Fatal("first hit should pass")
	}
	if res := l.Allow("k"); res.Allowed {
		t.Fatal("second immediate hit should fail")
	}
	s.FastForward(time.Minute + time.Second)
	if res := l.Allow("k"); !res.Allowed {
		t.Fatal("hit after the window expired should pass")
	}
}

func TestRedisRateLimiter_DegradesOpen(t *testing.T) {
	l, s := newTestRedisLimiter(t, 1, time.Minute)
	s.Close()
	for i := 0; i < 5; i++ {
		if res := l.Allow("k"); !res.Allowed {
			t.Fatal("limiter must allow when redis is unreachable")
		}
	}
}
