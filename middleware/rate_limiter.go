package middleware

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"olympus/utils"
)

// RateResult is one limiter decision.
type RateResult struct {
	Allowed    bool
	Remaining  int
	RetryAfter int // seconds; meaningful when not allowed
}

// RateLimiter guards the settlement endpoints. Implementations are swappable:
// the in-memory sliding window below for a single instance, the Redis-backed
// limiter for multi-instance deployments.
type RateLimiter interface {
	// Allow records one hit for key and decides whether it is within the cap.
	Allow(key string) RateResult
	// Limit returns the configured request cap for response headers.
	Limit() int
}

type timestamps []int64 // unix nanos

func nowUnix() int64 { return time.Now().UnixNano() }

func getEnvDuration(key string, def time.Duration) time.Duration {
	if s := os.Getenv(key); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			return time.Duration(v) * time.Second
		}
	}
	return def
}

// MemoryRateLimiter is a per-process sliding-window limiter with periodic
// cleanup. Under multi-instance deployment its cap is per instance; use the
// Redis limiter when the cap must be global.
type MemoryRateLimiter struct {
	window      time.Duration
	max         int
	mu          sync.Mutex
	state       map[string]timestamps
	cleanupTick time.Duration
}

func NewMemoryRateLimiter(maxReq int, window time.Duration) *MemoryRateLimiter {
	l := &MemoryRateLimiter{
		window:      window,
		max:         maxReq,
		state:       make(map[string]timestamps),
		cleanupTick: getEnvDuration("RATE_CLEANUP_SECONDS", 60*time.Second),
	}
	go l.cleanupLoop()
	return l
}

func (l *MemoryRateLimiter) Limit() int { return l.max }

func (l *MemoryRateLimiter) Allow(key string) RateResult {
	now := nowUnix()
	cutoff := now - int64(l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	arr := l.state[key]
	var filtered timestamps
	for _, ts := range arr {
		if ts >= cutoff {
			filtered = append(filtered, ts)
		}
	}
	filtered = append(filtered, now)
	l.state[key] = filtered

	count := len(filtered)
	if count <= l.max {
		return RateResult{Allowed: true, Remaining: l.max - count}
	}

	// retry-after from the oldest hit still inside the window
	oldest := filtered[0]
	for _, ts := range filtered {
		if ts < oldest {
			oldest = ts
		}
	}
	retryAfter := int((oldest + int64(l.window) - now) / 1e9)
	if retryAfter < 1 {
		retryAfter = 1
	}
	return RateResult{Allowed: false, Remaining: 0, RetryAfter: retryAfter}
}

func (l *MemoryRateLimiter) cleanupLoop() {
	tick := time.NewTicker(l.cleanupTick)
	defer tick.Stop()
	for range tick.C {
		l.mu.Lock()
		cutoff := nowUnix() - int64(l.window)
		for k, arr := range l.state {
			var filtered timestamps
			for _, ts := range arr {
				if ts >= cutoff {
					filtered = append(filtered, ts)
				}
			}
			if len(filtered) == 0 {
				delete(l.state, k)
			} else {
				l.state[k] = filtered
			}
		}
		l.mu.Unlock()
	}
}

// clientIPGeneric returns the client IP string. If trustedCIDR is provided,
// X-Forwarded-For / X-Real-IP headers are honored when remote addr is inside
// one of the trusted CIDRs or IPs.
func clientIPGeneric(r *http.Request, trustedCIDR []string) string {
	remoteHost, _, _ := net.SplitHostPort(r.RemoteAddr)
	remoteIP := net.ParseIP(remoteHost)
	trusted := false
	for _, cidr := range trustedCIDR {
		cidr = strings.TrimSpace(cidr)
		if cidr == "" {
			continue
		}
		if strings.Contains(cidr, "/") {
			if _, ipnet, err := net.ParseCIDR(cidr); err == nil {
				if remoteIP != nil && ipnet.Contains(remoteIP) {
					trusted = true
					break
				}
			}
			continue
		}
		if ip := net.ParseIP(cidr); ip != nil && remoteIP != nil && ip.Equal(remoteIP) {
			trusted = true
			break
		}
	}
	if trusted {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			parts := strings.Split(xff, ",")
			if len(parts) > 0 {
				return strings.TrimSpace(parts[0])
			}
		}
		if xr := r.Header.Get("X-Real-IP"); xr != "" {
			return strings.TrimSpace(xr)
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func trustedProxies() []string {
	if v := os.Getenv("TRUSTED_PROXIES"); v != "" {
		return strings.Split(v, ",")
	}
	return nil
}

func writeRateLimited(w http.ResponseWriter, retryAfter int) {
	w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": "Too many requests, try again later",
		"data":    map[string]interface{}{"retry_after_seconds": retryAfter},
	})
}

func setRateHeaders(w http.ResponseWriter, limit int, res RateResult) {
	w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", limit))
	w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", res.Remaining))
}

// RateLimitByIP applies a per-IP cap. Used as the lower-level global guard in
// front of everything else.
func RateLimitByIP(l RateLimiter) func(http.Handler) http.Handler {
	trusted := trustedProxies()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIPGeneric(r, trusted)
			res := l.Allow("ip:" + ip)
			setRateHeaders(w, l.Limit(), res)
			if !res.Allowed {
				writeRateLimited(w, res.RetryAfter)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitByActor applies a cap keyed by (authenticated member, client IP).
// Must sit inside the auth middleware so the member id is on the context;
// unauthenticated requests fall back to the IP alone.
func RateLimitByActor(l RateLimiter) func(http.Handler) http.Handler {
	trusted := trustedProxies()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIPGeneric(r, trusted)
			key := "actor:" + ip
			if id, ok := utils.GetMemberID(r); ok {
				key = "actor:" + id + ":" + ip
			}
			res := l.Allow(key)
			setRateHeaders(w, l.Limit(), res)
			if !res.Allowed {
				writeRateLimited(w, res.RetryAfter)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
