package middleware

import (
	"os"
	"strconv"
	"sync"
	"time"
)

type lockoutEntry struct {
	failures  int
	lastFail  time.Time
	lockUntil time.Time
}

type lockoutTracker struct {
	mu      sync.Mutex
	entries map[string]*lockoutEntry
	max     int
	lockFor time.Duration
	window  time.Duration
}

var loginLockout = newLockoutTracker()

func newLockoutTracker() *lockoutTracker {
	maxAttempts := 5
	if v := os.Getenv("LOGIN_MAX_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			maxAttempts = n
		}
	}
	t := &lockoutTracker{
		entries: make(map[string]*lockoutEntry),
		max:     maxAttempts,
		lockFor: 15 * time.Minute,
		window:  15 * time.Minute,
	}
	go t.cleanupLoop()
	return t
}

func (t *lockoutTracker) cleanupLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		now := time.Now()
		t.mu.Lock()
		for k, e := range t.entries {
			if now.Sub(e.lastFail) > t.window && now.After(e.lockUntil) {
				delete(t.entries, k)
			}
		}
		t.mu.Unlock()
	}
}

// IsAccountLocked reports whether the account has exceeded the failed login
// threshold and how long until it unlocks.
func IsAccountLocked(key string) (bool, time.Duration) {
	loginLockout.mu.Lock()
	defer loginLockout.mu.Unlock()
	e, ok := loginLockout.entries[key]
	if !ok {
		return false, 0
	}
	if remaining := time.Until(e.lockUntil); remaining > 0 {
		return true, remaining
	}
	return false, 0
}

func RecordFailedLogin(key string) {
	now := time.Now()
	loginLockout.mu.Lock()
	defer loginLockout.mu.Unlock()
	e, ok := loginLockout.entries[key]
	if !ok || now.Sub(e.lastFail) > loginLockout.window {
		e = &lockoutEntry{}
		loginLockout.entries[key] = e
	}
	e.failures++
	e.lastFail = now
	if e.failures >= loginLockout.max {
		e.lockUntil = now.Add(loginLockout.lockFor)
	}
}

func ResetFailedLogin(key string) {
	loginLockout.mu.Lock()
	defer loginLockout.mu.Unlock()
	delete(loginLockout.entries, key)
}
