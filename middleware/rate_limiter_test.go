package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClientIPGeneric_DirectRemote(t *testing.T) {
	req := httptest.NewRequest("GET", "http://example.local/", nil)
	req.RemoteAddr = "203.0.113.5:54321"
	ip := clientIPGeneric(req, nil)
	if ip != "203.0.113.5" {
		t.Fatalf("expected direct remote IP, got %s", ip)
	}
}

func TestClientIPGeneric_TrustedProxyXFF(t *testing.T) {
	req := httptest.NewRequest("GET", "http://example.local/", nil)
	req.RemoteAddr = "198.51.100.10:443"
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 198.51.100.10")
	// trustedCIDR contains the remote IP
	ip := clientIPGeneric(req, []string{"198.51.100.10"})
	if ip != "203.0.113.7" {
		t.Fatalf("expected X-Forwarded-For first value, got %s", ip)
	}
}

func TestClientIPGeneric_UntrustedProxyIgnoresXFF(t *testing.T) {
	req := httptest.NewRequest("GET", "http://example.local/", nil)
	req.RemoteAddr = "198.51.100.11:443"
	req.Header.Set("X-Forwarded-For", "203.0.113.8, 198.51.100.11")
	ip := clientIPGeneric(req, []string{"198.51.100.10"})
	if ip != "198.51.100.11" {
		t.Fatalf("expected remote IP when proxy untrusted, got %s", ip)
	}
}

func TestMemoryRateLimiter_AllowsUpToLimit(t *testing.T) {
	l := NewMemoryRateLimiter(10, time.Minute)
	for i := 0; i < 10; i++ {
		res := l.Allow("member-a:203.0.113.5")
		if !res.Allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	res := l.Allow("member-a:203.0.113.5")
	if res.Allowed {
		t.Fatal("11th request inside the window should be rejected")
	}
	if res.RetryAfter < 1 {
		t.Fatalf("retry-after hint should be at least 1s, got %d", res.RetryAfter)
	}
}

func TestMemoryRateLimiter_KeysAreIndependent(t *testing.T) {
	l := NewMemoryRateLimiter(1, time.Minute)
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

func TestMemoryRateLimiter_WindowSlides(t *testing.T) {
	l := NewMemoryRateLimiter(1, 20*time.Millisecond)
	if res := l.Allow("k"); !res.Allowed {
		t.Fatal("first hit should pass")
	}
	if res := l.Allow("k"); res.Allowed {
		t.Fatal("second immediate hit should fail")
	}
	time.Sleep(30 * time.Millisecond)
	if res := l.Allow("k"); !res.Allowed {
		t.Fatal("hit after the window expired should pass")
	}
}

func TestRateLimitByIP_Blocks(t *testing.T) {
	l := NewMemoryRateLimiter(2, time.Minute)
	calls := 0
	h := RateLimitByIP(l)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("POST", "http://example.local/api/package", nil)
		req.RemoteAddr = "203.0.113.9:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if i < 2 && rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, rec.Code)
		}
		if i == 2 {
			if rec.Code != http.StatusTooManyRequests {
				t.Fatalf("expected 429 on third request, got %d", rec.Code)
			}
			if rec.Header().Get("Retry-After") == "" {
				t.Fatal("429 must carry a Retry-After header")
			}
		}
	}
	if calls != 2 {
		t.Fatalf("handler should have run exactly twice, ran %d times", calls)
	}
}
