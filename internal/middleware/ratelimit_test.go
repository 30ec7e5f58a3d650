package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/medicare/medicare-api/internal/cache"
	"github.com/medicare/medicare-api/internal/testutil"
)

type stubLimiter struct {
	result *cache.RateLimitResult
	err    error
	calls  []string
}

func (s *stubLimiter) CheckIPRateLimit(_ context.Context, scope, ip string, _, _ int) (*cache.RateLimitResult, error) {
	s.calls = append(s.calls, scope+"|"+ip)
	return s.result, s.err
}

func serveRateLimited(t *testing.T, cfg RateLimitConfig, remoteAddr string) *httptest.ResponseRecorder {
	t.Helper()
	cfg.Logger = testutil.DiscardLogger()

	handler := RateLimitIP(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRateLimitIP_Allowed(t *testing.T) {
	limiter := &stubLimiter{result: &cache.RateLimitResult{Allowed: true, Remaining: 4}}

	rec := serveRateLimited(t, RateLimitConfig{Limiter: limiter, Enabled: true, Scope: "auth", RPS: 5, Burst: 10}, "192.0.2.1:5555")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("X-RateLimit-Remaining"); got != "4" {
		t.Errorf("X-RateLimit-Remaining = %q, want 4", got)
	}
	if len(limiter.calls) != 1 || limiter.calls[0] != "auth|192.0.2.1" {
		t.Errorf("limiter calls = %v", limiter.calls)
	}
}

func TestRateLimitIP_Rejected(t *testing.T) {
	limiter := &stubLimiter{result: &cache.RateLimitResult{Allowed: false, RetryAfter: 3 * time.Second}}

	rec := serveRateLimited(t, RateLimitConfig{Limiter: limiter, Enabled: true, Scope: "auth", RPS: 5, Burst: 10}, "192.0.2.1:5555")

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if got := rec.Header().Get("Retry-After"); got != "3" {
		t.Errorf("Retry-After = %q, want 3", got)
	}
}

func TestRateLimitIP_FailsOpen(t *testing.T) {
	limiter := &stubLimiter{err: errors.New("redis down")}

	rec := serveRateLimited(t, RateLimitConfig{Limiter: limiter, Enabled: true, Scope: "auth", RPS: 5, Burst: 10}, "192.0.2.1:5555")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestRateLimitIP_Disabled(t *testing.T) {
	limiter := &stubLimiter{result: &cache.RateLimitResult{Allowed: false}}

	rec := serveRateLimited(t, RateLimitConfig{Limiter: limiter, Enabled: false, RPS: 5, Burst: 10}, "192.0.2.1:5555")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if len(limiter.calls) != 0 {
		t.Errorf("disabled limiter was called %d times", len(limiter.calls))
	}
}

func TestRateLimitIP_LocalLimiter(t *testing.T) {
	cfg := RateLimitConfig{Limiter: cache.NewLocalLimiter(), Enabled: true, Scope: "auth", RPS: 1, Burst: 2}

	for i := 0; i < 2; i++ {
		if rec := serveRateLimited(t, cfg, "198.51.100.9:1000"); rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i+1, rec.Code)
		}
	}
	if rec := serveRateLimited(t, cfg, "198.51.100.9:1001"); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		remote string
		want   string
	}{
		{"192.0.2.1:1234", "192.0.2.1"},
		{"[2001:db8::1]:443", "2001:db8::1"},
		{"192.0.2.7", "192.0.2.7"},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = tt.remote
		if got := clientIP(req); got != tt.want {
			t.Errorf("clientIP(%q) = %q, want %q", tt.remote, got, tt.want)
		}
	}
}
