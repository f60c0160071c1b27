package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/Mk9397/Expense-Splitter/internal/infrastructure/metrics"
)

func TestRateLimiterThrottlesPerIP(t *testing.T) {
	m := metrics.NewWithRegisterer(prometheus.NewRegistry())
	rl := NewRateLimiter(1, 1).WithMetrics(m)
	handler := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	send := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/trips", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := send("10.0.0.1:1000"); code != http.StatusOK {
		t.Fatalf("expected first request to pass, got %d", code)
	}
	if code := send("10.0.0.1:2000"); code != http.StatusTooManyRequests {
		t.Fatalf("expected second request from same IP to be throttled, got %d", code)
	}
	if code := send("10.0.0.2:1000"); code != http.StatusOK {
		t.Fatalf("expected other IP to pass, got %d", code)
	}

	if got := testutil.ToFloat64(m.RateLimitHits.WithLabelValues("10.0.0.1")); got != 1 {
		t.Fatalf("expected one rate limit hit, got %v", got)
	}
}

func TestGetIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:5555"
	if ip := getIP(req); ip != "192.0.2.1" {
		t.Fatalf("expected remote host, got %s", ip)
	}

	req.Header.Set("X-Real-IP", "198.51.100.7")
	if ip := getIP(req); ip != "198.51.100.7" {
		t.Fatalf("expected X-Real-IP, got %s", ip)
	}

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	if ip := getIP(req); ip != "203.0.113.9" {
		t.Fatalf("expected first forwarded address, got %s", ip)
	}
}

func TestCleanupLimitersRemovesIdleClients(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(10, 10)
	rl.now = func() time.Time { return now }

	rl.getLimiter("old")
	now = now.Add(2 * time.Hour)
	rl.getLimiter("fresh")

	if removed := rl.CleanupLimiters(time.Hour); removed != 1 {
		t.Fatalf("expected 1 idle limiter removed, got %d", removed)
	}
	if _, ok := rl.limiters["fresh"]; !ok {
		t.Fatalf("expected recent limiter to survive")
	}
}
