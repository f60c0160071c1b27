package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/Mk9397/Expense-Splitter/internal/adapter/http/middleware"
	"github.com/Mk9397/Expense-Splitter/internal/infrastructure/config"
)

func testConfig(driver string) *config.Config {
	return &config.Config{
		StorageDriver:   driver,
		DefaultCurrency: "NGN",
		EventsChannel:   "trip-events",
		IdempotencyTTL:  time.Hour,
		ReportCacheTTL:  time.Minute,
	}
}

func createTrip(t *testing.T, h http.Handler, name string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/trips/", strings.NewReader(`{"name":"`+name+`"}`))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestNewApp_MemoryStorage(t *testing.T) {
	a, err := newApp(context.Background(), testConfig(config.StorageMemory), zerolog.Nop(), prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("newApp failed: %v", err)
	}
	defer a.Close()

	if rec := createTrip(t, a.handler, "Goa", nil); rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := len(a.ledger.ListTrips(context.Background())); got != 1 {
		t.Fatalf("expected 1 trip in ledger, got %d", got)
	}
	if a.rateLimiter != nil {
		t.Fatalf("expected rate limiting to be off when RATE_LIMIT_RPS is 0")
	}
}

func TestNewApp_FileStorageSurvivesRestart(t *testing.T) {
	cfg := testConfig(config.StorageFile)
	cfg.DataFile = filepath.Join(t.TempDir(), "trips.json")

	first, err := newApp(context.Background(), cfg, zerolog.Nop(), prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("newApp failed: %v", err)
	}
	if rec := createTrip(t, first.handler, "Lagos", nil); rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	first.Close()

	second, err := newApp(context.Background(), cfg, zerolog.Nop(), prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("newApp failed on restart: %v", err)
	}
	defer second.Close()

	trips := second.ledger.ListTrips(context.Background())
	if len(trips) != 1 || trips[0].Name != "Lagos" {
		t.Fatalf("expected reloaded trip Lagos, got %+v", trips)
	}
}

func TestNewApp_RedisEnablesIdempotency(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := testConfig(config.StorageMemory)
	cfg.RedisURL = "redis://" + mr.Addr()

	a, err := newApp(context.Background(), cfg, zerolog.Nop(), prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("newApp failed: %v", err)
	}
	defer a.Close()

	headers := map[string]string{middleware.IdempotencyKeyHeader: "create-goa"}
	first := createTrip(t, a.handler, "Goa", headers)
	if first.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", first.Code)
	}

	replay := createTrip(t, a.handler, "Goa", headers)
	if replay.Header().Get(middleware.IdempotencyReplayHeader) != "true" {
		t.Fatalf("expected replayed response")
	}
	if got := len(a.ledger.ListTrips(context.Background())); got != 1 {
		t.Fatalf("expected replay not to create a second trip, got %d", got)
	}

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "redis") {
		t.Fatalf("expected redis readiness check, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestNewApp_RejectsUnknownDriver(t *testing.T) {
	if _, err := newApp(context.Background(), testConfig("sqlite"), zerolog.Nop(), prometheus.NewRegistry()); err == nil {
		t.Fatal("expected error for unknown storage driver")
	}
}

func TestCleanupLimitersStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		cleanupLimiters(ctx, middleware.NewRateLimiter(1, 1), time.Millisecond, time.Minute)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup loop did not stop")
	}
}
