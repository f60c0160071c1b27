package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/Mk9397/Expense-Splitter/internal/adapter/http/handler"
	apimiddleware "github.com/Mk9397/Expense-Splitter/internal/adapter/http/middleware"
	"github.com/Mk9397/Expense-Splitter/internal/infrastructure/metrics"
	"github.com/Mk9397/Expense-Splitter/internal/usecase"
	"github.com/Mk9397/Expense-Splitter/internal/usecase/mocks"
)

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_ReadinessReportsFailingCheck(t *testing.T) {
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.HealthHandler = handler.NewHealthHandler(handler.Check{
			Name: "redis",
			Ping: func(ctx context.Context) error { return errors.New("connection refused") },
		})
	}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected /ready to return 503, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "redis unhealthy") {
		t.Fatalf("expected failing check in body, got %s", rec.Body.String())
	}
}

func TestNewRouter_RateLimiterBlocksExcessRequests(t *testing.T) {
	rl := apimiddleware.NewRateLimiter(1, 1)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.RateLimiter = rl
	}))

	req1 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req1.RemoteAddr = "1.2.3.4:1234"
	rec1 := httptest.NewRecorder()
	router.ServeHTTP(rec1, req1)
	if rec1.Code != http.StatusOK {
		t.Fatalf("expected first request to succeed, got %d", rec1.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req2.RemoteAddr = "1.2.3.4:1234"
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled, got %d", rec2.Code)
	}
}

func TestNewRouter_IdempotencyMiddlewareInvokesStore(t *testing.T) {
	store := &stubIdempotencyStore{}
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.IdempotencyStore = store
	}))

	body := `{"name":"Goa","currency":"USD"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/trips/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apimiddleware.IdempotencyKeyHeader, "key-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if !store.checkCalled {
		t.Fatalf("expected idempotency store to be used")
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(store.updated) == 0 {
		t.Fatalf("expected successful response to be stored")
	}
}

func TestNewRouter_CORSPreflight(t *testing.T) {
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.CORSAllowedOrigins = []string{"https://splitter.example"}
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/trips/", nil)
	req.Header.Set("Origin", "https://splitter.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://splitter.example" {
		t.Fatalf("expected allowed origin header, got %q", got)
	}
}

func TestNewRouter_MetricsEndpointAndRequestCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegisterer(reg)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.Metrics = m
		cfg.MetricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/trips/missing", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown trip, got %d", rec.Code)
	}

	if got := testutil.ToFloat64(m.HTTPRequests); got != 1 {
		t.Fatalf("expected one request counted, got %v", got)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected /metrics to return 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "tripledger_http_requests_total") {
		t.Fatalf("expected http request metric in exposition")
	}
	if strings.Contains(rec.Body.String(), "missing") {
		t.Fatalf("expected path label to use the route pattern, not the trip id")
	}
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	router := NewRouter(newRouterConfig())

	chiRoutes, ok := router.(chi.Router)
	if !ok {
		t.Fatal("router does not implement chi.Routes")
	}

	seen := map[string]bool{}
	if err := chi.Walk(chiRoutes, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		seen[method+" "+route] = true
		return nil
	}); err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	expected := []string{
		"GET /health",
		"GET /ready",
		"GET /api/v1/currencies",
		"POST /api/v1/trips/",
		"GET /api/v1/trips/",
		"GET /api/v1/trips/{tripID}/",
		"PUT /api/v1/trips/{tripID}/",
		"DELETE /api/v1/trips/{tripID}/",
		"POST /api/v1/trips/{tripID}/participants/",
		"DELETE /api/v1/trips/{tripID}/participants/{participantID}",
		"POST /api/v1/trips/{tripID}/expenses/",
		"PUT /api/v1/trips/{tripID}/expenses/{expenseID}",
		"GET /api/v1/trips/{tripID}/balances",
		"GET /api/v1/trips/{tripID}/settlements",
		"GET /api/v1/trips/{tripID}/consistency",
		"GET /api/v1/trips/{tripID}/report",
	}

	for _, route := range expected {
		if !seen[route] {
			t.Fatalf("expected route %s to be registered", route)
		}
	}
}

func newRouterConfig(opts ...func(*RouterConfig)) RouterConfig {
	ledger := usecase.NewLedgerUseCase(usecase.LedgerConfig{
		Repo:  mocks.NewMockTripRepository(),
		IDGen: mocks.NewMockIDGenerator(),
	})
	reports := usecase.NewReportUseCase(ledger, nil, 0, nil, zerolog.Nop())

	cfg := RouterConfig{
		TripHandler:        handler.NewTripHandler(ledger),
		ParticipantHandler: handler.NewParticipantHandler(ledger),
		ExpenseHandler:     handler.NewExpenseHandler(ledger),
		LedgerHandler:      handler.NewLedgerHandler(ledger, reports),
		HealthHandler:      handler.NewHealthHandler(),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

type stubIdempotencyStore struct {
	checkCalled bool
	updated     []byte
}

func (s *stubIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	s.checkCalled = true
	return false, nil, nil
}

func (s *stubIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	s.updated = response
	return nil
}
