package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/Mk9397/Expense-Splitter/internal/adapter/http/handler"
	"github.com/Mk9397/Expense-Splitter/internal/adapter/http/middleware"
	"github.com/Mk9397/Expense-Splitter/internal/infrastructure/metrics"
	"github.com/Mk9397/Expense-Splitter/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	TripHandler        *handler.TripHandler
	ParticipantHandler *handler.ParticipantHandler
	ExpenseHandler     *handler.ExpenseHandler
	LedgerHandler      *handler.LedgerHandler
	HealthHandler      *handler.HealthHandler

	IdempotencyStore usecase.IdempotencyStore // optional
	IdempotencyTTL   time.Duration

	Logger         *zerolog.Logger         // optional
	Metrics        *metrics.Metrics        // optional
	MetricsHandler http.Handler            // served on /metrics when set
	RateLimiter    *middleware.RateLimiter // optional

	// CORSAllowedOrigins enables CORS for the listed origins. Empty disables it.
	CORSAllowedOrigins []string
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery)
	r.Use(middleware.NewLoggingMiddleware(logger).Wrap)
	if cfg.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(cfg.Metrics).Wrap)
	}
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", middleware.IdempotencyKeyHeader},
			ExposedHeaders: []string{middleware.IdempotencyReplayHeader, "Retry-After"},
			MaxAge:         300,
		}))
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			ttl := cfg.IdempotencyTTL
			if ttl <= 0 {
				ttl = usecase.IdempotencyKeyTTL
			}
			r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, ttl, logger).Wrap)
		}

		r.Get("/currencies", cfg.TripHandler.Currencies)

		r.Route("/trips", func(r chi.Router) {
			r.Post("/", cfg.TripHandler.Create)
			r.Get("/", cfg.TripHandler.List)

			r.Route("/{tripID}", func(r chi.Router) {
				r.Get("/", cfg.TripHandler.Get)
				r.Put("/", cfg.TripHandler.Update)
				r.Delete("/", cfg.TripHandler.Delete)

				r.Route("/participants", func(r chi.Router) {
					r.Post("/", cfg.ParticipantHandler.Create)
					r.Get("/", cfg.ParticipantHandler.List)
					r.Put("/{participantID}", cfg.ParticipantHandler.Update)
					r.Delete("/{participantID}", cfg.ParticipantHandler.Delete)
				})

				r.Route("/expenses", func(r chi.Router) {
					r.Post("/", cfg.ExpenseHandler.Create)
					r.Get("/", cfg.ExpenseHandler.List)
					r.Get("/{expenseID}", cfg.ExpenseHandler.Get)
					r.Put("/{expenseID}", cfg.ExpenseHandler.Update)
					r.Delete("/{expenseID}", cfg.ExpenseHandler.Delete)
				})

				r.Get("/balances", cfg.LedgerHandler.Balances)
				r.Get("/settlements", cfg.LedgerHandler.Settlements)
				r.Get("/consistency", cfg.LedgerHandler.Consistency)
				r.Get("/report", cfg.LedgerHandler.Report)
			})
		})
	})

	return r
}
