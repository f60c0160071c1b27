package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/Mk9397/Expense-Splitter/internal/adapter/http"
	"github.com/Mk9397/Expense-Splitter/internal/adapter/http/handler"
	"github.com/Mk9397/Expense-Splitter/internal/adapter/http/middleware"
	fileRepo "github.com/Mk9397/Expense-Splitter/internal/adapter/repository/file"
	memoryRepo "github.com/Mk9397/Expense-Splitter/internal/adapter/repository/memory"
	postgresRepo "github.com/Mk9397/Expense-Splitter/internal/adapter/repository/postgres"
	redisRepo "github.com/Mk9397/Expense-Splitter/internal/adapter/repository/redis"
	"github.com/Mk9397/Expense-Splitter/internal/infrastructure/config"
	"github.com/Mk9397/Expense-Splitter/internal/infrastructure/eventpublisher"
	"github.com/Mk9397/Expense-Splitter/internal/infrastructure/logger"
	"github.com/Mk9397/Expense-Splitter/internal/infrastructure/metrics"
	"github.com/Mk9397/Expense-Splitter/internal/infrastructure/postgres"
	"github.com/Mk9397/Expense-Splitter/internal/infrastructure/redis"
	"github.com/Mk9397/Expense-Splitter/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Service: cfg.LogService})
	log.Logger = appLogger

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	a, err := newApp(ctx, cfg, appLogger, reg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start")
	}
	defer a.Close()

	// Background workers
	go func() {
		if err := a.dispatcher.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("event dispatcher stopped")
		}
	}()
	if a.rateLimiter != nil {
		go cleanupLimiters(ctx, a.rateLimiter, time.Minute, 10*time.Minute)
	}

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      a.handler,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Str("storage", cfg.StorageDriver).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

// app is the wired service: ledger, HTTP handler and background workers.
type app struct {
	ledger      *usecase.LedgerUseCase
	handler     http.Handler
	dispatcher  *eventpublisher.Dispatcher
	rateLimiter *middleware.RateLimiter
	closers     []func()
}

// Close releases connections in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func newApp(ctx context.Context, cfg *config.Config, appLogger zerolog.Logger, reg *prometheus.Registry) (*app, error) {
	a := &app{}
	m := metrics.NewWithRegisterer(reg)

	var checks []handler.Check

	// Storage
	repo, err := openStorage(ctx, cfg, appLogger, a, &checks)
	if err != nil {
		a.Close()
		return nil, err
	}

	// Redis (optional)
	sinks := []eventpublisher.Sink{eventpublisher.NewLogPublisher(appLogger)}
	var cache usecase.Cache
	var idempotencyStore usecase.IdempotencyStore
	if cfg.RedisURL != "" {
		redisClient, err := redis.NewClient(ctx, redis.Config{URL: cfg.RedisURL})
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		a.closers = append(a.closers, func() { redisClient.Close() })
		appLogger.Info().Msg("connected to redis")

		cache = redisRepo.NewCache(redisClient)
		idempotencyStore = redisRepo.NewIdempotencyStore(redisClient)
		sinks = append(sinks, redisRepo.NewEventPublisher(redisClient, cfg.EventsChannel))
		checks = append(checks, handler.Check{
			Name: "redis",
			Ping: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		})
	}

	a.dispatcher = eventpublisher.NewDispatcher(eventpublisher.Config{
		Sinks:   sinks,
		Logger:  &appLogger,
		Metrics: m,
	})

	// Use cases
	a.ledger = usecase.NewLedgerUseCase(usecase.LedgerConfig{
		Repo:            repo,
		IDGen:           postgresRepo.NewULIDGenerator(),
		Publisher:       a.dispatcher,
		Metrics:         m,
		Logger:          &appLogger,
		DefaultCurrency: cfg.DefaultCurrency,
	})
	if err := a.ledger.Load(ctx); err != nil {
		a.Close()
		return nil, err
	}
	reports := usecase.NewReportUseCase(a.ledger, cache, cfg.ReportCacheTTL, m, appLogger)

	if cfg.RateLimitRPS > 0 {
		a.rateLimiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).WithMetrics(m)
	}

	a.handler = httpAdapter.NewRouter(httpAdapter.RouterConfig{
		TripHandler:        handler.NewTripHandler(a.ledger),
		ParticipantHandler: handler.NewParticipantHandler(a.ledger),
		ExpenseHandler:     handler.NewExpenseHandler(a.ledger),
		LedgerHandler:      handler.NewLedgerHandler(a.ledger, reports),
		HealthHandler:      handler.NewHealthHandler(checks...),
		IdempotencyStore:   idempotencyStore,
		IdempotencyTTL:     cfg.IdempotencyTTL,
		Logger:             &appLogger,
		Metrics:            m,
		MetricsHandler:     promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
		RateLimiter:        a.rateLimiter,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	return a, nil
}

// openStorage returns the trip repository selected by STORAGE_DRIVER.
func openStorage(ctx context.Context, cfg *config.Config, appLogger zerolog.Logger, a *app, checks *[]handler.Check) (usecase.TripRepository, error) {
	switch cfg.StorageDriver {
	case config.StorageMemory:
		return memoryRepo.NewTripRepository(), nil

	case config.StorageFile:
		appLogger.Info().Str("path", cfg.DataFile).Msg("using file storage")
		return fileRepo.NewTripRepository(cfg.DataFile, appLogger), nil

	case config.StoragePostgres:
		pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
			DatabaseURL:    cfg.DatabaseURL,
			MaxConns:       cfg.DatabaseMaxConns,
			MinConns:       cfg.DatabaseMinConns,
			ConnectTimeout: cfg.DatabaseTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		a.closers = append(a.closers, pool.Close)
		appLogger.Info().Msg("connected to postgres")

		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			return nil, err
		}

		*checks = append(*checks, handler.Check{Name: "postgres", Ping: pool.Ping})
		return postgresRepo.NewTripRepository(pool, appLogger), nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

// cleanupLimiters drops idle per-client limiters until ctx ends.
func cleanupLimiters(ctx context.Context, rl *middleware.RateLimiter, every, idle time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := rl.CleanupLimiters(idle); n > 0 {
				log.Debug().Int("removed", n).Msg("rate limiter cleanup")
			}
		}
	}
}
