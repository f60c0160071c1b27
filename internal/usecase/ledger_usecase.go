package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Mk9397/Expense-Splitter/internal/domain"
	"github.com/Mk9397/Expense-Splitter/internal/infrastructure/metrics"
)

// LedgerUseCase owns the in-memory ledger and applies every mutation to it.
//
// Each mutation runs on a copy of the affected trip. The copy is persisted through the
// TripRepository and only then committed to the ledger, so a failed write leaves the
// ledger untouched. A single mutex serializes all access.
type LedgerUseCase struct {
	mu     sync.Mutex
	ledger *domain.Ledger

	repo            TripRepository
	idGen           IDGenerator
	publisher       EventPublisher
	metrics         *metrics.Metrics
	logger          zerolog.Logger
	now             func() time.Time
	defaultCurrency string
}

// LedgerConfig configures a LedgerUseCase.
type LedgerConfig struct {
	Repo      TripRepository
	IDGen     IDGenerator
	Publisher EventPublisher    // optional
	Metrics   *metrics.Metrics  // optional
	Logger    *zerolog.Logger   // optional, defaults to a no-op logger
	Clock     func() time.Time  // optional, defaults to time.Now
	// DefaultCurrency is used by CreateTrip when no currency is given.
	DefaultCurrency string
}

// NewLedgerUseCase creates a LedgerUseCase with an empty ledger.
func NewLedgerUseCase(cfg LedgerConfig) *LedgerUseCase {
	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.DefaultCurrency == "" {
		cfg.DefaultCurrency = domain.DefaultCurrency
	}

	return &LedgerUseCase{
		ledger:          domain.NewLedger(),
		repo:            cfg.Repo,
		idGen:           cfg.IDGen,
		publisher:       cfg.Publisher,
		metrics:         cfg.Metrics,
		logger:          logger.With().Str("component", "ledger").Logger(),
		now:             cfg.Clock,
		defaultCurrency: domain.NormalizeCurrency(cfg.DefaultCurrency),
	}
}

// Load replaces the ledger with every trip the repository holds.
func (uc *LedgerUseCase) Load(ctx context.Context) error {
	trips, err := uc.repo.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load trips: %w", err)
	}

	uc.mu.Lock()
	uc.ledger = domain.NewLedger(trips...)
	count := uc.ledger.Len()
	uc.mu.Unlock()

	if uc.metrics != nil {
		uc.metrics.TripsLoaded.Set(float64(count))
	}
	uc.logger.Info().Int("trips", count).Msg("ledger loaded")

	return nil
}

// CreateTrip creates an empty trip and returns its id.
// An empty currency falls back to the configured default.
func (uc *LedgerUseCase) CreateTrip(ctx context.Context, name, currency string) (string, error) {
	const op = "create_trip"
	start := time.Now()

	name = strings.TrimSpace(name)
	if err := domain.ValidateTripName(name); err != nil {
		uc.recordError(op, err)
		return "", err
	}

	now := uc.clock()
	trip := &domain.Trip{
		ID:           uc.idGen.Generate(),
		Name:         name,
		Currency:     uc.currencyOrDefault(currency),
		Participants: []domain.Participant{},
		Expenses:     []domain.Expense{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	uc.mu.Lock()
	if err := uc.persist(ctx, trip); err != nil {
		uc.mu.Unlock()
		uc.recordError(op, err)
		return "", err
	}
	uc.ledger.Put(trip)
	count := uc.ledger.Len()
	uc.mu.Unlock()

	if uc.metrics != nil {
		uc.metrics.TripsCreated.Inc()
		uc.metrics.TripsLoaded.Set(float64(count))
	}
	uc.observe(op, start)
	uc.logger.Debug().Str("trip_id", trip.ID).Str("currency", trip.Currency).Msg("trip created")
	uc.publish(ctx, domain.EventTypeTripCreated, trip.ID, "")

	return trip.ID, nil
}

// DeleteTrip removes a trip. It returns false when the trip does not exist.
func (uc *LedgerUseCase) DeleteTrip(ctx context.Context, id string) (bool, error) {
	const op = "delete_trip"
	start := time.Now()

	uc.mu.Lock()
	if _, ok := uc.ledger.Get(id); !ok {
		uc.mu.Unlock()
		return false, nil
	}

	persistCtx, cancel := context.WithTimeout(ctx, DefaultPersistenceTimeout)
	err := uc.repo.Delete(persistCtx, id)
	cancel()
	if err != nil {
		uc.mu.Unlock()
		uc.persistenceFailed("delete", err)
		uc.recordError(op, err)
		return false, fmt.Errorf("failed to delete trip: %w", err)
	}

	uc.ledger.Remove(id)
	count := uc.ledger.Len()
	uc.mu.Unlock()

	if uc.metrics != nil {
		uc.metrics.TripsDeleted.Inc()
		uc.metrics.TripsLoaded.Set(float64(count))
	}
	uc.observe(op, start)
	uc.logger.Debug().Str("trip_id", id).Msg("trip deleted")
	uc.publish(ctx, domain.EventTypeTripDeleted, id, "")

	return true, nil
}

// EditTrip renames a trip and changes its currency. An empty currency keeps the current one.
// It returns false when the trip does not exist or the name is blank.
func (uc *LedgerUseCase) EditTrip(ctx context.Context, id, name, currency string) (bool, error) {
	name = strings.TrimSpace(name)
	if err := domain.ValidateTripName(name); err != nil {
		return false, nil
	}

	return uc.mutateBool(ctx, "edit_trip", id, func(t *domain.Trip) (bool, error) {
		t.Name = name
		if c := domain.NormalizeCurrency(currency); c != "" {
			t.Currency = c
		}
		return true, nil
	}, domain.EventTypeTripUpdated, "")
}

// mutateTrip applies fn to a copy of the trip, persists the copy and commits it.
// fn reports false when the change does not apply; nothing is written in that case.
// It returns domain.ErrTripNotFound when the trip does not exist.
func (uc *LedgerUseCase) mutateTrip(ctx context.Context, op, tripID string, fn func(t *domain.Trip) (bool, error)) (bool, error) {
	start := time.Now()

	uc.mu.Lock()
	defer uc.mu.Unlock()

	current, ok := uc.ledger.Get(tripID)
	if !ok {
		return false, domain.ErrTripNotFound
	}

	next := current.Clone()
	applied, err := fn(next)
	if err != nil {
		uc.recordError(op, err)
		return false, err
	}
	if !applied {
		return false, nil
	}

	next.Touch(uc.clock())

	if err := uc.persist(ctx, next); err != nil {
		uc.recordError(op, err)
		return false, err
	}

	uc.ledger.Put(next)
	uc.observe(op, start)

	return true, nil
}

// mutateBool wraps mutateTrip for operations that report absence as false and publishes
// the change event once the mutation is committed.
func (uc *LedgerUseCase) mutateBool(ctx context.Context, op, tripID string, fn func(t *domain.Trip) (bool, error), eventType, entityID string) (bool, error) {
	applied, err := uc.mutateTrip(ctx, op, tripID, fn)
	if errors.Is(err, domain.ErrTripNotFound) {
		return false, nil
	}
	if err != nil || !applied {
		return false, err
	}

	uc.logger.Debug().Str("op", op).Str("trip_id", tripID).Str("entity_id", entityID).Msg("trip mutated")
	uc.publish(ctx, eventType, tripID, entityID)

	return true, nil
}

func (uc *LedgerUseCase) persist(ctx context.Context, trip *domain.Trip) error {
	persistCtx, cancel := context.WithTimeout(ctx, DefaultPersistenceTimeout)
	defer cancel()

	if err := uc.repo.Save(persistCtx, trip); err != nil {
		uc.persistenceFailed("save", err)
		return fmt.Errorf("failed to save trip: %w", err)
	}
	return nil
}

func (uc *LedgerUseCase) persistenceFailed(operation string, err error) {
	if uc.metrics != nil {
		uc.metrics.PersistenceErrors.WithLabelValues(operation).Inc()
	}
	uc.logger.Error().Err(err).Str("operation", operation).Msg("persistence failed")
}

func (uc *LedgerUseCase) publish(ctx context.Context, eventType, tripID, entityID string) {
	if uc.publisher == nil {
		return
	}

	event := domain.ChangeEvent{
		Type:       eventType,
		TripID:     tripID,
		EntityID:   entityID,
		OccurredAt: uc.clock(),
	}
	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Warn().Err(err).Str("event_type", eventType).Str("trip_id", tripID).Msg("failed to publish change event")
	}
}

func (uc *LedgerUseCase) recordError(op string, err error) {
	if uc.metrics == nil {
		return
	}
	errorType := "internal"
	switch {
	case errors.Is(err, domain.ErrValidation):
		errorType = "validation"
	case errors.Is(err, domain.ErrTripNotFound):
		errorType = "not_found"
	}
	uc.metrics.MutationErrors.WithLabelValues(op, errorType).Inc()
}

func (uc *LedgerUseCase) observe(op string, start time.Time) {
	if uc.metrics != nil {
		uc.metrics.MutationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}
}

func (uc *LedgerUseCase) clock() time.Time {
	return uc.now().UTC()
}

func (uc *LedgerUseCase) currencyOrDefault(currency string) string {
	if c := domain.NormalizeCurrency(currency); c != "" {
		return c
	}
	return uc.defaultCurrency
}
