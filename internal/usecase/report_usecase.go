package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Mk9397/Expense-Splitter/internal/domain"
	"github.com/Mk9397/Expense-Splitter/internal/infrastructure/metrics"
)

// UnknownPayerName labels expenses whose payer is no longer a participant.
const UnknownPayerName = "Unknown"

// ReportExpense is an expense row with its payer's display name resolved.
type ReportExpense struct {
	domain.Expense
	PayerName string
}

// TripReport gathers everything a report renderer needs for one trip.
type TripReport struct {
	TripID    string
	TripName  string
	Currency  string
	CreatedAt time.Time
	UpdatedAt time.Time

	TotalSpent       domain.Money
	ExpenseCount     int
	ParticipantCount int
	// AveragePerPerson is TotalSpent divided by the participant count, rounded half-up.
	AveragePerPerson domain.Money

	// Expenses are sorted newest first.
	Expenses []ReportExpense
	// Balances are sorted by balance, largest creditor first.
	Balances       []domain.Balance
	TotalPaid      domain.Money
	TotalShouldPay domain.Money
	Settlements    []domain.Settlement
	Warnings       []domain.IntegrityWarning

	GeneratedAt time.Time
}

// ReportUseCase builds trip reports and caches them per trip revision.
type ReportUseCase struct {
	trips   TripReader
	cache   Cache
	ttl     time.Duration
	metrics *metrics.Metrics
	logger  zerolog.Logger
	now     func() time.Time
}

// NewReportUseCase creates a new ReportUseCase. cache and m may be nil.
func NewReportUseCase(trips TripReader, cache Cache, ttl time.Duration, m *metrics.Metrics, logger zerolog.Logger) *ReportUseCase {
	if ttl <= 0 {
		ttl = DefaultReportCacheTTL
	}
	return &ReportUseCase{
		trips:   trips,
		cache:   cache,
		ttl:     ttl,
		metrics: m,
		logger:  logger.With().Str("component", "report").Logger(),
		now:     time.Now,
	}
}

// BuildReport returns the report for a trip. Reports are cached under the trip's
// UpdatedAt, so any mutation produces a fresh one.
func (uc *ReportUseCase) BuildReport(ctx context.Context, tripID string) (*TripReport, error) {
	trip, err := uc.trips.GetTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	key := reportCacheKey(trip)
	if cached, ok := uc.fromCache(ctx, key); ok {
		return cached, nil
	}

	report := BuildTripReport(trip, uc.now().UTC())

	if uc.cache != nil {
		payload, err := json.Marshal(report)
		if err != nil {
			return nil, fmt.Errorf("failed to encode report: %w", err)
		}
		uc.dropStaleRevisions(ctx, tripID)
		if err := uc.cache.Set(ctx, key, payload, uc.ttl); err != nil {
			uc.logger.Warn().Err(err).Str("trip_id", tripID).Msg("failed to cache report")
		}
	}

	return report, nil
}

func (uc *ReportUseCase) fromCache(ctx context.Context, key string) (*TripReport, bool) {
	if uc.cache == nil {
		return nil, false
	}

	payload, err := uc.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			uc.logger.Warn().Err(err).Str("key", key).Msg("report cache read failed")
		}
		if uc.metrics != nil {
			uc.metrics.ReportCacheMisses.Inc()
		}
		return nil, false
	}

	var report TripReport
	if err := json.Unmarshal(payload, &report); err != nil {
		uc.logger.Warn().Err(err).Str("key", key).Msg("discarding unreadable cached report")
		return nil, false
	}

	if uc.metrics != nil {
		uc.metrics.ReportCacheHits.Inc()
	}
	return &report, true
}

// dropStaleRevisions removes reports cached for earlier revisions of the trip.
// Only caches that support prefix deletion take part; the rest rely on TTL.
func (uc *ReportUseCase) dropStaleRevisions(ctx context.Context, tripID string) {
	inv, ok := uc.cache.(PrefixInvalidator)
	if !ok {
		return
	}
	n, err := inv.DeletePrefix(ctx, reportKeyPrefix(tripID))
	if err != nil {
		uc.logger.Warn().Err(err).Str("trip_id", tripID).Msg("failed to drop stale reports")
		return
	}
	if n > 0 {
		uc.logger.Debug().Str("trip_id", tripID).Int("dropped", n).Msg("dropped stale reports")
	}
}

func reportKeyPrefix(tripID string) string {
	return "report:" + tripID + ":"
}

func reportCacheKey(trip *domain.Trip) string {
	return fmt.Sprintf("%s%d", reportKeyPrefix(trip.ID), trip.UpdatedAt.UnixNano())
}

// BuildTripReport assembles a report from a trip snapshot without caching.
func BuildTripReport(trip *domain.Trip, generatedAt time.Time) *TripReport {
	balances, settlements, warnings := domain.SettleTrip(trip)

	names := make(map[string]string, len(trip.Participants))
	for _, p := range trip.Participants {
		names[p.ID] = p.Name
	}

	expenses := make([]ReportExpense, 0, len(trip.Expenses))
	for _, e := range trip.Expenses {
		payer, ok := names[e.PaidBy]
		if !ok {
			payer = UnknownPayerName
		}
		expenses = append(expenses, ReportExpense{Expense: e, PayerName: payer})
	}
	sort.SliceStable(expenses, func(i, j int) bool {
		return expenses[i].CreatedAt.After(expenses[j].CreatedAt)
	})

	sorted := domain.SortBalances(balances)
	var totalPaid, totalShouldPay domain.Money
	for _, b := range sorted {
		totalPaid += b.TotalPaid
		totalShouldPay += b.ShouldPay
	}

	total := trip.Total()
	var average domain.Money
	if n := len(trip.Participants); n > 0 {
		avg := decimal.NewFromInt(int64(total)).DivRound(decimal.NewFromInt(int64(n)), 0)
		average = domain.Money(avg.IntPart())
	}

	return &TripReport{
		TripID:           trip.ID,
		TripName:         trip.Name,
		Currency:         trip.Currency,
		CreatedAt:        trip.CreatedAt,
		UpdatedAt:        trip.UpdatedAt,
		TotalSpent:       total,
		ExpenseCount:     len(trip.Expenses),
		ParticipantCount: len(trip.Participants),
		AveragePerPerson: average,
		Expenses:         expenses,
		Balances:         sorted,
		TotalPaid:        totalPaid,
		TotalShouldPay:   totalShouldPay,
		Settlements:      settlements,
		Warnings:         warnings,
		GeneratedAt:      generatedAt,
	}
}
