package usecase

import (
	"context"

	"github.com/Mk9397/Expense-Splitter/internal/domain"
)

// BalanceSheet is the result of computing balances for one trip.
type BalanceSheet struct {
	TripID   string
	Currency string
	// Balances follow the trip's participant order.
	Balances []domain.Balance
	Warnings []domain.IntegrityWarning
}

// SettlementPlan is the list of payments that clears a trip's balances.
type SettlementPlan struct {
	TripID      string
	Currency    string
	Settlements []domain.Settlement
	Warnings    []domain.IntegrityWarning
}

// ConsistencyReport describes whether a trip's balances add up.
type ConsistencyReport struct {
	TripID string
	// Sum is Σ balances; only rounding residue should keep it from zero.
	Sum domain.Money
	// Bound is the largest |Sum| rounding can explain.
	Bound      domain.Money
	Consistent bool
	Warnings   []domain.IntegrityWarning
}

// ListTrips returns snapshots of every trip in creation order.
func (uc *LedgerUseCase) ListTrips(ctx context.Context) []*domain.Trip {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	return cloneTrips(uc.ledger.List())
}

// FindTrips returns snapshots of trips whose name contains query, ignoring case.
func (uc *LedgerUseCase) FindTrips(ctx context.Context, query string) []*domain.Trip {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	return cloneTrips(uc.ledger.FindByName(query))
}

// GetTrip returns a snapshot of one trip.
func (uc *LedgerUseCase) GetTrip(ctx context.Context, id string) (*domain.Trip, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	trip, ok := uc.ledger.Get(id)
	if !ok {
		return nil, domain.ErrTripNotFound
	}
	return trip.Clone(), nil
}

// ListParticipants returns the trip's participants in insertion order.
func (uc *LedgerUseCase) ListParticipants(ctx context.Context, tripID string) ([]domain.Participant, error) {
	trip, err := uc.GetTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	return trip.Participants, nil
}

// ListExpenses returns the trip's expenses in insertion order.
func (uc *LedgerUseCase) ListExpenses(ctx context.Context, tripID string) ([]domain.Expense, error) {
	trip, err := uc.GetTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	return trip.Expenses, nil
}

// GetExpense returns one expense of a trip.
func (uc *LedgerUseCase) GetExpense(ctx context.Context, tripID, expenseID string) (*domain.Expense, error) {
	trip, err := uc.GetTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	expense, ok := trip.Expense(expenseID)
	if !ok {
		return nil, domain.ErrExpenseNotFound
	}
	return &expense, nil
}

// TripTotal sums every expense of the trip.
func (uc *LedgerUseCase) TripTotal(ctx context.Context, tripID string) (domain.Money, error) {
	trip, err := uc.GetTrip(ctx, tripID)
	if err != nil {
		return 0, err
	}
	return trip.Total(), nil
}

// Balances computes every participant's balance for the trip.
func (uc *LedgerUseCase) Balances(ctx context.Context, tripID string) (*BalanceSheet, error) {
	trip, err := uc.GetTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	balances, warnings := domain.ComputeBalances(trip.Participants, trip.Expenses)
	uc.reportWarnings(tripID, warnings)

	ordered := make([]domain.Balance, 0, len(trip.Participants))
	for _, p := range trip.Participants {
		ordered = append(ordered, balances[p.ID])
	}

	return &BalanceSheet{
		TripID:   trip.ID,
		Currency: trip.Currency,
		Balances: ordered,
		Warnings: warnings,
	}, nil
}

// Settlements suggests the payments that clear the trip's balances.
func (uc *LedgerUseCase) Settlements(ctx context.Context, tripID string) (*SettlementPlan, error) {
	trip, err := uc.GetTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	_, settlements, warnings := domain.SettleTrip(trip)
	uc.reportWarnings(tripID, warnings)

	if uc.metrics != nil {
		uc.metrics.SettlementsCreated.Inc()
		uc.metrics.SettlementSize.Observe(float64(len(settlements)))
	}

	return &SettlementPlan{
		TripID:      trip.ID,
		Currency:    trip.Currency,
		Settlements: settlements,
		Warnings:    warnings,
	}, nil
}

// CheckConsistency verifies that the trip's balances sum to zero up to rounding residue.
// Dangling payers and expenses nobody shares make a trip inconsistent.
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context, tripID string) (*ConsistencyReport, error) {
	trip, err := uc.GetTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	balances, warnings := domain.ComputeBalances(trip.Participants, trip.Expenses)

	var sum domain.Money
	for _, b := range balances {
		sum += b.Balance
	}
	bound := domain.RoundingBound(trip.Participants, trip.Expenses)

	report := &ConsistencyReport{
		TripID:     trip.ID,
		Sum:        sum,
		Bound:      bound,
		Consistent: sum.Abs() <= bound,
		Warnings:   warnings,
	}

	if !report.Consistent {
		uc.logger.Warn().
			Str("trip_id", trip.ID).
			Int64("sum", int64(sum)).
			Int64("bound", int64(bound)).
			Msg("trip balances do not add up")
	}

	return report, nil
}

func (uc *LedgerUseCase) reportWarnings(tripID string, warnings []domain.IntegrityWarning) {
	for _, w := range warnings {
		if uc.metrics != nil {
			uc.metrics.IntegrityWarnings.WithLabelValues(w.Kind).Inc()
		}
		uc.logger.Warn().
			Str("trip_id", tripID).
			Str("kind", w.Kind).
			Str("expense_id", w.ExpenseID).
			Str("reference", w.Reference).
			Msg("dangling participant reference")
	}
}

func cloneTrips(trips []*domain.Trip) []*domain.Trip {
	out := make([]*domain.Trip, len(trips))
	for i, t := range trips {
		out[i] = t.Clone()
	}
	return out
}
