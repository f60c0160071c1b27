package usecase

import (
	"context"
	"strings"

	"github.com/Mk9397/Expense-Splitter/internal/domain"
)

// ExpenseInput represents input for adding or editing an expense.
type ExpenseInput struct {
	Title     string
	Amount    domain.Money
	PaidBy    string
	SplitType domain.SplitType
	// Excluded is stored as given; membership is not checked.
	Excluded []string
}

func (in ExpenseInput) validate() error {
	if err := domain.ValidateAmount(in.Amount); err != nil {
		return err
	}
	return domain.ValidateExpenseTitle(in.Title)
}

func (in ExpenseInput) apply(e *domain.Expense) {
	e.Title = strings.TrimSpace(in.Title)
	e.Amount = in.Amount
	e.PaidBy = in.PaidBy
	e.SplitType = domain.ParseSplitType(string(in.SplitType))
	e.Excluded = domain.DedupeIDs(in.Excluded)
}

// AddExpense records an expense on the trip and returns its id.
// It fails with domain.ErrValidation for a negative amount and with
// domain.ErrTripNotFound when the trip does not exist.
func (uc *LedgerUseCase) AddExpense(ctx context.Context, tripID string, input ExpenseInput) (string, error) {
	const op = "add_expense"

	if err := input.validate(); err != nil {
		uc.recordError(op, err)
		return "", err
	}

	now := uc.clock()
	expense := domain.Expense{
		ID:        uc.idGen.Generate(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	input.apply(&expense)

	_, err := uc.mutateTrip(ctx, op, tripID, func(t *domain.Trip) (bool, error) {
		t.AddExpense(expense)
		return true, nil
	})
	if err != nil {
		return "", err
	}

	if uc.metrics != nil {
		uc.metrics.ExpensesRecorded.Inc()
	}
	uc.logger.Debug().
		Str("trip_id", tripID).
		Str("expense_id", expense.ID).
		Int64("amount", int64(expense.Amount)).
		Str("split_type", string(expense.SplitType)).
		Msg("expense added")
	uc.publish(ctx, domain.EventTypeExpenseAdded, tripID, expense.ID)

	return expense.ID, nil
}

// DeleteExpense removes an expense. It returns false when the trip or expense does not exist.
func (uc *LedgerUseCase) DeleteExpense(ctx context.Context, tripID, expenseID string) (bool, error) {
	return uc.mutateBool(ctx, "delete_expense", tripID, func(t *domain.Trip) (bool, error) {
		return t.RemoveExpense(expenseID), nil
	}, domain.EventTypeExpenseRemoved, expenseID)
}

// EditExpense replaces every mutable field of an expense.
// It fails with domain.ErrValidation for a negative amount and returns false when the
// trip or expense does not exist.
func (uc *LedgerUseCase) EditExpense(ctx context.Context, tripID, expenseID string, input ExpenseInput) (bool, error) {
	const op = "edit_expense"

	if err := input.validate(); err != nil {
		uc.recordError(op, err)
		return false, err
	}

	now := uc.clock()

	return uc.mutateBool(ctx, op, tripID, func(t *domain.Trip) (bool, error) {
		expense, ok := t.Expense(expenseID)
		if !ok {
			return false, nil
		}
		expense = expense.Clone()
		input.apply(&expense)
		expense.Touch(now)
		return t.ReplaceExpense(expense), nil
	}, domain.EventTypeExpenseUpdated, expenseID)
}
