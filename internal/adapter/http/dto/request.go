package dto

import (
	"github.com/shopspring/decimal"

	"github.com/Mk9397/Expense-Splitter/internal/domain"
	"github.com/Mk9397/Expense-Splitter/internal/usecase"
)

// CreateTripRequest represents a request to create a trip.
type CreateTripRequest struct {
	Name     string `json:"name"`
	Currency string `json:"currency,omitempty"`
}

// Validate checks the request before it reaches the ledger.
func (r *CreateTripRequest) Validate() error {
	if err := domain.ValidateTripName(r.Name); err != nil {
		return err
	}
	if r.Currency == "" {
		return nil
	}
	return domain.ValidateCurrency(r.Currency)
}

// UpdateTripRequest represents a request to rename a trip or change its currency.
// An empty currency keeps the current one.
type UpdateTripRequest struct {
	Name     string `json:"name"`
	Currency string `json:"currency,omitempty"`
}

// Validate checks the request before it reaches the ledger.
func (r *UpdateTripRequest) Validate() error {
	if err := domain.ValidateTripName(r.Name); err != nil {
		return err
	}
	if r.Currency == "" {
		return nil
	}
	return domain.ValidateCurrency(r.Currency)
}

// ParticipantRequest represents a request to add or rename a participant.
type ParticipantRequest struct {
	Name string `json:"name"`
}

// Validate checks the request before it reaches the ledger.
func (r *ParticipantRequest) Validate() error {
	return domain.ValidateParticipantName(r.Name)
}

// ExpenseRequest represents a request to record or edit an expense.
// Amount is in major units, as a JSON number or string.
type ExpenseRequest struct {
	Title     string          `json:"title"`
	Amount    decimal.Decimal `json:"amount"`
	PaidBy    string          `json:"paid_by"`
	SplitType string          `json:"split_type,omitempty"`
	Excluded  []string        `json:"excluded,omitempty"`
}

// ToUseCaseInput converts to use case input, rounding the amount to the
// currency's minor unit.
func (r *ExpenseRequest) ToUseCaseInput(currency string) (usecase.ExpenseInput, error) {
	if r.Amount.IsNegative() {
		return usecase.ExpenseInput{}, domain.ErrInvalidAmount
	}
	if err := domain.ValidateExpenseTitle(r.Title); err != nil {
		return usecase.ExpenseInput{}, err
	}
	amount, err := domain.MoneyFromDecimal(r.Amount, currency)
	if err != nil {
		return usecase.ExpenseInput{}, err
	}

	return usecase.ExpenseInput{
		Title:     r.Title,
		Amount:    amount,
		PaidBy:    r.PaidBy,
		SplitType: domain.ParseSplitType(r.SplitType),
		Excluded:  r.Excluded,
	}, nil
}
