package dto

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Mk9397/Expense-Splitter/internal/domain"
)

func TestExpenseRequest_ToUseCaseInput(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		currency   string
		wantAmount domain.Money
		wantSplit  domain.SplitType
		wantErr    error
	}{
		{
			name:       "number amount",
			body:       `{"title": "Dinner", "amount": 45.99, "paid_by": "a"}`,
			currency:   "USD",
			wantAmount: 4599,
			wantSplit:  domain.SplitEqual,
		},
		{
			name:       "string amount rounds half up",
			body:       `{"title": "Fuel", "amount": "10.005", "paid_by": "a", "split_type": "personal"}`,
			currency:   "EUR",
			wantAmount: 1001,
			wantSplit:  domain.SplitPersonal,
		},
		{
			name:       "zero decimal currency",
			body:       `{"title": "Ramen", "amount": 1200.4, "paid_by": "a"}`,
			currency:   "JPY",
			wantAmount: 1200,
			wantSplit:  domain.SplitEqual,
		},
		{
			name:       "unknown split type",
			body:       `{"title": "Taxi", "amount": 5, "paid_by": "a", "split_type": "weighted"}`,
			currency:   "USD",
			wantAmount: 500,
			wantSplit:  domain.SplitEqual,
		},
		{
			name:     "negative amount",
			body:     `{"title": "Refund", "amount": -1, "paid_by": "a"}`,
			currency: "USD",
			wantErr:  domain.ErrValidation,
		},
		{
			name:     "amount beyond int64 cents",
			body:     `{"title": "Yacht", "amount": "184467440737095516.17", "paid_by": "a"}`,
			currency: "USD",
			wantErr:  domain.ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req ExpenseRequest
			if err := json.Unmarshal([]byte(tt.body), &req); err != nil {
				t.Fatalf("decode: %v", err)
			}

			got, err := req.ToUseCaseInput(tt.currency)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Amount != tt.wantAmount {
				t.Fatalf("amount = %d, want %d", got.Amount, tt.wantAmount)
			}
			if got.SplitType != tt.wantSplit {
				t.Fatalf("split = %s, want %s", got.SplitType, tt.wantSplit)
			}
		})
	}
}

func TestExpenseRequest_KeepsExcluded(t *testing.T) {
	req := ExpenseRequest{Title: "Hotel", Amount: decimal.NewFromInt(90), PaidBy: "a", Excluded: []string{"b", "c"}}

	got, err := req.ToUseCaseInput("USD")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Excluded) != 2 || got.Excluded[0] != "b" || got.PaidBy != "a" || got.Title != "Hotel" {
		t.Fatalf("unexpected input %+v", got)
	}
}

func TestTripRequests_Validate(t *testing.T) {
	if err := (&CreateTripRequest{Name: "Goa"}).Validate(); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}
	if err := (&CreateTripRequest{Name: "  "}).Validate(); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for blank name, got %v", err)
	}
	if err := (&CreateTripRequest{Name: "Goa", Currency: "dollars"}).Validate(); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for bad currency, got %v", err)
	}
	if err := (&UpdateTripRequest{Name: "Goa", Currency: "eur"}).Validate(); err != nil {
		t.Fatalf("expected lower-case currency to be accepted, got %v", err)
	}
	if err := (&ParticipantRequest{Name: ""}).Validate(); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for blank participant, got %v", err)
	}
}
