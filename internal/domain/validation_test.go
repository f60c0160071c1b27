package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateTripName(t *testing.T) {
	t.Parallel()

	t.Run("valid name", func(t *testing.T) {
		if err := ValidateTripName("  Goa 2024 "); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("blank name rejected", func(t *testing.T) {
		err := ValidateTripName("   ")
		if !errors.Is(err, ErrInvalidTripName) {
			t.Fatalf("expected ErrInvalidTripName, got %v", err)
		}
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("expected error to unwrap to ErrValidation, got %v", err)
		}
	})

	t.Run("name too long", func(t *testing.T) {
		err := ValidateTripName(strings.Repeat("a", MaxNameLength+1))
		if !errors.Is(err, ErrInvalidTripName) {
			t.Fatalf("expected ErrInvalidTripName, got %v", err)
		}
	})
}

func TestValidateParticipantName(t *testing.T) {
	t.Parallel()

	if err := ValidateParticipantName("Ada"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := ValidateParticipantName(""); !errors.Is(err, ErrInvalidParticipantName) {
		t.Fatalf("expected ErrInvalidParticipantName, got %v", err)
	}
}

func TestValidateCurrency(t *testing.T) {
	t.Parallel()

	if err := ValidateCurrency("usd"); err != nil {
		t.Fatalf("expected lowercase code to be accepted, got %v", err)
	}
	if err := ValidateCurrency("CHF"); err != nil {
		t.Fatalf("expected unlisted three-letter code to be accepted, got %v", err)
	}
	if err := ValidateCurrency("US"); !errors.Is(err, ErrInvalidCurrency) {
		t.Fatalf("expected ErrInvalidCurrency, got %v", err)
	}
	if err := ValidateCurrency("12$"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestValidateAmount(t *testing.T) {
	t.Parallel()

	if err := ValidateAmount(0); err != nil {
		t.Fatalf("expected zero amount to be valid, got %v", err)
	}
	if err := ValidateAmount(9000); err != nil {
		t.Fatalf("expected positive amount to be valid, got %v", err)
	}
	if err := ValidateAmount(-1); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestValidateExpenseTitle(t *testing.T) {
	t.Parallel()

	if err := ValidateExpenseTitle(""); err != nil {
		t.Fatalf("expected empty title to be valid, got %v", err)
	}
	if err := ValidateExpenseTitle(strings.Repeat("x", MaxTitleLength+1)); !errors.Is(err, ErrInvalidExpenseTitle) {
		t.Fatalf("expected ErrInvalidExpenseTitle, got %v", err)
	}
}
