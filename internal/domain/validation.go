package domain

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Validation errors. Each one unwraps to ErrValidation.
var (
	ErrInvalidTripName        = fmt.Errorf("%w: invalid trip name", ErrValidation)
	ErrInvalidParticipantName = fmt.Errorf("%w: invalid participant name", ErrValidation)
	ErrInvalidCurrency        = fmt.Errorf("%w: invalid currency code", ErrValidation)
	ErrInvalidAmount          = fmt.Errorf("%w: invalid amount", ErrValidation)
	ErrInvalidExpenseTitle    = fmt.Errorf("%w: invalid expense title", ErrValidation)
)

// Validation constants
const (
	MaxNameLength  = 255
	MaxTitleLength = 255
)

var currencyCodeRegex = regexp.MustCompile(`^[A-Z]{3}$`)

// ValidateTripName validates a trip name after trimming.
func ValidateTripName(name string) error {
	name = strings.TrimSpace(name)

	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidTripName)
	}

	if utf8.RuneCountInString(name) > MaxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidTripName, MaxNameLength)
	}

	return nil
}

// ValidateParticipantName validates a participant display name after trimming.
func ValidateParticipantName(name string) error {
	name = strings.TrimSpace(name)

	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidParticipantName)
	}

	if utf8.RuneCountInString(name) > MaxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidParticipantName, MaxNameLength)
	}

	return nil
}

// ValidateCurrency checks that the code looks like an ISO 4217 code.
// Any three-letter code is accepted so trips can use currencies outside SupportedCurrencies.
func ValidateCurrency(currency string) error {
	currency = NormalizeCurrency(currency)

	if !currencyCodeRegex.MatchString(currency) {
		return fmt.Errorf("%w: %q is not a three-letter currency code", ErrInvalidCurrency, currency)
	}

	return nil
}

// ValidateAmount rejects negative expense amounts. Zero is allowed.
func ValidateAmount(amount Money) error {
	if amount < 0 {
		return fmt.Errorf("%w: amount cannot be negative", ErrInvalidAmount)
	}
	return nil
}

// ValidateExpenseTitle bounds the title length. Empty titles are allowed.
func ValidateExpenseTitle(title string) error {
	if utf8.RuneCountInString(strings.TrimSpace(title)) > MaxTitleLength {
		return fmt.Errorf("%w: title exceeds %d characters", ErrInvalidExpenseTitle, MaxTitleLength)
	}
	return nil
}
