package domain

import "errors"

var (
	// ErrValidation is the root of every input validation failure.
	ErrValidation = errors.New("validation failed")

	// Lookup errors
	ErrTripNotFound        = errors.New("trip not found")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrExpenseNotFound     = errors.New("expense not found")
)
