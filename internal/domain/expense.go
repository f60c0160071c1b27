package domain

import (
	"strings"
	"time"
)

// SplitType decides how an expense is charged to participants.
type SplitType string

const (
	// SplitEqual shares the amount evenly among participants that are not excluded.
	SplitEqual SplitType = "equal"
	// SplitPersonal charges the whole amount to the payer.
	SplitPersonal SplitType = "personal"
)

// ParseSplitType maps a stored or user-supplied value to a SplitType.
// Anything unrecognised is treated as an equal split.
func ParseSplitType(s string) SplitType {
	if SplitType(strings.ToLower(strings.TrimSpace(s))) == SplitPersonal {
		return SplitPersonal
	}
	return SplitEqual
}

// Expense is a single payment recorded against a trip.
type Expense struct {
	ID        string
	Title     string
	Amount    Money
	PaidBy    string
	SplitType SplitType
	// Excluded holds participant ids that do not share an equal split.
	// It is ignored for personal expenses.
	Excluded  []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsExcluded reports whether the participant is excluded from the expense.
func (e *Expense) IsExcluded(participantID string) bool {
	for _, id := range e.Excluded {
		if id == participantID {
			return true
		}
	}
	return false
}

// Touch advances UpdatedAt to now. It never moves the timestamp backwards.
func (e *Expense) Touch(now time.Time) {
	if now.After(e.UpdatedAt) {
		e.UpdatedAt = now
	}
}

// Clone returns a deep copy of the expense.
func (e Expense) Clone() Expense {
	e.Excluded = append([]string{}, e.Excluded...)
	return e
}

// DedupeIDs drops empty and repeated ids while keeping the first occurrence order.
func DedupeIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
