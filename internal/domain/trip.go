package domain

import (
	"time"
)

// Participant is a person taking part in a trip.
type Participant struct {
	ID   string
	Name string
}

// Trip groups participants and the expenses they share.
// Participants and Expenses keep insertion order.
type Trip struct {
	ID           string
	Name         string
	Currency     string
	Participants []Participant
	Expenses     []Expense
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Clone returns a deep copy of the trip so it can be mutated without affecting the original.
func (t *Trip) Clone() *Trip {
	c := *t
	c.Participants = append([]Participant{}, t.Participants...)
	c.Expenses = make([]Expense, len(t.Expenses))
	for i, e := range t.Expenses {
		c.Expenses[i] = e.Clone()
	}
	return &c
}

// Touch advances UpdatedAt to now. UpdatedAt strictly increases on every call:
// when the clock has not moved past it, it advances by one nanosecond instead.
func (t *Trip) Touch(now time.Time) {
	if !now.After(t.UpdatedAt) {
		now = t.UpdatedAt.Add(time.Nanosecond)
	}
	t.UpdatedAt = now
}

// Participant returns the participant with the given id.
func (t *Trip) Participant(id string) (Participant, bool) {
	for _, p := range t.Participants {
		if p.ID == id {
			return p, true
		}
	}
	return Participant{}, false
}

// HasParticipant reports whether id refers to a participant of the trip.
func (t *Trip) HasParticipant(id string) bool {
	_, ok := t.Participant(id)
	return ok
}

// Expense returns the expense with the given id.
func (t *Trip) Expense(id string) (Expense, bool) {
	for _, e := range t.Expenses {
		if e.ID == id {
			return e, true
		}
	}
	return Expense{}, false
}

// AddParticipant appends a participant.
func (t *Trip) AddParticipant(p Participant) {
	t.Participants = append(t.Participants, p)
}

// RenameParticipant sets the participant's name. It returns false if the id is unknown.
func (t *Trip) RenameParticipant(id, name string) bool {
	for i := range t.Participants {
		if t.Participants[i].ID == id {
			t.Participants[i].Name = name
			return true
		}
	}
	return false
}

// RemoveParticipant deletes the participant and strips its id from every expense's
// exclusion list. Expenses it paid keep their PaidBy as a dangling reference.
func (t *Trip) RemoveParticipant(id string) bool {
	idx := -1
	for i, p := range t.Participants {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}

	t.Participants = append(t.Participants[:idx], t.Participants[idx+1:]...)

	for i := range t.Expenses {
		excluded := t.Expenses[i].Excluded[:0]
		for _, ex := range t.Expenses[i].Excluded {
			if ex != id {
				excluded = append(excluded, ex)
			}
		}
		t.Expenses[i].Excluded = excluded
	}

	return true
}

// AddExpense appends an expense.
func (t *Trip) AddExpense(e Expense) {
	t.Expenses = append(t.Expenses, e)
}

// ReplaceExpense swaps in e for the expense with the same id, keeping its position.
func (t *Trip) ReplaceExpense(e Expense) bool {
	for i := range t.Expenses {
		if t.Expenses[i].ID == e.ID {
			t.Expenses[i] = e
			return true
		}
	}
	return false
}

// RemoveExpense deletes the expense with the given id.
func (t *Trip) RemoveExpense(id string) bool {
	for i := range t.Expenses {
		if t.Expenses[i].ID == id {
			t.Expenses = append(t.Expenses[:i], t.Expenses[i+1:]...)
			return true
		}
	}
	return false
}

// Total sums every expense amount.
func (t *Trip) Total() Money {
	var total Money
	for _, e := range t.Expenses {
		total += e.Amount
	}
	return total
}
