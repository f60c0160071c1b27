// Package codec converts trips to and from their stored JSON document form.
//
// Decoding is deliberately lenient: missing fields take defaults, unknown fields are
// ignored and older documents that describe people with a "members" key are upgraded
// to participants.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Mk9397/Expense-Splitter/internal/domain"
)

// ErrInvalidDocument is returned for documents that cannot describe a trip at all.
var ErrInvalidDocument = errors.New("invalid trip document")

type participantDocument struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type expenseDocument struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Amount    decimal.Decimal `json:"amount"`
	PaidBy    string          `json:"paid_by"`
	SplitType string          `json:"split_type"`
	Excluded  []string        `json:"excluded"`
	CreatedAt Timestamp       `json:"created_at"`
	UpdatedAt Timestamp       `json:"updated_at"`
}

type tripDocument struct {
	ID           string                `json:"id"`
	Name         string                `json:"name"`
	Currency     string                `json:"currency"`
	Participants []participantDocument `json:"participants"`
	Expenses     []expenseDocument     `json:"expenses"`
	CreatedAt    Timestamp             `json:"created_at"`
	UpdatedAt    Timestamp             `json:"updated_at"`

	// Legacy fields, read only.
	Members     json.RawMessage `json:"members,omitempty"`
	MemberCount *int            `json:"member_count,omitempty"`
}

// outgoing shapes use json.Number so amounts are written as plain JSON numbers.
type expenseOut struct {
	ID        string      `json:"id"`
	Title     string      `json:"title"`
	Amount    json.Number `json:"amount"`
	PaidBy    string      `json:"paid_by"`
	SplitType string      `json:"split_type"`
	Excluded  []string    `json:"excluded"`
	CreatedAt Timestamp   `json:"created_at"`
	UpdatedAt Timestamp   `json:"updated_at"`
}

type tripOut struct {
	ID           string                `json:"id"`
	Name         string                `json:"name"`
	Currency     string                `json:"currency"`
	Participants []participantDocument `json:"participants"`
	Expenses     []expenseOut          `json:"expenses"`
	CreatedAt    Timestamp             `json:"created_at"`
	UpdatedAt    Timestamp             `json:"updated_at"`
}

// EncodeTrip renders a trip as a JSON document.
func EncodeTrip(t *domain.Trip) ([]byte, error) {
	return json.Marshal(toOut(t))
}

// EncodeTrips renders trips as a JSON array, preserving order.
func EncodeTrips(trips []*domain.Trip) ([]byte, error) {
	out := make([]tripOut, len(trips))
	for i, t := range trips {
		out[i] = toOut(t)
	}
	return json.MarshalIndent(out, "", "  ")
}

// DecodeTrip parses a single trip document.
func DecodeTrip(data []byte) (*domain.Trip, error) {
	var doc tripDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return fromDocument(doc)
}

// DecodeTrips parses a JSON array of trip documents. Empty input yields no trips.
func DecodeTrips(data []byte) ([]*domain.Trip, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []*domain.Trip{}, nil
	}

	var docs []tripDocument
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	trips := make([]*domain.Trip, 0, len(docs))
	for i, doc := range docs {
		t, err := fromDocument(doc)
		if err != nil {
			return nil, fmt.Errorf("trip %d: %w", i, err)
		}
		trips = append(trips, t)
	}
	return trips, nil
}

func toOut(t *domain.Trip) tripOut {
	out := tripOut{
		ID:           t.ID,
		Name:         t.Name,
		Currency:     t.Currency,
		Participants: make([]participantDocument, len(t.Participants)),
		Expenses:     make([]expenseOut, len(t.Expenses)),
		CreatedAt:    Timestamp{t.CreatedAt},
		UpdatedAt:    Timestamp{t.UpdatedAt},
	}
	for i, p := range t.Participants {
		out.Participants[i] = participantDocument{ID: p.ID, Name: p.Name}
	}
	for i, e := range t.Expenses {
		excluded := e.Excluded
		if excluded == nil {
			excluded = []string{}
		}
		out.Expenses[i] = expenseOut{
			ID:        e.ID,
			Title:     e.Title,
			Amount:    json.Number(e.Amount.Format(t.Currency)),
			PaidBy:    e.PaidBy,
			SplitType: string(e.SplitType),
			Excluded:  excluded,
			CreatedAt: Timestamp{e.CreatedAt},
			UpdatedAt: Timestamp{e.UpdatedAt},
		}
	}
	return out
}

func fromDocument(doc tripDocument) (*domain.Trip, error) {
	id := strings.TrimSpace(doc.ID)
	if id == "" {
		return nil, fmt.Errorf("%w: missing id", ErrInvalidDocument)
	}

	currency := domain.NormalizeCurrency(doc.Currency)
	if currency == "" {
		currency = domain.DefaultCurrency
	}

	participants, err := decodeParticipants(id, doc)
	if err != nil {
		return nil, err
	}

	trip := &domain.Trip{
		ID:           id,
		Name:         strings.TrimSpace(doc.Name),
		Currency:     currency,
		Participants: participants,
		Expenses:     make([]domain.Expense, 0, len(doc.Expenses)),
		CreatedAt:    doc.CreatedAt.Time,
		UpdatedAt:    orTime(doc.UpdatedAt.Time, doc.CreatedAt.Time),
	}

	for i, ed := range doc.Expenses {
		expenseID := ed.ID
		if expenseID == "" {
			expenseID = fmt.Sprintf("%s-expense-%d", id, i+1)
		}
		amount, err := domain.MoneyFromDecimal(ed.Amount, currency)
		if err != nil {
			return nil, fmt.Errorf("%w: expense %s: %w", ErrInvalidDocument, expenseID, err)
		}
		trip.Expenses = append(trip.Expenses, domain.Expense{
			ID:        expenseID,
			Title:     ed.Title,
			Amount:    amount,
			PaidBy:    ed.PaidBy,
			SplitType: domain.ParseSplitType(ed.SplitType),
			Excluded:  domain.DedupeIDs(ed.Excluded),
			CreatedAt: ed.CreatedAt.Time,
			UpdatedAt: orTime(ed.UpdatedAt.Time, ed.CreatedAt.Time),
		})
	}

	return trip, nil
}

// decodeParticipants reads "participants", falling back to the legacy "members" key
// which holds either a list of {id, name} objects or a head count.
func decodeParticipants(tripID string, doc tripDocument) ([]domain.Participant, error) {
	docs := doc.Participants

	if docs == nil && len(doc.Members) > 0 {
		trimmed := bytes.TrimSpace(doc.Members)
		switch {
		case len(trimmed) > 0 && trimmed[0] == '[':
			if err := json.Unmarshal(trimmed, &docs); err != nil {
				return nil, fmt.Errorf("%w: members: %v", ErrInvalidDocument, err)
			}
		case string(trimmed) == "null":
		default:
			var count int
			if err := json.Unmarshal(trimmed, &count); err != nil {
				return nil, fmt.Errorf("%w: members: %v", ErrInvalidDocument, err)
			}
			docs = placeholderMembers(count)
		}
	}

	if docs == nil && doc.MemberCount != nil {
		docs = placeholderMembers(*doc.MemberCount)
	}

	participants := make([]domain.Participant, 0, len(docs))
	for i, pd := range docs {
		pid := pd.ID
		if pid == "" {
			pid = fmt.Sprintf("%s-member-%d", tripID, i+1)
		}
		participants = append(participants, domain.Participant{ID: pid, Name: strings.TrimSpace(pd.Name)})
	}
	return participants, nil
}

func placeholderMembers(count int) []participantDocument {
	if count < 0 {
		count = 0
	}
	out := make([]participantDocument, count)
	for i := range out {
		out[i] = participantDocument{Name: fmt.Sprintf("Member %d", i+1)}
	}
	return out
}

func orTime(t, fallback time.Time) time.Time {
	if t.IsZero() {
		return fallback
	}
	return t
}
