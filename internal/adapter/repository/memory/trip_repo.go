// Package memory holds trips for the lifetime of the process only.
package memory

import (
	"context"
	"sync"

	"github.com/Mk9397/Expense-Splitter/internal/domain"
)

// TripRepository is a volatile TripRepository. It stores deep copies so callers
// cannot change persisted state by mutating their trips afterwards.
type TripRepository struct {
	mu    sync.RWMutex
	trips *domain.Ledger
}

// NewTripRepository creates a repository seeded with the given trips.
func NewTripRepository(seed ...*domain.Trip) *TripRepository {
	r := &TripRepository{trips: domain.NewLedger()}
	for _, t := range seed {
		r.trips.Put(t.Clone())
	}
	return r
}

func (r *TripRepository) Save(ctx context.Context, trip *domain.Trip) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trips.Put(trip.Clone())
	return nil
}

func (r *TripRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trips.Remove(id)
	return nil
}

func (r *TripRepository) LoadAll(ctx context.Context) ([]*domain.Trip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	trips := r.trips.List()
	out := make([]*domain.Trip, len(trips))
	for i, t := range trips {
		out[i] = t.Clone()
	}
	return out, nil
}
