package domain

import "strings"

// Ledger is the in-memory store of trips, kept in creation order.
// It is not safe for concurrent use; callers serialize access.
type Ledger struct {
	order []string
	trips map[string]*Trip
}

// NewLedger returns a ledger holding the given trips in order.
// Later duplicates of an id replace earlier ones.
func NewLedger(trips ...*Trip) *Ledger {
	l := &Ledger{trips: make(map[string]*Trip, len(trips))}
	for _, t := range trips {
		l.Put(t)
	}
	return l
}

// Len returns the number of trips.
func (l *Ledger) Len() int {
	return len(l.order)
}

// Get returns the trip with the given id.
func (l *Ledger) Get(id string) (*Trip, bool) {
	t, ok := l.trips[id]
	return t, ok
}

// Put inserts or replaces a trip. New trips are appended to the order.
func (l *Ledger) Put(t *Trip) {
	if _, ok := l.trips[t.ID]; !ok {
		l.order = append(l.order, t.ID)
	}
	l.trips[t.ID] = t
}

// Remove deletes the trip and reports whether it existed.
func (l *Ledger) Remove(id string) bool {
	if _, ok := l.trips[id]; !ok {
		return false
	}
	delete(l.trips, id)
	for i, oid := range l.order {
		if oid == id {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
	return true
}

// List returns the trips in creation order.
func (l *Ledger) List() []*Trip {
	out := make([]*Trip, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.trips[id])
	}
	return out
}

// FindByName returns trips whose name contains query, ignoring case.
// An empty query matches every trip.
func (l *Ledger) FindByName(query string) []*Trip {
	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]*Trip, 0)
	for _, t := range l.List() {
		if query == "" || strings.Contains(strings.ToLower(t.Name), query) {
			out = append(out, t)
		}
	}
	return out
}
