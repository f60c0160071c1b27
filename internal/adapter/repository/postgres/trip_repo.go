package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/Mk9397/Expense-Splitter/internal/adapter/codec"
	"github.com/Mk9397/Expense-Splitter/internal/domain"
)

const (
	upsertTripSQL = `INSERT INTO trips (id, name, currency, document, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO UPDATE SET
    name = EXCLUDED.name,
    currency = EXCLUDED.currency,
    document = EXCLUDED.document,
    updated_at = EXCLUDED.updated_at`

	deleteTripSQL = `DELETE FROM trips WHERE id = $1`

	loadTripsSQL = `SELECT document FROM trips ORDER BY position`
)

// querier is the subset of pgxpool.Pool the repository needs.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// TripRepository stores each trip as a JSONB document, one row per trip.
// Insertion order is kept by the position column.
type TripRepository struct {
	db      querier
	retrier *Retrier
}

// NewTripRepository creates a new TripRepository.
func NewTripRepository(pool *pgxpool.Pool, logger zerolog.Logger) *TripRepository {
	return newTripRepository(pool, NewRetrier(logger))
}

func newTripRepository(db querier, retrier *Retrier) *TripRepository {
	return &TripRepository{db: db, retrier: retrier}
}

// Save inserts or replaces the trip.
func (r *TripRepository) Save(ctx context.Context, trip *domain.Trip) error {
	doc, err := codec.EncodeTrip(trip)
	if err != nil {
		return fmt.Errorf("encode trip %s: %w", trip.ID, err)
	}

	return r.retrier.Retry(ctx, "save_trip", func() error {
		_, err := r.db.Exec(ctx, upsertTripSQL,
			trip.ID,
			trip.Name,
			trip.Currency,
			doc,
			trip.CreatedAt,
			trip.UpdatedAt,
		)
		return err
	})
}

// Delete removes the trip. Deleting an absent trip is not an error.
func (r *TripRepository) Delete(ctx context.Context, id string) error {
	return r.retrier.Retry(ctx, "delete_trip", func() error {
		_, err := r.db.Exec(ctx, deleteTripSQL, id)
		return err
	})
}

// LoadAll returns every stored trip in insertion order.
func (r *TripRepository) LoadAll(ctx context.Context) ([]*domain.Trip, error) {
	var trips []*domain.Trip

	err := r.retrier.Retry(ctx, "load_trips", func() error {
		trips = trips[:0]

		rows, err := r.db.Query(ctx, loadTripsSQL)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var doc []byte
			if err := rows.Scan(&doc); err != nil {
				return err
			}

			trip, err := codec.DecodeTrip(doc)
			if err != nil {
				return err
			}
			trips = append(trips, trip)
		}

		return rows.Err()
	})
	if err != nil {
		return nil, err
	}

	if trips == nil {
		trips = []*domain.Trip{}
	}
	return trips, nil
}
