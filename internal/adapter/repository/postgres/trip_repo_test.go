package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"

	"github.com/Mk9397/Expense-Splitter/internal/adapter/codec"
	"github.com/Mk9397/Expense-Splitter/internal/domain"
)

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	pool, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgxmock pool: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

func assertExpectations(t *testing.T, pool pgxmock.PgxPoolIface) {
	t.Helper()
	if err := pool.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations were not met: %v", err)
	}
}

func sampleTrip() *domain.Trip {
	now := time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC)
	return &domain.Trip{
		ID:           "trip-1",
		Name:         "Lagos",
		Currency:     "NGN",
		Participants: []domain.Participant{{ID: "a", Name: "Ada"}},
		Expenses: []domain.Expense{
			{ID: "e1", Title: "Suya", Amount: 250000, PaidBy: "a", SplitType: domain.SplitEqual, Excluded: []string{}, CreatedAt: now, UpdatedAt: now},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestTripRepositorySaveUpserts(t *testing.T) {
	pool := newMockPool(t)
	trip := sampleTrip()

	pool.ExpectExec("INSERT INTO trips").
		WithArgs(trip.ID, trip.Name, trip.Currency, pgxmock.AnyArg(), trip.CreatedAt, trip.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := newTripRepository(pool, fastRetrier())
	if err := repo.Save(context.Background(), trip); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	assertExpectations(t, pool)
}

func TestTripRepositorySaveRetriesSerializationFailure(t *testing.T) {
	pool := newMockPool(t)
	trip := sampleTrip()

	pool.ExpectExec("INSERT INTO trips").
		WithArgs(trip.ID, trip.Name, trip.Currency, pgxmock.AnyArg(), trip.CreatedAt, trip.UpdatedAt).
		WillReturnError(&pgconn.PgError{Code: pgErrSerializationFailure})
	pool.ExpectExec("INSERT INTO trips").
		WithArgs(trip.ID, trip.Name, trip.Currency, pgxmock.AnyArg(), trip.CreatedAt, trip.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := newTripRepository(pool, fastRetrier())
	if err := repo.Save(context.Background(), trip); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	assertExpectations(t, pool)
}

func TestTripRepositorySaveReturnsPermanentError(t *testing.T) {
	pool := newMockPool(t)
	trip := sampleTrip()
	dbErr := errors.New("connection refused")

	pool.ExpectExec("INSERT INTO trips").
		WithArgs(trip.ID, trip.Name, trip.Currency, pgxmock.AnyArg(), trip.CreatedAt, trip.UpdatedAt).
		WillReturnError(dbErr)

	repo := newTripRepository(pool, fastRetrier())
	if err := repo.Save(context.Background(), trip); !errors.Is(err, dbErr) {
		t.Fatalf("expected %v, got %v", dbErr, err)
	}

	assertExpectations(t, pool)
}

func TestTripRepositoryDelete(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectExec("DELETE FROM trips").
		WithArgs("trip-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	repo := newTripRepository(pool, fastRetrier())
	if err := repo.Delete(context.Background(), "trip-1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	assertExpectations(t, pool)
}

func TestTripRepositoryLoadAllDecodesInOrder(t *testing.T) {
	pool := newMockPool(t)

	first, err := codec.EncodeTrip(sampleTrip())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	legacy := []byte(`{"id": "trip-0", "name": "Old", "members": 2}`)

	pool.ExpectQuery("SELECT document FROM trips").
		WillReturnRows(pgxmock.NewRows([]string{"document"}).AddRow(first).AddRow(legacy))

	repo := newTripRepository(pool, fastRetrier())
	trips, err := repo.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if len(trips) != 2 {
		t.Fatalf("expected 2 trips, got %d", len(trips))
	}
	if trips[0].ID != "trip-1" || trips[1].ID != "trip-0" {
		t.Fatalf("unexpected order: %s, %s", trips[0].ID, trips[1].ID)
	}
	if trips[0].Expenses[0].Amount != 250000 {
		t.Fatalf("expected amount 250000, got %d", trips[0].Expenses[0].Amount)
	}
	if len(trips[1].Participants) != 2 {
		t.Fatalf("expected legacy members to become participants, got %d", len(trips[1].Participants))
	}

	assertExpectations(t, pool)
}

func TestTripRepositoryLoadAllEmpty(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectQuery("SELECT document FROM trips").
		WillReturnRows(pgxmock.NewRows([]string{"document"}))

	repo := newTripRepository(pool, fastRetrier())
	trips, err := repo.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if trips == nil || len(trips) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", trips)
	}

	assertExpectations(t, pool)
}

func TestTripRepositoryLoadAllRejectsCorruptDocument(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectQuery("SELECT document FROM trips").
		WillReturnRows(pgxmock.NewRows([]string{"document"}).AddRow([]byte(`{"name": "no id"}`)))

	repo := newTripRepository(pool, fastRetrier())
	if _, err := repo.LoadAll(context.Background()); !errors.Is(err, codec.ErrInvalidDocument) {
		t.Fatalf("expected invalid document error, got %v", err)
	}
}
