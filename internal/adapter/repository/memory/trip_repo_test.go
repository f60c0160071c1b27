package memory

import (
	"context"
	"testing"

	"github.com/Mk9397/Expense-Splitter/internal/domain"
)

func TestTripRepositoryKeepsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewTripRepository(&domain.Trip{ID: "seed", Name: "Seed"})

	trip := &domain.Trip{ID: "t1", Name: "Accra", Currency: "USD"}
	if err := repo.Save(ctx, trip); err != nil {
		t.Fatalf("save: %v", err)
	}
	trip.Name = "changed after save"

	trips, err := repo.LoadAll(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(trips) != 2 {
		t.Fatalf("expected 2 trips, got %d", len(trips))
	}
	if trips[0].ID != "seed" || trips[1].Name != "Accra" {
		t.Fatalf("unexpected trips: %+v %+v", trips[0], trips[1])
	}

	trips[1].Name = "changed after load"
	again, _ := repo.LoadAll(ctx)
	if again[1].Name != "Accra" {
		t.Fatalf("loaded trip aliases stored state")
	}
}

func TestTripRepositoryDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewTripRepository(&domain.Trip{ID: "a"}, &domain.Trip{ID: "b"})

	if err := repo.Delete(ctx, "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, "missing"); err != nil {
		t.Fatalf("delete of absent trip should succeed: %v", err)
	}

	trips, _ := repo.LoadAll(ctx)
	if len(trips) != 1 || trips[0].ID != "b" {
		t.Fatalf("unexpected trips after delete: %+v", trips)
	}
}
