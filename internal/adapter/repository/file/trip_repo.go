// Package file stores the whole ledger as a single JSON array on disk.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Mk9397/Expense-Splitter/internal/adapter/codec"
	"github.com/Mk9397/Expense-Splitter/internal/domain"
)

// TripRepository keeps trips in one JSON document. Every write rewrites the file
// through a temporary file and a rename, so readers never see a partial document.
type TripRepository struct {
	mu     sync.Mutex
	path   string
	trips  *domain.Ledger
	loaded bool
	logger zerolog.Logger
}

// NewTripRepository creates a repository backed by path. The file is created on first write.
func NewTripRepository(path string, logger zerolog.Logger) *TripRepository {
	return &TripRepository{
		path:   path,
		trips:  domain.NewLedger(),
		logger: logger.With().Str("component", "file_repository").Str("path", path).Logger(),
	}
}

// LoadAll reads every trip from disk. A missing file is an empty ledger.
func (r *TripRepository) LoadAll(ctx context.Context) ([]*domain.Trip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.read(); err != nil {
		return nil, err
	}

	trips := r.trips.List()
	out := make([]*domain.Trip, len(trips))
	for i, t := range trips {
		out[i] = t.Clone()
	}
	return out, nil
}

// Save replaces the trip and rewrites the file.
func (r *TripRepository) Save(ctx context.Context, trip *domain.Trip) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.ensureLoaded(); err != nil {
		return err
	}

	next := domain.NewLedger(r.trips.List()...)
	next.Put(trip.Clone())
	if err := r.write(next); err != nil {
		return err
	}
	r.trips = next
	return nil
}

// Delete removes the trip and rewrites the file. Deleting an absent trip is a no-op.
func (r *TripRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.ensureLoaded(); err != nil {
		return err
	}
	if _, ok := r.trips.Get(id); !ok {
		return nil
	}

	next := domain.NewLedger(r.trips.List()...)
	next.Remove(id)
	if err := r.write(next); err != nil {
		return err
	}
	r.trips = next
	return nil
}

func (r *TripRepository) ensureLoaded() error {
	if r.loaded {
		return nil
	}
	return r.read()
}

func (r *TripRepository) read() error {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		r.trips = domain.NewLedger()
		r.loaded = true
		r.logger.Info().Msg("data file not found, starting empty")
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", r.path, err)
	}

	trips, err := codec.DecodeTrips(data)
	if err != nil {
		return fmt.Errorf("decode %s: %w", r.path, err)
	}

	r.trips = domain.NewLedger(trips...)
	r.loaded = true
	r.logger.Debug().Int("trips", len(trips)).Msg("data file loaded")
	return nil
}

func (r *TripRepository) write(ledger *domain.Ledger) error {
	data, err := codec.EncodeTrips(ledger.List())
	if err != nil {
		return fmt.Errorf("encode trips: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, r.path); err != nil {
		return fmt.Errorf("replace %s: %w", r.path, err)
	}
	return nil
}
