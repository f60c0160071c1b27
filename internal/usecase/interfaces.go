package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/Mk9397/Expense-Splitter/internal/domain"
)

// ErrCacheMiss is returned by Cache.Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// TripRepository persists whole trips. Save is called with the complete trip after every
// mutation; implementations must write it atomically.
type TripRepository interface {
	Save(ctx context.Context, trip *domain.Trip) error
	Delete(ctx context.Context, id string) error
	LoadAll(ctx context.Context) ([]*domain.Trip, error)
}

// EventPublisher delivers change notifications to listeners.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.ChangeEvent) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// PrefixInvalidator is implemented by caches that can drop every key under a prefix.
type PrefixInvalidator interface {
	DeletePrefix(ctx context.Context, prefix string) (int, error)
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

// TripReader exposes read-only trip snapshots.
type TripReader interface {
	GetTrip(ctx context.Context, id string) (*domain.Trip, error)
}
