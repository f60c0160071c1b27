package usecase

import "time"

const (
	// DefaultPersistenceTimeout bounds a single repository write made after a mutation.
	DefaultPersistenceTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// DefaultReportCacheTTL is how long a rendered trip report stays cached.
	DefaultReportCacheTTL = 10 * time.Minute
)
