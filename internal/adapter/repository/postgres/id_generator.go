package postgres

import (
	"strings"

	"github.com/oklog/ulid/v2"
)

// ULIDGenerator generates lexically sortable trip, participant and expense ids.
type ULIDGenerator struct{}

// NewULIDGenerator creates a new ULIDGenerator.
func NewULIDGenerator() *ULIDGenerator {
	return &ULIDGenerator{}
}

// Generate returns a new lower-case ULID.
func (g *ULIDGenerator) Generate() string {
	return strings.ToLower(ulid.Make().String())
}
