package ports

import (
	"context"
	"errors"

	"farmwatch/internal/domain/violation"
)

var ErrViolationNotFound = errors.New("violation not found")

// ViolationFilter narrows read-side queries. Zero values mean "no filter".
type ViolationFilter struct {
	Search        string // LIKE over facility name and description
	State         string // exact, uppercased 2-letter code
	Source        string // substring
	Severity      string // exact
	ViolationType string // substring
	DateFrom      string // inclusive, YYYY-MM-DD
	DateTo        string // inclusive, YYYY-MM-DD
}

// StoredViolation is a canonical record plus its storage identity.
type StoredViolation struct {
	ID        uint64
	CreatedAt string
	Record    violation.Record
}

// ViolationStats aggregates the stored records for the read-side service.
// ByState holds only the top 20 states by count; records without a severity
// are bucketed under "Unknown".
type ViolationStats struct {
	Total       int64
	BySource    map[string]int64
	BySeverity  map[string]int64
	ByState     map[string]int64
	StatesCount int64
}

// StateCount is one state's violation count for the states listing.
type StateCount struct {
	State string
	Count int64
}

type ViolationReadRepository interface {
	ListViolations(ctx context.Context, filter ViolationFilter, offset, limit int) ([]StoredViolation, int64, error)
	GetViolation(ctx context.Context, id uint64) (StoredViolation, error)
	Stats(ctx context.Context) (ViolationStats, error)
	States(ctx context.Context) ([]StateCount, error)
}

// ViolationRepository is the canonical store boundary. InsertViolation is
// insert-if-absent on the (source, source_id) natural key: a duplicate is a
// no-op reported as inserted=false, never an error.
type ViolationRepository interface {
	ViolationReadRepository
	InsertViolation(ctx context.Context, rec violation.Record) (inserted bool, err error)
}
