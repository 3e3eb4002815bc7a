// Package violation holds the canonical, source-agnostic violation record
// that every ingestion source normalizes into.
package violation

// Severity is a derived three-level rating. It is assigned once by the
// per-source normalization rules and never re-inferred after storage.
type Severity string

const (
	SeverityHigh   Severity = "High"
	SeverityMedium Severity = "Medium"
	SeverityLow    Severity = "Low"
)

// Known source labels. The (Source, SourceID) pair is the natural key;
// SourceID always carries a per-source prefix so raw identifiers from
// different systems can never collide.
const (
	SourceEPAEcho = "EPA ECHO"
	SourceFSIS    = "USDA FSIS (via openFDA)"
	SourceCurated = "Curated"
)

// MaxDescriptionLen caps assembled description text.
const MaxDescriptionLen = 2000

// Record is the canonical violation record. Optional fields are pointers;
// construction sites supply every field explicitly.
type Record struct {
	FacilityName  string
	Location      *string
	State         *string
	County        *string
	Latitude      *float64
	Longitude     *float64
	ViolationType *string
	Date          *string // ISO YYYY-MM-DD
	Source        string
	SourceID      *string
	Description   *string
	Severity      *Severity
	PenaltyAmount *float64
}

// Ptr returns a pointer to v. Construction sites use it to fill optional
// record fields inline.
func Ptr[T any](v T) *T { return &v }

// OptString returns nil for an empty string, a pointer otherwise.
func OptString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
