package types

import "time"

// Gap is an identified but unresolved knowledge requirement.
type Gap struct {
	Key         string
	Description string
	Priority    int
	PhaseTag    string // assigned by keyword match during roadmap extraction
	Attempts    int
	LastSeen    time.Time
	Resolved    bool
}

// IngestedContext is a context fractal pulled from an external source
// during a Gap Resolver sweep.
type IngestedContext struct {
	ProvenanceID string
	SourcePath   string
	Content      string
	IngestedAt   time.Time
}

// Concept is an evolved knowledge unit bound to a Gap and a Context, with
// provenance. Every Concept has a non-null source Gap and source Context
// (§3 invariant).
type Concept struct {
	Name          string
	Description   string
	SourceGapKey  string
	SourceContext string
	Provenance    string
	CreatedAt     time.Time
}

// SweepReport summarizes one Gap Resolver sweep (§4.I).
type SweepReport struct {
	GapsTotal     int
	GapsResolved  int
	GapsRemaining int
	ConceptsNew   int
	IngestErrors  int
}
