package domain

import "time"

// RunKind distinguishes recorded batch runs.
type RunKind string

// Run kinds.
const (
	RunStandardize RunKind = "standardize"
	RunValidate    RunKind = "validate"
)

// RunRecord is a batch run persisted to history.
type RunRecord struct {
	ID         string
	Kind       RunKind
	StartedAt  time.Time
	FinishedAt time.Time
	Total      int

	// Counts maps status names to the number of notebooks with that status.
	Counts map[string]int

	Results []RunEntry
}

// RunEntry is one notebook's outcome within a recorded run.
type RunEntry struct {
	Notebook string
	Status   string

	// Detail is the JSON-encoded per-notebook result.
	Detail []byte
}
