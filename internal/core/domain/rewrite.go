package domain

import "time"

// RewriteStatus is the outcome of standardizing one notebook.
type RewriteStatus string

// Rewrite statuses.
const (
	// RewriteSuccess means the notebook was rewritten and persisted.
	RewriteSuccess RewriteStatus = "SUCCESS"

	// RewriteDryRun means the rewrite ran in memory only.
	RewriteDryRun RewriteStatus = "DRY_RUN"

	// RewriteError means the notebook was left untouched because of an error.
	RewriteError RewriteStatus = "ERROR"
)

// IsValid returns true if the status is recognised.
func (s RewriteStatus) IsValid() bool {
	switch s {
	case RewriteSuccess, RewriteDryRun, RewriteError:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s RewriteStatus) String() string {
	return string(s)
}

// Change descriptions recorded by the rewriter.
const (
	ChangeReplacedImports = "Replaced imports cell with standard template"
	ChangeAddedTracking   = "Added execution tracking cell"
	ChangeAddedDataLoad   = "Added standardized data loading cell"
)

// RewriteResult records what standardizing a notebook did.
type RewriteResult struct {
	// Notebook is the notebook file name.
	Notebook string `json:"notebook"`

	// Status is SUCCESS, DRY_RUN or ERROR.
	Status RewriteStatus `json:"status"`

	// Changes lists human-readable change descriptions in application order.
	Changes []string `json:"changes"`

	// Errors lists error messages. Non-empty only for ERROR.
	Errors []string `json:"errors"`

	// CellsBefore is the cell count of the input notebook.
	CellsBefore int `json:"cells_before"`

	// CellsAfter is the cell count of the rewritten notebook.
	CellsAfter int `json:"cells_after"`

	// Metadata is the header metadata used to parameterize canonical cells.
	Metadata NotebookMetadata `json:"metadata"`
}

// StandardizeOptions configures a standardization batch.
type StandardizeOptions struct {
	// Notebook restricts the batch to a single notebook file name.
	Notebook string

	// DryRun transforms in memory without backup or persistence.
	DryRun bool
}

// StandardizationSummary aggregates a standardization batch.
type StandardizationSummary struct {
	// RunID uniquely identifies the batch.
	RunID string `json:"run_id"`

	// GeneratedAt is when the batch finished.
	GeneratedAt time.Time `json:"generated_at"`

	// DryRun is true when nothing was persisted.
	DryRun bool `json:"dry_run"`

	// BackupDir is where originals were copied. Empty on dry runs.
	BackupDir string `json:"backup_dir,omitempty"`

	Total   int `json:"total"`
	Success int `json:"success"`
	DryRuns int `json:"dry_run_count"`
	Errors  int `json:"error_count"`

	// Results are the per-notebook results in enumeration order.
	Results []RewriteResult `json:"results"`
}

// Tally recomputes the status counts from Results.
func (s *StandardizationSummary) Tally() {
	s.Total = len(s.Results)
	s.Success, s.DryRuns, s.Errors = 0, 0, 0
	for i := range s.Results {
		switch s.Results[i].Status {
		case RewriteSuccess:
			s.Success++
		case RewriteDryRun:
			s.DryRuns++
		case RewriteError:
			s.Errors++
		}
	}
}
