package domain

import (
	"fmt"
	"time"
)

// CheckStatus is the outcome of one validation sub-check.
type CheckStatus string

// Sub-check statuses.
const (
	CheckPass    CheckStatus = "PASS"
	CheckWarning CheckStatus = "WARNING"
	CheckFail    CheckStatus = "FAIL"
	CheckError   CheckStatus = "ERROR"
)

// String returns the string representation.
func (s CheckStatus) String() string {
	return string(s)
}

// OverallStatus is the derived classification of a validated notebook.
type OverallStatus string

// Overall statuses.
const (
	OverallPass    OverallStatus = "PASS"
	OverallPartial OverallStatus = "PARTIAL"
	OverallFail    OverallStatus = "FAIL"
	OverallError   OverallStatus = "ERROR"
)

// String returns the string representation.
func (s OverallStatus) String() string {
	return string(s)
}

// IsValid returns true if the status is recognised.
func (s OverallStatus) IsValid() bool {
	switch s {
	case OverallPass, OverallPartial, OverallFail, OverallError:
		return true
	default:
		return false
	}
}

// DeriveOverall applies the fixed precedence: ERROR if any sub-check is
// ERROR, FAIL if structure is not PASS, PASS if all three pass, otherwise
// PARTIAL.
func DeriveOverall(structure, imports, patterns CheckStatus) OverallStatus {
	switch {
	case structure == CheckError || imports == CheckError || patterns == CheckError:
		return OverallError
	case structure != CheckPass:
		return OverallFail
	case imports == CheckPass && patterns == CheckPass:
		return OverallPass
	default:
		return OverallPartial
	}
}

// Finding records whether a named section or pattern was detected.
type Finding struct {
	Name  string `json:"name"`
	Found bool   `json:"found"`
}

// StructureResult is the outcome of the structure sub-check.
type StructureResult struct {
	Status CheckStatus `json:"status"`
	Error  string      `json:"error,omitempty"`

	TotalCells    int  `json:"total_cells"`
	CodeCells     int  `json:"code_cells"`
	MarkdownCells int  `json:"markdown_cells"`
	HasMetadata   bool `json:"has_metadata"`

	// Sections lists every named narrative section and whether it was found.
	Sections []Finding `json:"sections"`

	// MissingSections lists the names of sections that were not found.
	MissingSections []string `json:"missing_sections"`

	// SchemaViolations are soft notes from the nbformat schema check.
	// They never change Status.
	SchemaViolations []string `json:"schema_violations,omitempty"`
}

// ImportOutcome is the resolution result of one required capability.
type ImportOutcome struct {
	Name    string `json:"name"`
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

// Err returns nil for a resolved capability, otherwise an error wrapping
// ErrResolution.
func (o ImportOutcome) Err() error {
	if o.OK {
		return nil
	}
	return fmt.Errorf("%w: %s: %s", ErrResolution, o.Name, o.Message)
}

// ImportResult is the outcome of the import-resolution sub-check.
type ImportResult struct {
	Status CheckStatus `json:"status"`
	Error  string      `json:"error,omitempty"`

	Total  int `json:"total"`
	Passed int `json:"passed"`
	Failed int `json:"failed"`

	// Outcomes are per-capability results in the enumerated order.
	Outcomes []ImportOutcome `json:"outcomes"`
}

// Failures returns the outcomes that did not resolve.
func (r ImportResult) Failures() []ImportOutcome {
	var failed []ImportOutcome
	for _, o := range r.Outcomes {
		if !o.OK {
			failed = append(failed, o)
		}
	}
	return failed
}

// PatternResult is the outcome of the code-pattern sub-check.
type PatternResult struct {
	Status CheckStatus `json:"status"`
	Error  string      `json:"error,omitempty"`

	// Patterns lists every predicate and whether it matched.
	Patterns []Finding `json:"patterns"`

	// Issues are human-readable problems found.
	Issues []string `json:"issues"`

	// ImportedModules are the top-level modules imported by code cells.
	// Informational only.
	ImportedModules []string `json:"imported_modules,omitempty"`
}

// ValidationResult is the per-notebook validation record.
type ValidationResult struct {
	Notebook  string    `json:"notebook"`
	Path      string    `json:"path,omitempty"`
	Timestamp time.Time `json:"timestamp"`

	Structure StructureResult `json:"structure"`
	Imports   ImportResult    `json:"imports"`
	Patterns  PatternResult   `json:"patterns"`

	Overall OverallStatus `json:"overall_status"`
}

// ValidateOptions configures a validation batch.
type ValidateOptions struct {
	// Notebook restricts the batch to a single notebook file name.
	Notebook string
}

// ValidationSummary aggregates a validation batch.
type ValidationSummary struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`

	Total   int `json:"total"`
	Pass    int `json:"pass"`
	Partial int `json:"partial"`
	Fail    int `json:"fail"`
	Error   int `json:"error"`

	// EnvironmentWarnings lists interpreter packages that are missing.
	EnvironmentWarnings []string `json:"environment_warnings,omitempty"`

	Results []ValidationResult `json:"results"`
}

// Tally recomputes the status counts from Results.
func (s *ValidationSummary) Tally() {
	s.Total = len(s.Results)
	s.Pass, s.Partial, s.Fail, s.Error = 0, 0, 0, 0
	for i := range s.Results {
		switch s.Results[i].Overall {
		case OverallPass:
			s.Pass++
		case OverallPartial:
			s.Partial++
		case OverallFail:
			s.Fail++
		case OverallError:
			s.Error++
		}
	}
}

// Capability is a library or symbol a notebook needs to import.
type Capability struct {
	// Name is the label reported in results, e.g. "scikit-learn".
	Name string `json:"name"`

	// Statement is the Python import statement that resolves it.
	Statement string `json:"statement"`
}

// RequiredCapabilities are probed for every validated notebook, in order.
var RequiredCapabilities = []Capability{
	{Name: "kranalytics", Statement: "import kranalytics"},
	{Name: "data_utils", Statement: "from kranalytics import data_utils"},
	{Name: "execution_tracking", Statement: "from kranalytics.khipu_analytics.execution_tracking import setup_notebook_tracking"},
	{Name: "pandas", Statement: "import pandas"},
	{Name: "numpy", Statement: "import numpy"},
	{Name: "matplotlib", Statement: "import matplotlib"},
	{Name: "seaborn", Statement: "import seaborn"},
	{Name: "plotly", Statement: "import plotly"},
	{Name: "scikit-learn", Statement: "import sklearn"},
	{Name: "scipy", Statement: "import scipy"},
	{Name: "statsmodels", Statement: "import statsmodels"},
}
