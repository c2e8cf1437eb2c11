package domain

import (
	"fmt"
	"time"
)

// Execution log statuses.
const (
	ExecutionRunning             = "running"
	ExecutionSuccess             = "success"
	ExecutionCompletedWithErrors = "completed_with_errors"
)

// Values recorded in an ExecutionLog's package inventory.
const (
	PackageNotInstalled = "not_installed"
	PackageUnknown      = "unknown"
)

// TrackedPackages are the interpreter packages whose versions are stamped
// on every execution log.
var TrackedPackages = []string{
	"pandas", "numpy", "matplotlib", "seaborn", "plotly",
	"scikit-learn", "scipy", "statsmodels", "joblib", "requests",
	"nbformat", "pyarrow", "dowhy", "causalml", "fairlearn",
	"nashpy", "mesa", "pymc3", "hmmlearn",
}

// EnvironmentSnapshot describes the interpreter and host of a run.
type EnvironmentSnapshot struct {
	InterpreterVersion string `json:"python_version"`
	Implementation     string `json:"python_implementation"`
	Platform           string `json:"platform"`
	System             string `json:"platform_system"`
	Release            string `json:"platform_release"`
	Machine            string `json:"machine"`
	Processor          string `json:"processor"`
	WorkingDir         string `json:"cwd"`
}

// SectionTiming records the duration of a named notebook section.
type SectionTiming struct {
	Start           time.Time  `json:"start"`
	End             *time.Time `json:"end,omitempty"`
	DurationSeconds float64    `json:"duration_seconds,omitempty"`
}

// ExecutionLog is the metadata stamped on a single notebook run.
type ExecutionLog struct {
	ExecutionID  string `json:"execution_id"`
	NotebookName string `json:"notebook_name"`
	Version      string `json:"version"`

	StartTime         time.Time  `json:"start_time"`
	EndTime           *time.Time `json:"end_time,omitempty"`
	DurationSeconds   float64    `json:"duration_seconds,omitempty"`
	DurationFormatted string     `json:"duration_formatted,omitempty"`

	// Seed is the random seed downstream numeric work should use.
	Seed              int64 `json:"seed"`
	AdvancedAnalytics bool  `json:"advanced_analytics"`

	Environment EnvironmentSnapshot `json:"environment"`

	// Packages maps tracked package names to versions.
	Packages map[string]string `json:"packages"`

	Sections   map[string]SectionTiming `json:"sections,omitempty"`
	Results    map[string]any           `json:"results,omitempty"`
	Errors     []string                 `json:"errors,omitempty"`
	ErrorCount int                      `json:"error_count"`
	Status     string                   `json:"status"`
}

// Finished reports whether the log has an end time.
func (l *ExecutionLog) Finished() bool {
	return l.EndTime != nil
}

// FormatDuration renders a duration as seconds, minutes or hours with
// one decimal place.
func FormatDuration(seconds float64) string {
	switch {
	case seconds < 60:
		return fmt.Sprintf("%.1f seconds", seconds)
	case seconds < 3600:
		return fmt.Sprintf("%.1f minutes", seconds/60)
	default:
		return fmt.Sprintf("%.1f hours", seconds/3600)
	}
}

// StartOptions configures a new execution log.
type StartOptions struct {
	NotebookName      string
	Version           string
	AdvancedAnalytics bool

	// Seed overrides the configured default seed when non-nil. Zero is a
	// valid seed.
	Seed *int64
}

// SectionEvent marks the start or end of a section.
type SectionEvent string

// Section events.
const (
	SectionStart SectionEvent = "start"
	SectionEnd   SectionEvent = "end"
)
