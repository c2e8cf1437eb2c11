package domain

import "time"

// PathSettings holds workspace-relative locations.
type PathSettings struct {
	// Notebooks is the directory holding the notebooks to process.
	Notebooks string

	// Backups is the parent directory of per-run backup directories.
	Backups string

	// Logs is the directory execution logs are written to.
	Logs string

	// Samples is the sample dataset directory.
	Samples string
}

// ProbeSettings configures the import-resolution probe.
type ProbeSettings struct {
	// Interpreter is the Python executable to run.
	Interpreter string

	// Timeout bounds a single probe run.
	Timeout time.Duration
}

// FetchSettings configures remote dataset fetching.
type FetchSettings struct {
	// Timeout bounds a single outbound call.
	Timeout time.Duration

	// RatePerSecond paces successive calls.
	RatePerSecond float64
}

// WatchSettings configures validate --watch.
type WatchSettings struct {
	Debounce time.Duration
}

// TrackingSettings holds execution log defaults.
type TrackingSettings struct {
	DefaultSeed    int64
	DefaultVersion string
}

// WorkspaceSettings configures the workspace cohesion check.
type WorkspaceSettings struct {
	// ProblematicImports are substrings that must not appear in src/*.py.
	ProblematicImports []string
}

// AppSettings aggregates all application settings.
type AppSettings struct {
	Paths     PathSettings
	Probe     ProbeSettings
	Fetch     FetchSettings
	Watch     WatchSettings
	Tracking  TrackingSettings
	Workspace WorkspaceSettings
}

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Paths: PathSettings{
			Notebooks: "notebooks/examples",
			Backups:   "backups",
			Logs:      "logs/execution",
			Samples:   "data/sample_datasets",
		},
		Probe: ProbeSettings{
			Interpreter: "python3",
			Timeout:     10 * time.Second,
		},
		Fetch: FetchSettings{
			Timeout:       30 * time.Second,
			RatePerSecond: 1,
		},
		Watch: WatchSettings{
			Debounce: 500 * time.Millisecond,
		},
		Tracking: TrackingSettings{
			DefaultSeed:    42,
			DefaultVersion: "v1.0",
		},
		Workspace: WorkspaceSettings{
			ProblematicImports: []string{"from src.", "import src."},
		},
	}
}

// DefaultDatasetSpecs returns the datasets known without any configuration.
func DefaultDatasetSpecs() []DatasetSpec {
	return []DatasetSpec{
		{
			Name:        "census_income_2022",
			Description: "Median household income by state, ACS 5-year",
			URL:         "https://api.census.gov/data/2022/acs/acs5",
			KeyEnv:      "CENSUS_API_KEY",
			KeyParam:    "key",
			Params: map[string]string{
				"get": "NAME,B19013_001E,B01003_001E",
				"for": "state:*",
			},
		},
	}
}
