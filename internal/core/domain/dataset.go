package domain

import "time"

// DatasetFormat is the on-disk format of a sample dataset.
type DatasetFormat string

// Sample dataset formats in lookup order.
const (
	FormatCSV     DatasetFormat = "csv"
	FormatParquet DatasetFormat = "parquet"
	FormatPickle  DatasetFormat = "pkl"
	FormatJSON    DatasetFormat = "json"
)

// SampleFormats is the order in which sample file extensions are tried.
// The first existing match wins.
var SampleFormats = []DatasetFormat{FormatCSV, FormatParquet, FormatPickle, FormatJSON}

// DatasetFile locates a sample dataset on disk.
type DatasetFile struct {
	Name   string        `json:"name"`
	Path   string        `json:"path"`
	Format DatasetFormat `json:"format"`
}

// Dataset is a small in-memory table.
type Dataset struct {
	Name    string     `json:"name"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`

	// Source is "remote" or the sample file path the rows came from.
	Source string `json:"source"`
}

// DatasetSpec describes how to fetch a dataset from a remote API.
type DatasetSpec struct {
	Name        string
	Description string
	URL         string

	// KeyEnv names the environment variable holding the credential.
	KeyEnv string

	// KeyParam is the query parameter the credential is sent as.
	KeyParam string

	// Params are extra query parameters.
	Params map[string]string
}

// Manifest entry statuses.
const (
	ManifestFetched = "fetched"
	ManifestSkipped = "skipped"
	ManifestFailed  = "failed"
)

// ManifestEntry records the outcome of generating one dataset.
type ManifestEntry struct {
	Name    string `json:"name"`
	File    string `json:"file,omitempty"`
	Rows    int    `json:"rows"`
	Columns int    `json:"columns"`
	Source  string `json:"source,omitempty"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Manifest summarises a sample generation run.
type Manifest struct {
	GeneratedAt time.Time       `json:"generated_at"`
	Datasets    []ManifestEntry `json:"datasets"`
}

// CredentialEnvVars are the environment variables recognised as data
// source credentials.
var CredentialEnvVars = []string{
	"CENSUS_API_KEY",
	"BLS_API_KEY",
	"EPA_API_KEY",
	"FBI_CRIME_API_KEY",
}
