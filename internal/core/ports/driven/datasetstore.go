package driven

import (
	"context"

	"github.com/krlabs/kra/internal/core/domain"
)

// DatasetStore reads and writes sample dataset files.
type DatasetStore interface {
	// Locate finds the first existing sample file for a dataset, trying
	// domain.SampleFormats in order. Returns domain.ErrNotFound if none exists.
	Locate(ctx context.Context, name string) (*domain.DatasetFile, error)

	// Read loads a located sample file.
	// Returns domain.ErrUnsupportedFormat for formats that cannot be decoded.
	Read(ctx context.Context, file domain.DatasetFile) (*domain.Dataset, error)

	// Write stores a dataset as CSV and returns the file path.
	Write(ctx context.Context, ds *domain.Dataset) (string, error)

	// WriteManifest stores the generation manifest and returns its path.
	WriteManifest(ctx context.Context, m *domain.Manifest) (string, error)
}

// DatasetFetcher retrieves a dataset from its remote API.
type DatasetFetcher interface {
	// Fetch performs a single call. It never retries.
	Fetch(ctx context.Context, spec domain.DatasetSpec, credential string) (*domain.Dataset, error)
}
