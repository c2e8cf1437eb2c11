package driving

import (
	"context"

	"github.com/krlabs/kra/internal/core/domain"
)

// ValidateService runs read-only checks against notebooks.
type ValidateService interface {
	// ValidateAll validates every selected notebook in order.
	ValidateAll(ctx context.Context, opts domain.ValidateOptions) (*domain.ValidationSummary, error)

	// ValidateOne validates a single notebook by file name.
	ValidateOne(ctx context.Context, name string) domain.ValidationResult
}

// CatalogService exposes the notebooks in the workspace.
type CatalogService interface {
	// List returns notebook file names in sorted order.
	List(ctx context.Context) ([]string, error)

	// Read returns a notebook's raw JSON.
	Read(ctx context.Context, name string) ([]byte, error)

	// Metadata extracts header metadata from a notebook.
	Metadata(ctx context.Context, name string) (domain.NotebookMetadata, error)
}
