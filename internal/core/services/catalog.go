package services

import (
	"context"
	"fmt"
	"slices"

	"github.com/krlabs/kra/internal/core/domain"
	"github.com/krlabs/kra/internal/core/ports/driven"
	"github.com/krlabs/kra/internal/core/ports/driving"
	"github.com/krlabs/kra/internal/notebook"
)

// Ensure CatalogService implements the interface.
var _ driving.CatalogService = (*CatalogService)(nil)

// CatalogService provides read-only access to the workspace notebooks.
type CatalogService struct {
	notebooks driven.NotebookStore
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(notebooks driven.NotebookStore) *CatalogService {
	return &CatalogService{notebooks: notebooks}
}

// List returns notebook file names in sorted order.
func (s *CatalogService) List(ctx context.Context) ([]string, error) {
	return s.notebooks.List(ctx)
}

// Read returns the raw notebook JSON.
func (s *CatalogService) Read(ctx context.Context, name string) ([]byte, error) {
	return s.notebooks.Read(ctx, name)
}

// Metadata parses the notebook and extracts its header attributes.
func (s *CatalogService) Metadata(ctx context.Context, name string) (domain.NotebookMetadata, error) {
	data, err := s.notebooks.Read(ctx, name)
	if err != nil {
		return domain.NotebookMetadata{}, err
	}
	nb, err := notebook.Parse(name, data)
	if err != nil {
		return domain.NotebookMetadata{}, err
	}
	return notebook.ExtractMetadata(nb), nil
}

// resolveNotebooks returns the batch to process: every notebook in sorted
// order, or only single when it is set.
func resolveNotebooks(ctx context.Context, store driven.NotebookStore, single string) ([]string, error) {
	names, err := store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list notebooks: %w", err)
	}
	if single != "" {
		if !slices.Contains(names, single) {
			return nil, fmt.Errorf("notebook %s: %w", single, domain.ErrNotFound)
		}
		return []string{single}, nil
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no notebooks found: %w", domain.ErrNotFound)
	}
	return names, nil
}
