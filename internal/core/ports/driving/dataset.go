package driving

import (
	"context"

	"github.com/krlabs/kra/internal/core/domain"
)

// DatasetService gives notebooks access to sample and remote datasets.
type DatasetService interface {
	// Locate finds the sample file for a dataset.
	Locate(ctx context.Context, name string) (*domain.DatasetFile, error)

	// Load reads the sample file for a dataset.
	Load(ctx context.Context, name string) (*domain.Dataset, error)

	// LoadWithFallback fetches remotely when a credential is configured
	// and falls back to the sample otherwise.
	LoadWithFallback(ctx context.Context, name string) (*domain.Dataset, error)

	// Generate fetches the named datasets (all configured when empty)
	// one at a time and writes samples plus a manifest.
	Generate(ctx context.Context, names []string) (*domain.Manifest, error)

	// Specs returns the configured dataset specs.
	Specs() []domain.DatasetSpec

	// CredentialStatus reports which credential variables are set.
	CredentialStatus() map[string]bool
}
