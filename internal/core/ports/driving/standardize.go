package driving

import (
	"context"

	"github.com/krlabs/kra/internal/core/domain"
)

// StandardizeService rewrites notebooks to the canonical template.
type StandardizeService interface {
	// StandardizeAll processes every selected notebook in order. A failing
	// notebook is recorded as ERROR and never aborts the batch.
	StandardizeAll(ctx context.Context, opts domain.StandardizeOptions) (*domain.StandardizationSummary, error)

	// StandardizeOne processes a single notebook without recording history.
	StandardizeOne(ctx context.Context, name string, dryRun bool) domain.RewriteResult
}
