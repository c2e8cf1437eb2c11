package driven

import (
	"context"

	"github.com/krlabs/kra/internal/core/domain"
)

// RunHistoryStore persists batch run records.
type RunHistoryStore interface {
	// SaveRun stores a run and its per-notebook entries.
	SaveRun(ctx context.Context, run *domain.RunRecord) error

	// ListRuns returns up to limit runs, newest first, without entries.
	ListRuns(ctx context.Context, limit int) ([]domain.RunRecord, error)

	// GetRun returns a run with its entries.
	// Returns domain.ErrNotFound if it does not exist.
	GetRun(ctx context.Context, id string) (*domain.RunRecord, error)
}
