package driven

import (
	"context"

	"github.com/krlabs/kra/internal/core/domain"
)

// ExecutionLogStore persists execution logs, one document per execution.
type ExecutionLogStore interface {
	// Save creates or replaces a log.
	Save(ctx context.Context, log *domain.ExecutionLog) error

	// Get retrieves a log by execution id.
	// Returns domain.ErrNotFound if it does not exist.
	Get(ctx context.Context, id string) (*domain.ExecutionLog, error)

	// ListRecent returns up to limit logs, most recently modified first.
	ListRecent(ctx context.Context, limit int) ([]domain.ExecutionLog, error)
}
