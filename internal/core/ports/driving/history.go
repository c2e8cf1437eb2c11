package driving

import (
	"context"

	"github.com/krlabs/kra/internal/core/domain"
)

// HistoryService reads recorded batch runs.
type HistoryService interface {
	List(ctx context.Context, limit int) ([]domain.RunRecord, error)
	Get(ctx context.Context, id string) (*domain.RunRecord, error)
}
