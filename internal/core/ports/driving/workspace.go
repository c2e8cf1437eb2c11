package driving

import (
	"context"

	"github.com/krlabs/kra/internal/core/domain"
)

// WorkspaceService checks workspace layout and naming conventions.
type WorkspaceService interface {
	Check(ctx context.Context) (*domain.WorkspaceReport, error)
}
