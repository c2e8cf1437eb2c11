package services

import (
	"context"
	"errors"

	"github.com/krlabs/kra/internal/core/domain"
	"github.com/krlabs/kra/internal/core/ports/driven"
	"github.com/krlabs/kra/internal/core/ports/driving"
)

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

// DefaultHistoryLimit is the number of runs listed when no limit is given.
const DefaultHistoryLimit = 20

// errNoHistory is returned when no history store is configured.
var errNoHistory = errors.New("run history is not available")

// HistoryService lists recorded batch runs.
type HistoryService struct {
	store driven.RunHistoryStore
}

// NewHistoryService creates a new history service.
func NewHistoryService(store driven.RunHistoryStore) *HistoryService {
	return &HistoryService{store: store}
}

// List returns up to limit runs, newest first.
func (s *HistoryService) List(ctx context.Context, limit int) ([]domain.RunRecord, error) {
	if s.store == nil {
		return nil, errNoHistory
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return s.store.ListRuns(ctx, limit)
}

// Get returns a run with its per-notebook results.
func (s *HistoryService) Get(ctx context.Context, id string) (*domain.RunRecord, error) {
	if s.store == nil {
		return nil, errNoHistory
	}
	return s.store.GetRun(ctx, id)
}
