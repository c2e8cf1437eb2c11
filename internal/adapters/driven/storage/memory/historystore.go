package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/krlabs/kra/internal/core/domain"
	"github.com/krlabs/kra/internal/core/ports/driven"
)

// Ensure RunHistoryStore implements the interface.
var _ driven.RunHistoryStore = (*RunHistoryStore)(nil)

// RunHistoryStore is an in-memory implementation of driven.RunHistoryStore for testing.
type RunHistoryStore struct {
	mu   sync.RWMutex
	runs map[string]domain.RunRecord
}

// NewRunHistoryStore creates an empty store.
func NewRunHistoryStore() *RunHistoryStore {
	return &RunHistoryStore{runs: make(map[string]domain.RunRecord)}
}

// SaveRun stores or replaces a run.
func (s *RunHistoryStore) SaveRun(_ context.Context, run *domain.RunRecord) error {
	if run == nil || run.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.ID] = *run
	return nil
}

// ListRuns returns runs newest first without their per-notebook results.
func (s *RunHistoryStore) ListRuns(_ context.Context, limit int) ([]domain.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	runs := make([]domain.RunRecord, 0, len(s.runs))
	for _, r := range s.runs {
		r.Results = nil
		runs = append(runs, r)
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

// GetRun returns a run with its results.
func (s *RunHistoryStore) GetRun(_ context.Context, id string) (*domain.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.runs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &r, nil
}
