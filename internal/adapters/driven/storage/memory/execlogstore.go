package memory

import (
	"context"
	"sync"

	"github.com/krlabs/kra/internal/core/domain"
	"github.com/krlabs/kra/internal/core/ports/driven"
)

// Ensure ExecutionLogStore implements the interface.
var _ driven.ExecutionLogStore = (*ExecutionLogStore)(nil)

// ExecutionLogStore keeps execution logs in memory. Saves are ordered so
// ListRecent mirrors the newest-first listing of the file store.
type ExecutionLogStore struct {
	mu    sync.RWMutex
	logs  map[string]domain.ExecutionLog
	order []string
}

// NewExecutionLogStore creates an empty store.
func NewExecutionLogStore() *ExecutionLogStore {
	return &ExecutionLogStore{logs: make(map[string]domain.ExecutionLog)}
}

// Save stores a copy of the log, moving it to the most recent position.
func (s *ExecutionLogStore) Save(_ context.Context, log *domain.ExecutionLog) error {
	if log == nil || log.ExecutionID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.logs[log.ExecutionID]; exists {
		for i, id := range s.order {
			if id == log.ExecutionID {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	}
	s.logs[log.ExecutionID] = cloneLog(*log)
	s.order = append(s.order, log.ExecutionID)
	return nil
}

// Get returns a copy of the log.
func (s *ExecutionLogStore) Get(_ context.Context, id string) (*domain.ExecutionLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	log, ok := s.logs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := cloneLog(log)
	return &out, nil
}

// ListRecent returns up to limit logs, most recently saved first.
func (s *ExecutionLogStore) ListRecent(_ context.Context, limit int) ([]domain.ExecutionLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.ExecutionLog
	for i := len(s.order) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, cloneLog(s.logs[s.order[i]]))
	}
	return out, nil
}

func cloneLog(l domain.ExecutionLog) domain.ExecutionLog {
	if l.Packages != nil {
		pkgs := make(map[string]string, len(l.Packages))
		for k, v := range l.Packages {
			pkgs[k] = v
		}
		l.Packages = pkgs
	}
	if l.Sections != nil {
		sections := make(map[string]domain.SectionTiming, len(l.Sections))
		for k, v := range l.Sections {
			sections[k] = v
		}
		l.Sections = sections
	}
	if l.Results != nil {
		results := make(map[string]any, len(l.Results))
		for k, v := range l.Results {
			results[k] = v
		}
		l.Results = results
	}
	l.Errors = append([]string(nil), l.Errors...)
	return l
}
