package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/krlabs/kra/internal/core/domain"
	"github.com/krlabs/kra/internal/core/ports/driven"
	"github.com/krlabs/kra/internal/logger"
)

// Ensure ExecutionLogStore implements the interface.
var _ driven.ExecutionLogStore = (*ExecutionLogStore)(nil)

// ExecutionLogStore keeps one <id>.json document per execution.
type ExecutionLogStore struct {
	dir string
}

// NewExecutionLogStore creates a store writing into dir.
func NewExecutionLogStore(dir string) *ExecutionLogStore {
	return &ExecutionLogStore{dir: dir}
}

// Save writes the log with two-space indentation.
func (s *ExecutionLogStore) Save(_ context.Context, log *domain.ExecutionLog) error {
	if log == nil || log.ExecutionID == "" {
		return domain.ErrInvalidInput
	}
	p, err := s.path(log.ExecutionID)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(log, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal execution log: %w", err)
	}
	if err := writeFileAtomic(p, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("%w: save execution log: %v", domain.ErrIO, err)
	}
	return nil
}

// Get reads the log with the given id.
func (s *ExecutionLogStore) Get(_ context.Context, id string) (*domain.ExecutionLog, error) {
	p, err := s.path(id)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("execution %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrIO, err)
	}

	var log domain.ExecutionLog
	if err := json.Unmarshal(data, &log); err != nil {
		return nil, fmt.Errorf("decode execution log %s: %w", id, err)
	}
	return &log, nil
}

// ListRecent returns up to limit logs ordered by file modification time,
// newest first. Files that fail to decode are skipped.
func (s *ExecutionLogStore) ListRecent(ctx context.Context, limit int) ([]domain.ExecutionLog, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrIO, err)
	}

	type candidate struct {
		id    string
		mtime int64
	}
	var candidates []candidate
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, "exec_") || !strings.HasSuffix(name, ".json") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		candidates = append(candidates, candidate{
			id:    strings.TrimSuffix(name, ".json"),
			mtime: info.ModTime().UnixNano(),
		})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].mtime != candidates[j].mtime {
			return candidates[i].mtime > candidates[j].mtime
		}
		return candidates[i].id > candidates[j].id
	})

	if limit <= 0 || limit > len(candidates) {
		limit = len(candidates)
	}
	logs := make([]domain.ExecutionLog, 0, limit)
	for _, c := range candidates {
		if len(logs) >= limit {
			break
		}
		log, err := s.Get(ctx, c.id)
		if err != nil {
			logger.Debug("skipping execution log %s: %v", c.id, err)
			continue
		}
		logs = append(logs, *log)
	}
	return logs, nil
}

// Dir returns the log directory.
func (s *ExecutionLogStore) Dir() string {
	return s.dir
}

func (s *ExecutionLogStore) path(id string) (string, error) {
	if id == "" || id != filepath.Base(id) || strings.HasPrefix(id, ".") {
		return "", fmt.Errorf("%w: execution id %q", domain.ErrInvalidInput, id)
	}
	return filepath.Join(s.dir, id+".json"), nil
}
