package memory

import (
	"context"
	"path"
	"sort"
	"sync"

	"github.com/krlabs/kra/internal/core/domain"
	"github.com/krlabs/kra/internal/core/ports/driven"
)

// Ensure NotebookStore implements the interface.
var _ driven.NotebookStore = (*NotebookStore)(nil)

// NotebookStore is an in-memory implementation of driven.NotebookStore for testing.
type NotebookStore struct {
	mu        sync.RWMutex
	notebooks map[string][]byte
	backups   map[string][]byte
	writes    int
}

// NewNotebookStore creates a store holding the given notebooks.
func NewNotebookStore(notebooks map[string][]byte) *NotebookStore {
	s := &NotebookStore{
		notebooks: make(map[string][]byte, len(notebooks)),
		backups:   make(map[string][]byte),
	}
	for name, data := range notebooks {
		s.notebooks[name] = append([]byte(nil), data...)
	}
	return s
}

// List returns notebook names in sorted order.
func (s *NotebookStore) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.notebooks))
	for name := range s.notebooks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Read returns a copy of the notebook's bytes.
func (s *NotebookStore) Read(_ context.Context, name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.notebooks[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

// Write replaces the notebook's bytes.
func (s *NotebookStore) Write(_ context.Context, name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notebooks[name] = append([]byte(nil), data...)
	s.writes++
	return nil
}

// Backup copies the current bytes under "notebooks_<stamp>/<name>".
func (s *NotebookStore) Backup(_ context.Context, stamp, name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.notebooks[name]
	if !ok {
		return "", domain.ErrNotFound
	}
	dir := "notebooks_" + stamp
	s.backups[path.Join(dir, name)] = append([]byte(nil), data...)
	return dir, nil
}

// Path returns a pseudo path for the notebook.
func (s *NotebookStore) Path(name string) string {
	return path.Join("memory", name)
}

// Backups returns the backed up notebooks keyed by "<dir>/<name>".
func (s *NotebookStore) Backups() map[string][]byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string][]byte, len(s.backups))
	for k, v := range s.backups {
		out[k] = v
	}
	return out
}

// Writes returns the number of Write calls.
func (s *NotebookStore) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}
