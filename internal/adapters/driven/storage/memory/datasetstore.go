package memory

import (
	"context"
	"sync"

	"github.com/krlabs/kra/internal/core/domain"
	"github.com/krlabs/kra/internal/core/ports/driven"
)

// Ensure DatasetStore implements the interface.
var _ driven.DatasetStore = (*DatasetStore)(nil)

// DatasetStore holds sample datasets in memory. Datasets added with
// PutFile are located but fail to read, which stands in for the
// binary formats the file store cannot decode.
type DatasetStore struct {
	mu       sync.RWMutex
	datasets map[string]domain.Dataset
	files    map[string]domain.DatasetFile
	manifest *domain.Manifest
}

// NewDatasetStore creates an empty store.
func NewDatasetStore() *DatasetStore {
	return &DatasetStore{
		datasets: make(map[string]domain.Dataset),
		files:    make(map[string]domain.DatasetFile),
	}
}

// PutFile registers a located file without readable contents.
func (s *DatasetStore) PutFile(f domain.DatasetFile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[f.Name] = f
}

// Locate returns the file for name.
func (s *DatasetStore) Locate(_ context.Context, name string) (*domain.DatasetFile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if f, ok := s.files[name]; ok {
		return &f, nil
	}
	return nil, domain.ErrNotFound
}

// Read returns the stored dataset, or ErrUnsupportedFormat for files
// added with PutFile.
func (s *DatasetStore) Read(_ context.Context, file domain.DatasetFile) (*domain.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ds, ok := s.datasets[file.Name]
	if !ok {
		return nil, domain.ErrUnsupportedFormat
	}
	ds.Source = file.Path
	return &ds, nil
}

// Write stores the dataset as a CSV sample.
func (s *DatasetStore) Write(_ context.Context, ds *domain.Dataset) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := ds.Name + ".csv"
	s.datasets[ds.Name] = *ds
	s.files[ds.Name] = domain.DatasetFile{Name: ds.Name, Path: p, Format: domain.FormatCSV}
	return p, nil
}

// WriteManifest keeps the last written manifest.
func (s *DatasetStore) WriteManifest(_ context.Context, m *domain.Manifest) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *m
	s.manifest = &cp
	return "manifest.json", nil
}

// Manifest returns the last written manifest, or nil.
func (s *DatasetStore) Manifest() *domain.Manifest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.manifest
}
