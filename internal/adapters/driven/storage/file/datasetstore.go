package file

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/krlabs/kra/internal/core/domain"
	"github.com/krlabs/kra/internal/core/ports/driven"
	"github.com/krlabs/kra/internal/table"
)

// Ensure DatasetStore implements the interface.
var _ driven.DatasetStore = (*DatasetStore)(nil)

// ManifestFile is the manifest written by DatasetStore.WriteManifest.
const ManifestFile = "manifest.json"

// DatasetStore reads and writes sample datasets in a single directory.
type DatasetStore struct {
	dir string
}

// NewDatasetStore creates a store over dir.
func NewDatasetStore(dir string) *DatasetStore {
	return &DatasetStore{dir: dir}
}

// Locate tries <name>.<ext> for each format in domain.SampleFormats.
func (s *DatasetStore) Locate(_ context.Context, name string) (*domain.DatasetFile, error) {
	if name == "" || name != filepath.Base(name) {
		return nil, fmt.Errorf("%w: dataset name %q", domain.ErrInvalidInput, name)
	}
	for _, format := range domain.SampleFormats {
		p := filepath.Join(s.dir, name+"."+string(format))
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return &domain.DatasetFile{Name: name, Path: p, Format: format}, nil
		}
	}
	return nil, fmt.Errorf("sample dataset %s in %s: %w", name, s.dir, domain.ErrNotFound)
}

// Read decodes CSV and JSON samples. Parquet and pickle files are
// located but cannot be decoded.
func (s *DatasetStore) Read(_ context.Context, file domain.DatasetFile) (*domain.Dataset, error) {
	switch file.Format {
	case domain.FormatCSV, domain.FormatJSON:
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, file.Format)
	}

	data, err := os.ReadFile(file.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("sample %s: %w", file.Path, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrIO, err)
	}

	var ds *domain.Dataset
	if file.Format == domain.FormatCSV {
		ds, err = table.DecodeCSV(data)
	} else {
		ds, err = table.DecodeJSON(data)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", file.Path, err)
	}
	ds.Name = file.Name
	ds.Source = file.Path
	return ds, nil
}

// Write stores the dataset as <dir>/<name>.csv with a header row.
func (s *DatasetStore) Write(_ context.Context, ds *domain.Dataset) (string, error) {
	if ds == nil || ds.Name == "" || ds.Name != filepath.Base(ds.Name) {
		return "", fmt.Errorf("%w: dataset without a valid name", domain.ErrInvalidInput)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(ds.Columns); err != nil {
		return "", fmt.Errorf("encode %s: %w", ds.Name, err)
	}
	if err := w.WriteAll(ds.Rows); err != nil {
		return "", fmt.Errorf("encode %s: %w", ds.Name, err)
	}

	p := filepath.Join(s.dir, ds.Name+"."+string(domain.FormatCSV))
	if err := writeFileAtomic(p, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("%w: write %s: %v", domain.ErrIO, p, err)
	}
	return p, nil
}

// WriteManifest writes <dir>/manifest.json.
func (s *DatasetStore) WriteManifest(_ context.Context, m *domain.Manifest) (string, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal manifest: %w", err)
	}
	p := filepath.Join(s.dir, ManifestFile)
	if err := writeFileAtomic(p, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("%w: write manifest: %v", domain.ErrIO, err)
	}
	return p, nil
}

// Dir returns the sample directory.
func (s *DatasetStore) Dir() string {
	return s.dir
}
