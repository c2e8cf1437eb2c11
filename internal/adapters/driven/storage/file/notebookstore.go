package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/krlabs/kra/internal/core/domain"
	"github.com/krlabs/kra/internal/core/ports/driven"
)

// Ensure NotebookStore implements the interface.
var _ driven.NotebookStore = (*NotebookStore)(nil)

const notebookExt = ".ipynb"

// NotebookStore reads and writes *.ipynb files in a single directory.
type NotebookStore struct {
	dir        string
	backupsDir string
}

// NewNotebookStore creates a store over dir, backing up into backupsDir.
func NewNotebookStore(dir, backupsDir string) *NotebookStore {
	return &NotebookStore{dir: dir, backupsDir: backupsDir}
}

// List returns the notebook file names in dir, sorted.
// Subdirectories are not searched.
func (s *NotebookStore) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("notebooks directory %s: %w", s.dir, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrIO, err)
	}

	var names []string
	for _, e := range entries {
		name := e.Name()
		if e.Type().IsRegular() && strings.HasSuffix(name, notebookExt) && !strings.HasPrefix(name, ".") {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Read returns the raw bytes of a notebook.
func (s *NotebookStore) Read(_ context.Context, name string) ([]byte, error) {
	p, err := s.resolve(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("notebook %s: %w", name, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrIO, err)
	}
	return data, nil
}

// Write replaces a notebook through a temporary file and rename, so a
// failed write leaves the previous contents in place.
func (s *NotebookStore) Write(_ context.Context, name string, data []byte) error {
	p, err := s.resolve(name)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(p, data, 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %v", domain.ErrIO, name, err)
	}
	return nil
}

// Backup copies the notebook into <backups>/notebooks_<stamp>/ and
// returns that directory.
func (s *NotebookStore) Backup(_ context.Context, stamp, name string) (string, error) {
	src, err := s.resolve(name)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return "", fmt.Errorf("%w: backup %s: %v", domain.ErrIO, name, err)
	}

	dir := filepath.Join(s.backupsDir, "notebooks_"+stamp)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create backup directory: %v", domain.ErrIO, err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("%w: backup %s: %v", domain.ErrIO, name, err)
	}
	return dir, nil
}

// Path returns the notebook's path on disk.
func (s *NotebookStore) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// Dir returns the notebooks directory.
func (s *NotebookStore) Dir() string {
	return s.dir
}

// resolve rejects names that would escape the notebooks directory.
func (s *NotebookStore) resolve(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return "", fmt.Errorf("%w: notebook name %q", domain.ErrInvalidInput, name)
	}
	return filepath.Join(s.dir, name), nil
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
