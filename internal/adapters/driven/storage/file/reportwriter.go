package file

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/krlabs/kra/internal/core/domain"
	"github.com/krlabs/kra/internal/core/ports/driven"
)

// Ensure ReportWriter implements the interface.
var _ driven.ReportWriter = (*ReportWriter)(nil)

// ReportWriter writes report artifacts relative to the workspace root.
type ReportWriter struct {
	root string
}

// NewReportWriter creates a writer rooted at root.
func NewReportWriter(root string) *ReportWriter {
	return &ReportWriter{root: root}
}

// WriteReport writes data and returns the resolved path. Parent
// directories are created as needed.
func (w *ReportWriter) WriteReport(_ context.Context, path string, data []byte) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%w: empty report path", domain.ErrInvalidInput)
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(w.root, path)
	}
	if err := writeFileAtomic(path, data, 0o644); err != nil {
		return "", fmt.Errorf("%w: write report: %v", domain.ErrIO, err)
	}
	return path, nil
}
