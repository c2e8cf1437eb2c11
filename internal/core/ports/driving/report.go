package driving

import (
	"context"

	"github.com/krlabs/kra/internal/core/domain"
)

// ReportService renders and stores batch reports.
type ReportService interface {
	// ValidationMarkdown renders the human-readable validation report.
	ValidationMarkdown(s *domain.ValidationSummary) string

	// StandardizationMarkdown renders the human-readable standardization report.
	StandardizationMarkdown(s *domain.StandardizationSummary) string

	// WriteValidation stores the Markdown report at path and the JSON
	// report beside it. It returns both paths.
	WriteValidation(ctx context.Context, s *domain.ValidationSummary, path string) (mdPath, jsonPath string, err error)

	// WriteStandardization stores the Markdown and JSON standardization reports.
	WriteStandardization(ctx context.Context, s *domain.StandardizationSummary, path string) (mdPath, jsonPath string, err error)
}
