package driven

import "context"

// ReportWriter stores report artifacts.
type ReportWriter interface {
	// WriteReport writes data to path, relative to the workspace root
	// unless absolute, and returns the resolved path.
	WriteReport(ctx context.Context, path string, data []byte) (string, error)
}
