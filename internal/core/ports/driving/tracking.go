package driving

import (
	"context"

	"github.com/krlabs/kra/internal/core/domain"
)

// TrackingService manages execution logs for notebook runs.
type TrackingService interface {
	// Start creates and persists a new execution log.
	Start(ctx context.Context, opts domain.StartOptions) (*domain.ExecutionLog, error)

	// Section records the start or end of a named section.
	Section(ctx context.Context, id, name string, event domain.SectionEvent) error

	// AddResult stores a key/value result on an unfinished log.
	AddResult(ctx context.Context, id, key string, value any) error

	// LogError appends an error message to an unfinished log.
	LogError(ctx context.Context, id, message string) error

	// Finish stamps the end time, duration and status.
	// Returns domain.ErrAlreadyFinished if the log was already finished.
	Finish(ctx context.Context, id string, results map[string]any, errs []string) (*domain.ExecutionLog, error)

	// Get retrieves a log by id.
	Get(ctx context.Context, id string) (*domain.ExecutionLog, error)

	// ListRecent returns up to limit logs, newest first.
	ListRecent(ctx context.Context, limit int) ([]domain.ExecutionLog, error)
}
