package services

import (
	"context"
	"crypto/md5" //nolint:gosec // identifier suffix, not a security boundary
	"encoding/hex"
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/krlabs/kra/internal/core/domain"
	"github.com/krlabs/kra/internal/core/ports/driven"
	"github.com/krlabs/kra/internal/core/ports/driving"
	"github.com/krlabs/kra/internal/logger"
)

// Ensure TrackingService implements the interface.
var _ driving.TrackingService = (*TrackingService)(nil)

// DefaultRecentLimit is the number of executions listed when no limit is given.
const DefaultRecentLimit = 10

const executionStampLayout = "20060102_150405"

// TrackingService records execution metadata for notebook runs.
type TrackingService struct {
	store     driven.ExecutionLogStore
	inspector driven.EnvironmentInspector
	defaults  domain.TrackingSettings
	now       func() time.Time

	// mu serialises read-modify-write cycles on stored logs.
	mu sync.Mutex
}

// NewTrackingService creates a new tracking service.
// The inspector is optional - if nil, the Go runtime platform is recorded
// and every package version is unknown.
func NewTrackingService(
	store driven.ExecutionLogStore,
	inspector driven.EnvironmentInspector,
	defaults domain.TrackingSettings,
) *TrackingService {
	return &TrackingService{
		store:     store,
		inspector: inspector,
		defaults:  defaults,
		now:       time.Now,
	}
}

// ExecutionID builds "exec_<YYYYMMDD_HHMMSS>_<hash>" where hash is the
// first six hex characters of md5(name + timestamp).
func ExecutionID(name string, at time.Time) string {
	stamp := at.Format(executionStampLayout)
	sum := md5.Sum([]byte(name + stamp)) //nolint:gosec // see import
	return fmt.Sprintf("exec_%s_%s", stamp, hex.EncodeToString(sum[:])[:6])
}

// Start creates and persists a new execution log. A nil seed or empty
// version falls back to the configured defaults.
func (s *TrackingService) Start(ctx context.Context, opts domain.StartOptions) (*domain.ExecutionLog, error) {
	name := strings.TrimSpace(opts.NotebookName)
	if name == "" {
		return nil, fmt.Errorf("notebook name is required: %w", domain.ErrInvalidInput)
	}
	version := opts.Version
	if version == "" {
		version = s.defaults.DefaultVersion
	}
	seed := s.defaults.DefaultSeed
	if opts.Seed != nil {
		seed = *opts.Seed
	}

	started := s.now()
	env, packages := s.inspect(ctx)
	log := &domain.ExecutionLog{
		ExecutionID:       ExecutionID(name, started),
		NotebookName:      name,
		Version:           version,
		StartTime:         started,
		Seed:              seed,
		AdvancedAnalytics: opts.AdvancedAnalytics,
		Environment:       env,
		Packages:          packages,
		Status:            domain.ExecutionRunning,
	}

	if err := s.store.Save(ctx, log); err != nil {
		return nil, fmt.Errorf("save execution log: %w", err)
	}
	logger.Info("started execution %s for %s", log.ExecutionID, name)
	return log, nil
}

// inspect snapshots the interpreter environment, falling back to the Go
// runtime when no inspector is available or it fails.
func (s *TrackingService) inspect(ctx context.Context) (domain.EnvironmentSnapshot, map[string]string) {
	if s.inspector != nil {
		env, packages, err := s.inspector.Inspect(ctx, domain.TrackedPackages)
		if err == nil {
			return env, packages
		}
		logger.Warn("inspect environment: %v", err)
	}

	cwd, _ := os.Getwd()
	env := domain.EnvironmentSnapshot{
		Platform:   runtime.GOOS + "-" + runtime.GOARCH,
		System:     runtime.GOOS,
		Machine:    runtime.GOARCH,
		WorkingDir: cwd,
	}
	packages := make(map[string]string, len(domain.TrackedPackages))
	for _, p := range domain.TrackedPackages {
		packages[p] = domain.PackageUnknown
	}
	return env, packages
}

// Section records the start or end of a named section.
func (s *TrackingService) Section(ctx context.Context, id, name string, event domain.SectionEvent) error {
	return s.update(ctx, id, func(log *domain.ExecutionLog) error {
		now := s.now()
		if log.Sections == nil {
			log.Sections = make(map[string]domain.SectionTiming)
		}
		switch event {
		case domain.SectionStart:
			log.Sections[name] = domain.SectionTiming{Start: now}
		case domain.SectionEnd:
			timing, ok := log.Sections[name]
			if !ok {
				return fmt.Errorf("section %q was not started: %w", name, domain.ErrInvalidInput)
			}
			timing.End = &now
			timing.DurationSeconds = now.Sub(timing.Start).Seconds()
			log.Sections[name] = timing
		default:
			return fmt.Errorf("unknown section event %q: %w", event, domain.ErrInvalidInput)
		}
		return nil
	})
}

// AddResult records a named result value.
func (s *TrackingService) AddResult(ctx context.Context, id, key string, value any) error {
	return s.update(ctx, id, func(log *domain.ExecutionLog) error {
		if log.Results == nil {
			log.Results = make(map[string]any)
		}
		log.Results[key] = value
		return nil
	})
}

// LogError appends an error message.
func (s *TrackingService) LogError(ctx context.Context, id, message string) error {
	return s.update(ctx, id, func(log *domain.ExecutionLog) error {
		log.Errors = append(log.Errors, message)
		return nil
	})
}

// Finish stamps the end time, duration and final status.
func (s *TrackingService) Finish(
	ctx context.Context,
	id string,
	results map[string]any,
	errs []string,
) (*domain.ExecutionLog, error) {
	var finished *domain.ExecutionLog
	err := s.update(ctx, id, func(log *domain.ExecutionLog) error {
		end := s.now()
		log.EndTime = &end
		log.DurationSeconds = end.Sub(log.StartTime).Seconds()
		log.DurationFormatted = domain.FormatDuration(log.DurationSeconds)

		for k, v := range results {
			if log.Results == nil {
				log.Results = make(map[string]any, len(results))
			}
			log.Results[k] = v
		}
		log.Errors = append(log.Errors, errs...)
		log.ErrorCount = len(log.Errors)

		log.Status = domain.ExecutionSuccess
		if log.ErrorCount > 0 {
			log.Status = domain.ExecutionCompletedWithErrors
		}
		finished = log
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Info("finished execution %s in %s", id, finished.DurationFormatted)
	return finished, nil
}

// Get returns an execution log by id.
func (s *TrackingService) Get(ctx context.Context, id string) (*domain.ExecutionLog, error) {
	return s.store.Get(ctx, id)
}

// ListRecent returns up to limit logs, newest first.
func (s *TrackingService) ListRecent(ctx context.Context, limit int) ([]domain.ExecutionLog, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	return s.store.ListRecent(ctx, limit)
}

// update applies fn to an unfinished log and saves it.
func (s *TrackingService) update(ctx context.Context, id string, fn func(*domain.ExecutionLog) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log, err := s.store.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("get execution %s: %w", id, err)
	}
	if log.Finished() {
		return fmt.Errorf("execution %s: %w", id, domain.ErrAlreadyFinished)
	}
	if err := fn(log); err != nil {
		return err
	}
	if err := s.store.Save(ctx, log); err != nil {
		return fmt.Errorf("save execution log: %w", err)
	}
	return nil
}
