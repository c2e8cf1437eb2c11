package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/time/rate"

	"github.com/krlabs/kra/internal/core/domain"
	"github.com/krlabs/kra/internal/core/ports/driven"
	"github.com/krlabs/kra/internal/core/ports/driving"
	"github.com/krlabs/kra/internal/logger"
)

// Ensure DatasetService implements the interface.
var _ driving.DatasetService = (*DatasetService)(nil)

// DatasetService serves sample datasets and regenerates them from
// remote APIs.
type DatasetService struct {
	store   driven.DatasetStore
	fetcher driven.DatasetFetcher
	specs   []domain.DatasetSpec
	fetch   domain.FetchSettings

	lookupEnv func(string) (string, bool)
	now       func() time.Time
}

// NewDatasetService creates a new dataset service.
// The fetcher is optional - if nil, only local samples are used.
func NewDatasetService(
	store driven.DatasetStore,
	fetcher driven.DatasetFetcher,
	specs []domain.DatasetSpec,
	fetch domain.FetchSettings,
) *DatasetService {
	return &DatasetService{
		store:     store,
		fetcher:   fetcher,
		specs:     specs,
		fetch:     fetch,
		lookupEnv: os.LookupEnv,
		now:       time.Now,
	}
}

// Specs returns the configured dataset specs.
func (s *DatasetService) Specs() []domain.DatasetSpec {
	return append([]domain.DatasetSpec(nil), s.specs...)
}

// CredentialStatus reports which recognised credential variables are set.
func (s *DatasetService) CredentialStatus() map[string]bool {
	status := make(map[string]bool, len(domain.CredentialEnvVars))
	for _, env := range domain.CredentialEnvVars {
		status[env] = s.credential(env) != ""
	}
	for _, spec := range s.specs {
		if spec.KeyEnv != "" {
			status[spec.KeyEnv] = s.credential(spec.KeyEnv) != ""
		}
	}
	return status
}

// Locate finds the sample file for name.
func (s *DatasetService) Locate(ctx context.Context, name string) (*domain.DatasetFile, error) {
	return s.store.Locate(ctx, name)
}

// Load reads the sample dataset for name.
func (s *DatasetService) Load(ctx context.Context, name string) (*domain.Dataset, error) {
	file, err := s.store.Locate(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("locate dataset %s: %w", name, err)
	}
	ds, err := s.store.Read(ctx, *file)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", name, err)
	}
	return ds, nil
}

// LoadWithFallback fetches the dataset remotely when its credential is
// set, and otherwise, or when the fetch fails, loads the sample.
func (s *DatasetService) LoadWithFallback(ctx context.Context, name string) (*domain.Dataset, error) {
	spec, hasSpec := s.spec(name)
	var credErr error
	if hasSpec && s.fetcher != nil && spec.KeyEnv != "" {
		key, err := s.requireCredential(spec)
		if err == nil {
			logger.Info("fetching %s from %s", name, spec.URL)
			ds, fetchErr := s.fetchOne(ctx, spec, key)
			if fetchErr == nil {
				return ds, nil
			}
			logger.Warn("fetch %s failed, using sample data: %v", name, fetchErr)
		} else {
			credErr = err
			logger.Info("%s is not set, using sample data for %s", spec.KeyEnv, name)
		}
	}

	ds, err := s.Load(ctx, name)
	if err == nil {
		return ds, nil
	}
	if errors.Is(err, domain.ErrNotFound) && hasSpec && spec.KeyEnv != "" {
		hint := fmt.Sprintf("no sample data for %s: set %s to load it from the API, or run 'kra data generate'",
			name, spec.KeyEnv)
		if credErr != nil {
			return nil, fmt.Errorf("%s: %w: %w", hint, credErr, err)
		}
		return nil, fmt.Errorf("%s: %w", hint, err)
	}
	return nil, err
}

// Generate fetches each named spec, or all specs, one call at a time and
// writes the samples and a manifest. One dataset's failure never stops
// the others.
func (s *DatasetService) Generate(ctx context.Context, names []string) (*domain.Manifest, error) {
	specs, err := s.selectSpecs(names)
	if err != nil {
		return nil, err
	}
	if s.fetcher == nil {
		return nil, errors.New("generate datasets: no fetcher configured")
	}

	limiter := rate.NewLimiter(rate.Limit(s.ratePerSecond()), 1)
	manifest := &domain.Manifest{Datasets: make([]domain.ManifestEntry, 0, len(specs))}

	for _, spec := range specs {
		entry := domain.ManifestEntry{Name: spec.Name, Source: spec.URL}

		key, err := s.requireCredential(spec)
		if err != nil {
			entry.Status = domain.ManifestSkipped
			entry.Message = fmt.Sprintf("%s is not set", spec.KeyEnv)
			logger.Warn("skipping %s: %v", spec.Name, err)
			manifest.Datasets = append(manifest.Datasets, entry)
			continue
		}

		if err := limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}

		ds, err := s.fetchOne(ctx, spec, key)
		if err == nil {
			entry.File, err = s.store.Write(ctx, ds)
		}
		if err != nil {
			entry.Status = domain.ManifestFailed
			entry.Message = err.Error()
			logger.Warn("generate %s: %v", spec.Name, err)
		} else {
			entry.Status = domain.ManifestFetched
			entry.Rows = len(ds.Rows)
			entry.Columns = len(ds.Columns)
			logger.Info("generated %s: %d rows", spec.Name, entry.Rows)
		}
		manifest.Datasets = append(manifest.Datasets, entry)
	}

	manifest.GeneratedAt = s.now()
	if _, err := s.store.WriteManifest(ctx, manifest); err != nil {
		return manifest, fmt.Errorf("write manifest: %w", err)
	}
	return manifest, nil
}

func (s *DatasetService) fetchOne(ctx context.Context, spec domain.DatasetSpec, key string) (*domain.Dataset, error) {
	timeout := s.fetch.Timeout
	if timeout <= 0 {
		timeout = domain.DefaultAppSettings().Fetch.Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ds, err := s.fetcher.Fetch(ctx, spec, key)
	if err != nil {
		return nil, err
	}
	ds.Name = spec.Name
	return ds, nil
}

func (s *DatasetService) selectSpecs(names []string) ([]domain.DatasetSpec, error) {
	if len(names) == 0 {
		return s.Specs(), nil
	}
	specs := make([]domain.DatasetSpec, 0, len(names))
	for _, name := range names {
		spec, ok := s.spec(name)
		if !ok {
			return nil, fmt.Errorf("dataset %s: %w", name, domain.ErrNotFound)
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func (s *DatasetService) spec(name string) (domain.DatasetSpec, bool) {
	for _, spec := range s.specs {
		if spec.Name == name {
			return spec, true
		}
	}
	return domain.DatasetSpec{}, false
}

func (s *DatasetService) credential(env string) string {
	if env == "" {
		return ""
	}
	v, _ := s.lookupEnv(env)
	return v
}

// requireCredential returns the spec's API key. A spec without a key
// variable needs none; a declared but unset variable wraps
// domain.ErrNoCredential.
func (s *DatasetService) requireCredential(spec domain.DatasetSpec) (string, error) {
	if spec.KeyEnv == "" {
		return "", nil
	}
	if key := s.credential(spec.KeyEnv); key != "" {
		return key, nil
	}
	return "", fmt.Errorf("%w: %s", domain.ErrNoCredential, spec.KeyEnv)
}

func (s *DatasetService) ratePerSecond() float64 {
	if s.fetch.RatePerSecond > 0 {
		return s.fetch.RatePerSecond
	}
	return domain.DefaultAppSettings().Fetch.RatePerSecond
}
