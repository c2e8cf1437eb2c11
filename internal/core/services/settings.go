package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/krlabs/kra/internal/core/domain"
	"github.com/krlabs/kra/internal/core/ports/driven"
	"github.com/krlabs/kra/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyPathNotebooks      = "paths.notebooks"
	keyPathBackups        = "paths.backups"
	keyPathLogs           = "paths.logs"
	keyPathSamples        = "paths.samples"
	keyProbeInterpreter   = "probe.interpreter"
	keyProbeTimeout       = "probe.timeout_seconds"
	keyFetchTimeout       = "fetch.timeout_seconds"
	keyFetchRate          = "fetch.rate_per_second"
	keyWatchDebounce      = "watch.debounce_ms"
	keyTrackingSeed       = "tracking.default_seed"
	keyTrackingVersion    = "tracking.default_version"
	keyProblematicImports = "workspace.problematic_imports"

	datasetKeyPrefix = "datasets."
)

// settingKind is the value type of a recognised setting.
type settingKind int

const (
	kindString settingKind = iota
	kindInt
	kindFloat
	kindStringList
)

// settingKeys lists recognised keys in display order.
var settingKeys = []struct {
	key  string
	kind settingKind
}{
	{keyPathNotebooks, kindString},
	{keyPathBackups, kindString},
	{keyPathLogs, kindString},
	{keyPathSamples, kindString},
	{keyProbeInterpreter, kindString},
	{keyProbeTimeout, kindInt},
	{keyFetchTimeout, kindInt},
	{keyFetchRate, kindFloat},
	{keyWatchDebounce, kindInt},
	{keyTrackingSeed, kindInt},
	{keyTrackingVersion, kindString},
	{keyProblematicImports, kindStringList},
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Paths: domain.PathSettings{
			Notebooks: s.getString(keyPathNotebooks, defaults.Paths.Notebooks),
			Backups:   s.getString(keyPathBackups, defaults.Paths.Backups),
			Logs:      s.getString(keyPathLogs, defaults.Paths.Logs),
			Samples:   s.getString(keyPathSamples, defaults.Paths.Samples),
		},
		Probe: domain.ProbeSettings{
			Interpreter: s.getString(keyProbeInterpreter, defaults.Probe.Interpreter),
			Timeout:     s.getSeconds(keyProbeTimeout, defaults.Probe.Timeout),
		},
		Fetch: domain.FetchSettings{
			Timeout:       s.getSeconds(keyFetchTimeout, defaults.Fetch.Timeout),
			RatePerSecond: s.getFloat(keyFetchRate, defaults.Fetch.RatePerSecond),
		},
		Watch: domain.WatchSettings{
			Debounce: s.getMillis(keyWatchDebounce, defaults.Watch.Debounce),
		},
		Tracking: domain.TrackingSettings{
			DefaultSeed:    int64(s.getInt(keyTrackingSeed, int(defaults.Tracking.DefaultSeed))),
			DefaultVersion: s.getString(keyTrackingVersion, defaults.Tracking.DefaultVersion),
		},
		Workspace: domain.WorkspaceSettings{
			ProblematicImports: s.getStringSlice(keyProblematicImports, defaults.Workspace.ProblematicImports),
		},
	}

	return settings, nil
}

// Keys returns the recognised setting keys in display order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, len(settingKeys))
	for i, k := range settingKeys {
		keys[i] = k.key
	}
	return keys
}

// Value returns the effective value of a setting as text.
func (s *SettingsService) Value(key string) (string, error) {
	settings, err := s.Get()
	if err != nil {
		return "", err
	}

	switch key {
	case keyPathNotebooks:
		return settings.Paths.Notebooks, nil
	case keyPathBackups:
		return settings.Paths.Backups, nil
	case keyPathLogs:
		return settings.Paths.Logs, nil
	case keyPathSamples:
		return settings.Paths.Samples, nil
	case keyProbeInterpreter:
		return settings.Probe.Interpreter, nil
	case keyProbeTimeout:
		return strconv.Itoa(int(settings.Probe.Timeout / time.Second)), nil
	case keyFetchTimeout:
		return strconv.Itoa(int(settings.Fetch.Timeout / time.Second)), nil
	case keyFetchRate:
		return strconv.FormatFloat(settings.Fetch.RatePerSecond, 'g', -1, 64), nil
	case keyWatchDebounce:
		return strconv.Itoa(int(settings.Watch.Debounce / time.Millisecond)), nil
	case keyTrackingSeed:
		return strconv.FormatInt(settings.Tracking.DefaultSeed, 10), nil
	case keyTrackingVersion:
		return settings.Tracking.DefaultVersion, nil
	case keyProblematicImports:
		return strings.Join(settings.Workspace.ProblematicImports, ","), nil
	default:
		return "", fmt.Errorf("%w: unknown key %q", domain.ErrInvalidSetting, key)
	}
}

// Set parses value for the key's type and persists it.
// String lists are given comma-separated.
func (s *SettingsService) Set(key, value string) error {
	for _, k := range settingKeys {
		if k.key != key {
			continue
		}

		var parsed any
		switch k.kind {
		case kindString:
			if strings.TrimSpace(value) == "" {
				return fmt.Errorf("%w: %s must not be empty", domain.ErrInvalidSetting, key)
			}
			parsed = value
		case kindInt:
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 {
				return fmt.Errorf("%w: %s must be a non-negative integer", domain.ErrInvalidSetting, key)
			}
			parsed = int64(n)
		case kindFloat:
			f, err := strconv.ParseFloat(value, 64)
			if err != nil || f <= 0 {
				return fmt.Errorf("%w: %s must be a positive number", domain.ErrInvalidSetting, key)
			}
			parsed = f
		case kindStringList:
			parsed = splitList(value)
		}

		if err := s.configStore.Set(key, parsed); err != nil {
			return fmt.Errorf("save %s: %w", key, err)
		}
		return nil
	}
	return fmt.Errorf("%w: unknown key %q", domain.ErrInvalidSetting, key)
}

// DatasetSpecs returns the dataset specs declared under "datasets.<name>",
// merged over the built-in defaults.
func (s *SettingsService) DatasetSpecs() []domain.DatasetSpec {
	specs := make(map[string]*domain.DatasetSpec)
	var order []string

	for _, d := range domain.DefaultDatasetSpecs() {
		spec := d
		specs[spec.Name] = &spec
		order = append(order, spec.Name)
	}

	for _, key := range s.configStore.Keys() {
		if !strings.HasPrefix(key, datasetKeyPrefix) {
			continue
		}
		name, field, ok := strings.Cut(strings.TrimPrefix(key, datasetKeyPrefix), ".")
		if !ok || name == "" {
			continue
		}
		spec, exists := specs[name]
		if !exists {
			spec = &domain.DatasetSpec{Name: name, KeyParam: "key"}
			specs[name] = spec
			order = append(order, name)
		}

		value := s.configStore.GetString(key)
		switch {
		case field == "url":
			spec.URL = value
		case field == "key_env":
			spec.KeyEnv = value
		case field == "key_param":
			spec.KeyParam = value
		case field == "description":
			spec.Description = value
		case strings.HasPrefix(field, "params."):
			if spec.Params == nil {
				spec.Params = make(map[string]string)
			}
			spec.Params[strings.TrimPrefix(field, "params.")] = value
		}
	}

	sort.SliceStable(order, func(i, j int) bool { return order[i] < order[j] })
	result := make([]domain.DatasetSpec, 0, len(order))
	for _, name := range order {
		if specs[name].URL == "" {
			continue
		}
		result = append(result, *specs[name])
	}
	return result
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	if val := s.configStore.GetString(key); val != "" {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, ok := s.configStore.Get(key); !ok {
		return defaultVal
	}
	if val := s.configStore.GetInt(key); val > 0 {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	val, ok := s.configStore.Get(key)
	if !ok {
		return defaultVal
	}
	switch v := val.(type) {
	case float64:
		if v > 0 {
			return v
		}
	case int64:
		if v > 0 {
			return float64(v)
		}
	case int:
		if v > 0 {
			return float64(v)
		}
	}
	return defaultVal
}

func (s *SettingsService) getSeconds(key string, defaultVal time.Duration) time.Duration {
	return time.Duration(s.getInt(key, int(defaultVal/time.Second))) * time.Second
}

func (s *SettingsService) getMillis(key string, defaultVal time.Duration) time.Duration {
	return time.Duration(s.getInt(key, int(defaultVal/time.Millisecond))) * time.Millisecond
}

func (s *SettingsService) getStringSlice(key string, defaultVal []string) []string {
	if _, ok := s.configStore.Get(key); !ok {
		return defaultVal
	}
	return s.configStore.GetStringSlice(key)
}
