package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krlabs/kra/internal/adapters/driven/storage/memory"
	"github.com/krlabs/kra/internal/core/domain"
)

func TestSettingsService_Get_Defaults(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore())

	settings, err := svc.Get()
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultAppSettings(), *settings)
}

func TestSettingsService_Get_Overrides(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore(map[string]any{
		"paths.notebooks":               "nb",
		"probe.timeout_seconds":         int64(3),
		"fetch.rate_per_second":         0.5,
		"watch.debounce_ms":             int64(250),
		"tracking.default_seed":         int64(7),
		"workspace.problematic_imports": []any{"import legacy"},
	}))

	settings, err := svc.Get()
	require.NoError(t, err)

	assert.Equal(t, "nb", settings.Paths.Notebooks)
	assert.Equal(t, "backups", settings.Paths.Backups)
	assert.Equal(t, 3*time.Second, settings.Probe.Timeout)
	assert.Equal(t, 0.5, settings.Fetch.RatePerSecond)
	assert.Equal(t, 250*time.Millisecond, settings.Watch.Debounce)
	assert.Equal(t, int64(7), settings.Tracking.DefaultSeed)
	assert.Equal(t, []string{"import legacy"}, settings.Workspace.ProblematicImports)
}

func TestSettingsService_Set(t *testing.T) {
	store := memory.NewConfigStore()
	svc := NewSettingsService(store)

	require.NoError(t, svc.Set("probe.interpreter", "/usr/bin/python3.11"))
	require.NoError(t, svc.Set("probe.timeout_seconds", "20"))
	require.NoError(t, svc.Set("fetch.rate_per_second", "2.5"))
	require.NoError(t, svc.Set("workspace.problematic_imports", "from src., import src. ,"))

	val, _ := store.Get("probe.timeout_seconds")
	assert.Equal(t, int64(20), val)

	settings, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, "/usr/bin/python3.11", settings.Probe.Interpreter)
	assert.Equal(t, 20*time.Second, settings.Probe.Timeout)
	assert.Equal(t, 2.5, settings.Fetch.RatePerSecond)
	assert.Equal(t, []string{"from src.", "import src."}, settings.Workspace.ProblematicImports)
}

func TestSettingsService_Set_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown key", "paths.unknown", "x"},
		{"empty string", "paths.logs", " "},
		{"non-numeric int", "probe.timeout_seconds", "ten"},
		{"negative int", "watch.debounce_ms", "-1"},
		{"zero rate", "fetch.rate_per_second", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewSettingsService(memory.NewConfigStore())
			assert.ErrorIs(t, svc.Set(tt.key, tt.value), domain.ErrInvalidSetting)
		})
	}
}

func TestSettingsService_Value(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore())

	for _, key := range svc.Keys() {
		val, err := svc.Value(key)
		require.NoError(t, err, key)
		assert.NotEmpty(t, val, key)
	}

	val, err := svc.Value("watch.debounce_ms")
	require.NoError(t, err)
	assert.Equal(t, "500", val)

	val, err = svc.Value("workspace.problematic_imports")
	require.NoError(t, err)
	assert.Equal(t, "from src.,import src.", val)

	_, err = svc.Value("nope")
	assert.ErrorIs(t, err, domain.ErrInvalidSetting)
}

func TestSettingsService_DatasetSpecs(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore(map[string]any{
		"datasets.bls_unemployment.url":             "https://api.bls.gov/publicAPI/v2/timeseries/data/",
		"datasets.bls_unemployment.key_env":         "BLS_API_KEY",
		"datasets.bls_unemployment.params.seriesid": "LNS14000000",
		"datasets.census_income_2022.key_param":     "apikey",
		"datasets.incomplete.description":           "no url",
	}))

	specs := svc.DatasetSpecs()
	require.Len(t, specs, 2)

	bls := specs[0]
	assert.Equal(t, "bls_unemployment", bls.Name)
	assert.Equal(t, "BLS_API_KEY", bls.KeyEnv)
	assert.Equal(t, "key", bls.KeyParam)
	assert.Equal(t, map[string]string{"seriesid": "LNS14000000"}, bls.Params)

	census := specs[1]
	assert.Equal(t, "census_income_2022", census.Name)
	assert.Equal(t, "apikey", census.KeyParam)
	assert.Equal(t, "https://api.census.gov/data/2022/acs/acs5", census.URL)
}
