package services

import (
	"context"
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krlabs/kra/internal/adapters/driven/storage/memory"
	"github.com/krlabs/kra/internal/core/domain"
)

// clock returns successive times one step apart on each call.
func clock(start time.Time, step time.Duration) func() time.Time {
	next := start
	return func() time.Time {
		now := next
		next = next.Add(step)
		return now
	}
}

func newTrackingService(inspector *mockInspector, now func() time.Time) (*TrackingService, *memory.ExecutionLogStore) {
	store := memory.NewExecutionLogStore()
	svc := NewTrackingService(store, nil, domain.DefaultAppSettings().Tracking)
	if inspector != nil {
		svc.inspector = inspector
	}
	svc.now = now
	return svc, store
}

func TestExecutionID(t *testing.T) {
	id := ExecutionID("Income Analysis", fixedNow)

	assert.Regexp(t, `^exec_20251013_143022_[0-9a-f]{6}$`, id)
	assert.Equal(t, id, ExecutionID("Income Analysis", fixedNow))
	assert.NotEqual(t, id, ExecutionID("Other", fixedNow))
}

func TestTrackingService_Start(t *testing.T) {
	inspector := &mockInspector{
		env:      domain.EnvironmentSnapshot{InterpreterVersion: "3.11.6", Implementation: "CPython"},
		packages: map[string]string{"pandas": "2.1.0"},
	}
	svc, store := newTrackingService(inspector, func() time.Time { return fixedNow })

	log, err := svc.Start(context.Background(), domain.StartOptions{NotebookName: "Income Analysis"})
	require.NoError(t, err)

	assert.Equal(t, ExecutionID("Income Analysis", fixedNow), log.ExecutionID)
	assert.Equal(t, "v1.0", log.Version)
	assert.Equal(t, int64(42), log.Seed)
	assert.Equal(t, domain.ExecutionRunning, log.Status)
	assert.Equal(t, "3.11.6", log.Environment.InterpreterVersion)
	assert.Len(t, log.Packages, len(domain.TrackedPackages))
	assert.Equal(t, "2.1.0", log.Packages["pandas"])
	assert.Equal(t, domain.PackageNotInstalled, log.Packages["hmmlearn"])

	saved, err := store.Get(context.Background(), log.ExecutionID)
	require.NoError(t, err)
	assert.Equal(t, log.ExecutionID, saved.ExecutionID)
}

func TestTrackingService_Start_ExplicitOptions(t *testing.T) {
	svc, _ := newTrackingService(nil, func() time.Time { return fixedNow })

	seed := int64(7)
	log, err := svc.Start(context.Background(), domain.StartOptions{
		NotebookName:      "n",
		Version:           "v2.0",
		Seed:              &seed,
		AdvancedAnalytics: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "v2.0", log.Version)
	assert.Equal(t, int64(7), log.Seed)
	assert.True(t, log.AdvancedAnalytics)
}

func TestTrackingService_Start_ZeroSeedIsHonored(t *testing.T) {
	svc, _ := newTrackingService(nil, func() time.Time { return fixedNow })

	zero := int64(0)
	log, err := svc.Start(context.Background(), domain.StartOptions{NotebookName: "n", Seed: &zero})
	require.NoError(t, err)

	assert.Equal(t, int64(0), log.Seed)
}

func TestTrackingService_Start_InspectorFallback(t *testing.T) {
	svc, _ := newTrackingService(&mockInspector{err: errors.New("no python")}, func() time.Time { return fixedNow })

	log, err := svc.Start(context.Background(), domain.StartOptions{NotebookName: "n"})
	require.NoError(t, err)

	assert.Equal(t, runtime.GOOS, log.Environment.System)
	for _, p := range domain.TrackedPackages {
		assert.Equal(t, domain.PackageUnknown, log.Packages[p], p)
	}
}

func TestTrackingService_Start_RequiresName(t *testing.T) {
	svc, _ := newTrackingService(nil, time.Now)

	_, err := svc.Start(context.Background(), domain.StartOptions{NotebookName: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTrackingService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTrackingService(nil, clock(fixedNow, 30*time.Second))

	log, err := svc.Start(ctx, domain.StartOptions{NotebookName: "n"})
	require.NoError(t, err)
	id := log.ExecutionID

	require.NoError(t, svc.Section(ctx, id, "load", domain.SectionStart))
	require.NoError(t, svc.Section(ctx, id, "load", domain.SectionEnd))
	require.NoError(t, svc.AddResult(ctx, id, "rows", 120))
	require.NoError(t, svc.LogError(ctx, id, "chart failed"))

	finished, err := svc.Finish(ctx, id, map[string]any{"r2": 0.8}, []string{"late warning"})
	require.NoError(t, err)

	assert.NotNil(t, finished.EndTime)
	assert.InDelta(t, 90.0, finished.DurationSeconds, 0.001)
	assert.Equal(t, "1.5 minutes", finished.DurationFormatted)
	assert.Equal(t, domain.ExecutionCompletedWithErrors, finished.Status)
	assert.Equal(t, 2, finished.ErrorCount)
	assert.Equal(t, []string{"chart failed", "late warning"}, finished.Errors)
	assert.Equal(t, 120, finished.Results["rows"])
	assert.Equal(t, 0.8, finished.Results["r2"])

	section := finished.Sections["load"]
	require.NotNil(t, section.End)
	assert.InDelta(t, 30.0, section.DurationSeconds, 0.001)

	_, err = svc.Finish(ctx, id, nil, nil)
	assert.ErrorIs(t, err, domain.ErrAlreadyFinished)
	assert.ErrorIs(t, svc.LogError(ctx, id, "x"), domain.ErrAlreadyFinished)
}

func TestTrackingService_FinishWithoutErrorsIsSuccess(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTrackingService(nil, clock(fixedNow, time.Second))

	log, err := svc.Start(ctx, domain.StartOptions{NotebookName: "n"})
	require.NoError(t, err)

	finished, err := svc.Finish(ctx, log.ExecutionID, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.ExecutionSuccess, finished.Status)
	assert.Equal(t, 0, finished.ErrorCount)
	assert.Equal(t, "1.0 seconds", finished.DurationFormatted)
}

func TestTrackingService_SectionErrors(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTrackingService(nil, time.Now)
	log, err := svc.Start(ctx, domain.StartOptions{NotebookName: "n"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Section(ctx, log.ExecutionID, "never", domain.SectionEnd), domain.ErrInvalidInput)
	assert.ErrorIs(t, svc.Section(ctx, log.ExecutionID, "x", "pause"), domain.ErrInvalidInput)
	assert.ErrorIs(t, svc.Section(ctx, "exec_missing", "x", domain.SectionStart), domain.ErrNotFound)
}

func TestTrackingService_ListRecent(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTrackingService(nil, clock(fixedNow, time.Second))

	var ids []string
	for i := 0; i < 12; i++ {
		log, err := svc.Start(ctx, domain.StartOptions{NotebookName: "n"})
		require.NoError(t, err)
		ids = append(ids, log.ExecutionID)
	}

	recent, err := svc.ListRecent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, recent, DefaultRecentLimit)
	assert.Equal(t, ids[11], recent[0].ExecutionID)

	two, err := svc.ListRecent(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, two, 2)
}
