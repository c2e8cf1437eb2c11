package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krlabs/kra/internal/adapters/driven/storage/memory"
	"github.com/krlabs/kra/internal/core/domain"
)

func TestHistoryService_List(t *testing.T) {
	ctx := context.Background()
	store := memory.NewRunHistoryStore()
	for i := 0; i < 25; i++ {
		require.NoError(t, store.SaveRun(ctx, &domain.RunRecord{
			ID:        fmt.Sprintf("run-%02d", i),
			Kind:      domain.RunValidate,
			StartedAt: fixedNow.Add(time.Duration(i) * time.Minute),
			Results:   []domain.RunEntry{{Notebook: "a.ipynb", Status: "PASS"}},
		}))
	}
	svc := NewHistoryService(store)

	runs, err := svc.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, DefaultHistoryLimit)
	assert.Equal(t, "run-24", runs[0].ID)
	assert.Empty(t, runs[0].Results)

	runs, err = svc.List(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, runs, 3)
}

func TestHistoryService_Get(t *testing.T) {
	ctx := context.Background()
	store := memory.NewRunHistoryStore()
	require.NoError(t, store.SaveRun(ctx, &domain.RunRecord{
		ID:      "run-1",
		Kind:    domain.RunStandardize,
		Results: []domain.RunEntry{{Notebook: "a.ipynb", Status: "SUCCESS"}},
	}))
	svc := NewHistoryService(store)

	run, err := svc.Get(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, run.Results, 1)

	_, err = svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHistoryService_NoStore(t *testing.T) {
	svc := NewHistoryService(nil)

	_, err := svc.List(context.Background(), 5)
	assert.ErrorIs(t, err, errNoHistory)
	_, err = svc.Get(context.Background(), "x")
	assert.ErrorIs(t, err, errNoHistory)
}
