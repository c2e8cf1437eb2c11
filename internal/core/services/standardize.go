package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/krlabs/kra/internal/core/domain"
	"github.com/krlabs/kra/internal/core/ports/driven"
	"github.com/krlabs/kra/internal/core/ports/driving"
	"github.com/krlabs/kra/internal/logger"
	"github.com/krlabs/kra/internal/notebook"
	"github.com/krlabs/kra/internal/rewrite"
)

// Ensure StandardizeService implements the interface.
var _ driving.StandardizeService = (*StandardizeService)(nil)

// backupStampLayout names per-run backup directories.
const backupStampLayout = "20060102_150405"

// StandardizeService drives the rewrite pipeline over workspace notebooks.
type StandardizeService struct {
	notebooks driven.NotebookStore
	history   driven.RunHistoryStore
	pipeline  *rewrite.Pipeline
	now       func() time.Time
}

// NewStandardizeService creates a new standardize service.
// The history store is optional - if nil, runs are not recorded.
func NewStandardizeService(notebooks driven.NotebookStore, history driven.RunHistoryStore) *StandardizeService {
	return &StandardizeService{
		notebooks: notebooks,
		history:   history,
		pipeline:  rewrite.Default(),
		now:       time.Now,
	}
}

// StandardizeAll rewrites every notebook, or the one named in opts,
// sequentially in sorted order. A real run copies each notebook into a
// single backup directory for the run before overwriting it.
func (s *StandardizeService) StandardizeAll(
	ctx context.Context,
	opts domain.StandardizeOptions,
) (*domain.StandardizationSummary, error) {
	names, err := resolveNotebooks(ctx, s.notebooks, opts.Notebook)
	if err != nil {
		return nil, err
	}

	started := s.now()
	stamp := started.Format(backupStampLayout)
	summary := &domain.StandardizationSummary{
		RunID:  uuid.NewString(),
		DryRun: opts.DryRun,
	}

	logger.Section("Standardize")
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result, backupDir := s.standardize(ctx, name, opts.DryRun, stamp)
		if backupDir != "" && summary.BackupDir == "" {
			summary.BackupDir = backupDir
		}
		summary.Results = append(summary.Results, result)
	}

	summary.Tally()
	summary.GeneratedAt = s.now()
	s.record(ctx, summary, started)
	return summary, nil
}

// StandardizeOne rewrites a single notebook with its own backup stamp.
func (s *StandardizeService) StandardizeOne(ctx context.Context, name string, dryRun bool) domain.RewriteResult {
	result, _ := s.standardize(ctx, name, dryRun, s.now().Format(backupStampLayout))
	return result
}

// standardize runs the pipeline for one notebook. Any failure leaves the
// notebook untouched and is reported as an ERROR result.
func (s *StandardizeService) standardize(
	ctx context.Context,
	name string,
	dryRun bool,
	stamp string,
) (domain.RewriteResult, string) {
	result := domain.RewriteResult{
		Notebook: name,
		Changes:  []string{},
		Errors:   []string{},
	}
	fail := func(err error) (domain.RewriteResult, string) {
		logger.Warn("standardize %s: %v", name, err)
		result.Status = domain.RewriteError
		result.Changes = []string{}
		result.Errors = append(result.Errors, err.Error())
		return result, ""
	}

	data, err := s.notebooks.Read(ctx, name)
	if err != nil {
		return fail(err)
	}
	nb, err := notebook.Parse(name, data)
	if err != nil {
		return fail(err)
	}

	meta := notebook.ExtractMetadata(nb)
	logger.Debug("%s: domain=%q tier=%q", name, meta.Domain, meta.Tier)

	out, changes := s.pipeline.Run(nb, meta)
	result.Metadata = meta
	result.CellsBefore = nb.Len()
	result.CellsAfter = out.Len()

	encoded, err := notebook.Serialize(out)
	if err != nil {
		return fail(err)
	}

	if dryRun {
		result.Status = domain.RewriteDryRun
		result.Changes = changes
		return result, ""
	}

	backupDir, err := s.notebooks.Backup(ctx, stamp, name)
	if err != nil {
		return fail(err)
	}
	if err := s.notebooks.Write(ctx, name, encoded); err != nil {
		return fail(err)
	}

	result.Status = domain.RewriteSuccess
	result.Changes = changes
	logger.Info("%s: %d -> %d cells", name, result.CellsBefore, result.CellsAfter)
	return result, backupDir
}

func (s *StandardizeService) record(ctx context.Context, summary *domain.StandardizationSummary, started time.Time) {
	entries := make([]domain.RunEntry, 0, len(summary.Results))
	for _, r := range summary.Results {
		detail, _ := json.Marshal(r)
		entries = append(entries, domain.RunEntry{Notebook: r.Notebook, Status: r.Status.String(), Detail: detail})
	}
	recordRun(ctx, s.history, &domain.RunRecord{
		ID:         summary.RunID,
		Kind:       domain.RunStandardize,
		StartedAt:  started,
		FinishedAt: summary.GeneratedAt,
		Total:      summary.Total,
		Counts: map[string]int{
			domain.RewriteSuccess.String(): summary.Success,
			domain.RewriteDryRun.String():  summary.DryRuns,
			domain.RewriteError.String():   summary.Errors,
		},
		Results: entries,
	})
}

// recordRun saves a batch run when a history store is configured.
// History is best effort and never fails the batch.
func recordRun(ctx context.Context, history driven.RunHistoryStore, run *domain.RunRecord) {
	if history == nil {
		return
	}
	if err := history.SaveRun(ctx, run); err != nil && !errors.Is(err, context.Canceled) {
		logger.Warn("record %s run %s: %v", run.Kind, run.ID, err)
	}
}
