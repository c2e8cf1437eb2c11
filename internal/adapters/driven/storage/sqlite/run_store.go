package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/krlabs/kra/internal/core/domain"
	"github.com/krlabs/kra/internal/core/ports/driven"
)

// runStore implements driven.RunHistoryStore.
type runStore struct {
	store *Store
}

var _ driven.RunHistoryStore = (*runStore)(nil)

// SaveRun stores a run and replaces any entries previously saved under its id.
func (s *runStore) SaveRun(ctx context.Context, run *domain.RunRecord) error {
	if run == nil || run.ID == "" {
		return domain.ErrInvalidInput
	}

	counts, err := json.Marshal(run.Counts)
	if err != nil {
		return fmt.Errorf("marshaling run counts: %w", err)
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, kind, started_at, finished_at, total, counts_json)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			kind = excluded.kind,
			started_at = excluded.started_at,
			finished_at = excluded.finished_at,
			total = excluded.total,
			counts_json = excluded.counts_json
	`, run.ID, string(run.Kind), formatTime(run.StartedAt), formatTime(run.FinishedAt), run.Total, string(counts))
	if err != nil {
		return fmt.Errorf("saving run: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM run_results WHERE run_id = ?", run.ID); err != nil {
		return fmt.Errorf("clearing run results: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO run_results (run_id, position, notebook, status, detail_json)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing run results: %w", err)
	}
	defer stmt.Close()

	for i, entry := range run.Results {
		if _, err := stmt.ExecContext(ctx, run.ID, i, entry.Notebook, entry.Status, nullBytes(entry.Detail)); err != nil {
			return fmt.Errorf("saving run result %s: %w", entry.Notebook, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing run: %w", err)
	}
	return nil
}

// ListRuns returns up to limit runs, newest first, without entries.
func (s *runStore) ListRuns(ctx context.Context, limit int) ([]domain.RunRecord, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, kind, started_at, finished_at, total, counts_json
		FROM runs
		ORDER BY started_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.RunRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}

	return runs, nil
}

// GetRun returns a run with its entries in saved order.
func (s *runStore) GetRun(ctx context.Context, id string) (*domain.RunRecord, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, kind, started_at, finished_at, total, counts_json
		FROM runs WHERE id = ?
	`, id)

	run, err := scanRun(row)
	if err != nil {
		return nil, err
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT notebook, status, detail_json
		FROM run_results
		WHERE run_id = ?
		ORDER BY position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("querying run results: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var entry domain.RunEntry
		var detail sql.NullString
		if err := rows.Scan(&entry.Notebook, &entry.Status, &detail); err != nil {
			return nil, fmt.Errorf("scanning run result: %w", err)
		}
		if detail.Valid {
			entry.Detail = []byte(detail.String)
		}
		run.Results = append(run.Results, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating run results: %w", err)
	}

	return run, nil
}

// ==================== Helper Functions ====================

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*domain.RunRecord, error) {
	var run domain.RunRecord
	var kind, startedAt, finishedAt, counts string

	if err := row.Scan(&run.ID, &kind, &startedAt, &finishedAt, &run.Total, &counts); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning run: %w", err)
	}

	run.Kind = domain.RunKind(kind)
	run.StartedAt = parseTime(startedAt)
	run.FinishedAt = parseTime(finishedAt)
	if err := json.Unmarshal([]byte(counts), &run.Counts); err != nil {
		return nil, fmt.Errorf("unmarshaling run counts: %w", err)
	}
	return &run, nil
}

// timeLayout has a fixed width so that lexical order is chronological.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nullBytes(b []byte) sql.NullString {
	if len(b) == 0 {
		return sql.NullString{}
	}
	return sql.NullString{String: string(b), Valid: true}
}
