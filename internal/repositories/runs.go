package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/ytsheet/internal/models"
	"github.com/desertthunder/ytsheet/internal/shared"
)

const runColumns = `id, spreadsheet_id, dry_run, total_rows, succeeded, failed, ranges, error, started_at, finished_at, created_at, updated_at`

// RunRepository persists sync runs and their row outcomes.
//
// It satisfies tasks.RunRecorder so the engine can record history as it goes.
type RunRepository struct {
	db       *sql.DB
	outcomes *OutcomeRepository
}

// NewRunRepository creates a new RunRepository with the given database connection
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db, outcomes: NewOutcomeRepository(db)}
}

// CreateRun inserts a run, generating an ID when the run has none.
func (r *RunRepository) CreateRun(ctx context.Context, run *models.Run) error {
	if run.ID() == "" {
		run.SetID(shared.GenerateID())
	}
	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	ranges, err := encodeRanges(run.Ranges())
	if err != nil {
		return err
	}

	query := `INSERT INTO runs (` + runColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = r.db.ExecContext(ctx, query,
		run.ID(),
		run.SpreadsheetID(),
		run.DryRun(),
		run.TotalRows(),
		run.Succeeded(),
		run.Failed(),
		ranges,
		run.ErrorText(),
		run.StartedAt(),
		nullTime(run.FinishedAt()),
		run.CreatedAt(),
		run.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

// FinishRun stores the final counters, ranges and error of a run.
func (r *RunRepository) FinishRun(ctx context.Context, run *models.Run) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	ranges, err := encodeRanges(run.Ranges())
	if err != nil {
		return err
	}

	now := time.Now()
	run.SetUpdatedAt(now)

	query := `
		UPDATE runs
		SET total_rows = ?, succeeded = ?, failed = ?, ranges = ?, error = ?, finished_at = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		run.TotalRows(),
		run.Succeeded(),
		run.Failed(),
		ranges,
		run.ErrorText(),
		nullTime(run.FinishedAt()),
		now,
		run.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrRunNotFound, run.ID())
	}
	return nil
}

// AddOutcome stores one row outcome of a run.
func (r *RunRepository) AddOutcome(ctx context.Context, record *models.OutcomeRecord) error {
	return r.outcomes.Create(ctx, record)
}

// Outcomes returns the outcomes recorded for a run.
func (r *RunRepository) Outcomes(ctx context.Context, runID string) ([]*models.OutcomeRecord, error) {
	return r.outcomes.ListByRun(ctx, runID)
}

// GetRun retrieves a run by its full ID or a unique ID prefix.
func (r *RunRepository) GetRun(ctx context.Context, idOrPrefix string) (*models.Run, error) {
	if idOrPrefix == "" {
		return nil, fmt.Errorf("%w: empty run id", shared.ErrRunNotFound)
	}

	query := `SELECT ` + runColumns + ` FROM runs WHERE id = ? OR id LIKE ? ORDER BY id = ? DESC LIMIT 2`
	rows, err := r.db.QueryContext(ctx, query, idOrPrefix, idOrPrefix+"%", idOrPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}
	defer rows.Close()

	var found []*models.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		found = append(found, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	switch {
	case len(found) == 0:
		return nil, fmt.Errorf("%w: %s", shared.ErrRunNotFound, idOrPrefix)
	case found[0].ID() == idOrPrefix || len(found) == 1:
		return found[0], nil
	default:
		return nil, fmt.Errorf("%w: run id prefix %q is ambiguous", shared.ErrInvalidArgument, idOrPrefix)
	}
}

// ListRuns returns the most recent runs first. A limit of zero or less returns every run.
func (r *RunRepository) ListRuns(ctx context.Context, limit int) ([]*models.Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return runs, nil
}

// DeleteRun removes a run and its outcomes.
func (r *RunRepository) DeleteRun(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM row_outcomes WHERE run_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete outcomes: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	if n, err := result.RowsAffected(); err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	} else if n == 0 {
		return fmt.Errorf("%w: %s", shared.ErrRunNotFound, id)
	}

	return tx.Commit()
}

// scanner is implemented by both [sql.Row] and [sql.Rows].
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*models.Run, error) {
	var (
		id            string
		spreadsheetID string
		dryRun        bool
		totalRows     int
		succeeded     int
		failed        int
		rangesJSON    string
		errText       string
		startedAt     time.Time
		finishedAt    sql.NullTime
		createdAt     time.Time
		updatedAt     time.Time
	)

	err := s.Scan(&id, &spreadsheetID, &dryRun, &totalRows, &succeeded, &failed, &rangesJSON, &errText, &startedAt, &finishedAt, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	ranges, err := decodeRanges(rangesJSON)
	if err != nil {
		return nil, err
	}

	run := models.NewRun(id, spreadsheetID, dryRun)
	run.SetStartedAt(startedAt)
	var finished *time.Time
	if finishedAt.Valid {
		finished = &finishedAt.Time
	}
	run.RestoreResult(totalRows, succeeded, failed, ranges, errText, finished)
	run.Restore(id, createdAt, updatedAt)
	return run, nil
}

func encodeRanges(ranges []models.Range) (string, error) {
	if ranges == nil {
		ranges = []models.Range{}
	}
	data, err := json.Marshal(ranges)
	if err != nil {
		return "", fmt.Errorf("failed to encode ranges: %w", err)
	}
	return string(data), nil
}

func decodeRanges(data string) ([]models.Range, error) {
	if data == "" {
		return nil, nil
	}
	var ranges []models.Range
	if err := json.Unmarshal([]byte(data), &ranges); err != nil {
		return nil, fmt.Errorf("failed to decode ranges: %w", err)
	}
	if len(ranges) == 0 {
		return nil, nil
	}
	return ranges, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
