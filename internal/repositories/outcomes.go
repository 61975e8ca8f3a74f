package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/ytsheet/internal/models"
	"github.com/desertthunder/ytsheet/internal/shared"
)

// OutcomeRepository persists per-row outcomes. A run records at most one outcome per position.
type OutcomeRepository struct {
	db *sql.DB
}

// NewOutcomeRepository creates a new OutcomeRepository with the given database connection
func NewOutcomeRepository(db *sql.DB) *OutcomeRepository {
	return &OutcomeRepository{db: db}
}

// Create inserts an outcome record with a generated ID
func (r *OutcomeRepository) Create(ctx context.Context, record *models.OutcomeRecord) error {
	record.SetID(shared.GenerateID())
	if err := record.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO row_outcomes (id, run_id, position, locator, title, artist, step, succeeded, error, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		record.ID(),
		record.RunID(),
		record.Position(),
		record.Locator(),
		record.Title(),
		record.Artist(),
		record.Step().String(),
		record.Succeeded(),
		record.ErrorText(),
		record.CreatedAt(),
		record.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert outcome: %w", err)
	}
	return nil
}

// ListByRun returns the outcomes of a run ordered by position.
func (r *OutcomeRepository) ListByRun(ctx context.Context, runID string) ([]*models.OutcomeRecord, error) {
	query := `
		SELECT id, run_id, position, locator, title, artist, step, succeeded, error, created_at, updated_at
		FROM row_outcomes
		WHERE run_id = ?
		ORDER BY position ASC
	`

	rows, err := r.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query outcomes: %w", err)
	}
	defer rows.Close()

	var records []*models.OutcomeRecord
	for rows.Next() {
		var (
			id, rid, locator, title, artist, step, errText string
			position                                      int
			succeeded                                     bool
			createdAt, updatedAt                          time.Time
		)
		if err := rows.Scan(&id, &rid, &position, &locator, &title, &artist, &step, &succeeded, &errText, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan outcome: %w", err)
		}
		records = append(records, models.RestoreOutcomeRecord(id, rid, position, locator, title, artist, models.ParseStep(step), succeeded, errText, createdAt, updatedAt))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return records, nil
}
