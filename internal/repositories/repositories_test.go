package repositories

import (
	"context"
	"database/sql"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/desertthunder/ytsheet/internal/models"
	"github.com/desertthunder/ytsheet/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	shared.ConfigureDatabase(db, 1, 1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

func outcome(position int, title string, step models.Step, err error) models.RowOutcome {
	return models.RowOutcome{
		Row:  models.NewRow(position, []string{"https://youtu.be/" + title, title, "Artist"}),
		Step: step,
		Err:  err,
	}
}

func TestRunRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		repo := NewRunRepository(setupTestDB(t))
		run := models.NewRun(shared.GenerateID(), "sheet-1", false)

		if err := repo.CreateRun(ctx, run); err != nil {
			t.Fatalf("failed to create run: %v", err)
		}

		outcomes := []models.RowOutcome{
			outcome(2, "C", models.StepDone, nil),
			outcome(1, "B", models.StepAcquire, errors.New("video unavailable")),
			outcome(0, "A", models.StepDone, nil),
		}
		for _, o := range outcomes {
			if err := repo.AddOutcome(ctx, models.NewOutcomeRecord(run.ID(), o)); err != nil {
				t.Fatalf("failed to add outcome: %v", err)
			}
		}

		ranges := []models.Range{{Start: 0, End: 1}, {Start: 1, End: 2}}
		run.Finish(3, 2, 1, ranges, nil)
		if err := repo.FinishRun(ctx, run); err != nil {
			t.Fatalf("failed to finish run: %v", err)
		}

		got, err := repo.GetRun(ctx, run.ID())
		if err != nil {
			t.Fatalf("failed to get run: %v", err)
		}
		if got.SpreadsheetID() != "sheet-1" || got.TotalRows() != 3 || got.Succeeded() != 2 || got.Failed() != 1 {
			t.Errorf("unexpected run %+v", got)
		}
		if !reflect.DeepEqual(got.Ranges(), ranges) {
			t.Errorf("ranges = %v, want %v", got.Ranges(), ranges)
		}
		if got.FinishedAt() == nil {
			t.Error("expected finished_at to be set")
		}

		records, err := repo.Outcomes(ctx, run.ID())
		if err != nil {
			t.Fatalf("failed to list outcomes: %v", err)
		}
		if len(records) != 3 {
			t.Fatalf("expected 3 outcomes, got %d", len(records))
		}
		if records[0].Position() != 0 || records[2].Position() != 2 {
			t.Error("expected outcomes ordered by position")
		}
		failed := records[1]
		if failed.Succeeded() || failed.Step() != models.StepAcquire || failed.ErrorText() != "video unavailable" {
			t.Errorf("unexpected failed outcome: step %s, err %q", failed.Step(), failed.ErrorText())
		}
	})

	t.Run("get by prefix", func(t *testing.T) {
		repo := NewRunRepository(setupTestDB(t))
		run := models.NewRun("abcdef-1234", "sheet", true)
		if err := repo.CreateRun(ctx, run); err != nil {
			t.Fatalf("failed to create run: %v", err)
		}

		got, err := repo.GetRun(ctx, "abc")
		if err != nil {
			t.Fatalf("failed to get run by prefix: %v", err)
		}
		if got.ID() != run.ID() || !got.DryRun() {
			t.Errorf("unexpected run %s dry=%v", got.ID(), got.DryRun())
		}
	})

	t.Run("ambiguous prefix", func(t *testing.T) {
		repo := NewRunRepository(setupTestDB(t))
		for _, id := range []string{"abc-1", "abc-2"} {
			if err := repo.CreateRun(ctx, models.NewRun(id, "sheet", false)); err != nil {
				t.Fatalf("failed to create run: %v", err)
			}
		}

		if _, err := repo.GetRun(ctx, "abc"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
		if _, err := repo.GetRun(ctx, "abc-1"); err != nil {
			t.Errorf("exact id should resolve, got %v", err)
		}
	})

	t.Run("list newest first", func(t *testing.T) {
		repo := NewRunRepository(setupTestDB(t))
		base := time.Now().Add(-time.Hour)
		for i, id := range []string{"old", "mid", "new"} {
			run := models.NewRun(id, "sheet", false)
			run.SetStartedAt(base.Add(time.Duration(i) * time.Minute))
			if err := repo.CreateRun(ctx, run); err != nil {
				t.Fatalf("failed to create run: %v", err)
			}
		}

		runs, err := repo.ListRuns(ctx, 2)
		if err != nil {
			t.Fatalf("failed to list runs: %v", err)
		}
		if len(runs) != 2 || runs[0].ID() != "new" || runs[1].ID() != "mid" {
			var ids []string
			for _, r := range runs {
				ids = append(ids, r.ID())
			}
			t.Errorf("ListRuns(2) = %v, want [new mid]", ids)
		}

		all, err := repo.ListRuns(ctx, 0)
		if err != nil || len(all) != 3 {
			t.Errorf("ListRuns(0) returned %d runs, err %v", len(all), err)
		}
	})

	t.Run("delete run", func(t *testing.T) {
		repo := NewRunRepository(setupTestDB(t))
		run := models.NewRun("gone", "sheet", false)
		if err := repo.CreateRun(ctx, run); err != nil {
			t.Fatalf("failed to create run: %v", err)
		}
		if err := repo.AddOutcome(ctx, models.NewOutcomeRecord(run.ID(), outcome(0, "A", models.StepDone, nil))); err != nil {
			t.Fatalf("failed to add outcome: %v", err)
		}

		if err := repo.DeleteRun(ctx, run.ID()); err != nil {
			t.Fatalf("failed to delete run: %v", err)
		}
		if _, err := repo.GetRun(ctx, run.ID()); !errors.Is(err, shared.ErrRunNotFound) {
			t.Errorf("expected ErrRunNotFound, got %v", err)
		}
		records, err := repo.Outcomes(ctx, run.ID())
		if err != nil || len(records) != 0 {
			t.Errorf("expected outcomes to be removed, got %d (%v)", len(records), err)
		}
	})
}

func TestRunRepositoryErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("CreateRun", func(t *testing.T) {
		t.Run("ValidationError", func(t *testing.T) {
			repo := NewRunRepository(setupTestDB(t))
			if err := repo.CreateRun(ctx, models.NewRun("id", "", false)); err == nil {
				t.Fatal("expected validation error for empty spreadsheet id")
			}
		})

		t.Run("GeneratesID", func(t *testing.T) {
			repo := NewRunRepository(setupTestDB(t))
			run := models.NewRun("", "sheet", false)
			if err := repo.CreateRun(ctx, run); err != nil {
				t.Fatalf("failed to create run: %v", err)
			}
			if run.ID() == "" {
				t.Error("run ID should be set after creation")
			}
		})

		t.Run("DuplicateID", func(t *testing.T) {
			repo := NewRunRepository(setupTestDB(t))
			if err := repo.CreateRun(ctx, models.NewRun("dup", "sheet", false)); err != nil {
				t.Fatalf("failed to create run: %v", err)
			}
			if err := repo.CreateRun(ctx, models.NewRun("dup", "sheet", false)); err == nil {
				t.Fatal("expected error for duplicate run id")
			}
		})
	})

	t.Run("FinishRun", func(t *testing.T) {
		t.Run("NotFound", func(t *testing.T) {
			repo := NewRunRepository(setupTestDB(t))
			run := models.NewRun("missing", "sheet", false)
			run.Finish(0, 0, 0, nil, nil)
			if err := repo.FinishRun(ctx, run); !errors.Is(err, shared.ErrRunNotFound) {
				t.Errorf("expected ErrRunNotFound, got %v", err)
			}
		})
	})

	t.Run("GetRun", func(t *testing.T) {
		t.Run("NotFound", func(t *testing.T) {
			repo := NewRunRepository(setupTestDB(t))
			if _, err := repo.GetRun(ctx, "nonexistent"); !errors.Is(err, shared.ErrRunNotFound) {
				t.Errorf("expected ErrRunNotFound, got %v", err)
			}
			if _, err := repo.GetRun(ctx, ""); !errors.Is(err, shared.ErrRunNotFound) {
				t.Errorf("expected ErrRunNotFound for empty id, got %v", err)
			}
		})
	})

	t.Run("AddOutcome", func(t *testing.T) {
		t.Run("UnknownRun", func(t *testing.T) {
			repo := NewRunRepository(setupTestDB(t))
			record := models.NewOutcomeRecord("no-such-run", outcome(0, "A", models.StepDone, nil))
			if err := repo.AddOutcome(ctx, record); err == nil {
				t.Fatal("expected foreign key error")
			}
		})

		t.Run("DuplicatePosition", func(t *testing.T) {
			repo := NewRunRepository(setupTestDB(t))
			run := models.NewRun("run", "sheet", false)
			if err := repo.CreateRun(ctx, run); err != nil {
				t.Fatalf("failed to create run: %v", err)
			}
			if err := repo.AddOutcome(ctx, models.NewOutcomeRecord(run.ID(), outcome(4, "A", models.StepDone, nil))); err != nil {
				t.Fatalf("failed to add outcome: %v", err)
			}
			if err := repo.AddOutcome(ctx, models.NewOutcomeRecord(run.ID(), outcome(4, "B", models.StepDone, nil))); err == nil {
				t.Fatal("expected unique constraint error")
			}
		})

		t.Run("ValidationError", func(t *testing.T) {
			repo := NewRunRepository(setupTestDB(t))
			if err := repo.AddOutcome(ctx, models.NewOutcomeRecord("", outcome(0, "A", models.StepDone, nil))); err == nil {
				t.Fatal("expected validation error for empty run id")
			}
		})
	})
}
