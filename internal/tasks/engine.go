package tasks

import (
	"context"
	"fmt"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytsheet/internal/models"
	"github.com/desertthunder/ytsheet/internal/services"
	"github.com/desertthunder/ytsheet/internal/shared"
)

// Processor runs the pipeline for a single row.
type Processor interface {
	Process(ctx context.Context, row models.Row) models.RowOutcome
}

// RunRecorder persists run history. Recording failures are logged and never stop a run.
type RunRecorder interface {
	CreateRun(ctx context.Context, run *models.Run) error
	AddOutcome(ctx context.Context, record *models.OutcomeRecord) error
	FinishRun(ctx context.Context, run *models.Run) error
}

// RunOpts controls a single [SyncEngine.Run].
type RunOpts struct {
	SpreadsheetID string // recorded in history; defaults to the store name
	DryRun        bool   // process rows but leave the store untouched
}

// RunResult contains all data from a sync run.
type RunResult struct {
	RunID     string
	Rows      []models.Row        // rows as fetched, in store order
	Outcomes  []models.RowOutcome // in processing order (last row first)
	Positions []int               // succeeded positions, ascending
	Ranges    []models.Range      // shift-corrected deletion ranges
	DeleteErr error               // set when the batched delete failed
	DryRun    bool
	Succeeded int
	Failed    int
}

// Deleted reports whether the store was asked to delete rows and accepted the request.
func (r *RunResult) Deleted() bool {
	return !r.DryRun && len(r.Ranges) > 0 && r.DeleteErr == nil
}

// Failures returns the failed outcomes in processing order.
func (r *RunResult) Failures() []models.RowOutcome {
	var failed []models.RowOutcome
	for _, o := range r.Outcomes {
		if !o.Succeeded() {
			failed = append(failed, o)
		}
	}
	return failed
}

// SyncEngine drives a run: fetch every row once, process them last to first, then delete the succeeded rows in one batch.
type SyncEngine struct {
	store     services.RowStore
	processor Processor
	recorder  RunRecorder
	logger    *log.Logger
}

// NewSyncEngine creates a [SyncEngine]. recorder may be nil to skip history.
func NewSyncEngine(store services.RowStore, processor Processor, recorder RunRecorder, logger *log.Logger) *SyncEngine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &SyncEngine{
		store:     store,
		processor: processor,
		recorder:  recorder,
		logger:    logger,
	}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *SyncEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Run performs one sync run.
//
// A fetch failure is fatal and returns a nil result. A delete failure is returned together with the result, whose DeleteErr holds the same error.
func (e *SyncEngine) Run(ctx context.Context, progress chan<- ProgressUpdate, opts RunOpts) (*RunResult, error) {
	if e.store == nil {
		return nil, fmt.Errorf("%w: row store not initialized", shared.ErrServiceUnavailable)
	}
	if e.processor == nil {
		return nil, fmt.Errorf("%w: row processor not initialized", shared.ErrServiceUnavailable)
	}

	spreadsheetID := opts.SpreadsheetID
	if spreadsheetID == "" {
		spreadsheetID = e.store.Name()
	}

	result := &RunResult{RunID: shared.GenerateID(), DryRun: opts.DryRun}
	run := models.NewRun(result.RunID, spreadsheetID, opts.DryRun)
	logger := shared.WithLogger(e.logger, "run", result.RunID)

	// History writes and the final delete outlive cancellation, so rows finished before an interrupt are still removed and recorded.
	recordCtx := context.WithoutCancel(ctx)
	e.record(logger, "create run", func() error { return e.recorder.CreateRun(recordCtx, run) })

	e.sendProgress(progress, fetchRowsUpdate(e.store.Name()))
	rows, err := e.store.Fetch(ctx)
	if err != nil {
		err = fmt.Errorf("%w: %w", shared.ErrFetchRows, err)
		run.Finish(0, 0, 0, nil, err)
		e.record(logger, "finish run", func() error { return e.recorder.FinishRun(recordCtx, run) })
		return nil, err
	}
	result.Rows = rows
	logger.Info("fetched rows", "count", len(rows), "store", e.store.Name())

	total := len(rows)
	for i := total - 1; i >= 0; i-- {
		step := total - i
		e.sendProgress(progress, processRowUpdate(step, total, rows[i]))

		outcome := e.processor.Process(ctx, rows[i])
		result.Outcomes = append(result.Outcomes, outcome)
		if outcome.Succeeded() {
			result.Positions = append(result.Positions, rows[i].Position)
			result.Succeeded++
		} else {
			result.Failed++
		}

		e.record(logger, "add outcome", func() error {
			return e.recorder.AddOutcome(recordCtx, models.NewOutcomeRecord(result.RunID, outcome))
		})
		e.sendProgress(progress, rowFinishedUpdate(step, total, outcome))
	}

	slices.Sort(result.Positions)
	result.Ranges = CompactRanges(result.Positions)
	e.sendProgress(progress, compactRangesUpdate(len(result.Positions), result.Ranges))

	if len(result.Ranges) > 0 {
		e.sendProgress(progress, deleteRowsUpdate(result.Ranges, opts.DryRun))
		if opts.DryRun {
			logger.Info("dry run, rows kept", "ranges", result.Ranges)
		} else if err := e.store.DeleteRanges(recordCtx, result.Ranges); err != nil {
			result.DeleteErr = fmt.Errorf("%w: %w", shared.ErrDeleteRows, err)
			logger.Error("delete failed", "ranges", result.Ranges, "err", err)
		} else {
			logger.Info("deleted rows", "count", len(result.Positions), "ranges", result.Ranges)
		}
	}

	run.Finish(total, result.Succeeded, result.Failed, result.Ranges, result.DeleteErr)
	e.record(logger, "finish run", func() error { return e.recorder.FinishRun(recordCtx, run) })
	e.sendProgress(progress, runFinishedUpdate(result))

	return result, result.DeleteErr
}

func (e *SyncEngine) record(logger *log.Logger, action string, fn func() error) {
	if e.recorder == nil {
		return
	}
	if err := fn(); err != nil {
		logger.Warn("history not recorded", "action", action, "err", err)
	}
}
