package tasks

import (
	"fmt"

	"github.com/desertthunder/ytsheet/internal/models"
)

// ProgressUpdate represents a progress event during a sync run.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchRows Phase = iota
	ProcessRow
	RowFinished
	CompactPositions
	DeleteRows
	RunFinished
)

func (p Phase) String() string {
	switch p {
	case FetchRows:
		return "fetch_rows"
	case ProcessRow:
		return "process_row"
	case RowFinished:
		return "row_finished"
	case CompactPositions:
		return "compact_ranges"
	case DeleteRows:
		return "delete_rows"
	case RunFinished:
		return "run_finished"
	default:
		return ""
	}
}

func fetchRowsUpdate(storeName string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchRows,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetching rows from %s...", storeName),
	}
}

func processRowUpdate(step, total int, row models.Row) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ProcessRow,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s", step, total, rowText(row)),
		Data:    row,
	}
}

// rowFinishedUpdate carries the [models.RowOutcome] so UIs can keep a running tally.
func rowFinishedUpdate(step, total int, outcome models.RowOutcome) ProgressUpdate {
	msg := fmt.Sprintf("[%d/%d] ✓ %s", step, total, rowText(outcome.Row))
	if !outcome.Succeeded() {
		msg = fmt.Sprintf("[%d/%d] ✗ %s (%s): %v", step, total, rowText(outcome.Row), outcome.Step, outcome.Err)
	}
	return ProgressUpdate{
		Phase:   RowFinished,
		Step:    step,
		Total:   total,
		Message: msg,
		Data:    outcome,
	}
}

func compactRangesUpdate(positions int, ranges []models.Range) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CompactPositions,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Compacted %d positions into %d ranges", positions, len(ranges)),
		Data:    ranges,
	}
}

func deleteRowsUpdate(ranges []models.Range, dryRun bool) ProgressUpdate {
	msg := fmt.Sprintf("Deleting %d ranges...", len(ranges))
	if dryRun {
		msg = fmt.Sprintf("Dry run: skipping deletion of %d ranges", len(ranges))
	}
	return ProgressUpdate{
		Phase:   DeleteRows,
		Step:    1,
		Total:   1,
		Message: msg,
		Data:    ranges,
	}
}

func runFinishedUpdate(result *RunResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RunFinished,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Processed %d rows: %d succeeded, %d failed", len(result.Outcomes), result.Succeeded, result.Failed),
		Data:    result,
	}
}

func rowText(row models.Row) string {
	if row.Artist == "" {
		return row.Label()
	}
	return fmt.Sprintf("%s - %s", row.Artist, row.Label())
}
