package models

import (
	"errors"
	"time"
)

// Run is the persisted record of one sync run.
type Run struct {
	timestamps
	spreadsheetID string
	dryRun        bool
	totalRows     int
	succeeded     int
	failed        int
	ranges        []Range
	errText       string
	startedAt     time.Time
	finishedAt    *time.Time
}

// NewRun creates a Run that started now.
func NewRun(id, spreadsheetID string, dryRun bool) *Run {
	now := time.Now()
	r := &Run{
		timestamps:    newTimestamps(now),
		spreadsheetID: spreadsheetID,
		dryRun:        dryRun,
		startedAt:     now,
	}
	r.SetID(id)
	return r
}

func (r *Run) SpreadsheetID() string    { return r.spreadsheetID }
func (r *Run) DryRun() bool             { return r.dryRun }
func (r *Run) TotalRows() int           { return r.totalRows }
func (r *Run) Succeeded() int           { return r.succeeded }
func (r *Run) Failed() int              { return r.failed }
func (r *Run) Ranges() []Range          { return r.ranges }
func (r *Run) ErrorText() string        { return r.errText }
func (r *Run) StartedAt() time.Time     { return r.startedAt }
func (r *Run) FinishedAt() *time.Time   { return r.finishedAt }
func (r *Run) SetStartedAt(t time.Time) { r.startedAt = t }

// Finish records the final counters of the run.
func (r *Run) Finish(totalRows, succeeded, failed int, ranges []Range, runErr error) {
	now := time.Now()
	r.totalRows = totalRows
	r.succeeded = succeeded
	r.failed = failed
	r.ranges = ranges
	if runErr != nil {
		r.errText = runErr.Error()
	}
	r.finishedAt = &now
	r.updatedAt = now
}

// RestoreResult sets the counters when a run is loaded from the database.
func (r *Run) RestoreResult(totalRows, succeeded, failed int, ranges []Range, errText string, finishedAt *time.Time) {
	r.totalRows = totalRows
	r.succeeded = succeeded
	r.failed = failed
	r.ranges = ranges
	r.errText = errText
	r.finishedAt = finishedAt
}

// Validate implements [Model].
func (r *Run) Validate() error {
	if r.id == "" {
		return errors.New("run id is required")
	}
	if r.spreadsheetID == "" {
		return errors.New("spreadsheet id is required")
	}
	if r.succeeded < 0 || r.failed < 0 || r.totalRows < 0 {
		return errors.New("run counters must not be negative")
	}
	return nil
}

// OutcomeRecord is the persisted form of a [RowOutcome].
type OutcomeRecord struct {
	timestamps
	runID     string
	position  int
	locator   string
	title     string
	artist    string
	step      Step
	succeeded bool
	errText   string
}

// NewOutcomeRecord converts a row outcome into a record belonging to runID.
func NewOutcomeRecord(runID string, outcome RowOutcome) *OutcomeRecord {
	return &OutcomeRecord{
		timestamps: newTimestamps(time.Now()),
		runID:      runID,
		position:   outcome.Row.Position,
		locator:    outcome.Row.Locator,
		title:      outcome.Row.Title,
		artist:     outcome.Row.Artist,
		step:       outcome.Step,
		succeeded:  outcome.Succeeded(),
		errText:    outcome.ErrorText(),
	}
}

// RestoreOutcomeRecord recreates a record loaded from the database.
func RestoreOutcomeRecord(id, runID string, position int, locator, title, artist string, step Step, succeeded bool, errText string, createdAt, updatedAt time.Time) *OutcomeRecord {
	o := &OutcomeRecord{
		runID:     runID,
		position:  position,
		locator:   locator,
		title:     title,
		artist:    artist,
		step:      step,
		succeeded: succeeded,
		errText:   errText,
	}
	o.Restore(id, createdAt, updatedAt)
	return o
}

func (o *OutcomeRecord) RunID() string   { return o.runID }
func (o *OutcomeRecord) Position() int   { return o.position }
func (o *OutcomeRecord) Locator() string { return o.locator }
func (o *OutcomeRecord) Title() string   { return o.title }
func (o *OutcomeRecord) Artist() string  { return o.artist }
func (o *OutcomeRecord) Step() Step      { return o.step }
func (o *OutcomeRecord) Succeeded() bool { return o.succeeded }
func (o *OutcomeRecord) ErrorText() string { return o.errText }

// Validate implements [Model].
func (o *OutcomeRecord) Validate() error {
	if o.runID == "" {
		return errors.New("run id is required")
	}
	if o.position < 0 {
		return errors.New("position must not be negative")
	}
	return nil
}

var (
	_ Model = (*Run)(nil)
	_ Model = (*OutcomeRecord)(nil)
)
