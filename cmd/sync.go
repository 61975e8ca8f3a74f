package main

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/desertthunder/ytsheet/internal/formatter"
	"github.com/desertthunder/ytsheet/internal/models"
	"github.com/desertthunder/ytsheet/internal/shared"
	"github.com/desertthunder/ytsheet/internal/tasks"
	"github.com/urfave/cli/v3"
)

// SyncRun performs one sync run and prints its report.
//
// A delete failure is printed in the report and also returned, so the process exits non-zero.
func (r *Runner) SyncRun(ctx context.Context, cmd *cli.Command) error {
	opts := tasks.RunOpts{SpreadsheetID: r.config.Sheet.SpreadsheetID, DryRun: cmd.Bool("dry-run")}
	if cmd.Bool("tui") {
		return r.runTUI(ctx, opts)
	}

	engine, err := r.syncEngine(ctx)
	if err != nil {
		return err
	}

	jsonOut := cmd.Bool("json")
	progress := make(chan tasks.ProgressUpdate, 64)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			if !jsonOut {
				r.printProgress(update)
			}
		}
	}()

	startedAt := time.Now()
	result, runErr := engine.Run(ctx, progress, opts)
	close(progress)
	<-done

	if result == nil {
		return runErr
	}

	report := formatter.FromResult(result, opts.SpreadsheetID, startedAt)
	if path := cmd.String("output"); path != "" {
		if err := formatter.WriteReport(report, cmd.String("format"), path); err != nil {
			return err
		}
		r.logger.Info("report written", "path", path, "format", cmd.String("format"))
	}

	format := "text"
	if jsonOut {
		format = "json"
	} else {
		r.writePlain("\n")
	}
	data, err := formatter.Export(report, format)
	if err != nil {
		return err
	}
	if err := r.writeBytes(data); err != nil {
		return err
	}
	return runErr
}

// syncEngine wires the row store, processor and history into an engine.
func (r *Runner) syncEngine(ctx context.Context) (*tasks.SyncEngine, error) {
	store, err := r.rowStore(ctx)
	if err != nil {
		return nil, err
	}
	return tasks.NewSyncEngine(store, r.rowProcessor(), r.recorder(), r.logger), nil
}

// printProgress prints one line per finished row plus the phase changes around the row loop.
func (r *Runner) printProgress(update tasks.ProgressUpdate) {
	switch update.Phase {
	case tasks.FetchRows, tasks.RowFinished, tasks.DeleteRows:
		r.writePlain("%s\n", update.Message)
	case tasks.ProcessRow:
		r.logger.Debug(update.Message)
	}
}

type plan struct {
	Positions []int          `json:"positions"`
	Groups    []models.Range `json:"groups"`
	Ranges    []models.Range `json:"ranges"`
	Remaining []int          `json:"remaining,omitempty"`
}

// SyncPlan prints the grouped and shift-corrected delete ranges for the given positions.
func (r *Runner) SyncPlan(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()
	if len(args) == 0 {
		return fmt.Errorf("%w: at least one position", shared.ErrMissingArgument)
	}

	positions := make([]int, 0, len(args))
	for _, arg := range args {
		n, err := strconv.Atoi(arg)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: position %q must be a non-negative integer", shared.ErrInvalidArgument, arg)
		}
		positions = append(positions, n)
	}
	slices.Sort(positions)
	positions = slices.Compact(positions)

	p := plan{
		Positions: positions,
		Groups:    tasks.GroupRanges(positions),
		Ranges:    tasks.CompactRanges(positions),
	}

	if total := cmd.Int("rows"); total > 0 {
		if last := positions[len(positions)-1]; last >= int(total) {
			return fmt.Errorf("%w: position %d is outside %d rows", shared.ErrInvalidArgument, last, total)
		}
		all := make([]int, total)
		for i := range all {
			all[i] = i
		}
		remaining, err := tasks.ApplyRanges(all, p.Ranges)
		if err != nil {
			return err
		}
		p.Remaining = remaining
	}

	if cmd.Bool("json") {
		return r.writeJSON(p, true)
	}

	r.writePlain("Positions: %v\n", p.Positions)
	r.writePlain("Groups:    %s\n", formatter.RangesString(p.Groups))
	r.writePlain("Requests:  %s\n", formatter.RangesString(p.Ranges))
	if p.Remaining != nil {
		return r.writePlain("Remaining: %v\n", p.Remaining)
	}
	return nil
}
