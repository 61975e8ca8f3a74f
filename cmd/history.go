package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/ytsheet/internal/formatter"
	"github.com/desertthunder/ytsheet/internal/shared"
	"github.com/urfave/cli/v3"
)

// HistoryList prints recent runs, newest first.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.history()
	if err != nil {
		return err
	}

	runs, err := repo.ListRuns(ctx, int(cmd.Int("limit")))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		reports := make([]*formatter.Report, 0, len(runs))
		for _, run := range runs {
			reports = append(reports, formatter.FromRun(run, nil))
		}
		return r.writeJSON(reports, true)
	}

	if len(runs) == 0 {
		return r.writePlain("No runs recorded\n")
	}
	data, err := formatter.RunsToText(runs)
	if err != nil {
		return err
	}
	return r.writeBytes(data)
}

// HistoryShow prints one run and its row outcomes. The run may be named by a unique ID prefix.
func (r *Runner) HistoryShow(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("run-id")
	if id == "" {
		return fmt.Errorf("%w: run-id", shared.ErrMissingArgument)
	}

	repo, err := r.history()
	if err != nil {
		return err
	}

	run, err := repo.GetRun(ctx, id)
	if err != nil {
		return err
	}
	records, err := repo.Outcomes(ctx, run.ID())
	if err != nil {
		return err
	}

	data, err := formatter.Export(formatter.FromRun(run, records), cmd.String("format"))
	if err != nil {
		return err
	}
	return r.writeBytes(data)
}

// HistoryDelete removes a run and its outcomes.
func (r *Runner) HistoryDelete(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("run-id")
	if id == "" {
		return fmt.Errorf("%w: run-id", shared.ErrMissingArgument)
	}

	repo, err := r.history()
	if err != nil {
		return err
	}

	run, err := repo.GetRun(ctx, id)
	if err != nil {
		return err
	}
	if err := repo.DeleteRun(ctx, run.ID()); err != nil {
		return err
	}

	r.logger.Info("run deleted", "run", run.ID())
	return r.writePlain("✓ Deleted run %s\n", run.ID())
}
