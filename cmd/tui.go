package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/ytsheet/internal/shared"
	"github.com/desertthunder/ytsheet/internal/tasks"
	"github.com/desertthunder/ytsheet/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for a sync run.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	return r.runTUI(ctx, tasks.RunOpts{SpreadsheetID: r.config.Sheet.SpreadsheetID, DryRun: cmd.Bool("dry-run")})
}

func (r *Runner) runTUI(ctx context.Context, opts tasks.RunOpts) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(r.config.Log.File)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	shared.SetLogLevel(fileLogger, shared.ParseLogLevel(r.config.Log.Level))
	r.SetLogger(fileLogger)

	store, err := r.rowStore(ctx)
	if err != nil {
		return err
	}
	engine, err := r.syncEngine(ctx)
	if err != nil {
		return err
	}

	model := ui.NewModel(ctx, store, engine, opts)
	p := tea.NewProgram(model, tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return model.Err()
}
