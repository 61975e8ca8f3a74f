package main

import (
	"context"

	"github.com/desertthunder/ytsheet/internal/formatter"
	"github.com/urfave/cli/v3"
)

// Rows fetches the sheet once and prints its data rows with their positions.
func (r *Runner) Rows(ctx context.Context, cmd *cli.Command) error {
	store, err := r.rowStore(ctx)
	if err != nil {
		return err
	}

	rows, err := store.Fetch(ctx)
	if err != nil {
		return err
	}
	r.logger.Debug("fetched rows", "count", len(rows), "store", store.Name())

	render := formatter.RowsToText
	if cmd.Bool("json") {
		render = formatter.RowsToJSON
	} else if len(rows) == 0 {
		return r.writePlain("No rows in %s\n", store.Name())
	}

	data, err := render(rows)
	if err != nil {
		return err
	}
	return r.writeBytes(data)
}
