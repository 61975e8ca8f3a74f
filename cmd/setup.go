package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/ytsheet/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the config template to the --config path. An existing file is left untouched.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	if err := shared.CreateConfigFile(r.configPath); err != nil {
		return err
	}
	r.logger.Info("config file created", "path", r.configPath)

	r.writePlain("✓ Config written to %s\n", r.configPath)
	r.writePlain("Next steps:\n")
	r.writePlain("1. Set sheet.spreadsheet_id, sheet.sheet_id and sheet.range\n")
	r.writePlain("2. Set credentials.google.client_id and client_secret\n")
	return r.writePlain("3. Run 'ytsheet auth login'\n")
}

// SetupDatabase initializes the history database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	r.logger.Info("initializing database", "path", r.config.Database.Path)

	if _, err := r.history(); err != nil {
		return err
	}
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to reach database: %w", err)
	}

	r.logger.Infof("setup complete for database: %v", r.config.Database.Path)
	return r.writePlain("✓ History database ready at %s\n", r.config.Database.Path)
}
