// submodule cmd contains command definitions
package main

import (
	"time"

	"github.com/urfave/cli/v3"
)

// setupCommand handles setup operations for the config file and history database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write a config file template to the --config path",
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize the run history database and run migrations",
				Action: r.SetupDatabase,
			},
		},
	}
}

// authCommand handles Google authentication
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage Google authentication",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Authorize access to Google Sheets and save the token",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "How long to wait for the browser callback",
						Value: 2 * time.Minute,
					},
					&cli.BoolFlag{
						Name:  "no-browser",
						Usage: "Print the consent URL without opening a browser",
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "status",
				Usage:  "Show whether a saved token exists and when it expires",
				Action: r.AuthStatus,
			},
		},
	}
}

// rowsCommand previews the rows a sync would process
func rowsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "rows",
		Usage: "List the sheet's data rows with their positions",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Rows,
	}
}

// syncCommand handles sync runs and range planning
func syncCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Process sheet rows and delete the ones that succeeded",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Process every row, then delete the succeeded rows in one batch",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "Process rows but leave the sheet unchanged",
					},
					&cli.BoolFlag{
						Name:  "tui",
						Usage: "Preview, confirm and follow the run in the interactive UI",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print the run report as JSON",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Also write the run report to this file",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Report format for --output: text, csv, markdown or json",
						Value:   "text",
					},
				},
				Action: r.SyncRun,
			},
			{
				Name:      "plan",
				Usage:     "Print the delete ranges for a set of succeeded positions",
				ArgsUsage: "<position>...",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "rows",
						Usage: "Simulate the deletes against this many rows and print what remains",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.SyncPlan,
			},
		},
	}
}

// historyCommand handles stored run history
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Inspect past sync runs",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List recent runs, newest first",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of runs to show (0 for all)",
						Value: 20,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.HistoryList,
			},
			{
				Name:  "show",
				Usage: "Show a run and its row outcomes",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "run-id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format: text, csv, markdown or json",
						Value:   "text",
					},
				},
				Action: r.HistoryShow,
			},
			{
				Name:  "delete",
				Usage: "Delete a run and its row outcomes",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "run-id"},
				},
				Action: r.HistoryDelete,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for an interactive sync.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive sync UI",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Process rows but leave the sheet unchanged",
			},
		},
		Action: r.TUI,
	}
}
