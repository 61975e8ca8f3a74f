package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytsheet/internal/repositories"
	"github.com/desertthunder/ytsheet/internal/services"
	"github.com/desertthunder/ytsheet/internal/shared"
	"github.com/desertthunder/ytsheet/internal/tasks"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// The row store, processor and history database are built on first use from the loaded config unless injected.
type Runner struct {
	config     *shared.Config
	configPath string
	configured bool
	store      services.RowStore
	processor  tasks.Processor
	db         *sql.DB
	ownsDB     bool
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config // when set, the --config file is not read
	ConfigPath string
	Store      services.RowStore
	Processor  tasks.Processor
	DB         *sql.DB
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	configured := opts.Config != nil
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		configured: configured,
		store:      opts.Store,
		processor:  opts.Processor,
		db:         opts.DB,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

// SetLogger replaces the logger, e.g. when the TUI takes over the terminal.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, rowsCommand, syncCommand, historyCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// app builds the root command. Its Before hook loads the config file named by --config.
func (r *Runner) app() *cli.Command {
	return &cli.Command{
		Name:    "ytsheet",
		Usage:   "Download, tag and import the songs listed in a Google Sheet, then delete the rows that made it",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Before:   r.loadConfig,
		After:    r.close,
		Commands: r.register(),
	}
}

func (r *Runner) loadConfig(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if r.configPath == "" {
		r.configPath = cmd.String("config")
	}

	if !r.configured {
		if _, err := os.Stat(r.configPath); err == nil {
			config, err := shared.LoadConfig(r.configPath)
			if err != nil {
				return ctx, err
			}
			r.config = config
		} else {
			r.logger.Debug("config file not found, using defaults", "path", r.configPath)
		}
		r.configured = true
	}

	shared.SetLogLevel(r.logger, shared.ParseLogLevel(r.config.Log.Level))
	return ctx, nil
}

func (r *Runner) close(ctx context.Context, cmd *cli.Command) error {
	if r.db == nil || !r.ownsDB {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

// rowStore returns the injected store or a Sheets client authorized with the saved token.
func (r *Runner) rowStore(ctx context.Context) (services.RowStore, error) {
	if r.store != nil {
		return r.store, nil
	}
	if err := r.config.Validate(); err != nil {
		return nil, err
	}

	conf, err := services.NewGoogleOAuthConfig(r.config.Credentials.Google)
	if err != nil {
		return nil, err
	}

	tokenPath := r.config.Credentials.Google.TokenPath
	token, err := shared.LoadToken(tokenPath)
	if err != nil {
		return nil, fmt.Errorf("%w (run 'ytsheet auth login')", err)
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, r.httpClient)
	client := services.NewGoogleClient(ctx, conf, token, tokenPath, r.logger)
	r.store = services.NewSheetsService(r.config.Sheet, client)
	return r.store, nil
}

// rowProcessor returns the injected processor or one wired to the configured tools.
func (r *Runner) rowProcessor() tasks.Processor {
	if r.processor != nil {
		return r.processor
	}

	media := r.config.Media
	var limiter *rate.Limiter
	if media.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(media.RateLimit), 1)
	}

	var importer services.Importer = services.NoopImporter{}
	if r.config.Import.Enabled {
		importer = services.NewMusicImporter(r.config.Import.App, nil)
	}

	r.processor = tasks.NewRowProcessor(tasks.ProcessorOpts{
		Acquirer:   services.NewYTDLPAcquirer(media.YTDLPPath, nil),
		Transcoder: services.NewFFmpegTranscoder(media.FFmpegPath, nil),
		Tagger:     services.NewID3Tagger(),
		Importer:   importer,
		Limiter:    limiter,
		WorkDir:    shared.ExpandHome(media.WorkDir),
		Format:     media.Format,
		Bitrate:    media.Bitrate,
		Logger:     r.logger,
	})
	return r.processor
}

// history opens the run history database, creating and migrating it as needed.
func (r *Runner) history() (*repositories.RunRepository, error) {
	if r.db == nil {
		db, err := shared.OpenHistory(r.config.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to open history: %w", err)
		}
		r.db = db
		r.ownsDB = true
	}
	return repositories.NewRunRepository(r.db), nil
}

// recorder returns the history repository as a run recorder, or nil when history is unavailable.
// A sync still runs without history.
func (r *Runner) recorder() tasks.RunRecorder {
	repo, err := r.history()
	if err != nil {
		r.logger.Warn("run history disabled", "error", err)
		return nil
	}
	return repo
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writeBytes(data []byte) error {
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
