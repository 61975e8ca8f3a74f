package tasks

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytsheet/internal/models"
	"github.com/desertthunder/ytsheet/internal/services"
	"github.com/desertthunder/ytsheet/internal/shared"
	"golang.org/x/time/rate"
)

// ProcessorOpts configures a [RowProcessor]. Nil fields fall back to defaults.
type ProcessorOpts struct {
	Acquirer   services.Acquirer
	Transcoder services.Transcoder
	Tagger     services.Tagger
	Importer   services.Importer
	Limiter    *rate.Limiter // paces acquisitions; unlimited when nil
	WorkDir    string
	Format     string // output extension, e.g. "mp3"
	Bitrate    string
	Logger     *log.Logger
}

// RowProcessor runs the per-row pipeline: validate, acquire, transcode, tag, import, cleanup.
//
// Each row is independent; a failure is reported in the returned [models.RowOutcome] and never affects other rows.
type RowProcessor struct {
	acquirer   services.Acquirer
	transcoder services.Transcoder
	tagger     services.Tagger
	importer   services.Importer
	limiter    *rate.Limiter
	workDir    string
	format     string
	bitrate    string
	logger     *log.Logger
}

// NewRowProcessor creates a [RowProcessor] backed by yt-dlp, ffmpeg, ID3 tags and the music app unless opts overrides them.
func NewRowProcessor(opts ProcessorOpts) *RowProcessor {
	p := &RowProcessor{
		acquirer:   opts.Acquirer,
		transcoder: opts.Transcoder,
		tagger:     opts.Tagger,
		importer:   opts.Importer,
		limiter:    opts.Limiter,
		workDir:    opts.WorkDir,
		format:     strings.TrimPrefix(opts.Format, "."),
		bitrate:    opts.Bitrate,
		logger:     opts.Logger,
	}

	if p.acquirer == nil {
		p.acquirer = services.NewYTDLPAcquirer("", nil)
	}
	if p.transcoder == nil {
		p.transcoder = services.NewFFmpegTranscoder("", nil)
	}
	if p.tagger == nil {
		p.tagger = services.NewID3Tagger()
	}
	if p.importer == nil {
		p.importer = services.NoopImporter{}
	}
	if p.limiter == nil {
		p.limiter = rate.NewLimiter(rate.Inf, 1)
	}
	if p.workDir == "" {
		p.workDir = os.TempDir()
	}
	if p.format == "" {
		p.format = "mp3"
	}
	if p.logger == nil {
		p.logger = shared.NewLogger(nil)
	}
	return p
}

// Process runs every pipeline step for row and reports where it stopped.
func (p *RowProcessor) Process(ctx context.Context, row models.Row) models.RowOutcome {
	logger := shared.WithLogger(p.logger, "position", row.Position, "title", row.Label())
	outcome := models.RowOutcome{Row: row, Step: models.StepValidate}

	fail := func(step models.Step, err error) models.RowOutcome {
		outcome.Step = step
		outcome.Err = err
		logger.Error("row failed", "step", step, "err", err)

		if cerr := removeArtifacts(outcome.Artifacts); cerr != nil {
			logger.Warn("cleanup after failure", "err", cerr)
		}
		return outcome
	}

	if err := validateRow(row); err != nil {
		return fail(models.StepValidate, err)
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return fail(models.StepAcquire, fmt.Errorf("%w: %w", shared.ErrAcquire, err))
	}
	downloaded, err := p.acquirer.Acquire(ctx, row.Locator, p.workDir)
	if err != nil {
		return fail(models.StepAcquire, err)
	}
	outcome.Artifacts = append(outcome.Artifacts, downloaded)
	logger.Debug("acquired", "path", downloaded)

	out := p.outputPath(row)
	if out != downloaded {
		outcome.Artifacts = append(outcome.Artifacts, out)
	}
	audio, err := p.transcoder.Transcode(ctx, downloaded, out, p.bitrate)
	if err != nil {
		return fail(models.StepTranscode, err)
	}
	if audio != out && audio != downloaded {
		outcome.Artifacts = append(outcome.Artifacts, audio)
	}

	if err := p.tagger.ApplyTags(audio, row.Tags()); err != nil {
		return fail(models.StepTag, err)
	}

	if err := p.importer.ImportAndRelease(ctx, audio); err != nil {
		return fail(models.StepImport, err)
	}

	if err := removeArtifacts(outcome.Artifacts); err != nil {
		outcome.Step = models.StepCleanup
		outcome.Err = err
		logger.Error("row failed", "step", models.StepCleanup, "err", err)
		return outcome
	}

	outcome.Step = models.StepDone
	logger.Info("row processed")
	return outcome
}

func (p *RowProcessor) outputPath(row models.Row) string {
	return filepath.Join(p.workDir, shared.SanitizeFilename(row.Title)+"."+p.format)
}

func validateRow(row models.Row) error {
	switch {
	case row.Locator == "":
		return fmt.Errorf("%w: missing locator", shared.ErrInvalidRow)
	case row.Title == "":
		return fmt.Errorf("%w: missing title", shared.ErrInvalidRow)
	default:
		return nil
	}
}

// removeArtifacts deletes every path, ignoring files that no longer exist.
func removeArtifacts(paths []string) error {
	var errs []error
	for _, path := range paths {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", shared.ErrCleanup, errors.Join(errs...))
	}
	return nil
}
