package services

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/desertthunder/ytsheet/internal/models"
)

// RowStore is the ordered collection of rows a sync run reads from and deletes from.
type RowStore interface {
	// Fetch returns every data row in store order, positioned from 0.
	Fetch(ctx context.Context) ([]models.Row, error)

	// DeleteRanges deletes the given ranges in a single batched request.
	// The store applies ranges one at a time, in order, shifting later rows left after each one.
	DeleteRanges(ctx context.Context, ranges []models.Range) error

	// Name returns the name of the store (e.g., "Google Sheets")
	Name() string
}

// Acquirer downloads the media a row's locator points at into dir and returns the local file path.
type Acquirer interface {
	Acquire(ctx context.Context, locator, dir string) (string, error)
}

// Transcoder converts in to the audio file out at the given bitrate and returns the path written.
type Transcoder interface {
	Transcode(ctx context.Context, in, out, bitrate string) (string, error)
}

// Tagger writes metadata into an audio file in place.
type Tagger interface {
	ApplyTags(path string, tags models.Tags) error
}

// Importer hands a finished file to the local media library.
type Importer interface {
	ImportAndRelease(ctx context.Context, path string) error
}

// CommandRunner runs an external program and returns its standard output.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExecCommand is the default [CommandRunner]. On failure the returned error wraps the [exec.Cmd] error and carries the program's stderr.
func ExecCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return out, fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return out, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}
