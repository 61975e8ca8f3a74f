package services

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/desertthunder/ytsheet/internal/shared"
)

var getRuntime = func() string { return runtime.GOOS }

// MusicImporter adds a file to the local music library by opening it with the default player, then pausing the player app.
//
// Only a failure to launch a command is an error; exit statuses are ignored.
type MusicImporter struct {
	app string
	run CommandRunner
}

// NewMusicImporter creates an importer that pauses app (default "Music") after opening each file.
func NewMusicImporter(app string, run CommandRunner) *MusicImporter {
	if app == "" {
		app = "Music"
	}
	if run == nil {
		run = ExecCommand
	}
	return &MusicImporter{app: app, run: run}
}

// ImportAndRelease opens path and stops playback so the library keeps the track without playing it.
func (m *MusicImporter) ImportAndRelease(ctx context.Context, path string) error {
	switch rt := getRuntime(); rt {
	case "darwin":
		if err := m.call(ctx, "open", path); err != nil {
			return err
		}
		return m.call(ctx, "osascript", "-e", fmt.Sprintf("tell application %q to pause", m.app))
	case "linux":
		return m.call(ctx, "xdg-open", path)
	default:
		return fmt.Errorf("%w: unsupported platform: %s", shared.ErrImport, rt)
	}
}

func (m *MusicImporter) call(ctx context.Context, name string, args ...string) error {
	_, err := m.run(ctx, name, args...)

	var exitErr *exec.ExitError
	if err == nil || errors.As(err, &exitErr) {
		return nil
	}
	return fmt.Errorf("%w: %w", shared.ErrImport, err)
}

// NoopImporter skips the library import step.
type NoopImporter struct{}

// ImportAndRelease implements [Importer].
func (NoopImporter) ImportAndRelease(context.Context, string) error { return nil }

var (
	_ Importer = (*MusicImporter)(nil)
	_ Importer = NoopImporter{}
)
