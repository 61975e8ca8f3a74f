package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/ytsheet/internal/shared"
)

// YTDLPAcquirer downloads the best available audio stream for a locator using yt-dlp.
type YTDLPAcquirer struct {
	binary string
	run    CommandRunner
}

// NewYTDLPAcquirer creates an acquirer that invokes binary (default "yt-dlp") through run (default [ExecCommand]).
func NewYTDLPAcquirer(binary string, run CommandRunner) *YTDLPAcquirer {
	if binary == "" {
		binary = "yt-dlp"
	}
	if run == nil {
		run = ExecCommand
	}
	return &YTDLPAcquirer{binary: binary, run: run}
}

// Acquire downloads into dir and returns the path of the downloaded file, as printed by yt-dlp after the final move.
func (a *YTDLPAcquirer) Acquire(ctx context.Context, locator, dir string) (string, error) {
	if strings.TrimSpace(locator) == "" {
		return "", fmt.Errorf("%w: empty locator", shared.ErrAcquire)
	}

	out, err := a.run(ctx, a.binary,
		"--no-playlist",
		"--no-progress",
		"--format", "bestaudio/best",
		"--output", filepath.Join(dir, "%(id)s.%(ext)s"),
		"--print", "after_move:filepath",
		locator,
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", shared.ErrAcquire, err)
	}

	path := lastLine(out)
	if path == "" {
		return "", fmt.Errorf("%w: yt-dlp did not report an output file", shared.ErrAcquire)
	}
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%w: downloaded file missing: %v", shared.ErrAcquire, err)
	}
	return path, nil
}

// FFmpegTranscoder converts media files to audio with ffmpeg.
type FFmpegTranscoder struct {
	binary string
	run    CommandRunner
}

// NewFFmpegTranscoder creates a transcoder that invokes binary (default "ffmpeg") through run (default [ExecCommand]).
func NewFFmpegTranscoder(binary string, run CommandRunner) *FFmpegTranscoder {
	if binary == "" {
		binary = "ffmpeg"
	}
	if run == nil {
		run = ExecCommand
	}
	return &FFmpegTranscoder{binary: binary, run: run}
}

// Transcode drops any video stream and encodes the audio of in to out. The container is chosen by ffmpeg from out's extension.
func (t *FFmpegTranscoder) Transcode(ctx context.Context, in, out, bitrate string) (string, error) {
	args := []string{"-y", "-hide_banner", "-loglevel", "error", "-i", in, "-vn"}
	if bitrate != "" {
		args = append(args, "-b:a", bitrate)
	}
	args = append(args, out)

	if _, err := t.run(ctx, t.binary, args...); err != nil {
		return "", fmt.Errorf("%w: %w", shared.ErrTranscode, err)
	}
	return out, nil
}

func lastLine(out []byte) string {
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}

var (
	_ Acquirer   = (*YTDLPAcquirer)(nil)
	_ Transcoder = (*FFmpegTranscoder)(nil)
)
