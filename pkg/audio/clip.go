package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// WithClip materializes one window of the source audio as a standalone mono
// 16 kHz WAV clip, invokes fn with its path, and removes the clip on every
// exit path. The clip exists only for the duration of fn.
func WithClip(ctx context.Context, runner Runner, srcPath string, w Window, scratchDir string, fn func(clipPath string) error) error {
	if scratchDir == "" {
		scratchDir = os.TempDir()
	}
	clipPath := filepath.Join(scratchDir, fmt.Sprintf("window_%04d.wav", w.Index))

	_, err := runner.Run(ctx, "ffmpeg",
		"-y",
		"-ss", formatSeconds(w.StartSec),
		"-t", formatSeconds(w.DurationSec),
		"-i", srcPath,
		"-ac", "1",
		"-ar", "16000",
		"-f", "wav",
		clipPath,
	)
	if err != nil {
		// ffmpeg may leave a partial file behind on failure.
		_ = os.Remove(clipPath)
		return fmt.Errorf("extract window %d: %w", w.Index, err)
	}
	defer os.Remove(clipPath)

	return fn(clipPath)
}

func formatSeconds(s float64) string {
	return strconv.FormatFloat(s, 'f', 3, 64)
}
