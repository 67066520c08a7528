package audio

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Runner executes an external command and returns its combined stdout.
// It is satisfied by media.ExecRunner; tests provide fakes.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ProbeDuration reads the total duration of an audio file in seconds using
// ffprobe.
func ProbeDuration(ctx context.Context, runner Runner, path string) (float64, error) {
	out, err := runner.Run(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w", path, err)
	}

	raw := strings.TrimSpace(string(out))
	dur, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("parse ffprobe duration %q: %w", raw, err)
	}
	if dur <= 0 {
		return 0, fmt.Errorf("ffprobe reported non-positive duration %v for %s", dur, path)
	}
	return dur, nil
}
