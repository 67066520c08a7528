package media

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"tubescribe/pkg/domain"
)

// scriptedRunner fakes yt-dlp/ffprobe. The metadata call returns metaJSON;
// the download call writes the configured artifact into the scratch dir.
type scriptedRunner struct {
	metaJSON     string
	metaErr      error
	downloadErr  error
	artifactName string // file created by the download call; empty means none
	scratchDir   string
	probeOut     string
}

func (r *scriptedRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	switch {
	case name == "yt-dlp" && contains(args, "-J"):
		if r.metaErr != nil {
			return nil, r.metaErr
		}
		return []byte(r.metaJSON), nil
	case name == "yt-dlp":
		if r.downloadErr != nil {
			return nil, r.downloadErr
		}
		if r.artifactName != "" {
			path := filepath.Join(r.scratchDir, r.artifactName)
			if err := os.WriteFile(path, []byte("RIFF"), 0o644); err != nil {
				return nil, err
			}
		}
		return nil, nil
	case name == "ffprobe":
		return []byte(r.probeOut), nil
	}
	return nil, errors.New("unexpected command: " + name)
}

func contains(args []string, want string) bool {
	for _, a := range args {
		if a == want {
			return true
		}
	}
	return false
}

func TestAcquire_Success(t *testing.T) {
	dir := t.TempDir()
	runner := &scriptedRunner{
		metaJSON:     `{"title": "درس في النحو", "duration": 65.4}`,
		artifactName: "dQw4w9WgXcQ.wav",
		scratchDir:   dir,
	}

	acq := NewAcquirer(runner, dir)
	asset, err := acq.Acquire(context.Background(), "https://youtu.be/dQw4w9WgXcQ", domain.VideoID("dQw4w9WgXcQ"))
	if err != nil {
		t.Fatalf("Acquire returned error: %v", err)
	}

	if asset.Title != "درس في النحو" {
		t.Errorf("title = %q", asset.Title)
	}
	if asset.DurationSec != 65.4 {
		t.Errorf("duration = %v, want 65.4", asset.DurationSec)
	}
	if filepath.Base(asset.Path) != "dQw4w9WgXcQ.wav" {
		t.Errorf("asset path = %s", asset.Path)
	}
	if _, err := os.Stat(asset.Path); err != nil {
		t.Errorf("asset file missing: %v", err)
	}
}

func TestAcquire_DownloadFailure(t *testing.T) {
	dir := t.TempDir()
	runner := &scriptedRunner{
		metaJSON:    `{"title": "x", "duration": 10}`,
		downloadErr: errors.New("network unreachable"),
		scratchDir:  dir,
	}

	acq := NewAcquirer(runner, dir)
	_, err := acq.Acquire(context.Background(), "https://youtu.be/dQw4w9WgXcQ", domain.VideoID("dQw4w9WgXcQ"))
	if !errors.Is(err, ErrAcquisitionFailed) {
		t.Fatalf("error = %v, want ErrAcquisitionFailed", err)
	}
}

func TestAcquire_ArtifactMissing(t *testing.T) {
	dir := t.TempDir()
	// Download "succeeds" but produces no WAV (e.g. the extractor emitted a
	// different container).
	runner := &scriptedRunner{
		metaJSON:   `{"title": "x", "duration": 10}`,
		scratchDir: dir,
	}

	acq := NewAcquirer(runner, dir)
	_, err := acq.Acquire(context.Background(), "https://youtu.be/dQw4w9WgXcQ", domain.VideoID("dQw4w9WgXcQ"))
	if !errors.Is(err, ErrAudioArtifactMissing) {
		t.Fatalf("error = %v, want ErrAudioArtifactMissing", err)
	}
}

func TestAcquire_DurationFallsBackToProbe(t *testing.T) {
	dir := t.TempDir()
	runner := &scriptedRunner{
		metaJSON:     `{"title": "x"}`,
		artifactName: "dQw4w9WgXcQ.wav",
		scratchDir:   dir,
		probeOut:     "123.500000\n",
	}

	acq := NewAcquirer(runner, dir)
	asset, err := acq.Acquire(context.Background(), "https://youtu.be/dQw4w9WgXcQ", domain.VideoID("dQw4w9WgXcQ"))
	if err != nil {
		t.Fatalf("Acquire returned error: %v", err)
	}
	if asset.DurationSec != 123.5 {
		t.Errorf("duration = %v, want 123.5 from ffprobe", asset.DurationSec)
	}
}
