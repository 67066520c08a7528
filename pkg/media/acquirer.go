package media

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"tubescribe/pkg/audio"
	"tubescribe/pkg/domain"
)

var (
	// ErrAcquisitionFailed indicates the download or extraction step failed.
	ErrAcquisitionFailed = errors.New("audio acquisition failed")

	// ErrAudioArtifactMissing indicates the downloader completed but the
	// expected WAV artifact is not on disk.
	ErrAudioArtifactMissing = errors.New("expected audio artifact not found")
)

// Asset is the acquired raw audio of one video. It is owned exclusively by
// the run that created it and is deleted at the end of that run.
type Asset struct {
	Path        string
	Title       string
	DurationSec float64
}

// Acquirer resolves a video URL to a local WAV asset using yt-dlp, with an
// optional watch-page scrape as metadata fallback.
type Acquirer struct {
	runner     Runner
	scratchDir string
	watchPage  *WatchPageClient
}

// NewAcquirer creates an acquirer writing artifacts under scratchDir.
func NewAcquirer(runner Runner, scratchDir string) *Acquirer {
	return &Acquirer{runner: runner, scratchDir: scratchDir}
}

// SetWatchPageFallback enables scraping the watch page for a title when
// yt-dlp metadata carries none.
func (a *Acquirer) SetWatchPageFallback(c *WatchPageClient) {
	a.watchPage = c
}

// ytdlpInfo is the subset of yt-dlp's JSON metadata we consume.
type ytdlpInfo struct {
	Title    string  `json:"title"`
	Duration float64 `json:"duration"`
}

// Acquire downloads the video's best audio track and extracts it to a WAV
// file named after the video id. The returned asset's title has not been
// sanitized; artifact naming is the persistence layer's concern.
func (a *Acquirer) Acquire(ctx context.Context, videoURL string, id domain.VideoID) (*Asset, error) {
	if err := os.MkdirAll(a.scratchDir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create scratch dir: %v", ErrAcquisitionFailed, err)
	}

	metaOut, err := a.runner.Run(ctx, "yt-dlp", "--no-playlist", "-J", videoURL)
	if err != nil {
		return nil, fmt.Errorf("%w: probe metadata: %v", ErrAcquisitionFailed, err)
	}
	var info ytdlpInfo
	if err := json.Unmarshal(metaOut, &info); err != nil {
		// Metadata is recoverable; the download itself decides the run.
		log.Printf("Acquirer: unparseable yt-dlp metadata for %s: %v", id, err)
	}

	outTemplate := filepath.Join(a.scratchDir, id.String()+".%(ext)s")
	_, err = a.runner.Run(ctx, "yt-dlp",
		"--no-playlist",
		"-f", "bestaudio/best",
		"-x", "--audio-format", "wav",
		"-o", outTemplate,
		videoURL,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: download: %v", ErrAcquisitionFailed, err)
	}

	wavPath := filepath.Join(a.scratchDir, id.String()+".wav")
	if _, err := os.Stat(wavPath); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrAudioArtifactMissing, wavPath)
	}

	title := info.Title
	if title == "" && a.watchPage != nil {
		if scraped, err := a.watchPage.Title(ctx, videoURL); err == nil {
			title = scraped
		} else {
			log.Printf("Acquirer: watch page title fallback failed for %s: %v", id, err)
		}
	}
	if title == "" {
		title = "Unknown"
	}

	dur := info.Duration
	if dur <= 0 {
		dur, err = audio.ProbeDuration(ctx, a.runner, wavPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAcquisitionFailed, err)
		}
	}

	return &Asset{Path: wavPath, Title: title, DurationSec: dur}, nil
}
