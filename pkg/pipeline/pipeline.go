// Package pipeline sequences one ingestion run: acquire audio, segment it,
// recognize each window, assemble the transcript, harvest comments, and
// hand both tables to the persistence boundary.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"tubescribe/pkg/audio"
	"tubescribe/pkg/comments"
	"tubescribe/pkg/domain"
	"tubescribe/pkg/media"
	"tubescribe/pkg/recognize"
	"tubescribe/pkg/store"
	"tubescribe/pkg/transcript"
	"tubescribe/pkg/videourl"
)

// AudioAcquirer resolves a video URL to a local audio asset.
type AudioAcquirer interface {
	Acquire(ctx context.Context, videoURL string, id domain.VideoID) (*media.Asset, error)
}

// WindowRecognizer transcribes one window of an acquired asset.
type WindowRecognizer interface {
	RecognizeWindow(ctx context.Context, asset *media.Asset, w audio.Window) (string, error)
}

// CommentHarvester collects the video's comment records.
type CommentHarvester interface {
	Harvest(ctx context.Context, videoID domain.VideoID, maxResults int) ([]domain.CommentRecord, error)
}

// TableWriter is the on-disk persistence boundary for the two tables.
type TableWriter interface {
	WriteTranscript(title string, segments []domain.TranscriptSegment) (string, error)
	WriteComments(title string, records []domain.CommentRecord) (string, error)
}

// Config tunes one orchestrator.
type Config struct {
	// WindowSec is the nominal window duration. Defaults to 30.
	WindowSec float64

	// MaxComments caps the harvest. Defaults to 100.
	MaxComments int

	// RecognitionWorkers bounds the recognition pool. Defaults to 1
	// (sequential), the gentlest footprint against a rate-limited
	// service.
	RecognitionWorkers int
}

func (c *Config) applyDefaults() {
	if c.WindowSec == 0 {
		c.WindowSec = 30
	}
	if c.MaxComments == 0 {
		c.MaxComments = 100
	}
	if c.RecognitionWorkers <= 0 {
		c.RecognitionWorkers = 1
	}
}

// Orchestrator runs the two sub-pipelines of one video. The transcript half
// and the comment half are independent: either may succeed while the other
// fails.
type Orchestrator struct {
	cfg        Config
	acquirer   AudioAcquirer
	recognizer WindowRecognizer
	harvester  CommentHarvester // nil means no credential: empty harvest
	writer     TableWriter
	stores     []store.Store
}

// New creates an orchestrator. harvester may be nil when no API credential
// is available; stores may be empty.
func New(cfg Config, acquirer AudioAcquirer, recognizer WindowRecognizer, harvester CommentHarvester, writer TableWriter, stores ...store.Store) (*Orchestrator, error) {
	if cfg.WindowSec < 0 {
		return nil, audio.ErrInvalidWindow
	}
	cfg.applyDefaults()
	if acquirer == nil || recognizer == nil || writer == nil {
		return nil, fmt.Errorf("acquirer, recognizer and writer are required")
	}
	return &Orchestrator{
		cfg:        cfg,
		acquirer:   acquirer,
		recognizer: recognizer,
		harvester:  harvester,
		writer:     writer,
		stores:     stores,
	}, nil
}

// Run ingests one video. It only errors on a malformed URL; everything
// downstream degrades to partial results, reported in the summary.
func (o *Orchestrator) Run(ctx context.Context, videoURL string) (*domain.RunSummary, error) {
	id, err := videourl.ExtractVideoID(videoURL)
	if err != nil {
		return nil, fmt.Errorf("extract video id from %q: %w", videoURL, err)
	}
	log.Printf("Pipeline: processing video %s", id)

	summary := &domain.RunSummary{VideoID: id, Title: "Unknown", State: domain.RunStateInit}
	setState := func(s domain.RunState) {
		summary.State = s
		log.Printf("Pipeline: %s", s)
	}

	var segments []domain.TranscriptSegment
	audioOK := false

	setState(domain.RunStateAcquiringAudio)
	asset, err := o.acquirer.Acquire(ctx, videoURL, id)
	if err != nil {
		// Fatal only to the transcript half; the comment half still runs.
		log.Printf("Pipeline: audio acquisition failed for %s: %v", id, err)
		setState(domain.RunStateAcquisitionFailed)
	} else {
		// The asset is transient; remove it however the run ends.
		defer func() {
			if err := os.Remove(asset.Path); err != nil && !os.IsNotExist(err) {
				log.Printf("Pipeline: remove audio asset %s: %v", asset.Path, err)
			}
		}()
		audioOK = true
		summary.Title = asset.Title
		log.Printf("Pipeline: audio downloaded: %s (%.1fs)", asset.Title, asset.DurationSec)

		setState(domain.RunStateSegmenting)
		windows, err := audio.Split(asset.DurationSec, o.cfg.WindowSec)
		if err != nil {
			return nil, err
		}
		summary.WindowsTotal = len(windows)

		setState(domain.RunStateRecognizingWindows)
		outcomes := o.recognizeWindows(ctx, asset, windows)

		setState(domain.RunStateAssemblingTranscript)
		segments = transcript.Assemble(outcomes)
		summary.WindowsRecognized = len(segments)
		summary.WindowsSkipped = summary.WindowsTotal - summary.WindowsRecognized
	}

	setState(domain.RunStateHarvestingComments)
	var commentRecords []domain.CommentRecord
	if o.harvester == nil {
		log.Printf("Pipeline: no comment API credential, skipping comment harvest")
	} else {
		commentRecords, err = o.harvester.Harvest(ctx, id, o.cfg.MaxComments)
		if err != nil {
			// Partial results are kept; the error never aborts the run.
			log.Printf("Pipeline: comment harvest incomplete for %s (%d collected): %v", id, len(commentRecords), err)
		}
	}
	summary.CommentsCollected = len(commentRecords)

	setState(domain.RunStatePersisting)
	if audioOK {
		path, err := o.writer.WriteTranscript(summary.Title, segments)
		if err != nil {
			log.Printf("Pipeline: write transcript table: %v", err)
		} else {
			summary.TranscriptPath = path
			log.Printf("Pipeline: transcript saved to %s", path)
		}
	}
	path, err := o.writer.WriteComments(summary.Title, commentRecords)
	if err != nil {
		log.Printf("Pipeline: write comment table: %v", err)
	} else {
		summary.CommentsPath = path
		log.Printf("Pipeline: comments saved to %s", path)
	}
	o.saveToStores(ctx, id, summary.Title, segments, commentRecords)

	setState(domain.RunStateDone)
	log.Printf("Pipeline: completed %s: %d/%d windows recognized (%d skipped), %d comments",
		id, summary.WindowsRecognized, summary.WindowsTotal, summary.WindowsSkipped, summary.CommentsCollected)
	return summary, nil
}

// recognizeWindows runs the bounded recognition pool. Windows are handed
// out in order; outcome ordering is restored during assembly, so pool size
// never changes the output. On cancellation, outcomes already produced are
// still returned for assembly.
func (o *Orchestrator) recognizeWindows(ctx context.Context, asset *media.Asset, windows []audio.Window) []transcript.WindowOutcome {
	jobs := make(chan audio.Window)
	results := make(chan transcript.WindowOutcome, len(windows))

	var wg sync.WaitGroup
	for i := 0; i < o.cfg.RecognitionWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for w := range jobs {
				text, err := o.recognizer.RecognizeWindow(ctx, asset, w)
				switch {
				case err == nil:
					log.Printf("Pipeline: window %d/%d recognized", w.Index+1, len(windows))
				case errors.Is(err, recognize.ErrUnintelligible):
					log.Printf("Pipeline: could not understand audio in window %d/%d", w.Index+1, len(windows))
				case errors.Is(err, recognize.ErrServiceUnavailable):
					log.Printf("Pipeline: speech service error for window %d/%d: %v", w.Index+1, len(windows), err)
				default:
					log.Printf("Pipeline: error processing window %d/%d: %v", w.Index+1, len(windows), err)
				}
				results <- transcript.WindowOutcome{Window: w, Text: text, Err: err}
			}
		}()
	}

feed:
	for _, w := range windows {
		select {
		case jobs <- w:
		case <-ctx.Done():
			log.Printf("Pipeline: cancelled before window %d, keeping partial transcript", w.Index)
			break feed
		}
	}
	close(jobs)
	wg.Wait()
	close(results)

	outcomes := make([]transcript.WindowOutcome, 0, len(windows))
	for outcome := range results {
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}

// saveToStores persists the run record to every configured backend. Store
// failures are logged and do not affect the run.
func (o *Orchestrator) saveToStores(ctx context.Context, id domain.VideoID, title string, segments []domain.TranscriptSegment, commentRecords []domain.CommentRecord) {
	if len(o.stores) == 0 {
		return
	}

	record := &domain.RunRecord{
		VideoID:    id,
		Title:      title,
		Transcript: segments,
		Comments:   commentRecords,
		IngestedAt: time.Now().UTC(),
	}
	for _, s := range o.stores {
		if err := s.SaveRun(ctx, record); err != nil {
			log.Printf("Pipeline: store save failed for %s: %v", id, err)
		}
	}
}

// ClipRecognizer implements WindowRecognizer by materializing each window
// as a scoped clip and recognizing it.
type ClipRecognizer struct {
	Runner     audio.Runner
	Recognizer recognize.Recognizer
	ScratchDir string
}

// RecognizeWindow extracts the window to a temporary clip, recognizes it,
// and removes the clip on every exit path.
func (c *ClipRecognizer) RecognizeWindow(ctx context.Context, asset *media.Asset, w audio.Window) (string, error) {
	var text string
	err := audio.WithClip(ctx, c.Runner, asset.Path, w, c.ScratchDir, func(clipPath string) error {
		var err error
		text, err = c.Recognizer.Recognize(ctx, clipPath)
		return err
	})
	return text, err
}

var _ CommentHarvester = (*comments.Harvester)(nil)
