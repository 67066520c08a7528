package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"tubescribe/pkg/comments"
	"tubescribe/pkg/export"
	"tubescribe/pkg/feed"
	"tubescribe/pkg/media"
	"tubescribe/pkg/pipeline"
	"tubescribe/pkg/recognize"
)

// channelingest walks a channel's RSS feed and runs the ingestion pipeline
// over each video. One video failing does not stop the batch.
func main() {
	var (
		channelID   = flag.String("channel", "", "YouTube channel id (UC...) to ingest")
		feedURL     = flag.String("feed", "", "Explicit feed URL (overrides -channel)")
		max         = flag.Int("max", 10, "Max videos to ingest from the feed (<=0 means all)")
		outDir      = flag.String("out", ".", "Directory for the CSV files")
		windowSec   = flag.Float64("window", 30, "Recognition window duration in seconds")
		maxComments = flag.Int("max-comments", 100, "Max comments to harvest per video")
		lang        = flag.String("lang", "ar-SA", "BCP-47 language code for speech recognition")
		workers     = flag.Int("workers", 1, "Number of parallel recognition workers")
	)
	flag.Parse()

	target := *feedURL
	if target == "" {
		if *channelID == "" {
			flag.Usage()
			log.Fatal("A channel id (-channel) or feed URL (-feed) is required")
		}
		target = feed.ChannelFeedURL(*channelID)
	}

	ctx := context.Background()

	urls, err := feed.NewParser().VideoURLs(ctx, target)
	if err != nil {
		log.Fatalf("Failed to read channel feed: %v", err)
	}
	if *max > 0 && len(urls) > *max {
		urls = urls[:*max]
	}
	log.Printf("Channel feed yielded %d videos to ingest", len(urls))

	scratchDir, err := os.MkdirTemp("", "tubescribe-*")
	if err != nil {
		log.Fatalf("Failed to create scratch directory: %v", err)
	}
	defer os.RemoveAll(scratchDir)

	runner := media.ExecRunner{}
	acquirer := media.NewAcquirer(runner, scratchDir)
	acquirer.SetWatchPageFallback(media.NewWatchPageClient())

	speechRec, err := recognize.NewGoogleRecognizer(ctx, recognize.Config{LanguageCode: *lang})
	if err != nil {
		log.Fatalf("Failed to create speech client: %v", err)
	}
	defer speechRec.Close()

	var harvester pipeline.CommentHarvester
	if apiKey := os.Getenv("YOUTUBE_API_KEY"); apiKey != "" {
		lister, err := comments.NewYouTubeLister(ctx, apiKey)
		if err != nil {
			log.Fatalf("Failed to create YouTube client: %v", err)
		}
		harvester = comments.NewHarvester(lister, comments.DefaultPageCap)
	} else {
		log.Printf("YOUTUBE_API_KEY not set, comment harvest will be skipped")
	}

	writer, err := export.NewWriter(*outDir)
	if err != nil {
		log.Fatalf("Failed to prepare output directory: %v", err)
	}

	orch, err := pipeline.New(pipeline.Config{
		WindowSec:          *windowSec,
		MaxComments:        *maxComments,
		RecognitionWorkers: *workers,
	}, acquirer, &pipeline.ClipRecognizer{Runner: runner, Recognizer: speechRec, ScratchDir: scratchDir}, harvester, writer)
	if err != nil {
		log.Fatalf("Failed to build pipeline: %v", err)
	}

	start := time.Now()
	succeeded := 0
	for i, u := range urls {
		log.Printf("Batch: video %d/%d: %s", i+1, len(urls), u)
		summary, err := orch.Run(ctx, u)
		if err != nil {
			log.Printf("Batch: skipping %s: %v", u, err)
			continue
		}
		succeeded++
		log.Printf("Batch: %s done (%d segments, %d comments)",
			summary.VideoID, summary.WindowsRecognized, summary.CommentsCollected)
	}
	log.Printf("Batch complete: %d/%d videos ingested in %s", succeeded, len(urls), time.Since(start))
}
