package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"tubescribe/pkg/comments"
	"tubescribe/pkg/export"
	"tubescribe/pkg/media"
	"tubescribe/pkg/pipeline"
	"tubescribe/pkg/recognize"
	"tubescribe/pkg/store"
)

func main() {
	var (
		videoURL    = flag.String("url", "", "YouTube video URL to ingest (required)")
		outDir      = flag.String("out", ".", "Directory for the transcript and comment CSV files")
		windowSec   = flag.Float64("window", 30, "Recognition window duration in seconds")
		maxComments = flag.Int("max-comments", 100, "Max comments to harvest")
		lang        = flag.String("lang", "ar-SA", "BCP-47 language code for speech recognition")
		workers     = flag.Int("workers", 1, "Number of parallel recognition workers")

		mongoURI   = flag.String("mongo-uri", "", "Optional MongoDB connection string for run records")
		mongoDB    = flag.String("mongo-db", "tubescribe", "MongoDB database name")
		mongoColl  = flag.String("mongo-collection", "runs", "MongoDB collection for run records")
		pgDSN      = flag.String("pg-dsn", "", "Optional Postgres DSN for run records")
		supaURL    = flag.String("supabase-url", os.Getenv("SUPABASE_URL"), "Optional Supabase project URL for run records")
		supaKey    = flag.String("supabase-key", os.Getenv("SUPABASE_KEY"), "Supabase API key")
		supaDBPass = flag.String("supabase-db-password", os.Getenv("SUPABASE_DB_PASSWORD"), "Supabase database password")
	)
	flag.Parse()

	if *videoURL == "" {
		flag.Usage()
		log.Fatal("A video URL is required (-url)")
	}

	ctx := context.Background()

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

	recognizer := &pipeline.ClipRecognizer{
		Runner:     runner,
		Recognizer: speechRec,
		ScratchDir: scratchDir,
	}

	// Without an API key the comment half of the run yields an empty table.
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

	stores, cleanup := buildStores(ctx, *mongoURI, *mongoDB, *mongoColl, *pgDSN, *supaURL, *supaKey, *supaDBPass)
	defer cleanup()

	orch, err := pipeline.New(pipeline.Config{
		WindowSec:          *windowSec,
		MaxComments:        *maxComments,
		RecognitionWorkers: *workers,
	}, acquirer, recognizer, harvester, writer, stores...)
	if err != nil {
		log.Fatalf("Failed to build pipeline: %v", err)
	}

	start := time.Now()
	summary, err := orch.Run(ctx, *videoURL)
	if err != nil {
		log.Fatalf("Ingestion failed: %v", err)
	}
	log.Printf("Ingested %s (%q) in %s", summary.VideoID, summary.Title, time.Since(start))
}

// buildStores connects the optional run-record backends. A backend that
// fails to connect is skipped with a warning rather than aborting the run;
// CSV output never depends on any of them.
func buildStores(ctx context.Context, mongoURI, mongoDB, mongoColl, pgDSN, supaURL, supaKey, supaDBPass string) ([]store.Store, func()) {
	var (
		stores   []store.Store
		cleanups []func()
	)

	if mongoURI != "" {
		ms, err := store.NewMongoStore(ctx, mongoURI, mongoDB, mongoColl)
		if err != nil {
			log.Printf("MongoDB unavailable, skipping: %v", err)
		} else {
			stores = append(stores, ms)
			cleanups = append(cleanups, func() { ms.Close(context.Background()) })
		}
	}

	if pgDSN != "" {
		client := store.NewPostgresClient(store.PostgresConfig{DSN: pgDSN})
		if err := client.Connect(ctx); err != nil {
			log.Printf("Postgres unavailable, skipping: %v", err)
		} else {
			ps := store.NewPostgresStore(client)
			if err := ps.EnsureSchema(ctx); err != nil {
				log.Printf("Postgres schema setup failed, skipping: %v", err)
				client.Close()
			} else {
				stores = append(stores, ps)
				cleanups = append(cleanups, func() { client.Close() })
			}
		}
	}

	if supaURL != "" {
		client := store.NewSupabaseClient(store.SupabaseConfig{
			SupabaseURL: supaURL,
			SupabaseKey: supaKey,
			Password:    supaDBPass,
		})
		if err := client.Connect(ctx); err != nil {
			log.Printf("Supabase unavailable, skipping: %v", err)
		} else {
			ps := store.NewPostgresStore(client)
			if err := ps.EnsureSchema(ctx); err != nil {
				log.Printf("Supabase schema setup failed, skipping: %v", err)
				client.Close()
			} else {
				stores = append(stores, ps)
				cleanups = append(cleanups, func() { client.Close() })
			}
		}
	}

	return stores, func() {
		for _, c := range cleanups {
			c()
		}
	}
}
