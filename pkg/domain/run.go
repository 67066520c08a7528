package domain

import "time"

// RunState is the lifecycle stage of one ingestion run.
type RunState string

const (
	RunStateInit                 RunState = "init"
	RunStateAcquiringAudio       RunState = "acquiring_audio"
	RunStateSegmenting           RunState = "segmenting"
	RunStateRecognizingWindows   RunState = "recognizing_windows"
	RunStateAssemblingTranscript RunState = "assembling_transcript"
	RunStateHarvestingComments   RunState = "harvesting_comments"
	RunStatePersisting           RunState = "persisting"
	RunStateDone                 RunState = "done"

	// RunStateAcquisitionFailed is the absorbing failure state for the
	// transcript half of the run. The comment half still proceeds.
	RunStateAcquisitionFailed RunState = "acquisition_failed"
)

// RunRecord is everything one run produced, as persisted by the storage
// backends.
type RunRecord struct {
	VideoID    VideoID             `bson:"video_id" json:"video_id"`
	Title      string              `bson:"title" json:"title"`
	Transcript []TranscriptSegment `bson:"transcript" json:"transcript"`
	Comments   []CommentRecord     `bson:"comments" json:"comments"`
	IngestedAt time.Time           `bson:"ingested_at" json:"ingested_at"`
}

// RunSummary tallies how the run went, for the end-of-run diagnostic line.
type RunSummary struct {
	VideoID           VideoID
	Title             string
	State             RunState
	WindowsTotal      int
	WindowsRecognized int
	WindowsSkipped    int
	CommentsCollected int
	TranscriptPath    string
	CommentsPath      string
}
