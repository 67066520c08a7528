package domain

// VideoID is the fixed-length alphanumeric token identifying a YouTube video.
type VideoID string

// String returns the raw identifier.
func (id VideoID) String() string { return string(id) }

// TranscriptSegment is one time-aligned piece of recognized speech.
//
// Segments are sparse: a window whose recognition failed contributes no
// segment at all, so consecutive segments may have a time gap between them.
// Start times are always non-decreasing.
type TranscriptSegment struct {
	// StartSec is the segment start offset in seconds from the beginning
	// of the audio (window index times window duration).
	StartSec float64 `bson:"start_time" json:"start_time"`

	// EndSec is the segment end offset in seconds. For the last window this
	// is clamped to the total audio duration.
	EndSec float64 `bson:"end_time" json:"end_time"`

	// Text is the recognized speech, in the original script.
	Text string `bson:"text" json:"text"`
}
