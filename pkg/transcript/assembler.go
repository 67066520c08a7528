// Package transcript turns per-window recognition outcomes into the final
// time-aligned transcript table.
package transcript

import (
	"sort"

	"tubescribe/pkg/audio"
	"tubescribe/pkg/domain"
)

// WindowOutcome is the result of recognizing one window: either text or the
// failure that skipped it.
type WindowOutcome struct {
	Window audio.Window
	Text   string
	Err    error
}

// Assemble compacts the per-window outcomes into ordered transcript
// segments.
//
// Output is sorted by window index regardless of the order outcomes arrive
// in (recognition may run on a worker pool), failed windows contribute no
// segment and no placeholder, and the result is stable across re-runs on
// the same input.
func Assemble(outcomes []WindowOutcome) []domain.TranscriptSegment {
	ordered := make([]WindowOutcome, len(outcomes))
	copy(ordered, outcomes)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Window.Index < ordered[j].Window.Index
	})

	segments := make([]domain.TranscriptSegment, 0, len(ordered))
	for _, o := range ordered {
		if o.Err != nil {
			continue
		}
		segments = append(segments, domain.TranscriptSegment{
			StartSec: o.Window.StartSec,
			EndSec:   o.Window.EndSec(),
			Text:     o.Text,
		})
	}
	return segments
}
