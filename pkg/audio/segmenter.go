package audio

import (
	"errors"
	"math"
)

// ErrInvalidWindow indicates a non-positive window duration.
var ErrInvalidWindow = errors.New("window duration must be positive")

// Window is one contiguous slice of the audio asset, identified by its
// 0-based sequence index. Windows are gapless and non-overlapping; their
// union reconstructs the whole asset. Only the last window may be shorter
// than the nominal duration.
type Window struct {
	Index       int
	StartSec    float64
	DurationSec float64
}

// EndSec returns the window's end offset in seconds.
func (w Window) EndSec() float64 { return w.StartSec + w.DurationSec }

// Split slices an asset of the given total duration into fixed-size windows.
//
// It returns exactly ceil(durationSec/windowSec) windows. The last window's
// real duration is durationSec-(n-1)*windowSec, which may be less than
// windowSec; it is never padded or dropped.
func Split(durationSec, windowSec float64) ([]Window, error) {
	if windowSec <= 0 {
		return nil, ErrInvalidWindow
	}
	if durationSec <= 0 {
		return nil, nil
	}

	n := int(math.Ceil(durationSec / windowSec))
	windows := make([]Window, 0, n)
	for i := 0; i < n; i++ {
		start := float64(i) * windowSec
		end := start + windowSec
		if end > durationSec {
			end = durationSec
		}
		windows = append(windows, Window{
			Index:       i,
			StartSec:    start,
			DurationSec: end - start,
		})
	}
	return windows, nil
}
