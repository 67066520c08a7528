// Package recognize converts one audio window into text via an external
// speech recognition service. Each call is isolated: failures never carry
// state into the next window.
package recognize

import (
	"context"
	"errors"
)

var (
	// ErrUnintelligible means the service understood the audio container
	// but found no confident transcription. Skip the window.
	ErrUnintelligible = errors.New("no confident transcription")

	// ErrServiceUnavailable means a network or service level failure,
	// including timeouts and rate limiting. Skip the window; retrying
	// immediately against a rate-limited service won't help within a run.
	ErrServiceUnavailable = errors.New("speech service unavailable")
)

// Recognizer transcribes one standalone audio clip.
type Recognizer interface {
	Recognize(ctx context.Context, clipPath string) (string, error)
}
