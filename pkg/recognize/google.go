package recognize

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Config controls the Google Speech-to-Text recognizer.
type Config struct {
	// LanguageCode is a BCP-47 tag. Defaults to ar-SA.
	LanguageCode string

	// SampleRateHertz of the clips. Defaults to 16000, matching the
	// window extraction settings.
	SampleRateHertz int

	// Timeout per recognition call. Defaults to 60s. A call exceeding it
	// is reported as ErrServiceUnavailable.
	Timeout time.Duration
}

func (c *Config) applyDefaults() {
	if c.LanguageCode == "" {
		c.LanguageCode = "ar-SA"
	}
	if c.SampleRateHertz == 0 {
		c.SampleRateHertz = 16000
	}
	if c.Timeout == 0 {
		c.Timeout = 60 * time.Second
	}
}

// GoogleRecognizer transcribes clips with the Cloud Speech-to-Text API.
type GoogleRecognizer struct {
	client *speech.Client
	cfg    Config
}

// NewGoogleRecognizer creates a recognizer. Credentials come from the
// environment (GOOGLE_APPLICATION_CREDENTIALS).
func NewGoogleRecognizer(ctx context.Context, cfg Config) (*GoogleRecognizer, error) {
	cfg.applyDefaults()

	client, err := speech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("speech client: %w", err)
	}
	return &GoogleRecognizer{client: client, cfg: cfg}, nil
}

// Close releases the underlying client.
func (r *GoogleRecognizer) Close() error {
	if r == nil || r.client == nil {
		return nil
	}
	return r.client.Close()
}

// Recognize transcribes one clip. Empty results map to ErrUnintelligible;
// transport, quota and deadline failures map to ErrServiceUnavailable.
func (r *GoogleRecognizer) Recognize(ctx context.Context, clipPath string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	data, err := os.ReadFile(clipPath)
	if err != nil {
		return "", fmt.Errorf("read clip: %w", err)
	}

	req := &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:        speechpb.RecognitionConfig_LINEAR16,
			SampleRateHertz: int32(r.cfg.SampleRateHertz),
			LanguageCode:    r.cfg.LanguageCode,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: data},
		},
	}

	resp, err := r.client.Recognize(ctx, req)
	if err != nil {
		return "", classifyCallError(err)
	}
	return transcriptFromResponse(resp)
}

// classifyCallError maps an RPC failure onto the package taxonomy.
func classifyCallError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	if code := status.Code(err); code != codes.OK && code != codes.Unknown {
		return fmt.Errorf("%w (%s): %v", ErrServiceUnavailable, code, err)
	}
	return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
}

// transcriptFromResponse concatenates the top alternative of each result.
func transcriptFromResponse(resp *speechpb.RecognizeResponse) (string, error) {
	if resp == nil || len(resp.Results) == 0 {
		return "", ErrUnintelligible
	}

	var full strings.Builder
	for _, res := range resp.Results {
		if res == nil || len(res.Alternatives) == 0 || res.Alternatives[0] == nil {
			continue
		}
		text := strings.TrimSpace(res.Alternatives[0].Transcript)
		if text == "" {
			continue
		}
		if full.Len() > 0 {
			full.WriteString(" ")
		}
		full.WriteString(text)
	}

	if full.Len() == 0 {
		return "", ErrUnintelligible
	}
	return full.String(), nil
}
