package comments

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"tubescribe/pkg/domain"
)

// ErrCredentialMissing indicates no API key was supplied. The caller treats
// this as an empty harvest, not a failed run.
var ErrCredentialMissing = errors.New("youtube API key not provided")

// YouTubeLister lists comment thread pages with the YouTube Data API v3.
type YouTubeLister struct {
	svc *youtube.Service
}

// NewYouTubeLister creates a lister authenticated by a pre-issued API key.
func NewYouTubeLister(ctx context.Context, apiKey string) (*YouTubeLister, error) {
	if apiKey == "" {
		return nil, ErrCredentialMissing
	}

	svc, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("youtube service: %w", err)
	}
	return &YouTubeLister{svc: svc}, nil
}

// ListPage fetches one page of top-level comment threads, most relevant
// first. An empty pageToken requests the first page.
func (l *YouTubeLister) ListPage(ctx context.Context, videoID domain.VideoID, pageSize int64, pageToken string) (*youtube.CommentThreadListResponse, error) {
	call := l.svc.CommentThreads.List([]string{"snippet"}).
		VideoId(videoID.String()).
		MaxResults(pageSize).
		Order("relevance").
		Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}
	return call.Do()
}
