// Package comments walks a video's public comment stream through the
// paginated YouTube Data API, flattening each thread's top-level comment
// into a CommentRecord.
package comments

import (
	"context"
	"errors"
	"fmt"
	"log"

	"google.golang.org/api/youtube/v3"

	"tubescribe/pkg/domain"
)

// ErrMalformedItem indicates a comment thread missing a required field.
// The current harvest call is aborted; records collected before the
// malformed item are still returned.
var ErrMalformedItem = errors.New("malformed comment item")

// DefaultPageCap is the API's maximum page size for comment threads.
const DefaultPageCap = 100

// ThreadLister fetches one page of comment threads. Implemented by
// YouTubeLister; tests provide fakes.
type ThreadLister interface {
	ListPage(ctx context.Context, videoID domain.VideoID, pageSize int64, pageToken string) (*youtube.CommentThreadListResponse, error)
}

// Harvester paginates comment threads to a result cap or cursor exhaustion.
type Harvester struct {
	lister  ThreadLister
	pageCap int
}

// NewHarvester creates a harvester. pageCap <= 0 falls back to
// DefaultPageCap.
func NewHarvester(lister ThreadLister, pageCap int) *Harvester {
	if pageCap <= 0 {
		pageCap = DefaultPageCap
	}
	return &Harvester{lister: lister, pageCap: pageCap}
}

// Harvest collects up to maxResults comment records.
//
// Each page request asks for min(pageCap, maxResults-collected) items and
// passes the cursor from the previous response. The loop ends when the cap
// is reached or the response carries no next cursor. Failures return
// whatever was collected so far along with the error; the caller decides
// whether that partial result is still worth persisting (it is).
func (h *Harvester) Harvest(ctx context.Context, videoID domain.VideoID, maxResults int) ([]domain.CommentRecord, error) {
	if maxResults <= 0 {
		return nil, nil
	}

	var collected []domain.CommentRecord
	pageToken := ""
	page := 0

	for len(collected) < maxResults {
		if err := ctx.Err(); err != nil {
			return collected, err
		}

		size := h.pageCap
		if remaining := maxResults - len(collected); remaining < size {
			size = remaining
		}

		page++
		resp, err := h.lister.ListPage(ctx, videoID, int64(size), pageToken)
		if err != nil {
			return collected, fmt.Errorf("fetch comment page %d: %w", page, err)
		}

		for _, item := range resp.Items {
			record, err := flattenThread(item)
			if err != nil {
				return collected, fmt.Errorf("page %d: %w", page, err)
			}
			collected = append(collected, record)
			if len(collected) >= maxResults {
				break
			}
		}

		log.Printf("Harvester: page %d fetched, %d/%d comments collected", page, len(collected), maxResults)

		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}

	return collected, nil
}

// flattenThread extracts exactly the four record fields from the nested
// thread payload. A missing snippet or required field is a malformed item;
// it must never contribute a record stitched from wrong-field data.
func flattenThread(item *youtube.CommentThread) (domain.CommentRecord, error) {
	if item == nil || item.Snippet == nil ||
		item.Snippet.TopLevelComment == nil || item.Snippet.TopLevelComment.Snippet == nil {
		return domain.CommentRecord{}, fmt.Errorf("%w: missing snippet", ErrMalformedItem)
	}

	s := item.Snippet.TopLevelComment.Snippet
	if s.AuthorDisplayName == "" {
		return domain.CommentRecord{}, fmt.Errorf("%w: missing author", ErrMalformedItem)
	}
	if s.PublishedAt == "" {
		return domain.CommentRecord{}, fmt.Errorf("%w: missing published_at", ErrMalformedItem)
	}

	return domain.CommentRecord{
		Author:      s.AuthorDisplayName,
		Comment:     s.TextOriginal,
		Likes:       s.LikeCount,
		PublishedAt: s.PublishedAt,
	}, nil
}
