package comments

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"google.golang.org/api/youtube/v3"

	"tubescribe/pkg/domain"
)

// pageCall records one ListPage invocation.
type pageCall struct {
	pageSize  int64
	pageToken string
}

// fakeLister serves scripted pages in order; err, if set, fails the request
// at failAtPage (1-based).
type fakeLister struct {
	pages      []*youtube.CommentThreadListResponse
	err        error
	failAtPage int
	calls      []pageCall
}

func (f *fakeLister) ListPage(ctx context.Context, videoID domain.VideoID, pageSize int64, pageToken string) (*youtube.CommentThreadListResponse, error) {
	f.calls = append(f.calls, pageCall{pageSize: pageSize, pageToken: pageToken})
	if f.err != nil && len(f.calls) == f.failAtPage {
		return nil, f.err
	}
	if len(f.calls) > len(f.pages) {
		return &youtube.CommentThreadListResponse{}, nil
	}
	return f.pages[len(f.calls)-1], nil
}

func thread(author, text string, likes int64, publishedAt string) *youtube.CommentThread {
	return &youtube.CommentThread{
		Snippet: &youtube.CommentThreadSnippet{
			TopLevelComment: &youtube.Comment{
				Snippet: &youtube.CommentSnippet{
					AuthorDisplayName: author,
					TextOriginal:      text,
					LikeCount:         likes,
					PublishedAt:       publishedAt,
				},
			},
		},
	}
}

func threads(n int, prefix string) []*youtube.CommentThread {
	out := make([]*youtube.CommentThread, n)
	for i := range out {
		out[i] = thread(
			fmt.Sprintf("%s-author-%d", prefix, i),
			fmt.Sprintf("%s-comment-%d", prefix, i),
			int64(i),
			"2024-01-02T03:04:05Z",
		)
	}
	return out
}

func TestHarvest_CapAcrossPages(t *testing.T) {
	// max=150, cap=100: first page returns 100 items plus a cursor, the
	// second request asks for the remaining 50.
	lister := &fakeLister{
		pages: []*youtube.CommentThreadListResponse{
			{Items: threads(100, "p1"), NextPageToken: "C1"},
			{Items: threads(50, "p2")},
		},
	}
	h := NewHarvester(lister, 100)

	got, err := h.Harvest(context.Background(), "dQw4w9WgXcQ", 150)
	if err != nil {
		t.Fatalf("Harvest returned error: %v", err)
	}
	if len(got) != 150 {
		t.Fatalf("collected %d records, want 150", len(got))
	}
	if len(lister.calls) != 2 {
		t.Fatalf("made %d requests, want 2", len(lister.calls))
	}

	if lister.calls[0].pageSize != 100 || lister.calls[0].pageToken != "" {
		t.Errorf("first call = %+v, want size 100 with empty token", lister.calls[0])
	}
	if lister.calls[1].pageSize != 50 || lister.calls[1].pageToken != "C1" {
		t.Errorf("second call = %+v, want size 50 with token C1", lister.calls[1])
	}
}

func TestHarvest_CursorExhaustion(t *testing.T) {
	lister := &fakeLister{
		pages: []*youtube.CommentThreadListResponse{
			{Items: threads(30, "only")},
		},
	}
	h := NewHarvester(lister, 100)

	got, err := h.Harvest(context.Background(), "dQw4w9WgXcQ", 500)
	if err != nil {
		t.Fatalf("Harvest returned error: %v", err)
	}
	if len(got) != 30 {
		t.Errorf("collected %d records, want 30", len(got))
	}
	if len(lister.calls) != 1 {
		t.Errorf("made %d requests, want 1 (no next cursor)", len(lister.calls))
	}
}

func TestHarvest_PartialResultOnPageFailure(t *testing.T) {
	lister := &fakeLister{
		pages: []*youtube.CommentThreadListResponse{
			{Items: threads(100, "p1"), NextPageToken: "C1"},
		},
		err:        errors.New("503 backend error"),
		failAtPage: 2,
	}
	h := NewHarvester(lister, 100)

	got, err := h.Harvest(context.Background(), "dQw4w9WgXcQ", 300)
	if err == nil {
		t.Fatal("expected error from failing page")
	}
	if len(got) != 100 {
		t.Errorf("collected %d records, want exactly the 100 from page 1", len(got))
	}
	if got[0].Author != "p1-author-0" || got[99].Author != "p1-author-99" {
		t.Error("partial result lost or duplicated records")
	}
}

func TestHarvest_MalformedItemAbortsCall(t *testing.T) {
	// A page of 10 where item 7 (index 6) is missing published_at: the six
	// records before it survive.
	items := threads(10, "p1")
	items[6] = thread("author-bad", "comment", 1, "")

	lister := &fakeLister{
		pages: []*youtube.CommentThreadListResponse{
			{Items: items, NextPageToken: "C1"},
		},
	}
	h := NewHarvester(lister, 100)

	got, err := h.Harvest(context.Background(), "dQw4w9WgXcQ", 100)
	if !errors.Is(err, ErrMalformedItem) {
		t.Fatalf("error = %v, want ErrMalformedItem", err)
	}
	if len(got) != 6 {
		t.Fatalf("collected %d records, want 6 before the malformed item", len(got))
	}
	for i, rec := range got {
		if rec.Author != fmt.Sprintf("p1-author-%d", i) {
			t.Errorf("record %d = %+v, fields shifted by malformed item", i, rec)
		}
	}
}

func TestHarvest_NeverExceedsMax(t *testing.T) {
	// A misbehaving server returning more items than requested must still
	// respect the cap.
	lister := &fakeLister{
		pages: []*youtube.CommentThreadListResponse{
			{Items: threads(100, "p1"), NextPageToken: "C1"},
		},
	}
	h := NewHarvester(lister, 100)

	got, err := h.Harvest(context.Background(), "dQw4w9WgXcQ", 40)
	if err != nil {
		t.Fatalf("Harvest returned error: %v", err)
	}
	if len(got) != 40 {
		t.Errorf("collected %d records, want 40", len(got))
	}
	if lister.calls[0].pageSize != 40 {
		t.Errorf("first call asked for %d items, want 40", lister.calls[0].pageSize)
	}
}

func TestHarvest_CancelledBetweenPages(t *testing.T) {
	lister := &fakeLister{
		pages: []*youtube.CommentThreadListResponse{
			{Items: threads(100, "p1"), NextPageToken: "C1"},
			{Items: threads(100, "p2"), NextPageToken: "C2"},
		},
	}
	h := NewHarvester(lister, 100)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := h.Harvest(ctx, "dQw4w9WgXcQ", 300)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	// Whatever was collected before cancellation must be returned intact.
	if len(got) != 0 {
		t.Errorf("collected %d records before first page, want 0", len(got))
	}
}

func TestFlattenThread_RecordFields(t *testing.T) {
	rec, err := flattenThread(thread("ليلى", "ما شاء الله", 42, "2024-05-06T07:08:09Z"))
	if err != nil {
		t.Fatalf("flattenThread returned error: %v", err)
	}
	want := domain.CommentRecord{
		Author:      "ليلى",
		Comment:     "ما شاء الله",
		Likes:       42,
		PublishedAt: "2024-05-06T07:08:09Z",
	}
	if rec != want {
		t.Errorf("record = %+v, want %+v", rec, want)
	}
}

func TestFlattenThread_MissingSnippet(t *testing.T) {
	for _, item := range []*youtube.CommentThread{
		nil,
		{},
		{Snippet: &youtube.CommentThreadSnippet{}},
		{Snippet: &youtube.CommentThreadSnippet{TopLevelComment: &youtube.Comment{}}},
	} {
		if _, err := flattenThread(item); !errors.Is(err, ErrMalformedItem) {
			t.Errorf("flattenThread(%+v) error = %v, want ErrMalformedItem", item, err)
		}
	}
}
