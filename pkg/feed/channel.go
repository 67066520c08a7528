// Package feed discovers video URLs from a channel's public RSS feed, for
// batch ingestion.
package feed

import (
	"context"
	"fmt"

	"github.com/mmcdole/gofeed"
)

// ChannelFeedURL returns the RSS feed URL for a channel id.
func ChannelFeedURL(channelID string) string {
	return "https://www.youtube.com/feeds/videos.xml?channel_id=" + channelID
}

// Parser fetches and parses channel feeds.
type Parser struct {
	feedParser *gofeed.Parser
}

// NewParser creates a feed parser.
func NewParser() *Parser {
	return &Parser{feedParser: gofeed.NewParser()}
}

// VideoURLs fetches the feed and returns the video URLs, newest first as
// the feed orders them.
func (p *Parser) VideoURLs(ctx context.Context, feedURL string) ([]string, error) {
	feed, err := p.feedParser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse channel feed: %w", err)
	}
	if feed == nil || len(feed.Items) == 0 {
		return nil, fmt.Errorf("channel feed contains no items")
	}

	urls := make([]string, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item.Link != "" {
			urls = append(urls, item.Link)
		}
	}
	if len(urls) == 0 {
		return nil, fmt.Errorf("no video URLs found in feed items")
	}
	return urls, nil
}
