package media

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// WatchPageClient scrapes a video's watch page for display metadata. Used
// only as a fallback when the downloader reports no usable title.
type WatchPageClient struct {
	client *http.Client
}

// NewWatchPageClient creates a watch page scraper.
func NewWatchPageClient() *WatchPageClient {
	return &WatchPageClient{
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Title fetches the watch page and extracts the video title.
func (c *WatchPageClient) Title(ctx context.Context, videoURL string) (string, error) {
	html, err := c.fetch(ctx, videoURL)
	if err != nil {
		return "", err
	}
	return TitleFromHTML(html)
}

func (c *WatchPageClient) fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	// Browser-like headers; the watch page serves a reduced document to
	// unknown user agents.
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch watch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read watch page body: %w", err)
	}
	return string(body), nil
}

// TitleFromHTML extracts the video title from watch page HTML with fallback
// mechanisms.
func TitleFromHTML(htmlContent string) (string, error) {
	// Try readability first.
	article, err := readability.FromReader(strings.NewReader(htmlContent), nil)
	if err == nil {
		if title := cleanWatchTitle(article.Title); title != "" {
			return title, nil
		}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return "", fmt.Errorf("parse watch page HTML: %w", err)
	}

	// Try meta property="og:title" (the watch page always carries it).
	if title, exists := doc.Find("meta[property='og:title']").Attr("content"); exists && strings.TrimSpace(title) != "" {
		return strings.TrimSpace(title), nil
	}

	// Try <title> tag.
	if title := cleanWatchTitle(doc.Find("title").First().Text()); title != "" {
		return title, nil
	}

	// Try meta name="title".
	if title, exists := doc.Find("meta[name='title']").Attr("content"); exists && strings.TrimSpace(title) != "" {
		return strings.TrimSpace(title), nil
	}

	return "", fmt.Errorf("title not found in watch page HTML")
}

// cleanWatchTitle trims whitespace and the " - YouTube" suffix the <title>
// tag carries.
func cleanWatchTitle(title string) string {
	title = strings.TrimSpace(title)
	title = strings.TrimSuffix(title, " - YouTube")
	return strings.TrimSpace(title)
}
