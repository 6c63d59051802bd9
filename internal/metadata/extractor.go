// Package metadata extracts OpenGraph metadata from video pages. The seed
// importer uses it to fill missing thumbnail and summary fields on video
// records.
package metadata

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/rehabworks/catalog/internal/logger"
)

const defaultHTTPTimeout = 30 * time.Second

// VideoMetadata holds the fields extractable from a video page.
type VideoMetadata struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
}

// Extractor fetches a page and reads its OpenGraph tags.
type Extractor struct {
	logger logger.Logger
	client *http.Client
}

func NewExtractor(log logger.Logger) *Extractor {
	return &Extractor{
		logger: log,
		client: &http.Client{
			Timeout: defaultHTTPTimeout,
		},
	}
}

// NewExtractorWithClient builds an extractor around a caller-supplied HTTP
// client. Tests use it with httptest servers.
func NewExtractorWithClient(log logger.Logger, client *http.Client) *Extractor {
	return &Extractor{
		logger: log,
		client: client,
	}
}

// Extract fetches videoURL and returns whatever OpenGraph metadata the page
// declares. Missing tags leave the corresponding fields empty.
func (e *Extractor) Extract(ctx context.Context, videoURL string) (*VideoMetadata, error) {
	if _, err := url.Parse(videoURL); err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, videoURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	// Set user agent to avoid bot blocking
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; RehabCatalog/1.0)")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	meta := &VideoMetadata{
		Title:       e.ogContent(doc, "og:title"),
		Description: e.ogContent(doc, "og:description"),
		Thumbnail:   e.ogContent(doc, "og:image"),
	}

	if meta.Title == "" {
		meta.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if meta.Description == "" {
		if desc, exists := doc.Find("meta[name='description']").Attr("content"); exists {
			meta.Description = strings.TrimSpace(desc)
		}
	}

	e.logger.Debug("Video metadata extracted",
		logger.String("url", videoURL),
		logger.String("title", meta.Title),
	)

	return meta, nil
}

func (e *Extractor) ogContent(doc *goquery.Document, property string) string {
	selector := fmt.Sprintf("meta[property='%s']", property)
	if content, exists := doc.Find(selector).Attr("content"); exists {
		return strings.TrimSpace(content)
	}
	return ""
}
