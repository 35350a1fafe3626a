// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/pdiddy/news-engine/internal/httputil"
	"github.com/pdiddy/news-engine/pkg/types"
)

// polygonAPIBase is the Polygon reference-news endpoint. Declared as a var
// so tests can substitute an httptest server.
var polygonAPIBase = "https://api.polygon.io/v2/reference/news"

// PolygonAdapter is the backup news source, supplementing the primary feed.
type PolygonAdapter struct {
	client    *http.Client
	apiKey    string
	pageSize  int
	userAgent string
}

// NewPolygonAdapter builds the backup adapter from the feed configuration.
func NewPolygonAdapter(cfg types.FeedConfig) *PolygonAdapter {
	return &PolygonAdapter{
		client:    &http.Client{Timeout: cfg.Timeout},
		apiKey:    cfg.APIKey,
		pageSize:  cfg.PageSize,
		userAgent: cfg.UserAgent,
	}
}

// Name returns the adapter identifier.
func (p *PolygonAdapter) Name() string { return "polygon" }

// Source returns the feed this adapter produces articles for.
func (p *PolygonAdapter) Source() types.Source { return types.SourcePolygon }

// FetchRecent returns articles published within the window, optionally
// restricted to one ticker. The endpoint filters at date precision, so the
// result can reach slightly beyond the window; the unified sort and limit
// absorb the excess.
func (p *PolygonAdapter) FetchRecent(ctx context.Context, ticker string, window time.Duration) ([]types.Article, error) {
	if window <= 0 {
		return nil, fmt.Errorf("window must be positive, got %v", window)
	}

	fetchedAt := time.Now().UTC()
	cutoff := fetchedAt.Add(-window).Format("2006-01-02")

	params := url.Values{
		"apiKey":            {p.apiKey},
		"limit":             {fmt.Sprintf("%d", p.pageSize)},
		"order":             {"desc"},
		"published_utc.gte": {cutoff},
	}
	if ticker != "" {
		params.Set("ticker", ticker)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, polygonAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := httputil.DoWithRetry(ctx, p.client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("polygon request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("polygon returned HTTP %d", resp.StatusCode)
	}

	var envelope struct {
		Status  string            `json:"status"`
		Error   string            `json:"error"`
		Results []json.RawMessage `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("parsing polygon response: %w", err)
	}
	if envelope.Status == "ERROR" {
		return nil, fmt.Errorf("polygon API error: %s", envelope.Error)
	}

	articles := make([]types.Article, 0, len(envelope.Results))
	for _, raw := range envelope.Results {
		articles = append(articles, normalizePolygon(raw, fetchedAt))
	}
	return articles, nil
}

// FetchByKeywords fetches recent articles and filters them locally, the
// same rule the primary adapter applies.
func (p *PolygonAdapter) FetchByKeywords(ctx context.Context, keywords []string, window time.Duration) ([]types.Article, error) {
	articles, err := p.FetchRecent(ctx, "", window)
	if err != nil {
		return nil, err
	}

	var matched []types.Article
	for _, a := range articles {
		if matchesKeywords(a, keywords) {
			matched = append(matched, a)
		}
	}
	return matched, nil
}

// polygonItem is the provider wire shape for /v2/reference/news results.
type polygonItem struct {
	ID           flexString `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	ArticleURL   string     `json:"article_url"`
	PublishedUTC string     `json:"published_utc"`
	Author       string     `json:"author"`
	Tickers      []string   `json:"tickers"`
	Keywords     []string   `json:"keywords"`
	ImageURL     string     `json:"image_url"`
}

// normalizePolygon maps one raw result to the Article shape. Provider
// keywords become tags; the reference feed has no category field.
func normalizePolygon(raw json.RawMessage, fetchedAt time.Time) types.Article {
	var item polygonItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return placeholderArticle(types.SourcePolygon, fetchedAt)
	}

	return types.Article{
		ID:          string(item.ID),
		Title:       item.Title,
		Teaser:      item.Description,
		URL:         item.ArticleURL,
		PublishedAt: parsePublished(item.PublishedUTC, fetchedAt),
		Source:      types.SourcePolygon,
		Tickers:     item.Tickers,
		Tags:        item.Keywords,
		Author:      item.Author,
		ImageURL:    item.ImageURL,
	}
}
