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

// benzingaAPIBase is the Polygon-hosted Benzinga news endpoint. Declared as
// a var so tests can substitute an httptest server.
var benzingaAPIBase = "https://api.polygon.io/benzinga/v1/news"

// BenzingaAdapter is the primary news source: faster and richer metadata
// than the reference feed, so its copy of a duplicated story wins the merge.
type BenzingaAdapter struct {
	client    *http.Client
	apiKey    string
	pageSize  int
	userAgent string
}

// NewBenzingaAdapter builds the primary adapter from the feed configuration.
func NewBenzingaAdapter(cfg types.FeedConfig) *BenzingaAdapter {
	return &BenzingaAdapter{
		client:    &http.Client{Timeout: cfg.Timeout},
		apiKey:    cfg.APIKey,
		pageSize:  cfg.PageSize,
		userAgent: cfg.UserAgent,
	}
}

// Name returns the adapter identifier.
func (b *BenzingaAdapter) Name() string { return "benzinga" }

// Source returns the feed this adapter produces articles for.
func (b *BenzingaAdapter) Source() types.Source { return types.SourceBenzinga }

// FetchRecent returns articles published within the window, optionally
// restricted to one ticker. Provider order is preserved; it is not
// guaranteed chronological.
func (b *BenzingaAdapter) FetchRecent(ctx context.Context, ticker string, window time.Duration) ([]types.Article, error) {
	if window <= 0 {
		return nil, fmt.Errorf("window must be positive, got %v", window)
	}

	fetchedAt := time.Now().UTC()
	cutoff := fetchedAt.Add(-window).Format("2006-01-02T15:04:05Z")

	params := url.Values{
		"apiKey":            {b.apiKey},
		"limit":             {fmt.Sprintf("%d", b.pageSize)},
		"published_utc.gte": {cutoff},
	}
	if ticker != "" {
		params.Set("ticker", ticker)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, benzingaAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", b.userAgent)

	resp, err := httputil.DoWithRetry(ctx, b.client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("benzinga request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("benzinga returned HTTP %d", resp.StatusCode)
	}

	var envelope struct {
		Status  string            `json:"status"`
		Error   string            `json:"error"`
		Results []json.RawMessage `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("parsing benzinga response: %w", err)
	}
	if envelope.Status == "ERROR" {
		return nil, fmt.Errorf("benzinga API error: %s", envelope.Error)
	}

	articles := make([]types.Article, 0, len(envelope.Results))
	for _, raw := range envelope.Results {
		articles = append(articles, normalizeBenzinga(raw, fetchedAt))
	}
	return articles, nil
}

// FetchByKeywords fetches recent articles and filters them locally; the
// endpoint has no native keyword search. Any keyword match includes the
// article.
func (b *BenzingaAdapter) FetchByKeywords(ctx context.Context, keywords []string, window time.Duration) ([]types.Article, error) {
	articles, err := b.FetchRecent(ctx, "", window)
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

// benzingaItem is the provider wire shape. IDs arrive as strings or
// numbers depending on the feed revision, hence flexString.
type benzingaItem struct {
	ID           flexString `json:"id"`
	BenzingaID   flexString `json:"benzinga_id"`
	Title        string     `json:"title"`
	Teaser       string     `json:"teaser"`
	URL          string     `json:"url"`
	Published    string     `json:"published"`
	PublishedUTC string     `json:"published_utc"`
	Author       string     `json:"author"`
	Tickers      []string   `json:"tickers"`
	Categories   []string   `json:"categories"`
	Tags         []string   `json:"tags"`
	Images       []struct {
		URL string `json:"url"`
	} `json:"images"`
}

// normalizeBenzinga validates one raw result and maps it to the Article
// shape with safe defaults. An undecodable item yields a placeholder so a
// single bad record never aborts the batch.
func normalizeBenzinga(raw json.RawMessage, fetchedAt time.Time) types.Article {
	var item benzingaItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return placeholderArticle(types.SourceBenzinga, fetchedAt)
	}

	id := string(item.BenzingaID)
	if id == "" {
		id = string(item.ID)
	}

	published := item.Published
	if published == "" {
		published = item.PublishedUTC
	}

	imageURL := ""
	if len(item.Images) > 0 {
		imageURL = item.Images[0].URL
	}

	return types.Article{
		ID:          id,
		Title:       item.Title,
		Teaser:      item.Teaser,
		URL:         item.URL,
		PublishedAt: parsePublished(published, fetchedAt),
		Source:      types.SourceBenzinga,
		Tickers:     item.Tickers,
		Categories:  item.Categories,
		Tags:        item.Tags,
		Author:      item.Author,
		ImageURL:    imageURL,
	}
}
