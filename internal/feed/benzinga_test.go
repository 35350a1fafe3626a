package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pdiddy/news-engine/pkg/types"
)

func testFeedConfig() types.FeedConfig {
	return types.FeedConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   5 * time.Second,
			UserAgent: "test/0.1",
		},
		APIKey:   "test-key",
		PageSize: 50,
	}
}

func TestBenzingaFetchRecent(t *testing.T) {
	var gotQuery map[string][]string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"status": "OK",
			"results": [
				{
					"benzinga_id": 41234,
					"title": "Chipmaker beats estimates",
					"teaser": "Earnings up big",
					"url": "https://example.com/a",
					"published": "2026-03-02T14:30:00Z",
					"author": "B. Writer",
					"tickers": ["NVDA"],
					"categories": ["News"],
					"tags": ["Earnings"],
					"images": [{"url": "https://example.com/a.png"}]
				},
				{
					"id": "bz-2",
					"title": "No timestamp story"
				}
			]
		}`))
	}))
	defer ts.Close()

	oldBase := benzingaAPIBase
	benzingaAPIBase = ts.URL
	defer func() { benzingaAPIBase = oldBase }()

	b := NewBenzingaAdapter(testFeedConfig())
	articles, err := b.FetchRecent(context.Background(), "NVDA", 2*time.Hour)
	if err != nil {
		t.Fatalf("FetchRecent: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("len(articles) = %d, want 2", len(articles))
	}

	first := articles[0]
	if first.ID != "41234" {
		t.Errorf("ID = %q, want benzinga_id fallback %q", first.ID, "41234")
	}
	if first.Title != "Chipmaker beats estimates" || first.Teaser != "Earnings up big" {
		t.Errorf("unexpected title/teaser: %q / %q", first.Title, first.Teaser)
	}
	if first.Source != types.SourceBenzinga {
		t.Errorf("Source = %s, want benzinga", first.Source)
	}
	want := time.Date(2026, 3, 2, 14, 30, 0, 0, time.UTC)
	if !first.PublishedAt.Equal(want) {
		t.Errorf("PublishedAt = %v, want %v", first.PublishedAt, want)
	}
	if first.ImageURL != "https://example.com/a.png" {
		t.Errorf("ImageURL = %q", first.ImageURL)
	}

	// Missing timestamp falls back to fetch time, never zero.
	if articles[1].PublishedAt.IsZero() {
		t.Error("missing published timestamp should fall back to fetch time")
	}
	if articles[1].ID != "bz-2" {
		t.Errorf("ID = %q, want %q", articles[1].ID, "bz-2")
	}

	if got := gotQuery["ticker"]; len(got) != 1 || got[0] != "NVDA" {
		t.Errorf("ticker param = %v, want [NVDA]", got)
	}
	if got := gotQuery["published_utc.gte"]; len(got) != 1 || got[0] == "" {
		t.Errorf("published_utc.gte param missing: %v", got)
	}
}

func TestBenzingaMalformedItem(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"status": "OK", "results": ["not an object", {"title": "Good story"}]}`))
	}))
	defer ts.Close()

	oldBase := benzingaAPIBase
	benzingaAPIBase = ts.URL
	defer func() { benzingaAPIBase = oldBase }()

	b := NewBenzingaAdapter(testFeedConfig())
	articles, err := b.FetchRecent(context.Background(), "", time.Hour)
	if err != nil {
		t.Fatalf("one bad item should not abort the batch: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("len(articles) = %d, want 2", len(articles))
	}
	if !articles[0].Malformed {
		t.Error("bad item should normalize to a Malformed placeholder")
	}
	if articles[0].PublishedAt.IsZero() {
		t.Error("placeholder must carry the fetch time")
	}
	if articles[1].Malformed || articles[1].Title != "Good story" {
		t.Errorf("good item mangled: %+v", articles[1])
	}
}

func TestBenzingaAPIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"status": "ERROR", "error": "Unknown API Key"}`))
	}))
	defer ts.Close()

	oldBase := benzingaAPIBase
	benzingaAPIBase = ts.URL
	defer func() { benzingaAPIBase = oldBase }()

	b := NewBenzingaAdapter(testFeedConfig())
	if _, err := b.FetchRecent(context.Background(), "", time.Hour); err == nil {
		t.Error("expected error for API error envelope")
	}
}

func TestBenzingaHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	oldBase := benzingaAPIBase
	benzingaAPIBase = ts.URL
	defer func() { benzingaAPIBase = oldBase }()

	b := NewBenzingaAdapter(testFeedConfig())
	if _, err := b.FetchRecent(context.Background(), "", time.Hour); err == nil {
		t.Error("expected error for HTTP 500")
	}
}

func TestBenzingaFetchByKeywords(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"status": "OK", "results": [
			{"title": "OpenAI announces partnership", "url": "https://example.com/1"},
			{"title": "Utility stocks slide", "url": "https://example.com/2"},
			{"title": "Chip supply update", "url": "https://example.com/3", "tags": ["OpenAI"]}
		]}`))
	}))
	defer ts.Close()

	oldBase := benzingaAPIBase
	benzingaAPIBase = ts.URL
	defer func() { benzingaAPIBase = oldBase }()

	b := NewBenzingaAdapter(testFeedConfig())
	articles, err := b.FetchByKeywords(context.Background(), []string{"openai"}, 24*time.Hour)
	if err != nil {
		t.Fatalf("FetchByKeywords: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("len(articles) = %d, want 2 (title match + tag match)", len(articles))
	}
}

func TestBenzingaInvalidWindow(t *testing.T) {
	b := NewBenzingaAdapter(testFeedConfig())
	if _, err := b.FetchRecent(context.Background(), "", 0); err == nil {
		t.Error("expected error for zero window")
	}
}
