package feed

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/news-engine/pkg/types"
)

// --- mock adapter ---

type mockAdapter struct {
	name     string
	source   types.Source
	articles []types.Article
	err      error
}

func (m *mockAdapter) Name() string         { return m.name }
func (m *mockAdapter) Source() types.Source { return m.source }

func (m *mockAdapter) FetchRecent(_ context.Context, _ string, _ time.Duration) ([]types.Article, error) {
	return m.articles, m.err
}

func (m *mockAdapter) FetchByKeywords(_ context.Context, keywords []string, _ time.Duration) ([]types.Article, error) {
	if m.err != nil {
		return nil, m.err
	}
	var matched []types.Article
	for _, a := range m.articles {
		if matchesKeywords(a, keywords) {
			matched = append(matched, a)
		}
	}
	return matched, nil
}

func article(title, url string, published time.Time, source types.Source) types.Article {
	return types.Article{Title: title, URL: url, PublishedAt: published, Source: source}
}

// --- construction ---

func TestNewEngineNoAdapters(t *testing.T) {
	_, err := NewEngine(types.FeedConfig{}, nil)
	if err == nil || !strings.Contains(err.Error(), "no news adapters") {
		t.Errorf("expected no-adapters error, got: %v", err)
	}
}

func TestNewEngineAdapterOrder(t *testing.T) {
	e, err := NewEngine(types.FeedConfig{APIKey: "k", EnableBenzinga: true, EnablePolygon: true}, nil)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	if len(e.adapters) != 2 {
		t.Fatalf("len(adapters) = %d, want 2", len(e.adapters))
	}
	if e.adapters[0].Source() != types.SourceBenzinga || e.adapters[1].Source() != types.SourcePolygon {
		t.Errorf("adapter order = %s, %s; primary must precede backup",
			e.adapters[0].Source(), e.adapters[1].Source())
	}
}

// --- GetUnified ---

func TestGetUnifiedPrimaryWinsDuplicate(t *testing.T) {
	base := time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)

	primary := &mockAdapter{name: "benzinga", source: types.SourceBenzinga, articles: []types.Article{
		article("Fed signals rate cut", "https://a.example/1", base, types.SourceBenzinga),
	}}
	backup := &mockAdapter{name: "polygon", source: types.SourcePolygon, articles: []types.Article{
		article("Fed signals rate cut", "https://b.example/2", base.Add(time.Second), types.SourcePolygon),
	}}

	e := newEngineWithAdapters(nil, primary, backup)
	got, err := e.GetUnified(context.Background(), "", 2*time.Hour, 50)
	if err != nil {
		t.Fatalf("GetUnified: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len(got) = %d, want 1", len(got))
	}
	if got[0].Source != types.SourceBenzinga {
		t.Errorf("kept source = %s, want benzinga (primary precedence)", got[0].Source)
	}
	if !got[0].PublishedAt.Equal(base) {
		t.Errorf("kept timestamp = %v, want %v", got[0].PublishedAt, base)
	}
}

func TestGetUnifiedSortedNewestFirst(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	// Provider-native order is not chronological.
	primary := &mockAdapter{name: "benzinga", source: types.SourceBenzinga, articles: []types.Article{
		article("two", "https://a.example/2", base.Add(2*time.Minute), types.SourceBenzinga),
		article("five", "https://a.example/5", base.Add(5*time.Minute), types.SourceBenzinga),
	}}
	backup := &mockAdapter{name: "polygon", source: types.SourcePolygon, articles: []types.Article{
		article("one", "https://b.example/1", base.Add(time.Minute), types.SourcePolygon),
		article("nine", "https://b.example/9", base.Add(9*time.Minute), types.SourcePolygon),
	}}

	e := newEngineWithAdapters(nil, primary, backup)
	got, err := e.GetUnified(context.Background(), "", time.Hour, 50)
	if err != nil {
		t.Fatalf("GetUnified: %v", err)
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].PublishedAt.Before(got[i].PublishedAt) {
			t.Errorf("articles out of order at %d: %v before %v", i, got[i-1].PublishedAt, got[i].PublishedAt)
		}
	}
	if got[0].Title != "nine" {
		t.Errorf("newest = %q, want %q", got[0].Title, "nine")
	}
}

func TestGetUnifiedLimit(t *testing.T) {
	base := time.Now().UTC()
	var articles []types.Article
	for i := 0; i < 20; i++ {
		articles = append(articles, article(
			fmt.Sprintf("story %d", i),
			fmt.Sprintf("https://a.example/%d", i),
			base.Add(time.Duration(i)*time.Minute),
			types.SourceBenzinga,
		))
	}

	e := newEngineWithAdapters(nil, &mockAdapter{name: "benzinga", articles: articles})
	got, err := e.GetUnified(context.Background(), "", time.Hour, 5)
	if err != nil {
		t.Fatalf("GetUnified: %v", err)
	}
	if len(got) != 5 {
		t.Errorf("len(got) = %d, want 5", len(got))
	}
}

func TestGetUnifiedAdapterIsolation(t *testing.T) {
	healthy := &mockAdapter{name: "benzinga", articles: []types.Article{
		article("still here", "https://a.example/1", time.Now(), types.SourceBenzinga),
	}}
	broken := &mockAdapter{name: "polygon", err: fmt.Errorf("connection refused")}

	var warnings bytes.Buffer
	e := newEngineWithAdapters(&warnings, healthy, broken)

	got, err := e.GetUnified(context.Background(), "", time.Hour, 50)
	if err != nil {
		t.Fatalf("GetUnified should absorb adapter failure, got: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("len(got) = %d, want 1 from the healthy adapter", len(got))
	}
	if !strings.Contains(warnings.String(), "polygon") {
		t.Errorf("warning output = %q, should name the failed adapter", warnings.String())
	}
}

func TestGetUnifiedInvalidArgs(t *testing.T) {
	e := newEngineWithAdapters(nil, &mockAdapter{name: "benzinga"})

	if _, err := e.GetUnified(context.Background(), "", time.Hour, 0); err == nil {
		t.Error("expected error for limit 0")
	}
	if _, err := e.GetUnified(context.Background(), "", -time.Hour, 10); err == nil {
		t.Error("expected error for negative window")
	}
}

// --- SearchWithKeywords ---

func TestSearchWithKeywords(t *testing.T) {
	primary := &mockAdapter{name: "benzinga", articles: []types.Article{
		article("OpenAI raises new round", "https://a.example/1", time.Now(), types.SourceBenzinga),
		article("Utility stocks slide", "https://a.example/2", time.Now(), types.SourceBenzinga),
	}}
	backup := &mockAdapter{name: "polygon", articles: []types.Article{
		article("OpenAI raises new round", "https://b.example/1", time.Now(), types.SourcePolygon),
	}}

	e := newEngineWithAdapters(nil, primary, backup)
	got, err := e.SearchWithKeywords(context.Background(), []string{"openai"}, 24*time.Hour)
	if err != nil {
		t.Fatalf("SearchWithKeywords: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len(got) = %d, want 1 after dedup", len(got))
	}
	if got[0].Source != types.SourceBenzinga {
		t.Errorf("kept source = %s, want primary", got[0].Source)
	}
}

func TestSearchWithKeywordsNoMatches(t *testing.T) {
	e := newEngineWithAdapters(nil, &mockAdapter{name: "benzinga", articles: []types.Article{
		article("Quarterly update", "https://a.example/1", time.Now(), types.SourceBenzinga),
	}})

	got, err := e.SearchWithKeywords(context.Background(), []string{"zzzznonexistentkeyword"}, 24*time.Hour)
	if err != nil {
		t.Fatalf("no matches should not be an error, got: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("len(got) = %d, want 0", len(got))
	}
}

func TestSearchWithKeywordsEmpty(t *testing.T) {
	e := newEngineWithAdapters(nil, &mockAdapter{name: "benzinga"})
	if _, err := e.SearchWithKeywords(context.Background(), nil, time.Hour); err == nil {
		t.Error("expected error for empty keyword list")
	}
}

// --- cross-cycle freshness ---

func TestEngineFilterFresh(t *testing.T) {
	e := newEngineWithAdapters(nil, &mockAdapter{name: "benzinga"})
	a := []types.Article{article("Story", "https://a.example/1", time.Now(), types.SourceBenzinga)}

	if fresh := e.FilterFresh(a); len(fresh) != 1 {
		t.Fatalf("first pass fresh = %d, want 1", len(fresh))
	}
	if fresh := e.FilterFresh(a); len(fresh) != 0 {
		t.Errorf("second pass fresh = %d, want 0", len(fresh))
	}

	e.ResetSeen()
	if fresh := e.FilterFresh(a); len(fresh) != 1 {
		t.Errorf("after reset fresh = %d, want 1", len(fresh))
	}
}

func TestEngineClassifyDelegates(t *testing.T) {
	e := newEngineWithAdapters(nil, &mockAdapter{name: "benzinga"})
	got := e.Classify(types.Article{Title: "FOMC statement due"})
	if got.Channel != types.ChannelCritical {
		t.Errorf("Classify channel = %s, want critical", got.Channel)
	}
}
