// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package monitor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/news-engine/internal/feed"
	"github.com/pdiddy/news-engine/pkg/types"
)

type fakeRecorderFeed struct {
	articles []types.Article
	err      error
	seen     map[string]bool
}

func (f *fakeRecorderFeed) GetUnified(_ context.Context, _ string, _ time.Duration, _ int) ([]types.Article, error) {
	return f.articles, f.err
}

func (f *fakeRecorderFeed) Classify(a types.Article) types.Classification {
	return feed.Classify(a)
}

func (f *fakeRecorderFeed) FilterFresh(articles []types.Article) []types.Article {
	if f.seen == nil {
		f.seen = make(map[string]bool)
	}
	var fresh []types.Article
	for _, a := range articles {
		if f.seen[a.URL] {
			continue
		}
		f.seen[a.URL] = true
		fresh = append(fresh, a)
	}
	return fresh
}

type fakeSink struct {
	inserted []types.Article
	err      error
}

func (s *fakeSink) Insert(_ context.Context, a types.Article, _ types.Classification) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	s.inserted = append(s.inserted, a)
	return true, nil
}

func TestRecorderStoresFreshOnly(t *testing.T) {
	f := &fakeRecorderFeed{articles: []types.Article{fedArticle("https://example.com/fed")}}
	sink := &fakeSink{}

	r := NewRecorder(f, sink, time.Minute, time.Hour, nil)
	r.Poll(context.Background())
	r.Poll(context.Background())

	// The second cycle saw the same article; the freshness filter dropped it.
	require.Len(t, sink.inserted, 1)
	assert.Equal(t, "Fed signals rate cut", sink.inserted[0].Title)
}

func TestRecorderSkipsMalformed(t *testing.T) {
	f := &fakeRecorderFeed{articles: []types.Article{
		{Title: "malformed polygon article", URL: "placeholder", Malformed: true},
	}}
	sink := &fakeSink{}

	NewRecorder(f, sink, time.Minute, time.Hour, nil).Poll(context.Background())
	assert.Empty(t, sink.inserted)
}

func TestRecorderAbsorbsErrors(t *testing.T) {
	feedErr := &fakeRecorderFeed{err: errors.New("providers down")}
	NewRecorder(feedErr, &fakeSink{}, time.Minute, time.Hour, nil).Poll(context.Background())

	sinkErr := &fakeSink{err: errors.New("disk full")}
	f := &fakeRecorderFeed{articles: []types.Article{fedArticle("https://example.com/fed")}}
	NewRecorder(f, sinkErr, time.Minute, time.Hour, nil).Poll(context.Background())
	assert.Empty(t, sinkErr.inserted)
}

func TestRecorderRunStopsOnCancel(t *testing.T) {
	f := &fakeRecorderFeed{}
	r := NewRecorder(f, &fakeSink{}, 10*time.Millisecond, time.Hour, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	time.Sleep(25 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("recorder did not stop after cancel")
	}
}
