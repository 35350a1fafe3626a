// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package feed merges overlapping provider news feeds into one
// deduplicated, chronologically ordered, classified stream. The Engine is
// the single integration point monitors depend on: it fans a fetch out to
// every enabled adapter, isolates per-adapter failures, merges in fixed
// priority order, deduplicates, and sorts.
package feed

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/pdiddy/news-engine/pkg/types"
)

const (
	defaultPageSize      = 50
	defaultTimeout       = 10 * time.Second
	defaultSeenCacheSize = 4096
)

// Adapter fetches and normalizes articles from one provider. Implementations
// report transport and decode failures as errors; the Engine — not the
// adapter — decides to degrade to an empty result and a logged warning, so
// one provider's outage never blocks the others.
type Adapter interface {
	Name() string
	Source() types.Source
	FetchRecent(ctx context.Context, ticker string, window time.Duration) ([]types.Article, error)
	FetchByKeywords(ctx context.Context, keywords []string, window time.Duration) ([]types.Article, error)
}

// Engine owns the enabled adapters in fixed priority order and the dedup
// state. Keep one long-lived Engine per process; its query methods are safe
// for concurrent use from multiple monitor goroutines.
type Engine struct {
	adapters []Adapter
	seen     *seenCache
	warn     io.Writer
}

// NewEngine builds an engine from the feed configuration. At least one
// adapter must be enabled; a fully disabled feed is a configuration defect,
// not a degraded state.
func NewEngine(cfg types.FeedConfig, warn io.Writer) (*Engine, error) {
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.SeenCacheSize <= 0 {
		cfg.SeenCacheSize = defaultSeenCacheSize
	}
	if warn == nil {
		warn = io.Discard
	}

	// Priority order: primary first. The deduplicator keeps the first
	// occurrence, so the primary source's copy of a duplicated story wins.
	var adapters []Adapter
	if cfg.EnableBenzinga {
		adapters = append(adapters, NewBenzingaAdapter(cfg))
	}
	if cfg.EnablePolygon {
		adapters = append(adapters, NewPolygonAdapter(cfg))
	}
	if len(adapters) == 0 {
		return nil, fmt.Errorf("no news adapters enabled")
	}

	return &Engine{
		adapters: adapters,
		seen:     newSeenCache(cfg.SeenCacheSize),
		warn:     warn,
	}, nil
}

// newEngineWithAdapters wires explicit adapters, for tests.
func newEngineWithAdapters(warn io.Writer, adapters ...Adapter) *Engine {
	if warn == nil {
		warn = io.Discard
	}
	return &Engine{
		adapters: adapters,
		seen:     newSeenCache(defaultSeenCacheSize),
		warn:     warn,
	}
}

// GetUnified returns at most limit articles from all enabled adapters,
// deduplicated and sorted newest first. Adapter failures are written as
// warnings and otherwise absorbed: the worst observable symptom is a
// thinner feed, never an error. Errors are returned only for caller
// defects (non-positive limit or window).
func (e *Engine) GetUnified(ctx context.Context, ticker string, window time.Duration, limit int) ([]types.Article, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}
	if window <= 0 {
		return nil, fmt.Errorf("window must be positive, got %v", window)
	}

	merged := e.fanOut(func(a Adapter) ([]types.Article, error) {
		return a.FetchRecent(ctx, ticker, window)
	})

	deduped, _ := dedupeArticles(merged)

	// Stable sort: equal timestamps keep their post-dedup (priority) order.
	sort.SliceStable(deduped, func(i, j int) bool {
		return deduped[i].PublishedAt.After(deduped[j].PublishedAt)
	})

	if len(deduped) > limit {
		deduped = deduped[:limit]
	}
	return deduped, nil
}

// SearchWithKeywords returns every deduplicated article matching any of the
// keywords across all adapters. No limit and no timestamp sort: keyword
// search is exploratory, not a display feed, so callers slice and order as
// they see fit.
func (e *Engine) SearchWithKeywords(ctx context.Context, keywords []string, window time.Duration) ([]types.Article, error) {
	if len(keywords) == 0 {
		return nil, fmt.Errorf("no keywords given")
	}
	if window <= 0 {
		return nil, fmt.Errorf("window must be positive, got %v", window)
	}

	merged := e.fanOut(func(a Adapter) ([]types.Article, error) {
		return a.FetchByKeywords(ctx, keywords, window)
	})

	deduped, _ := dedupeArticles(merged)
	return deduped, nil
}

// Classify returns the routing channel and priority for an article. Exposed
// on the engine because it, not the raw classifier, is the public dependency
// for monitors.
func (e *Engine) Classify(a types.Article) types.Classification {
	return Classify(a)
}

// FilterFresh returns the articles not seen by any earlier FilterFresh call
// and remembers the ones it returns, within the bounded seen cache. This is
// the cross-cycle memory: a consumer that polls overlapping windows uses it
// to act once per story.
func (e *Engine) FilterFresh(articles []types.Article) []types.Article {
	return e.seen.filterFresh(articles)
}

// ResetSeen clears the cross-cycle seen cache.
func (e *Engine) ResetSeen() {
	e.seen.reset()
}

// fanOut runs fetch against every adapter concurrently and concatenates the
// results in adapter priority order. A failed adapter contributes nothing
// beyond a warning line.
func (e *Engine) fanOut(fetch func(Adapter) ([]types.Article, error)) []types.Article {
	results := make([][]types.Article, len(e.adapters))
	errs := make([]error, len(e.adapters))

	var wg sync.WaitGroup
	for i, a := range e.adapters {
		wg.Add(1)
		go func(i int, a Adapter) {
			defer wg.Done()
			results[i], errs[i] = fetch(a)
		}(i, a)
	}
	wg.Wait()

	var merged []types.Article
	for i, a := range e.adapters {
		if errs[i] != nil {
			fmt.Fprintf(e.warn, "warning: adapter %s failed: %v\n", a.Name(), errs[i])
			continue
		}
		merged = append(merged, results[i]...)
	}
	return merged
}
