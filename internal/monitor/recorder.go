// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package monitor

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/news-engine/pkg/types"
)

// RecorderFeed is the slice of the engine the history recorder depends on:
// the unified feed plus the engine's cross-cycle freshness filter.
type RecorderFeed interface {
	GetUnified(ctx context.Context, ticker string, window time.Duration, limit int) ([]types.Article, error)
	Classify(a types.Article) types.Classification
	FilterFresh(articles []types.Article) []types.Article
}

// ArticleSink receives classified articles for persistence.
type ArticleSink interface {
	Insert(ctx context.Context, a types.Article, cls types.Classification) (bool, error)
}

// Recorder polls the whole unified feed (no ticker filter) and persists every
// fresh article with its classification. It is the single consumer of the
// engine's seen cache; monitors keep their own durable alert history instead.
type Recorder struct {
	feed     RecorderFeed
	sink     ArticleSink
	interval time.Duration
	window   time.Duration
	log      *zap.Logger
}

// NewRecorder builds the history recorder.
func NewRecorder(feed RecorderFeed, sink ArticleSink, interval, window time.Duration, log *zap.Logger) *Recorder {
	if interval <= 0 {
		interval = defaultInterval
	}
	if window <= 0 {
		window = defaultWindow
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Recorder{
		feed:     feed,
		sink:     sink,
		interval: interval,
		window:   window,
		log:      log.With(zap.String("monitor", "recorder")),
	}
}

// Run polls until the context is cancelled, recording immediately on start.
func (r *Recorder) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.Poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.Poll(ctx)
		}
	}
}

// Poll runs one record cycle. Failures are logged and absorbed.
func (r *Recorder) Poll(ctx context.Context) {
	articles, err := r.feed.GetUnified(ctx, "", r.window, defaultPollLimit)
	if err != nil {
		r.log.Warn("feed poll failed", zap.Error(err))
		return
	}

	fresh := r.feed.FilterFresh(articles)
	stored := 0
	for _, a := range fresh {
		if a.Malformed {
			continue
		}
		inserted, err := r.sink.Insert(ctx, a, r.feed.Classify(a))
		if err != nil {
			r.log.Warn("storing article failed", zap.Error(err), zap.String("title", a.Title))
			continue
		}
		if inserted {
			stored++
		}
	}

	r.log.Debug("record cycle complete",
		zap.Int("fetched", len(articles)),
		zap.Int("fresh", len(fresh)),
		zap.Int("stored", stored))
}
