// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package monitor runs long-lived topic monitors against the unified feed.
// Each monitor polls on its own interval, classifies what it finds, filters
// by routing channel, and forwards fresh matches as alerts. A monitor
// tolerates every downstream failure: a poll that errors is logged and the
// next tick tries again.
package monitor

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/news-engine/internal/notify"
	"github.com/pdiddy/news-engine/pkg/types"
)

const (
	defaultInterval  = 60 * time.Second
	defaultWindow    = 2 * time.Hour
	defaultPollLimit = 50
)

// Feed is the slice of the engine a monitor depends on.
type Feed interface {
	GetUnified(ctx context.Context, ticker string, window time.Duration, limit int) ([]types.Article, error)
	SearchWithKeywords(ctx context.Context, keywords []string, window time.Duration) ([]types.Article, error)
	Classify(a types.Article) types.Classification
}

// Monitor polls the feed for one configured topic and sends alerts.
type Monitor struct {
	cfg      types.MonitorConfig
	feed     Feed
	notifier notify.Notifier
	seen     *SeenStore
	log      *zap.Logger
}

// New builds a monitor. A nil logger falls back to a no-op logger.
func New(cfg types.MonitorConfig, feed Feed, notifier notify.Notifier, seen *SeenStore, log *zap.Logger) *Monitor {
	if cfg.Interval <= 0 {
		cfg.Interval = defaultInterval
	}
	if cfg.Window <= 0 {
		cfg.Window = defaultWindow
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Monitor{
		cfg:      cfg,
		feed:     feed,
		notifier: notifier,
		seen:     seen,
		log:      log.With(zap.String("monitor", cfg.Name)),
	}
}

// Run polls until the context is cancelled. The first poll happens
// immediately so a fresh daemon is useful before the first interval elapses.
func (m *Monitor) Run(ctx context.Context) error {
	m.log.Info("monitor started",
		zap.Duration("interval", m.cfg.Interval),
		zap.Duration("window", m.cfg.Window),
		zap.Strings("keywords", m.cfg.Keywords),
		zap.String("ticker", m.cfg.Ticker))

	ticker := time.NewTicker(m.cfg.Interval)
	defer ticker.Stop()

	m.Poll(ctx)
	for {
		select {
		case <-ctx.Done():
			m.log.Info("monitor stopped")
			return ctx.Err()
		case <-ticker.C:
			m.Poll(ctx)
		}
	}
}

// Poll runs one cycle: fetch, classify, filter, alert. All failures are
// logged and absorbed.
func (m *Monitor) Poll(ctx context.Context) {
	articles, err := m.fetch(ctx)
	if err != nil {
		m.log.Warn("poll failed", zap.Error(err))
		return
	}

	alerted := 0
	for _, a := range articles {
		if a.Malformed {
			continue
		}
		if m.cfg.RequireTickers && len(a.Tickers) == 0 {
			continue
		}

		cls := m.feed.Classify(a)
		if !m.wantsChannel(cls.Channel) {
			continue
		}

		key := alertKey(a)
		if m.seen != nil {
			seen, err := m.seen.Seen(m.cfg.Name, key)
			if err != nil {
				m.log.Warn("alert history lookup failed", zap.Error(err), zap.String("key", key))
			} else if seen {
				continue
			}
		}

		alert := notify.Alert{Monitor: m.cfg.Name, Article: a, Classification: cls}
		if m.notifier != nil {
			if err := m.notifier.Send(ctx, alert); err != nil {
				// Leave the article unmarked so the next poll retries it.
				m.log.Warn("alert delivery failed", zap.Error(err), zap.String("title", a.Title))
				continue
			}
		}
		if m.seen != nil {
			if err := m.seen.MarkSeen(m.cfg.Name, key, time.Now()); err != nil {
				m.log.Warn("recording alert failed", zap.Error(err), zap.String("key", key))
			}
		}

		alerted++
		m.log.Info("alert sent",
			zap.String("title", a.Title),
			zap.String("channel", string(cls.Channel)),
			zap.String("priority", string(cls.Priority)))
	}

	m.log.Debug("poll complete", zap.Int("fetched", len(articles)), zap.Int("alerted", alerted))
}

func (m *Monitor) fetch(ctx context.Context) ([]types.Article, error) {
	if len(m.cfg.Keywords) > 0 {
		return m.feed.SearchWithKeywords(ctx, m.cfg.Keywords, m.cfg.Window)
	}
	return m.feed.GetUnified(ctx, m.cfg.Ticker, m.cfg.Window, defaultPollLimit)
}

func (m *Monitor) wantsChannel(ch types.Channel) bool {
	if len(m.cfg.Channels) == 0 {
		return true
	}
	for _, want := range m.cfg.Channels {
		if want == ch {
			return true
		}
	}
	return false
}

// alertKey identifies an article across polls: URL first, provider ID as a
// fallback, title as a last resort.
func alertKey(a types.Article) string {
	if a.URL != "" {
		return a.URL
	}
	if a.ID != "" {
		return string(a.Source) + ":" + a.ID
	}
	return "title:" + a.Title
}
