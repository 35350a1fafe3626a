// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package notify delivers monitor alerts to external channels. Discord and
// Pushover are supported; a Multi notifier fans one alert out to several
// destinations and collects per-destination failures without dropping the
// rest.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/news-engine/pkg/types"
)

// Alert is one notification about a classified article.
type Alert struct {
	Monitor        string
	Article        types.Article
	Classification types.Classification
}

// Title builds the alert headline: priority tag, tickers, article title.
func (a Alert) Title() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s]", a.Classification.Priority)
	if len(a.Article.Tickers) > 0 {
		fmt.Fprintf(&b, " %s", strings.Join(a.Article.Tickers, ", "))
	}
	fmt.Fprintf(&b, " %s", a.Article.Title)
	return b.String()
}

// Notifier delivers a single alert to one destination.
type Notifier interface {
	// Name identifies the destination in logs and error messages.
	Name() string
	Send(ctx context.Context, alert Alert) error
}

// Multi fans an alert out to every configured notifier. A destination
// failure does not stop delivery to the others; all failures come back
// joined so the caller can log them.
type Multi struct {
	notifiers []Notifier
}

// NewMulti builds a fan-out notifier. Nil entries are skipped.
func NewMulti(notifiers ...Notifier) *Multi {
	m := &Multi{}
	for _, n := range notifiers {
		if n != nil {
			m.notifiers = append(m.notifiers, n)
		}
	}
	return m
}

// Name implements Notifier.
func (m *Multi) Name() string { return "multi" }

// Len returns the number of configured destinations.
func (m *Multi) Len() int { return len(m.notifiers) }

// Send delivers the alert to every destination sequentially.
func (m *Multi) Send(ctx context.Context, alert Alert) error {
	var errs []error
	for _, n := range m.notifiers {
		if err := n.Send(ctx, alert); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", n.Name(), err))
		}
	}
	return errors.Join(errs...)
}
