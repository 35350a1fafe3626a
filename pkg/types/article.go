// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the news-engine pipeline:
// the normalized Article every adapter produces, the routing Classification
// attached to it, and the per-stage configuration structs.
package types

import "time"

// Source identifies the provider feed an article came from.
type Source string

const (
	// SourceBenzinga is the Polygon-hosted Benzinga news feed (primary).
	SourceBenzinga Source = "benzinga"

	// SourcePolygon is the Polygon reference-news feed (backup).
	SourcePolygon Source = "polygon"
)

// Article is the normalized news item flowing through the engine. Adapters
// map provider payloads into this shape with safe defaults; no field is ever
// left in a state that makes downstream code nil-check provider quirks.
type Article struct {
	// ID is the provider-assigned article identifier. Not unique across
	// providers; duplicate detection derives its own identity keys.
	ID string `json:"id" yaml:"id"`

	// Title is the headline.
	Title string `json:"title" yaml:"title"`

	// Teaser is the summary or description. May be empty.
	Teaser string `json:"teaser,omitempty" yaml:"teaser,omitempty"`

	// URL is the canonical article link, the primary dedup key when present.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	// PublishedAt is always set; adapters substitute the fetch time when the
	// provider omits a timestamp, since feed ordering depends on it.
	PublishedAt time.Time `json:"published_at" yaml:"published_at"`

	// Source identifies the adapter that produced this article.
	Source Source `json:"source" yaml:"source"`

	// Tickers lists related stock symbols. May be empty.
	Tickers []string `json:"tickers,omitempty" yaml:"tickers,omitempty"`

	// Categories lists provider categories (e.g. "News", "Price Target").
	Categories []string `json:"categories,omitempty" yaml:"categories,omitempty"`

	// Tags lists provider keywords or tags.
	Tags []string `json:"tags,omitempty" yaml:"tags,omitempty"`

	// Author is the byline, when the provider supplies one.
	Author string `json:"author,omitempty" yaml:"author,omitempty"`

	// ImageURL is the first article image, when present.
	ImageURL string `json:"image_url,omitempty" yaml:"image_url,omitempty"`

	// Malformed marks a placeholder produced from an undecodable provider
	// item. The batch continues; the placeholder surfaces in logs.
	Malformed bool `json:"malformed,omitempty" yaml:"malformed,omitempty"`
}

// Channel is the routing destination assigned to an article.
type Channel string

const (
	ChannelCritical   Channel = "critical"
	ChannelHighImpact Channel = "high-impact"
	ChannelAISector   Channel = "ai-sector"
	ChannelWatchlist  Channel = "watchlist"

	// ChannelSkip is never produced by the classifier; it is reserved for
	// callers that filter articles out after classification.
	ChannelSkip Channel = "skip"
)

// Priority ranks how urgently an article should be surfaced.
type Priority string

const (
	PriorityCritical Priority = "CRITICAL"
	PriorityHigh     Priority = "HIGH"
	PriorityMedium   Priority = "MEDIUM"
	PriorityLow      Priority = "LOW"
)

// Classification is the (channel, priority) pair computed on demand for an
// article. It is returned alongside the article, never stored on it.
type Classification struct {
	Channel  Channel  `json:"channel" yaml:"channel"`
	Priority Priority `json:"priority" yaml:"priority"`
}
