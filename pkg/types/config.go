package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "news-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FeedConfig holds settings for the unified news feed.
type FeedConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey is the Polygon API key; it authenticates both the Benzinga
	// and the Polygon reference-news endpoints.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// EnableBenzinga controls whether the primary Benzinga adapter is used.
	EnableBenzinga bool `json:"enable_benzinga" yaml:"enable_benzinga"`

	// EnablePolygon controls whether the backup Polygon adapter is used.
	EnablePolygon bool `json:"enable_polygon" yaml:"enable_polygon"`

	// PageSize is the per-request article cap sent to providers (default 50,
	// the provider-side maximum).
	PageSize int `json:"page_size" yaml:"page_size"`

	// DefaultLimit is the unified feed size when the caller gives none (default 50).
	DefaultLimit int `json:"default_limit" yaml:"default_limit"`

	// SeenCacheSize bounds the cross-cycle seen cache (default 4096 keys).
	// Oldest identity keys are evicted first.
	SeenCacheSize int `json:"seen_cache_size" yaml:"seen_cache_size"`
}

// MonitorConfig describes one topic monitor.
type MonitorConfig struct {
	// Name identifies the monitor in logs and in its alert-history bucket.
	Name string `json:"name" yaml:"name"`

	// Interval is how often the monitor polls the engine (default 60s).
	Interval time.Duration `json:"interval" yaml:"interval"`

	// Window is how far back each poll looks (default 2h).
	Window time.Duration `json:"window" yaml:"window"`

	// Channels lists the routing channels this monitor forwards. Empty
	// means all channels.
	Channels []Channel `json:"channels,omitempty" yaml:"channels,omitempty"`

	// Keywords switches the monitor to keyword-search mode: instead of the
	// unified feed it polls a keyword search across adapters.
	Keywords []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`

	// Ticker restricts the unified feed poll to one symbol.
	Ticker string `json:"ticker,omitempty" yaml:"ticker,omitempty"`

	// RequireTickers skips articles that carry no ticker symbols and fell
	// through to the watchlist default.
	RequireTickers bool `json:"require_tickers" yaml:"require_tickers"`
}

// MonitorsConfig holds the monitor daemon settings.
type MonitorsConfig struct {
	// StatePath is the bbolt file recording per-monitor alert history, so a
	// restart does not re-send old alerts (default "data/monitor-state.db").
	StatePath string `json:"state_path" yaml:"state_path"`

	// HistoryTTL prunes alert-history entries older than this (default 72h).
	HistoryTTL time.Duration `json:"history_ttl" yaml:"history_ttl"`

	// Monitors lists the configured topic monitors.
	Monitors []MonitorConfig `json:"monitors" yaml:"monitors"`
}

// NotifyConfig holds alert delivery settings.
type NotifyConfig struct {
	HTTPConfig `yaml:",inline"`

	// DiscordWebhookURL is the Discord channel webhook. Empty disables Discord.
	DiscordWebhookURL string `json:"discord_webhook_url,omitempty" yaml:"discord_webhook_url,omitempty"`

	// PushoverToken and PushoverUser authenticate the Pushover message API.
	// Both empty disables Pushover.
	PushoverToken string `json:"pushover_token,omitempty" yaml:"pushover_token,omitempty"`
	PushoverUser  string `json:"pushover_user,omitempty" yaml:"pushover_user,omitempty"`
}

// StoreConfig holds settings for the article history store.
type StoreConfig struct {
	// DataDir is the directory containing the SQLite history database
	// (default "data").
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// MaxResults is the default maximum number of query results (default 50).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// WatchlistConfig holds settings for the watchlist file.
type WatchlistConfig struct {
	// Path is the YAML watchlist file (default "watchlist.yaml").
	Path string `json:"path" yaml:"path"`
}

// EngineConfig groups all stage configurations.
type EngineConfig struct {
	Feed      FeedConfig      `json:"feed" yaml:"feed"`
	Monitors  MonitorsConfig  `json:"monitors" yaml:"monitors"`
	Notify    NotifyConfig    `json:"notify" yaml:"notify"`
	Store     StoreConfig     `json:"store" yaml:"store"`
	Watchlist WatchlistConfig `json:"watchlist" yaml:"watchlist"`
}
