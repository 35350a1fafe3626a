// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the news-engine CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/news-engine/internal/secrets"
	"github.com/pdiddy/news-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the news-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "news-engine",
	Short: "Unified market-news feed with dedup, classification, and alerts",
	Long: `news-engine merges overlapping market-news feeds into one deduplicated,
classified stream. The news and search subcommands query the feed directly;
monitor runs long-lived topic monitors that classify articles, record them
to a local history database, and deliver alerts through Discord or Pushover.

Configuration comes from news-engine.yaml, NEWS_ENGINE_* environment
variables, and plain-text key files under .secrets/.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./news-engine.yaml or ~/.config/news-engine/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("news-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "news-engine"))
		}
	}

	viper.SetEnvPrefix("NEWS_ENGINE")
	viper.AutomaticEnv()

	setConfigDefaults()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func setConfigDefaults() {
	viper.SetDefault("feed.enable_benzinga", true)
	viper.SetDefault("feed.enable_polygon", true)
	viper.SetDefault("feed.page_size", 50)
	viper.SetDefault("feed.default_limit", 50)
	viper.SetDefault("feed.timeout", "10s")
	viper.SetDefault("monitors.state_path", filepath.Join("data", "monitor-state.db"))
	viper.SetDefault("monitors.history_ttl", "72h")
	viper.SetDefault("store.data_dir", "data")
	viper.SetDefault("store.max_results", 50)
	viper.SetDefault("watchlist.path", "watchlist.yaml")
}

// loadConfig assembles the engine configuration from viper keys and fills
// credential gaps from .secrets/ files. Flag and config-file values win over
// secret files.
func loadConfig() types.EngineConfig {
	cfg := types.EngineConfig{
		Feed: types.FeedConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("feed.timeout"),
				UserAgent: viper.GetString("feed.user_agent"),
			},
			APIKey:         viper.GetString("feed.api_key"),
			EnableBenzinga: viper.GetBool("feed.enable_benzinga"),
			EnablePolygon:  viper.GetBool("feed.enable_polygon"),
			PageSize:       viper.GetInt("feed.page_size"),
			DefaultLimit:   viper.GetInt("feed.default_limit"),
			SeenCacheSize:  viper.GetInt("feed.seen_cache_size"),
		},
		Monitors: types.MonitorsConfig{
			StatePath:  viper.GetString("monitors.state_path"),
			HistoryTTL: viper.GetDuration("monitors.history_ttl"),
		},
		Notify: types.NotifyConfig{
			DiscordWebhookURL: viper.GetString("notify.discord_webhook_url"),
			PushoverToken:     viper.GetString("notify.pushover_token"),
			PushoverUser:      viper.GetString("notify.pushover_user"),
		},
		Store: types.StoreConfig{
			DataDir:    viper.GetString("store.data_dir"),
			MaxResults: viper.GetInt("store.max_results"),
		},
		Watchlist: types.WatchlistConfig{
			Path: viper.GetString("watchlist.path"),
		},
	}

	secrets.Fill(&cfg.Feed.APIKey, loadedSecrets, "polygon-api-key")
	secrets.Fill(&cfg.Notify.DiscordWebhookURL, loadedSecrets, "discord-webhook-url")
	secrets.Fill(&cfg.Notify.PushoverToken, loadedSecrets, "pushover-token")
	secrets.Fill(&cfg.Notify.PushoverUser, loadedSecrets, "pushover-user")

	if err := decodeMonitors(&cfg.Monitors); err != nil {
		fmt.Fprintf(os.Stderr, "warning: ignoring monitors config: %v\n", err)
	}
	return cfg
}

// decodeMonitors reads the monitors list by hand: viper's mapstructure
// decoding does not follow the snake_case yaml tags on MonitorConfig.
func decodeMonitors(cfg *types.MonitorsConfig) error {
	raw, ok := viper.Get("monitors.monitors").([]any)
	if !ok {
		return nil
	}

	for i, entry := range raw {
		m, ok := entry.(map[string]any)
		if !ok {
			return fmt.Errorf("monitor %d is not a mapping", i)
		}

		mc := types.MonitorConfig{
			Name:           stringKey(m, "name"),
			Ticker:         stringKey(m, "ticker"),
			RequireTickers: boolKey(m, "require_tickers"),
		}
		if mc.Name == "" {
			return fmt.Errorf("monitor %d has no name", i)
		}
		if v := stringKey(m, "interval"); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("monitor %s: bad interval %q: %w", mc.Name, v, err)
			}
			mc.Interval = d
		}
		if v := stringKey(m, "window"); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("monitor %s: bad window %q: %w", mc.Name, v, err)
			}
			mc.Window = d
		}
		for _, ch := range stringSliceKey(m, "channels") {
			mc.Channels = append(mc.Channels, types.Channel(ch))
		}
		mc.Keywords = stringSliceKey(m, "keywords")

		cfg.Monitors = append(cfg.Monitors, mc)
	}
	return nil
}

func stringKey(m map[string]any, key string) string {
	v, _ := m[key].(string)
	return v
}

func boolKey(m map[string]any, key string) bool {
	v, _ := m[key].(bool)
	return v
}

func stringSliceKey(m map[string]any, key string) []string {
	raw, ok := m[key].([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
