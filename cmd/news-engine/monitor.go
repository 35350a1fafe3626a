// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/news-engine/internal/feed"
	"github.com/pdiddy/news-engine/internal/monitor"
	"github.com/pdiddy/news-engine/internal/notify"
	"github.com/pdiddy/news-engine/internal/store"
	"github.com/pdiddy/news-engine/pkg/types"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Run the monitor daemon",
	Long: `Monitor runs every configured topic monitor until interrupted. Each
monitor polls the unified feed on its own interval, classifies what it finds,
and delivers fresh matches through the configured alert channels. A history
recorder persists every fresh article to the local database alongside.

Alert history survives restarts, so bouncing the daemon never re-sends alerts.`,
	RunE: runMonitor,
}

func runMonitor(cmd *cobra.Command, args []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")

	cfg := loadConfig()
	if len(cfg.Monitors.Monitors) == 0 {
		return fmt.Errorf("no monitors configured: add a monitors.monitors list to news-engine.yaml")
	}

	log, err := buildLogger(verbose)
	if err != nil {
		return err
	}
	defer log.Sync()

	engine, err := feed.NewEngine(cfg.Feed, os.Stderr)
	if err != nil {
		return err
	}

	seen, err := monitor.OpenSeenStore(cfg.Monitors.StatePath)
	if err != nil {
		return err
	}
	defer seen.Close()

	history, err := store.Open(cfg.Store)
	if err != nil {
		return err
	}
	defer history.Close()

	notifier := notify.NewMulti(buildNotifiers(cfg.Notify, log)...)
	if notifier.Len() == 0 {
		log.Warn("no alert channels configured, alerts will only be logged")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	for _, mc := range cfg.Monitors.Monitors {
		m := monitor.New(mc, engine, notifier, seen, log)
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Run(ctx)
		}()
	}

	rec := monitor.NewRecorder(engine, history, 0, 0, log)
	wg.Add(1)
	go func() {
		defer wg.Done()
		rec.Run(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		pruneLoop(ctx, seen, cfg.Monitors.HistoryTTL, log)
	}()

	log.Info("monitor daemon running", zap.Int("monitors", len(cfg.Monitors.Monitors)))
	<-ctx.Done()
	log.Info("shutting down")
	wg.Wait()
	return nil
}

func buildLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// buildNotifiers returns the configured destinations. Unconfigured
// constructors return typed nils, so only non-nil values are collected.
func buildNotifiers(cfg types.NotifyConfig, log *zap.Logger) []notify.Notifier {
	var notifiers []notify.Notifier
	if d := notify.NewDiscord(cfg); d != nil {
		notifiers = append(notifiers, d)
		log.Info("discord alerts enabled")
	}
	if p := notify.NewPushover(cfg); p != nil {
		notifiers = append(notifiers, p)
		log.Info("pushover alerts enabled")
	}
	return notifiers
}

// pruneLoop trims stale alert-history entries hourly so the state file stays small.
func pruneLoop(ctx context.Context, seen *monitor.SeenStore, ttl time.Duration, log *zap.Logger) {
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}

	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		if removed, err := seen.Prune(time.Now().Add(-ttl)); err != nil {
			log.Warn("pruning alert history failed", zap.Error(err))
		} else if removed > 0 {
			log.Info("pruned alert history", zap.Int("removed", removed))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func init() {
	monitorCmd.Flags().Bool("verbose", false, "log at debug level with console formatting")

	rootCmd.AddCommand(monitorCmd)
}
