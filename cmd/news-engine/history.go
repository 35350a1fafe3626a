// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/news-engine/internal/store"
	"github.com/pdiddy/news-engine/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Query the local article history",
	Long: `History queries the SQLite database the monitor daemon's recorder fills.
Use subcommands to show stored articles, summarize counts, or prune old rows.`,
}

// --- show subcommand ---

var historyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show stored articles, newest first",
	RunE:  runHistoryShow,
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	ticker, _ := cmd.Flags().GetString("ticker")
	channel, _ := cmd.Flags().GetString("channel")
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	if ticker != "" && channel != "" {
		return fmt.Errorf("use either --ticker or --channel, not both")
	}

	s, err := store.Open(loadConfig().Store)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := context.Background()
	var records []store.Record
	switch {
	case ticker != "":
		records, err = s.ByTicker(ctx, ticker, limit)
	case channel != "":
		records, err = s.ByChannel(ctx, types.Channel(channel), limit)
	default:
		records, err = s.Recent(ctx, limit)
	}
	if err != nil {
		return err
	}

	return formatRecords(records, jsonOutput)
}

func formatRecords(records []store.Record, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	if len(records) == 0 {
		fmt.Println("No articles in history.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-16s  %-11s  %-8s  %-10s  %s\n",
		"Published", "Channel", "Priority", "Source", "Title")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))

	for _, r := range records {
		title := r.Article.Title
		if len(title) > 60 {
			title = title[:57] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-16s  %-11s  %-8s  %-10s  %s\n",
			r.Article.PublishedAt.Local().Format("2006-01-02 15:04"),
			r.Classification.Channel, r.Classification.Priority, r.Article.Source, title)
	}

	fmt.Fprintf(os.Stdout, "\n%d articles\n", len(records))
	return nil
}

// --- stats subcommand ---

var historyStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize history counts by channel and source",
	RunE:  runHistoryStats,
}

func runHistoryStats(cmd *cobra.Command, args []string) error {
	s, err := store.Open(loadConfig().Store)
	if err != nil {
		return err
	}
	defer s.Close()

	stats, err := s.Stats(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("Total articles: %d\n\n", stats.Total)
	fmt.Println("By channel:")
	for _, ch := range []types.Channel{types.ChannelCritical, types.ChannelHighImpact, types.ChannelAISector, types.ChannelWatchlist} {
		if n := stats.ByChannel[ch]; n > 0 {
			fmt.Printf("  %-12s %d\n", ch, n)
		}
	}
	fmt.Println("\nBy source:")
	for _, src := range []types.Source{types.SourceBenzinga, types.SourcePolygon} {
		if n := stats.BySource[src]; n > 0 {
			fmt.Printf("  %-12s %d\n", src, n)
		}
	}
	return nil
}

// --- prune subcommand ---

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete articles older than --keep",
	RunE:  runHistoryPrune,
}

func runHistoryPrune(cmd *cobra.Command, args []string) error {
	keep, _ := cmd.Flags().GetDuration("keep")

	s, err := store.Open(loadConfig().Store)
	if err != nil {
		return err
	}
	defer s.Close()

	removed, err := s.Prune(context.Background(), time.Now().Add(-keep))
	if err != nil {
		return err
	}

	fmt.Printf("Pruned %d article(s)\n", removed)
	return nil
}

func init() {
	historyShowCmd.Flags().String("ticker", "", "filter by ticker symbol")
	historyShowCmd.Flags().String("channel", "", "filter by routing channel: critical, high-impact, ai-sector, watchlist")
	historyShowCmd.Flags().Int("limit", 0, "maximum articles (0 = config default)")
	historyShowCmd.Flags().Bool("json", false, "output records as JSON")

	historyPruneCmd.Flags().Duration("keep", 7*24*time.Hour, "retention window; older articles are deleted")

	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyStatsCmd)
	historyCmd.AddCommand(historyPruneCmd)

	rootCmd.AddCommand(historyCmd)
}
