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

	"github.com/pdiddy/news-engine/internal/feed"
	"github.com/pdiddy/news-engine/pkg/types"
)

var newsCmd = &cobra.Command{
	Use:   "news",
	Short: "Show the unified news feed",
	Long: `News fetches recent articles from every enabled provider, merges and
deduplicates them, classifies each one, and prints the result newest first.
Use --ticker to restrict the feed to one symbol.`,
	RunE: runNews,
}

func runNews(cmd *cobra.Command, args []string) error {
	ticker, _ := cmd.Flags().GetString("ticker")
	window, _ := cmd.Flags().GetDuration("window")
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg := loadConfig()
	if limit <= 0 {
		limit = cfg.Feed.DefaultLimit
	}

	engine, err := feed.NewEngine(cfg.Feed, os.Stderr)
	if err != nil {
		return err
	}

	articles, err := engine.GetUnified(context.Background(), ticker, window, limit)
	if err != nil {
		return err
	}

	return formatArticles(engine, articles, jsonOutput)
}

// classifiedArticle is the JSON output shape: the article plus its routing.
type classifiedArticle struct {
	types.Article
	Channel  types.Channel  `json:"channel"`
	Priority types.Priority `json:"priority"`
}

func formatArticles(engine *feed.Engine, articles []types.Article, jsonOutput bool) error {
	if jsonOutput {
		out := make([]classifiedArticle, 0, len(articles))
		for _, a := range articles {
			cls := engine.Classify(a)
			out = append(out, classifiedArticle{Article: a, Channel: cls.Channel, Priority: cls.Priority})
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if len(articles) == 0 {
		fmt.Println("No articles found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-16s  %-11s  %-8s  %-10s  %-12s  %s\n",
		"Published", "Channel", "Priority", "Source", "Tickers", "Title")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))

	for _, a := range articles {
		cls := engine.Classify(a)

		title := a.Title
		if len(title) > 60 {
			title = title[:57] + "..."
		}
		tickers := strings.Join(a.Tickers, ",")
		if len(tickers) > 12 {
			tickers = tickers[:9] + "..."
		}

		fmt.Fprintf(os.Stdout, "%-16s  %-11s  %-8s  %-10s  %-12s  %s\n",
			a.PublishedAt.Local().Format("2006-01-02 15:04"),
			cls.Channel, cls.Priority, a.Source, tickers, title)
	}

	fmt.Fprintf(os.Stdout, "\n%d articles\n", len(articles))
	return nil
}

func init() {
	newsCmd.Flags().String("ticker", "", "restrict the feed to one symbol")
	newsCmd.Flags().Duration("window", 2*time.Hour, "how far back to fetch")
	newsCmd.Flags().Int("limit", 0, "maximum articles (0 = config default)")
	newsCmd.Flags().Bool("json", false, "output articles as JSON")

	rootCmd.AddCommand(newsCmd)
}
