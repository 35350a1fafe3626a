package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/news-engine/internal/feed"
)

var searchCmd = &cobra.Command{
	Use:   "search [keywords...]",
	Short: "Search the news feed by keywords",
	Long: `Search fetches recent articles from every enabled provider and keeps the
ones matching any of the given keywords (case-insensitive, against title,
teaser, and tags). Results are deduplicated across providers.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	window, _ := cmd.Flags().GetDuration("window")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	keywords := make([]string, 0, len(args))
	for _, arg := range args {
		for _, kw := range strings.Split(arg, ",") {
			if kw = strings.TrimSpace(kw); kw != "" {
				keywords = append(keywords, kw)
			}
		}
	}
	if len(keywords) == 0 {
		return fmt.Errorf("no keywords given")
	}

	cfg := loadConfig()
	engine, err := feed.NewEngine(cfg.Feed, os.Stderr)
	if err != nil {
		return err
	}

	articles, err := engine.SearchWithKeywords(context.Background(), keywords, window)
	if err != nil {
		return err
	}

	// The engine leaves search results unordered; sort for display.
	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].PublishedAt.After(articles[j].PublishedAt)
	})

	return formatArticles(engine, articles, jsonOutput)
}

func init() {
	searchCmd.Flags().Duration("window", 6*time.Hour, "how far back to search")
	searchCmd.Flags().Bool("json", false, "output articles as JSON")

	rootCmd.AddCommand(searchCmd)
}
