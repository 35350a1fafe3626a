package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/news-engine/internal/watchlist"
)

var watchlistCmd = &cobra.Command{
	Use:   "watchlist",
	Short: "Manage the tracked-ticker watchlist",
	Long: `Watchlist edits the YAML file of tracked symbols. Each entry can carry
alert keywords used by keyword monitors.`,
}

var watchlistListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked tickers",
	RunE: func(cmd *cobra.Command, args []string) error {
		wl, err := watchlist.Load(loadConfig().Watchlist.Path)
		if err != nil {
			return err
		}
		if len(wl.Entries) == 0 {
			fmt.Println("Watchlist is empty.")
			return nil
		}
		for _, e := range wl.Entries {
			if len(e.Keywords) > 0 {
				fmt.Printf("%-8s %s\n", e.Ticker, strings.Join(e.Keywords, ", "))
			} else {
				fmt.Println(e.Ticker)
			}
		}
		return nil
	},
}

var watchlistAddCmd = &cobra.Command{
	Use:   "add <ticker>",
	Short: "Add a ticker (repeat to merge more keywords)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		keywords, _ := cmd.Flags().GetStringSlice("keyword")

		path := loadConfig().Watchlist.Path
		wl, err := watchlist.Load(path)
		if err != nil {
			return err
		}

		if wl.Add(args[0], keywords...) {
			fmt.Printf("Added %s\n", strings.ToUpper(args[0]))
		} else {
			fmt.Printf("Updated %s\n", strings.ToUpper(args[0]))
		}
		return wl.Save(path)
	},
}

var watchlistRemoveCmd = &cobra.Command{
	Use:   "remove <ticker>",
	Short: "Remove a ticker",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := loadConfig().Watchlist.Path
		wl, err := watchlist.Load(path)
		if err != nil {
			return err
		}

		if !wl.Remove(args[0]) {
			return fmt.Errorf("%s is not on the watchlist", strings.ToUpper(args[0]))
		}
		fmt.Printf("Removed %s\n", strings.ToUpper(args[0]))
		return wl.Save(path)
	},
}

func init() {
	watchlistAddCmd.Flags().StringSlice("keyword", nil, "alert keyword for this ticker (repeatable)")

	watchlistCmd.AddCommand(watchlistListCmd)
	watchlistCmd.AddCommand(watchlistAddCmd)
	watchlistCmd.AddCommand(watchlistRemoveCmd)

	rootCmd.AddCommand(watchlistCmd)
}
