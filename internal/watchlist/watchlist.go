// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package watchlist manages the on-disk list of tracked tickers. The list
// drives which symbols the monitor daemon polls and which keywords matter
// per symbol, and it survives restarts as a YAML file the user can edit.
package watchlist

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"
)

// Watchlist is the on-disk representation of tracked tickers.
type Watchlist struct {
	// UpdatedAt records the last programmatic save; hand edits leave it stale.
	UpdatedAt time.Time `yaml:"updated_at,omitempty"`
	Entries   []Entry   `yaml:"entries"`
}

// Entry is one tracked symbol with its optional alert keywords.
type Entry struct {
	Ticker   string   `yaml:"ticker"`
	Keywords []string `yaml:"keywords,omitempty"`
	Note     string   `yaml:"note,omitempty"`
}

// Load reads the watchlist from path. A missing file is not an error; it
// returns an empty watchlist so a fresh install starts clean.
func Load(path string) (*Watchlist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Watchlist{}, nil
		}
		return nil, fmt.Errorf("reading watchlist %s: %w", path, err)
	}

	var wl Watchlist
	if err := yaml.Unmarshal(data, &wl); err != nil {
		return nil, fmt.Errorf("parsing watchlist %s: %w", path, err)
	}

	for i := range wl.Entries {
		wl.Entries[i].Ticker = normalizeTicker(wl.Entries[i].Ticker)
	}
	return &wl, nil
}

// Save writes the watchlist to path, creating parent directories as needed.
func (wl *Watchlist) Save(path string) error {
	wl.UpdatedAt = time.Now().UTC()

	data, err := yaml.Marshal(wl)
	if err != nil {
		return fmt.Errorf("encoding watchlist: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating watchlist directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing watchlist %s: %w", path, err)
	}
	return nil
}

// Add inserts a ticker, merging keywords when the ticker is already present.
// Returns true when the ticker was new.
func (wl *Watchlist) Add(ticker string, keywords ...string) bool {
	ticker = normalizeTicker(ticker)
	for i := range wl.Entries {
		if wl.Entries[i].Ticker == ticker {
			wl.Entries[i].Keywords = mergeKeywords(wl.Entries[i].Keywords, keywords)
			return false
		}
	}
	wl.Entries = append(wl.Entries, Entry{Ticker: ticker, Keywords: mergeKeywords(nil, keywords)})
	sort.Slice(wl.Entries, func(i, j int) bool { return wl.Entries[i].Ticker < wl.Entries[j].Ticker })
	return true
}

// Remove drops a ticker. Returns true when the ticker was present.
func (wl *Watchlist) Remove(ticker string) bool {
	ticker = normalizeTicker(ticker)
	for i := range wl.Entries {
		if wl.Entries[i].Ticker == ticker {
			wl.Entries = append(wl.Entries[:i], wl.Entries[i+1:]...)
			return true
		}
	}
	return false
}

// Contains reports whether the ticker is tracked.
func (wl *Watchlist) Contains(ticker string) bool {
	ticker = normalizeTicker(ticker)
	for _, e := range wl.Entries {
		if e.Ticker == ticker {
			return true
		}
	}
	return false
}

// Tickers returns the tracked symbols in sorted order.
func (wl *Watchlist) Tickers() []string {
	out := make([]string, 0, len(wl.Entries))
	for _, e := range wl.Entries {
		out = append(out, e.Ticker)
	}
	sort.Strings(out)
	return out
}

// Keywords returns the alert keywords for a ticker, nil when untracked or unset.
func (wl *Watchlist) Keywords(ticker string) []string {
	ticker = normalizeTicker(ticker)
	for _, e := range wl.Entries {
		if e.Ticker == ticker {
			return e.Keywords
		}
	}
	return nil
}

func normalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

func mergeKeywords(existing, added []string) []string {
	seen := make(map[string]bool, len(existing))
	out := existing
	for _, kw := range existing {
		seen[strings.ToLower(kw)] = true
	}
	for _, kw := range added {
		kw = strings.TrimSpace(kw)
		if kw == "" || seen[strings.ToLower(kw)] {
			continue
		}
		seen[strings.ToLower(kw)] = true
		out = append(out, kw)
	}
	return out
}
