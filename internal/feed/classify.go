// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package feed

import (
	"strings"

	"github.com/pdiddy/news-engine/pkg/types"
)

// Keyword tiers for the routing cascade, evaluated in order. First match
// wins: an article mentioning both FOMC and OpenAI routes as critical macro
// news, not AI-sector news.

// criticalKeywords covers central-bank policy, trade policy, macro data
// releases, and market-wide halt events.
var criticalKeywords = []string{
	"fed ", "fomc", "federal reserve", "powell", "jerome powell",
	"interest rate decision", "rate cut", "rate hike",
	"tariff", "trade war", "china tariff",
	"cpi ", "inflation data", "jobs report", "unemployment",
	"gdp ", "pce ", "economic data",
	"market halt", "circuit breaker", "trading halt",
}

// corporateKeywords covers M&A activity and analyst actions. A match alone
// is not enough: the article must also carry a magnitude qualifier, or it
// falls through to the later tiers.
var corporateKeywords = []string{
	"acquires", "acquisition", "merger", "takeover",
	"buyout", "deal worth", "billion deal",
	"price target", "downgrade", "upgrade",
}

// targetVerbs are the explicit analyst actions that qualify a price-target
// mention as high impact.
var targetVerbs = []string{"raises", "lowers", "cuts"}

// magnitudeTokens mark billion-dollar deal sizes.
var magnitudeTokens = []string{"billion", "$1b", "$ 1b"}

// aiKeywords covers named AI organizations, products, and technologies.
// This tier also matches against the article's tag list.
var aiKeywords = []string{
	"openai", "chatgpt", "gpt-4", "gpt-5", "sam altman",
	"anthropic", "claude", "ai model", "llm ",
	"artificial intelligence", "machine learning",
	"ai chip", "ai infrastructure",
}

// Classify maps an article to its routing channel and priority via the
// ordered keyword cascade. It is total and deterministic: any article,
// including one matching nothing, returns exactly one of the four non-skip
// classifications.
func Classify(a types.Article) types.Classification {
	text := strings.ToLower(a.Title + " " + a.Teaser)

	tags := make([]string, len(a.Tags))
	for i, t := range a.Tags {
		tags[i] = strings.ToLower(t)
	}

	// Tier 1: macro and systemic events.
	if containsAny(text, criticalKeywords) {
		return types.Classification{Channel: types.ChannelCritical, Priority: types.PriorityCritical}
	}

	// Tier 2: corporate actions, gated on magnitude. A plain "price target"
	// mention without an analyst verb or deal size falls through.
	if containsAny(text, corporateKeywords) {
		if strings.Contains(text, "price target") && containsAny(text, targetVerbs) {
			return types.Classification{Channel: types.ChannelHighImpact, Priority: types.PriorityHigh}
		}
		if containsAny(text, magnitudeTokens) {
			return types.Classification{Channel: types.ChannelHighImpact, Priority: types.PriorityHigh}
		}
	}

	// Tier 3: AI-sector vocabulary, in the text or the tag list.
	for _, kw := range aiKeywords {
		if strings.Contains(text, kw) || containsTag(tags, kw) {
			return types.Classification{Channel: types.ChannelAISector, Priority: types.PriorityMedium}
		}
	}

	// Default: ticker-specific news; per-ticker monitors filter further.
	return types.Classification{Channel: types.ChannelWatchlist, Priority: types.PriorityMedium}
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func containsTag(lowerTags []string, kw string) bool {
	for _, t := range lowerTags {
		if t == kw {
			return true
		}
	}
	return false
}

// matchesKeywords reports whether any keyword appears, case-insensitively,
// in the article's title, teaser, or tag list. This is the same substring
// rule the classifier tiers use, applied by adapters that filter locally
// instead of searching provider-side.
func matchesKeywords(a types.Article, keywords []string) bool {
	title := strings.ToLower(a.Title)
	teaser := strings.ToLower(a.Teaser)

	for _, kw := range keywords {
		kl := strings.ToLower(kw)
		if kl == "" {
			continue
		}
		if strings.Contains(title, kl) || strings.Contains(teaser, kl) {
			return true
		}
		for _, t := range a.Tags {
			if strings.Contains(strings.ToLower(t), kl) {
				return true
			}
		}
	}
	return false
}
