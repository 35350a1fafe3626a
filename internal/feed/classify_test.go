package feed

import (
	"testing"

	"github.com/pdiddy/news-engine/pkg/types"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		article types.Article
		want    types.Classification
	}{
		{
			name:    "fed decision is critical",
			article: types.Article{Title: "FOMC holds rates steady"},
			want:    types.Classification{Channel: types.ChannelCritical, Priority: types.PriorityCritical},
		},
		{
			name:    "tariff news is critical",
			article: types.Article{Title: "New tariff round announced on imports"},
			want:    types.Classification{Channel: types.ChannelCritical, Priority: types.PriorityCritical},
		},
		{
			name:    "trading halt is critical",
			article: types.Article{Title: "Exchange declares trading halt after circuit breaker"},
			want:    types.Classification{Channel: types.ChannelCritical, Priority: types.PriorityCritical},
		},
		{
			name:    "critical beats ai tier",
			article: types.Article{Title: "FOMC minutes mention OpenAI boom"},
			want:    types.Classification{Channel: types.ChannelCritical, Priority: types.PriorityCritical},
		},
		{
			name:    "price target with verb is high impact",
			article: types.Article{Title: "Analyst raises price target on XYZ to $300"},
			want:    types.Classification{Channel: types.ChannelHighImpact, Priority: types.PriorityHigh},
		},
		{
			name:    "billion dollar acquisition is high impact",
			article: types.Article{Title: "MegaCorp acquisition values startup at $4 billion"},
			want:    types.Classification{Channel: types.ChannelHighImpact, Priority: types.PriorityHigh},
		},
		{
			name: "merger without magnitude falls through to ai tier",
			article: types.Article{
				Title:  "Merger talks continue",
				Teaser: "The ChatGPT maker is reportedly involved",
			},
			want: types.Classification{Channel: types.ChannelAISector, Priority: types.PriorityMedium},
		},
		{
			name:    "plain price target mention falls through to default",
			article: types.Article{Title: "Firm reiterates price target on ABC"},
			want:    types.Classification{Channel: types.ChannelWatchlist, Priority: types.PriorityMedium},
		},
		{
			name:    "ai keyword in text",
			article: types.Article{Title: "Anthropic ships new model"},
			want:    types.Classification{Channel: types.ChannelAISector, Priority: types.PriorityMedium},
		},
		{
			name:    "ai keyword in tags only",
			article: types.Article{Title: "Chipmaker earnings beat", Tags: []string{"OpenAI"}},
			want:    types.Classification{Channel: types.ChannelAISector, Priority: types.PriorityMedium},
		},
		{
			name:    "no tier matched falls to watchlist",
			article: types.Article{Title: "XYZ Corp reports quarterly update"},
			want:    types.Classification{Channel: types.ChannelWatchlist, Priority: types.PriorityMedium},
		},
		{
			name:    "empty article still classifies",
			article: types.Article{},
			want:    types.Classification{Channel: types.ChannelWatchlist, Priority: types.PriorityMedium},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.article)
			if got != tt.want {
				t.Errorf("Classify() = %+v, want %+v", got, tt.want)
			}
			// Deterministic: a second call agrees.
			if again := Classify(tt.article); again != got {
				t.Errorf("Classify() not deterministic: %+v then %+v", got, again)
			}
		})
	}
}

func TestClassifyNeverSkips(t *testing.T) {
	valid := map[types.Channel]bool{
		types.ChannelCritical:   true,
		types.ChannelHighImpact: true,
		types.ChannelAISector:   true,
		types.ChannelWatchlist:  true,
	}

	articles := []types.Article{
		{},
		{Title: "FOMC"},
		{Title: "zzz", Teaser: "zzz", Tags: []string{"zzz"}},
	}
	for _, a := range articles {
		if got := Classify(a); !valid[got.Channel] {
			t.Errorf("Classify(%q) returned channel %q, outside the four-tier output space", a.Title, got.Channel)
		}
	}
}

func TestMatchesKeywords(t *testing.T) {
	article := types.Article{
		Title:  "Chipmaker posts record revenue",
		Teaser: "Data center demand keeps climbing",
		Tags:   []string{"Semiconductors", "AI"},
	}

	tests := []struct {
		name     string
		keywords []string
		want     bool
	}{
		{"title substring", []string{"chipmaker"}, true},
		{"teaser substring", []string{"data center"}, true},
		{"tag substring", []string{"semiconductor"}, true},
		{"or across keywords", []string{"nomatch", "revenue"}, true},
		{"case insensitive", []string{"CHIPMAKER"}, true},
		{"no match", []string{"zzzznonexistentkeyword"}, false},
		{"empty keyword ignored", []string{""}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := matchesKeywords(article, tt.keywords); got != tt.want {
				t.Errorf("matchesKeywords(%v) = %v, want %v", tt.keywords, got, tt.want)
			}
		})
	}
}
