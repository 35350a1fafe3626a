// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pdiddy/news-engine/internal/httputil"
	"github.com/pdiddy/news-engine/pkg/types"
)

// Discord embed colors per priority, decimal RGB.
var discordColors = map[types.Priority]int{
	types.PriorityCritical: 0xE74C3C, // red
	types.PriorityHigh:     0xE67E22, // orange
	types.PriorityMedium:   0x3498DB, // blue
	types.PriorityLow:      0x95A5A6, // gray
}

const discordMaxDescription = 2000

// DiscordNotifier posts alerts to a Discord webhook as rich embeds.
type DiscordNotifier struct {
	client     *http.Client
	webhookURL string
}

// NewDiscord builds a Discord notifier. Returns nil when the webhook URL is
// empty so callers can pass the result straight to NewMulti.
func NewDiscord(cfg types.NotifyConfig) *DiscordNotifier {
	if cfg.DiscordWebhookURL == "" {
		return nil
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &DiscordNotifier{
		client:     &http.Client{Timeout: timeout},
		webhookURL: cfg.DiscordWebhookURL,
	}
}

// Name implements Notifier.
func (d *DiscordNotifier) Name() string { return "discord" }

type discordPayload struct {
	Embeds []discordEmbed `json:"embeds"`
}

type discordEmbed struct {
	Title       string              `json:"title"`
	Description string              `json:"description,omitempty"`
	URL         string              `json:"url,omitempty"`
	Color       int                 `json:"color"`
	Timestamp   string              `json:"timestamp,omitempty"`
	Footer      *discordEmbedFooter `json:"footer,omitempty"`
}

type discordEmbedFooter struct {
	Text string `json:"text"`
}

// Send implements Notifier. Discord rate-limits webhooks with 429s, so the
// post goes through the shared retry helper.
func (d *DiscordNotifier) Send(ctx context.Context, alert Alert) error {
	desc := alert.Article.Teaser
	if len(desc) > discordMaxDescription {
		desc = desc[:discordMaxDescription]
	}

	embed := discordEmbed{
		Title:       alert.Title(),
		Description: desc,
		URL:         alert.Article.URL,
		Color:       discordColors[alert.Classification.Priority],
		Footer:      &discordEmbedFooter{Text: fmt.Sprintf("%s via %s", alert.Monitor, alert.Article.Source)},
	}
	if !alert.Article.PublishedAt.IsZero() {
		embed.Timestamp = alert.Article.PublishedAt.UTC().Format(time.RFC3339)
	}

	body, err := json.Marshal(discordPayload{Embeds: []discordEmbed{embed}})
	if err != nil {
		return fmt.Errorf("encoding discord payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building discord request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httputil.DoWithRetry(ctx, d.client, req, 0)
	if err != nil {
		return fmt.Errorf("posting to discord: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	// Discord returns 204 on success; anything outside 2xx is a failure.
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("discord webhook returned status %d", resp.StatusCode)
	}
	return nil
}
