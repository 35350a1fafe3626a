// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/news-engine/internal/httputil"
	"github.com/pdiddy/news-engine/pkg/types"
)

// pushoverAPIBase is overridable in tests.
var pushoverAPIBase = "https://api.pushover.net/1/messages.json"

// Pushover message priorities. Emergency (2) requires retry/expire
// parameters and an acknowledgement flow, so critical alerts cap at high.
var pushoverPriorities = map[types.Priority]int{
	types.PriorityCritical: 1,
	types.PriorityHigh:     1,
	types.PriorityMedium:   0,
	types.PriorityLow:      -1,
}

const pushoverMaxMessage = 1024

// PushoverNotifier sends alerts through the Pushover message API.
type PushoverNotifier struct {
	client *http.Client
	token  string
	user   string
}

// NewPushover builds a Pushover notifier. Returns nil unless both the
// application token and user key are set.
func NewPushover(cfg types.NotifyConfig) *PushoverNotifier {
	if cfg.PushoverToken == "" || cfg.PushoverUser == "" {
		return nil
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &PushoverNotifier{
		client: &http.Client{Timeout: timeout},
		token:  cfg.PushoverToken,
		user:   cfg.PushoverUser,
	}
}

// Name implements Notifier.
func (p *PushoverNotifier) Name() string { return "pushover" }

// Send implements Notifier.
func (p *PushoverNotifier) Send(ctx context.Context, alert Alert) error {
	message := alert.Article.Teaser
	if message == "" {
		message = alert.Article.Title
	}
	if len(message) > pushoverMaxMessage {
		message = message[:pushoverMaxMessage]
	}

	form := url.Values{}
	form.Set("token", p.token)
	form.Set("user", p.user)
	form.Set("title", alert.Title())
	form.Set("message", message)
	form.Set("priority", strconv.Itoa(pushoverPriorities[alert.Classification.Priority]))
	if alert.Article.URL != "" {
		form.Set("url", alert.Article.URL)
		form.Set("url_title", "Read article")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, pushoverAPIBase,
		strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("building pushover request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := httputil.DoWithRetry(ctx, p.client, req, 0)
	if err != nil {
		return fmt.Errorf("posting to pushover: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("pushover API returned status %d", resp.StatusCode)
	}
	return nil
}
