// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package feed

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/pdiddy/news-engine/pkg/types"
)

// flexString decodes a JSON value that some provider payloads send as a
// string and others as a number (article IDs in particular).
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*s = ""
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = flexString(str)
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*s = flexString(num.String())
	return nil
}

// parsePublished parses a provider timestamp, falling back to fallback when
// the field is empty or unparseable. Every article must carry a timestamp
// or the unified feed cannot order it.
func parsePublished(raw string, fallback time.Time) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05Z", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC()
		}
	}
	return fallback
}

// placeholderArticle stands in for a provider item that could not be
// decoded. The batch continues; the placeholder is visible downstream via
// its Malformed flag instead of aborting the fetch.
func placeholderArticle(source types.Source, fetchedAt time.Time) types.Article {
	return types.Article{
		Title:       "malformed " + string(source) + " article",
		Source:      source,
		PublishedAt: fetchedAt,
		Malformed:   true,
	}
}
