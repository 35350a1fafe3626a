// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package feed

import (
	"container/list"
	"crypto/sha1" //nolint:gosec // non-cryptographic duplicate detection
	"encoding/hex"
	"sync"

	"github.com/pdiddy/news-engine/pkg/types"
)

// titlePrefixLen bounds the slice of the headline used for fingerprinting.
// Truncating absorbs trailing differences between providers (ellipses,
// appended update times) at the cost of a small false-positive risk for
// stories sharing a long identical headline prefix.
const titlePrefixLen = 100

// fingerprint returns the content identity key for a headline: a hash of
// its first titlePrefixLen bytes. This is a heuristic for alert-noise
// reduction, not a reliable story identity.
func fingerprint(title string) string {
	if len(title) > titlePrefixLen {
		title = title[:titlePrefixLen]
	}
	sum := sha1.Sum([]byte(title)) //nolint:gosec
	return hex.EncodeToString(sum[:])
}

// dedupeArticles removes duplicates within one merge pass, keeping the first
// occurrence per URL and per title fingerprint. URL identity catches exact
// syndication; the fingerprint catches the same headline carried under
// different URLs. Output preserves the relative order of kept articles.
// Returns the kept articles and the number removed.
func dedupeArticles(articles []types.Article) ([]types.Article, int) {
	seenURLs := make(map[string]struct{})
	seenPrints := make(map[string]struct{})

	kept := make([]types.Article, 0, len(articles))
	removed := 0

	for _, a := range articles {
		if a.URL != "" {
			if _, ok := seenURLs[a.URL]; ok {
				removed++
				continue
			}
		}

		print := fingerprint(a.Title)
		if _, ok := seenPrints[print]; ok {
			removed++
			continue
		}

		kept = append(kept, a)
		if a.URL != "" {
			seenURLs[a.URL] = struct{}{}
		}
		seenPrints[print] = struct{}{}
	}

	return kept, removed
}

// seenCache remembers article identity keys across fetch cycles so a
// long-lived consumer (the feed recorder) can tell fresh articles from
// re-fetched ones. Capacity is bounded: the oldest keys are evicted first,
// which keeps a long-running process from accumulating identity keys
// without limit. All methods are safe for concurrent use.
type seenCache struct {
	mu       sync.Mutex
	capacity int
	keys     map[string]*list.Element
	order    *list.List // front = oldest
}

func newSeenCache(capacity int) *seenCache {
	return &seenCache{
		capacity: capacity,
		keys:     make(map[string]*list.Element, capacity),
		order:    list.New(),
	}
}

// filterFresh returns the articles whose identity keys have not been seen
// by any earlier call, and records the keys of those it returns.
func (c *seenCache) filterFresh(articles []types.Article) []types.Article {
	c.mu.Lock()
	defer c.mu.Unlock()

	var fresh []types.Article
	for _, a := range articles {
		urlSeen := a.URL != "" && c.has(a.URL)
		printKey := "fp:" + fingerprint(a.Title)
		if urlSeen || c.has(printKey) {
			continue
		}

		fresh = append(fresh, a)
		if a.URL != "" {
			c.add(a.URL)
		}
		c.add(printKey)
	}
	return fresh
}

// reset clears the cache, e.g. after a configuration reload.
func (c *seenCache) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.keys = make(map[string]*list.Element, c.capacity)
	c.order.Init()
}

func (c *seenCache) has(key string) bool {
	_, ok := c.keys[key]
	return ok
}

func (c *seenCache) add(key string) {
	if _, ok := c.keys[key]; ok {
		return
	}
	c.keys[key] = c.order.PushBack(key)

	for c.order.Len() > c.capacity {
		oldest := c.order.Front()
		c.order.Remove(oldest)
		delete(c.keys, oldest.Value.(string))
	}
}
