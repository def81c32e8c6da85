package source

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"
)

// Item is the source-neutral shape of one fetched news entry.
type Item struct {
	ID          string
	Title       string
	Snippet     string
	Link        string
	PublishedAt string
	Categories  []string
}

// Source normalizes an upstream news provider into a capped batch of items.
// Fetch never fails hard: any upstream error is converted into an empty item
// list plus a note describing what happened, so a degraded news source still
// yields a well-formed (if empty) response downstream.
type Source interface {
	Fetch(ctx context.Context, category string) (items []Item, note string)
}

// fallbackID fills in an identifier when the upstream provides none.
// Prefers the canonical link so repeated fetches stay stable.
func fallbackID(link string) string {
	if link != "" {
		return link
	}
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// normalizeTime parses an upstream timestamp in any of the given layouts and
// re-renders it as RFC3339. Unparsable or missing timestamps fall back to now.
func normalizeTime(raw string, layouts ...string) string {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC().Format(time.RFC3339)
		}
	}
	return time.Now().UTC().Format(time.RFC3339)
}

func capItems(items []Item, limit int) []Item {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
