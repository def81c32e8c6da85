package source

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/rs/zerolog/log"

	"nihonneta/internal/config"
)

// rssFeeds maps request selectors to feed URLs. Unknown selectors fall back
// to the default feed.
var rssFeeds = map[string]string{
	"top":           "https://www.japantimes.co.jp/feed/",
	"culture":       "https://www.japantimes.co.jp/culture/feed/",
	"food":          "https://www.japantimes.co.jp/life/food-drink/feed/",
	"entertainment": "https://www.japantimes.co.jp/culture/feed/",
	"business":      "https://www.japantimes.co.jp/business/feed/",
	"sports":        "https://www.japantimes.co.jp/sports/feed/",
}

const defaultRSSFeed = "https://www.japantimes.co.jp/feed/"

// RSSSource fetches articles from an RSS/Atom feed chosen by category.
type RSSSource struct {
	cfg    config.NewsConfig
	parser *gofeed.Parser
	feeds  map[string]string
}

func NewRSSSource(cfg config.NewsConfig) *RSSSource {
	return &RSSSource{
		cfg:    cfg,
		parser: gofeed.NewParser(),
		feeds:  rssFeeds,
	}
}

func (s *RSSSource) Fetch(ctx context.Context, category string) ([]Item, string) {
	feedURL, ok := s.feeds[category]
	if !ok {
		if fallback, ok := s.feeds[""]; ok {
			feedURL = fallback
		} else {
			feedURL = defaultRSSFeed
		}
	}
	return s.fetchFrom(ctx, feedURL, category)
}

func (s *RSSSource) fetchFrom(ctx context.Context, feedURL, category string) ([]Item, string) {
	feed, err := s.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		log.Error().Err(err).Str("feed", feedURL).Msg("RSS fetch failed")
		return nil, fmt.Sprintf("rss: failed to fetch feed %s: %v", feedURL, err)
	}

	if len(feed.Items) == 0 {
		return nil, fmt.Sprintf("rss: feed %q has no items", feed.Title)
	}

	items := make([]Item, 0, len(feed.Items))
	for _, entry := range feed.Items {
		if entry.Title == "" || entry.Link == "" {
			continue
		}
		id := entry.GUID
		if id == "" {
			id = fallbackID(entry.Link)
		}
		published := time.Now().UTC().Format(time.RFC3339)
		if entry.PublishedParsed != nil {
			published = entry.PublishedParsed.UTC().Format(time.RFC3339)
		}
		items = append(items, Item{
			ID:          id,
			Title:       entry.Title,
			Snippet:     strings.TrimSpace(entry.Description),
			Link:        entry.Link,
			PublishedAt: published,
			Categories:  entry.Categories,
		})
	}
	items = capItems(items, s.cfg.BatchSize)

	return items, fmt.Sprintf("rss: fetched %d items from %q for category %q", len(items), feed.Title, selectorLabel(category))
}
