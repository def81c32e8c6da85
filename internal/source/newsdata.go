package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	"nihonneta/internal/config"
)

const newsDataEndpoint = "https://newsdata.io/api/1/news"

// newsDataCategories maps request selectors to NewsData.io category values.
// Unknown selectors fall back to the default query (no category filter).
var newsDataCategories = map[string]string{
	"top":           "top",
	"food":          "food",
	"lifestyle":     "lifestyle",
	"entertainment": "entertainment",
	"tourism":       "tourism",
	"business":      "business",
	"sports":        "sports",
}

// NewsDataSource fetches articles from the NewsData.io REST API.
type NewsDataSource struct {
	cfg      config.NewsConfig
	endpoint string
	client   *http.Client
}

func NewNewsDataSource(cfg config.NewsConfig) *NewsDataSource {
	return &NewsDataSource{
		cfg:      cfg,
		endpoint: newsDataEndpoint,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

type newsDataArticle struct {
	ArticleID   string   `json:"article_id"`
	Title       string   `json:"title"`
	Link        string   `json:"link"`
	Description string   `json:"description"`
	PubDate     string   `json:"pubDate"`
	Category    []string `json:"category"`
}

type newsDataEnvelope struct {
	Status  string            `json:"status"`
	Results []newsDataArticle `json:"results"`
}

func (s *NewsDataSource) Fetch(ctx context.Context, category string) ([]Item, string) {
	reqURL := s.buildURL(category)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Sprintf("newsdata: failed to build request: %v", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		log.Error().Err(err).Msg("NewsData request failed")
		return nil, fmt.Sprintf("newsdata: request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warn().Int("status", resp.StatusCode).Msg("NewsData returned non-OK status")
		return nil, fmt.Sprintf("newsdata: unexpected status %d", resp.StatusCode)
	}

	var envelope newsDataEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Sprintf("newsdata: failed to decode response: %v", err)
	}

	if len(envelope.Results) == 0 {
		return nil, fmt.Sprintf("newsdata: no articles for category %q", selectorLabel(category))
	}

	items := make([]Item, 0, len(envelope.Results))
	for _, a := range envelope.Results {
		if a.Title == "" || a.Link == "" {
			continue
		}
		id := a.ArticleID
		if id == "" {
			id = fallbackID(a.Link)
		}
		items = append(items, Item{
			ID:          id,
			Title:       a.Title,
			Snippet:     a.Description,
			Link:        a.Link,
			PublishedAt: normalizeTime(a.PubDate, "2006-01-02 15:04:05", time.RFC3339),
			Categories:  a.Category,
		})
	}
	items = capItems(items, s.cfg.BatchSize)

	return items, fmt.Sprintf("newsdata: fetched %d articles for category %q", len(items), selectorLabel(category))
}

func (s *NewsDataSource) buildURL(category string) string {
	params := url.Values{}
	params.Set("apikey", s.cfg.APIKey)
	params.Set("country", s.cfg.Country)
	params.Set("language", s.cfg.Language)
	params.Set("size", fmt.Sprintf("%d", s.cfg.BatchSize))
	if mapped, ok := newsDataCategories[category]; ok {
		params.Set("category", mapped)
	}
	return s.endpoint + "?" + params.Encode()
}

func selectorLabel(category string) string {
	if category == "" {
		return "default"
	}
	return category
}
