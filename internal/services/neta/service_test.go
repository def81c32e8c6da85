package neta

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"nihonneta/internal/services/llm"
	"nihonneta/internal/source"
)

// fakeClient routes completions through a per-test function and counts calls.
type fakeClient struct {
	mu       sync.Mutex
	calls    int
	complete func(prompt string) (string, error)
}

func (f *fakeClient) Complete(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.complete(prompt)
}

func (f *fakeClient) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeSource struct {
	items []source.Item
	note  string
}

func (f *fakeSource) Fetch(ctx context.Context, category string) ([]source.Item, string) {
	return f.items, f.note
}

func batchItems(n int) []source.Item {
	titles := []string{
		"Shinkansen adds a new quiet car",
		"Convenience stores roll out spring menus",
		"Festival season opens in Kyoto",
		"Tokyo launches cashless bus pilot",
		"Ramen prices hit a record high",
	}
	items := make([]source.Item, n)
	for i := 0; i < n; i++ {
		items[i] = source.Item{
			ID:          titles[i%len(titles)] + "-id",
			Title:       titles[i%len(titles)],
			Snippet:     "snippet",
			Link:        "https://example.com/" + titles[i%len(titles)],
			PublishedAt: "2024-04-01T00:00:00Z",
		}
	}
	return items
}

func TestTransformAllSucceed(t *testing.T) {
	items := batchItems(3)
	client := &fakeClient{complete: func(prompt string) (string, error) {
		return `{"category":"society","difficulty":1}`, nil
	}}
	svc := NewService(&fakeSource{}, client)

	netas, summary := svc.Transform(context.Background(), items)

	if len(netas) != 3 {
		t.Fatalf("Expected 3 netas, got %d", len(netas))
	}
	if summary != "3/3 processed" {
		t.Errorf("Expected summary '3/3 processed', got %q", summary)
	}
	for i, n := range netas {
		if n.ID != items[i].ID {
			t.Errorf("Expected netas in fetch order, got %q at index %d", n.ID, i)
		}
	}
}

func TestTransformIdentifiersMatchInputExactlyOnce(t *testing.T) {
	items := batchItems(5)
	client := &fakeClient{complete: func(prompt string) (string, error) {
		return `{}`, nil
	}}
	svc := NewService(&fakeSource{}, client)

	netas, _ := svc.Transform(context.Background(), items)

	if len(netas) > len(items) {
		t.Fatalf("More netas (%d) than items (%d)", len(netas), len(items))
	}
	inputIDs := make(map[string]bool, len(items))
	for _, it := range items {
		inputIDs[it.ID] = true
	}
	seen := make(map[string]bool, len(netas))
	for _, n := range netas {
		if !inputIDs[n.ID] {
			t.Errorf("Neta has invented identifier %q", n.ID)
		}
		if seen[n.ID] {
			t.Errorf("Duplicate identifier %q", n.ID)
		}
		seen[n.ID] = true
	}
}

func TestTransformOneItemFails(t *testing.T) {
	items := batchItems(3)
	client := &fakeClient{complete: func(prompt string) (string, error) {
		if strings.Contains(prompt, items[1].Title) {
			return "", &llm.ProviderError{Provider: "openai", Err: errors.New("boom")}
		}
		return `{"category":"culture"}`, nil
	}}
	svc := NewService(&fakeSource{}, client)

	netas, summary := svc.Transform(context.Background(), items)

	if len(netas) != 2 {
		t.Fatalf("Expected 2 netas, got %d", len(netas))
	}
	if netas[0].ID != items[0].ID || netas[1].ID != items[2].ID {
		t.Errorf("Expected netas for items 1 and 3, got %q and %q", netas[0].ID, netas[1].ID)
	}
	if !strings.HasPrefix(summary, "2/3 processed") {
		t.Errorf("Expected summary to start '2/3 processed', got %q", summary)
	}
	if !strings.Contains(summary, "boom") {
		t.Errorf("Expected summary to carry the item error, got %q", summary)
	}
	if !strings.Contains(summary, items[1].ID) {
		t.Errorf("Expected summary to name the failed item, got %q", summary)
	}
}

func TestTransformMalformedResponseDropsItem(t *testing.T) {
	items := batchItems(2)
	client := &fakeClient{complete: func(prompt string) (string, error) {
		if strings.Contains(prompt, items[0].Title) {
			return "I'd rather write prose than JSON.", nil
		}
		return `{}`, nil
	}}
	svc := NewService(&fakeSource{}, client)

	netas, summary := svc.Transform(context.Background(), items)

	if len(netas) != 1 {
		t.Fatalf("Expected 1 neta, got %d", len(netas))
	}
	if netas[0].ID != items[1].ID {
		t.Errorf("Expected surviving neta for item 2, got %q", netas[0].ID)
	}
	if !strings.HasPrefix(summary, "1/2 processed") {
		t.Errorf("Expected summary to start '1/2 processed', got %q", summary)
	}
}

func TestTransformAllFailIsZeroYieldNotError(t *testing.T) {
	items := batchItems(3)
	client := &fakeClient{complete: func(prompt string) (string, error) {
		return "", &llm.ProviderError{Provider: "openai", Err: errors.New("quota exhausted")}
	}}
	svc := NewService(&fakeSource{}, client)

	netas, summary := svc.Transform(context.Background(), items)

	if len(netas) != 0 {
		t.Fatalf("Expected 0 netas, got %d", len(netas))
	}
	if !strings.HasPrefix(summary, "0/3 processed") {
		t.Errorf("Expected summary to start '0/3 processed', got %q", summary)
	}
	if strings.Count(summary, "quota exhausted") != 3 {
		t.Errorf("Expected every item error in the summary, got %q", summary)
	}
}

func TestTransformZeroItemsSkipsProvider(t *testing.T) {
	client := &fakeClient{complete: func(prompt string) (string, error) {
		return `{}`, nil
	}}
	svc := NewService(&fakeSource{}, client)

	netas, summary := svc.Transform(context.Background(), nil)

	if len(netas) != 0 {
		t.Fatalf("Expected 0 netas, got %d", len(netas))
	}
	if summary != "no items to process" {
		t.Errorf("Expected 'no items to process', got %q", summary)
	}
	if client.callCount() != 0 {
		t.Errorf("Expected no provider calls, got %d", client.callCount())
	}
}

func TestGuideAssemblesDebug(t *testing.T) {
	items := batchItems(2)
	src := &fakeSource{items: items, note: "newsdata: fetched 2 articles for category \"default\""}
	client := &fakeClient{complete: func(prompt string) (string, error) {
		return `{"category":"transport","difficulty":1}`, nil
	}}
	svc := NewService(src, client)

	netas, debug := svc.Guide(context.Background(), "")

	if len(netas) != 2 {
		t.Fatalf("Expected 2 netas, got %d", len(netas))
	}
	if debug.News != src.note {
		t.Errorf("Expected debug.News to carry the source note, got %q", debug.News)
	}
	if debug.Transform != "2/2 processed" {
		t.Errorf("Expected debug.Transform '2/2 processed', got %q", debug.Transform)
	}
	if debug.Timestamp == "" {
		t.Error("Expected debug.Timestamp to be set")
	}
}

func TestGuideSourceFailureSkipsProvider(t *testing.T) {
	src := &fakeSource{items: nil, note: "newsdata: unexpected status 500"}
	client := &fakeClient{complete: func(prompt string) (string, error) {
		return `{}`, nil
	}}
	svc := NewService(src, client)

	netas, debug := svc.Guide(context.Background(), "top")

	if len(netas) != 0 {
		t.Fatalf("Expected 0 netas, got %d", len(netas))
	}
	if !strings.Contains(debug.News, "500") {
		t.Errorf("Expected debug.News to carry the upstream status, got %q", debug.News)
	}
	if debug.Transform != "no items to process" {
		t.Errorf("Expected 'no items to process', got %q", debug.Transform)
	}
	if client.callCount() != 0 {
		t.Errorf("Expected no provider calls, got %d", client.callCount())
	}
}
