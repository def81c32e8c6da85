package neta

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"nihonneta/internal/services/llm"
	"nihonneta/internal/source"
)

// Service runs the fetch → transform pipeline for one request.
type Service struct {
	source source.Source
	llm    llm.Client
}

func NewService(src source.Source, client llm.Client) *Service {
	return &Service{
		source: src,
		llm:    client,
	}
}

// Guide fetches a batch of news items for the given category selector and
// transforms each into a Neta. It always returns a Debug alongside the
// records; a degraded upstream shows up there, never as a hard error.
func (s *Service) Guide(ctx context.Context, category string) ([]Neta, Debug) {
	items, note := s.source.Fetch(ctx, category)

	netas, summary := s.Transform(ctx, items)

	return netas, Debug{
		News:      note,
		Transform: summary,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// Transform runs the prompt → completion → parse pipeline for every item
// concurrently. One item's failure never aborts the batch: failures are
// folded into the summary and the remaining records are returned in the
// original fetch order. All items failing is a successful zero-yield batch.
func (s *Service) Transform(ctx context.Context, items []source.Item) ([]Neta, string) {
	if len(items) == 0 {
		return []Neta{}, "no items to process"
	}

	type outcome struct {
		neta Neta
		err  error
	}

	// Each goroutine writes only its own slot, so no locking is needed.
	outcomes := make([]outcome, len(items))

	g, ctx := errgroup.WithContext(ctx)
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			n, err := s.transformOne(ctx, item)
			outcomes[i] = outcome{neta: n, err: err}
			return nil
		})
	}
	// Goroutines record failures in their slot and never return an error.
	_ = g.Wait()

	netas := make([]Neta, 0, len(items))
	var failures []string
	for i, o := range outcomes {
		if o.err != nil {
			log.Warn().Err(o.err).Str("item_id", items[i].ID).Msg("Item transform failed")
			failures = append(failures, o.err.Error())
			continue
		}
		netas = append(netas, o.neta)
	}

	summary := fmt.Sprintf("%d/%d processed", len(netas), len(items))
	if len(failures) > 0 {
		summary += "; errors: " + strings.Join(failures, "; ")
	}
	return netas, summary
}

func (s *Service) transformOne(ctx context.Context, item source.Item) (Neta, error) {
	prompt := BuildPrompt(item)

	text, err := s.llm.Complete(ctx, prompt)
	if err != nil {
		return Neta{}, fmt.Errorf("item %s: %w", item.ID, err)
	}

	return Parse(item, text)
}
