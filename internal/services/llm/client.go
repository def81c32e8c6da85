package llm

import (
	"context"
	"fmt"
)

// Client is a minimal completion interface. Implementations submit one
// prompt and return the raw response text; they make exactly one attempt
// and must be safe for concurrent use.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ProviderError reports a failed completion call: transport failure,
// non-success status, or a response with no text payload.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
