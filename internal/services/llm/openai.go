package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/rs/zerolog/log"
)

type OpenAIClient struct {
	client  openai.Client
	model   string
	timeout time.Duration
}

// NewOpenAIClient creates a client for the OpenAI chat completions API.
// Extra request options (e.g. option.WithBaseURL) are passed through to
// the underlying SDK client. Retries are disabled: every completion is
// exactly one attempt.
func NewOpenAIClient(apiKey, model string, timeout time.Duration, opts ...option.RequestOption) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientOpts := append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}, opts...)
	client := openai.NewClient(clientOpts...)

	if model == "" {
		model = "gpt-4o-mini"
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &OpenAIClient{
		client:  client,
		model:   model,
		timeout: timeout,
	}, nil
}

// Complete submits a single chat completion request. One slow or failed
// call must not stall the whole batch, so every call carries its own
// deadline; there are no retries.
func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", &ProviderError{Provider: "openai", Err: err}
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", &ProviderError{Provider: "openai", Err: errors.New("completion contained no text")}
	}

	log.Debug().
		Str("model", c.model).
		Dur("duration", time.Since(start)).
		Msg("Completion finished")

	return resp.Choices[0].Message.Content, nil
}
