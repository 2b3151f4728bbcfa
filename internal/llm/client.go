// Package llm sends prompts with screenshots to a multimodal model and
// returns its text reply together with token usage.
package llm

import (
	"context"
	"errors"
)

// Client is a multimodal model endpoint.
type Client interface {
	// Infer sends prompt and the images at the given local paths and returns
	// the model's reply. Calls are not retried.
	Infer(ctx context.Context, prompt string, images []string) (Reply, error)
}

// Reply is one model response.
type Reply struct {
	Text             string
	PromptTokens     int
	CompletionTokens int
}

// ErrEmptyReply is returned when the endpoint answers without any choice.
var ErrEmptyReply = errors.New("model returned no choices")
