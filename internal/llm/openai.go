package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.uber.org/zap"
)

// OpenAIClient talks to any OpenAI-compatible chat completions endpoint.
type OpenAIClient struct {
	client      openai.Client
	name        string
	model       string
	temperature float64
	maxTokens   int
	maxSide     int
	logger      *zap.Logger
}

// OpenAIOptions configures an OpenAIClient.
type OpenAIOptions struct {
	Name        string // provider label used in logs and errors
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
	MaxSide     int // downscale images so neither side exceeds this; 0 keeps them
}

// NewOpenAIClient builds a client. SDK retries are disabled.
func NewOpenAIClient(opts OpenAIOptions, logger *zap.Logger) *OpenAIClient {
	reqOpts := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		option.WithMaxRetries(0),
	}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	if opts.Timeout > 0 {
		reqOpts = append(reqOpts, option.WithRequestTimeout(opts.Timeout))
	}
	name := opts.Name
	if name == "" {
		name = "openai"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OpenAIClient{
		client:      openai.NewClient(reqOpts...),
		name:        name,
		model:       opts.Model,
		temperature: opts.Temperature,
		maxTokens:   opts.MaxTokens,
		maxSide:     opts.MaxSide,
		logger:      logger.Named("llm." + name),
	}
}

// Name returns the provider label.
func (c *OpenAIClient) Name() string { return c.name }

// Infer sends one user message holding the prompt followed by every image.
func (c *OpenAIClient) Infer(ctx context.Context, prompt string, images []string) (Reply, error) {
	parts := []openai.ChatCompletionContentPartUnionParam{openai.TextContentPart(prompt)}
	for _, path := range images {
		url, err := EncodeImage(path, c.maxSide)
		if err != nil {
			return Reply{}, err
		}
		parts = append(parts, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{URL: url}))
	}

	params := openai.ChatCompletionNewParams{
		Model:       c.model,
		Messages:    []openai.ChatCompletionMessageParamUnion{openai.UserMessage(parts)},
		Temperature: openai.Float(c.temperature),
	}
	if c.maxTokens > 0 {
		params.MaxTokens = openai.Int(int64(c.maxTokens))
	}

	start := time.Now()
	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return Reply{}, fmt.Errorf("%s request failed: %w", c.name, err)
	}
	if len(resp.Choices) == 0 {
		return Reply{}, fmt.Errorf("%s: %w", c.name, ErrEmptyReply)
	}

	reply := Reply{
		Text:             resp.Choices[0].Message.Content,
		PromptTokens:     int(resp.Usage.PromptTokens),
		CompletionTokens: int(resp.Usage.CompletionTokens),
	}
	if reply.PromptTokens == 0 && reply.CompletionTokens == 0 {
		reply.PromptTokens = CountTokens(prompt)
		reply.CompletionTokens = CountTokens(reply.Text)
	}
	c.logger.Debug("inference complete",
		zap.String("model", c.model),
		zap.Duration("duration", time.Since(start)),
		zap.Int("prompt_tokens", reply.PromptTokens),
		zap.Int("completion_tokens", reply.CompletionTokens))
	return reply, nil
}
