package llm

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ai-agents-2030/AppAgent/internal/config"
)

// NewClient builds the client selected by cfg.Provider, rate limited when
// cfg.RequestsPerMinute is set.
func NewClient(cfg config.ModelConfig, logger *zap.Logger) (Client, error) {
	var c Client
	switch cfg.Provider {
	case config.ProviderOpenAI:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("openai api key is required (model.api_key or OPENAI_API_KEY)")
		}
		c = NewOpenAIClient(OpenAIOptions{
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Name,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
			Timeout:     cfg.Timeout,
			MaxSide:     cfg.MaxImageSide,
		}, logger)
	case config.ProviderQwen:
		if cfg.Qwen.APIKey == "" {
			return nil, fmt.Errorf("dashscope api key is required (model.qwen.api_key or DASHSCOPE_API_KEY)")
		}
		c = NewDashScopeClient(OpenAIOptions{
			APIKey:      cfg.Qwen.APIKey,
			BaseURL:     cfg.Qwen.BaseURL,
			Model:       cfg.Qwen.Name,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
			Timeout:     cfg.Timeout,
			MaxSide:     cfg.MaxImageSide,
		}, logger)
	default:
		return nil, fmt.Errorf("unknown or unsupported model provider: '%s'. Supported: [%s, %s]",
			cfg.Provider, config.ProviderOpenAI, config.ProviderQwen)
	}
	return NewRateLimited(c, cfg.RequestsPerMinute), nil
}
