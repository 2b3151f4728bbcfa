package llm

import "go.uber.org/zap"

const (
	dashscopeDefaultBase  = "https://dashscope.aliyuncs.com/compatible-mode/v1"
	dashscopeDefaultModel = "qwen-vl-max"
)

// DashScopeClient serves Qwen vision models through DashScope's
// OpenAI-compatible mode.
type DashScopeClient struct {
	*OpenAIClient
}

// NewDashScopeClient fills in the DashScope endpoint and model when unset.
func NewDashScopeClient(opts OpenAIOptions, logger *zap.Logger) *DashScopeClient {
	if opts.BaseURL == "" {
		opts.BaseURL = dashscopeDefaultBase
	}
	if opts.Model == "" {
		opts.Model = dashscopeDefaultModel
	}
	opts.Name = "dashscope"
	return &DashScopeClient{OpenAIClient: NewOpenAIClient(opts, logger)}
}
