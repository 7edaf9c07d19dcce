package llm

import "fmt"

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// OpenRouterProvider wraps OpenAIProvider with OpenRouter-specific defaults,
// backing the Advisory Analyzer when PLACEMENT_LLM_PROVIDER=openrouter or
// OPENROUTER_API_KEY is discovered. OpenRouter exposes an OpenAI-compatible
// API, so the underlying SDK and its JSON-schema response format are reused
// as-is — only the base URL and key discovery differ.
type OpenRouterProvider struct {
	*OpenAIProvider
}

// NewOpenRouterProvider creates a provider targeting the OpenRouter API.
// cfg.Model is passed through as-is: OpenRouter's model IDs (e.g.
// "anthropic/claude-3-haiku") don't match the friendly names in
// anthropicModels/openaiModels/geminiModels, so resolveModel's map lookup
// always misses and falls through to using the name directly.
func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenRouterProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openrouter API key is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenRouterBaseURL
	}

	oaiCfg := OpenAIConfig{
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		BaseURL: baseURL,
	}

	inner, err := NewOpenAIProvider(oaiCfg)
	if err != nil {
		return nil, err
	}

	return &OpenRouterProvider{OpenAIProvider: inner}, nil
}
