package llm

import (
	"context"
	"fmt"

	"github.com/novakid/placement/internal/store"
)

// NewProvider creates a Provider from configuration.
// Real backends are returned wrapped with retry and logging middleware;
// the "mock" provider is returned unwrapped.
func NewProvider(ctx context.Context, cfg Config, callRepo store.AdvisorCallRepo) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// Wrap with middleware: caller → retry → logging → base
	logged := WithLogging(base, callRepo)
	retried := WithRetry(logged, cfg.Retry)

	return retried, nil
}
