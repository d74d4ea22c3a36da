package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// NewProvider creates a Provider from configuration, wrapped with retry
// and logging middleware. recorder may be nil, in which case requests
// are only logged through logger.
func NewProvider(ctx context.Context, cfg Config, recorder EventRecorder, logger *slog.Logger) (Provider, error) {
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

	// caller -> retry -> logging -> base
	logged := WithLogging(base, recorder, logger)
	retried := WithRetry(logged, cfg.Retry)
	if cfg.Timeout <= 0 {
		return retried, nil
	}
	return &timeoutProvider{inner: retried, timeout: cfg.Timeout}, nil
}

// timeoutProvider bounds a whole call, retries included.
type timeoutProvider struct {
	inner   Provider
	timeout time.Duration
}

func (p *timeoutProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return p.inner.Generate(ctx, req)
}

func (p *timeoutProvider) ModelID() string { return p.inner.ModelID() }
