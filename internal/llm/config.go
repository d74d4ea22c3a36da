package llm

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use.
	// Values: "anthropic", "openai", "gemini", "openrouter", "mock"
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds a single LLM request including retries.
	Timeout time.Duration
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey  string
	Model   string // Default: "claude-haiku"
	BaseURL string
}

// OpenAIConfig holds OpenAI-specific configuration. The key is also used
// for text-to-speech.
type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: "gpt-4o-mini"
	BaseURL string

	// HTTPClient overrides the SDK's client, e.g. to add headers.
	HTTPClient *http.Client
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string
	Model  string // Default: "gemini-flash"
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string
	Model   string // Default: "google/gemini-2.0-flash-exp"
	BaseURL string // Default: "https://openrouter.ai/api/v1"
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns the provider defaults: cheap, fast models and
// three attempts per request.
func DefaultConfig() Config {
	return Config{
		Provider:   "anthropic",
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.0-flash-exp"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
		Timeout: time.Minute,
	}
}

// providerKeys lists, in discovery order, each provider with its
// REVIZIO_ prefixed variable and the vendor's own variable.
var providerKeys = []struct {
	provider, own, vendor string
}{
	{"gemini", "REVIZIO_GEMINI_API_KEY", "GEMINI_API_KEY"},
	{"openai", "REVIZIO_OPENAI_API_KEY", "OPENAI_API_KEY"},
	{"anthropic", "REVIZIO_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY"},
	{"openrouter", "REVIZIO_OPENROUTER_API_KEY", "OPENROUTER_API_KEY"},
}

// key returns a pointer to the API key field of provider.
func (c *Config) key(provider string) *string {
	switch provider {
	case "anthropic":
		return &c.Anthropic.APIKey
	case "openai":
		return &c.OpenAI.APIKey
	case "gemini":
		return &c.Gemini.APIKey
	case "openrouter":
		return &c.OpenRouter.APIKey
	}
	return nil
}

// ConfigFromEnv overlays REVIZIO_* environment variables on the defaults.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	strs := map[string]*string{
		"REVIZIO_LLM_PROVIDER":       &cfg.Provider,
		"REVIZIO_ANTHROPIC_MODEL":    &cfg.Anthropic.Model,
		"REVIZIO_ANTHROPIC_BASE_URL": &cfg.Anthropic.BaseURL,
		"REVIZIO_OPENAI_MODEL":       &cfg.OpenAI.Model,
		"REVIZIO_OPENAI_BASE_URL":    &cfg.OpenAI.BaseURL,
		"REVIZIO_GEMINI_MODEL":       &cfg.Gemini.Model,
		"REVIZIO_OPENROUTER_MODEL":   &cfg.OpenRouter.Model,
	}
	for _, pk := range providerKeys {
		strs[pk.own] = cfg.key(pk.provider)
	}
	for name, dst := range strs {
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}
	if v, err := time.ParseDuration(os.Getenv("REVIZIO_LLM_TIMEOUT")); err == nil && v > 0 {
		cfg.Timeout = v
	}
	return cfg
}

// DiscoverConfig picks the first provider whose vendor key variable
// (GEMINI_API_KEY, OPENAI_API_KEY, ...) is set.
func DiscoverConfig() (Config, bool) {
	for _, pk := range providerKeys {
		if v := os.Getenv(pk.vendor); v != "" {
			cfg := DefaultConfig()
			cfg.Provider = pk.provider
			*cfg.key(pk.provider) = v
			return cfg, true
		}
	}
	return Config{}, false
}

// Resolve prefers the REVIZIO_* configuration, then a discovered vendor
// key. With neither, the REVIZIO_* validation error is returned.
func Resolve() (Config, error) {
	cfg := ConfigFromEnv()
	err := cfg.Validate()
	if err == nil {
		return cfg, nil
	}
	if found, ok := DiscoverConfig(); ok {
		return found, nil
	}
	return cfg, err
}

// SpeechKey returns the key usable for OpenAI text-to-speech, if any.
func (c Config) SpeechKey() string {
	if c.OpenAI.APIKey != "" {
		return c.OpenAI.APIKey
	}
	return os.Getenv("OPENAI_API_KEY")
}

// Validate checks that the selected provider has its API key.
func (c Config) Validate() error {
	if c.Provider == "mock" {
		return nil
	}
	key := c.key(c.Provider)
	if key == nil {
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if *key == "" {
		return fmt.Errorf("REVIZIO_%s_API_KEY is required for the %s provider", strings.ToUpper(c.Provider), c.Provider)
	}
	return nil
}
