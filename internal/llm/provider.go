package llm

import (
	"fmt"

	"github.com/quangtn/vietcal/internal/model"
)

// Config holds model-backend configuration
type Config struct {
	// Provider name: "openai" or "" (disabled)
	Provider string

	// Model name, e.g. "gpt-4o-mini"
	Model string

	// APIKey for the provider
	APIKey string

	// BaseURL for OpenAI-compatible endpoints (optional)
	BaseURL string

	// Timeout for API requests, in seconds
	Timeout int

	// MaxTokens for response generation
	MaxTokens int

	// RequestsPerSecond and Burst throttle API calls per model
	RequestsPerSecond float64
	Burst             int
}

// ConfigFromModel converts the application config sections
func ConfigFromModel(cfg model.LLMConfig, rl model.RateLimitingConfig) Config {
	return Config{
		Provider:          cfg.Provider,
		Model:             cfg.Model,
		APIKey:            cfg.APIKey,
		BaseURL:           cfg.BaseURL,
		Timeout:           cfg.Timeout,
		MaxTokens:         cfg.MaxTokens,
		RequestsPerSecond: rl.RequestsPerSecond,
		Burst:             rl.BurstSize,
	}
}

// New creates the configured backend. A nil backend with nil error means the
// model path is disabled. OpenAI-compatible endpoints (set BaseURL) reuse the
// "openai" provider.
func New(cfg Config) (*OpenAIBackend, error) {
	switch cfg.Provider {
	case "":
		return nil, nil
	case "openai":
		return NewOpenAIBackend(cfg)
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
}
