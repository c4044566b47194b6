package model

import "time"

// Config is the complete application configuration
type Config struct {
	Parser       ParserConfig       `yaml:"parser" mapstructure:"parser"`
	LLM          LLMConfig          `yaml:"llm" mapstructure:"llm"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
}

// ParserConfig tunes the rule-based extraction core
type ParserConfig struct {
	// DefaultReminderMinutes applies when a reminder verb appears without a
	// number ("nhắc tôi"). One policy for every backend.
	DefaultReminderMinutes int `yaml:"default_reminder_minutes" mapstructure:"default_reminder_minutes"`

	// FallbackHour is the hour substituted by ResolveSingle when a time
	// phrase cannot be resolved at all
	FallbackHour int `yaml:"fallback_hour" mapstructure:"fallback_hour"`
}

// LLMConfig configures the optional model-based extraction backend
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // "openai" or "" (disabled)
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"-" mapstructure:"api_key"` // Never serialized to config dumps
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// CacheConfig configures parse-result memoization
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// ConcurrencyConfig configures batch processing
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// RateLimitingConfig throttles calls to the LLM backend
type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// OutputConfig configures rendering
type OutputConfig struct {
	Verbose bool   `yaml:"verbose" mapstructure:"verbose"`
	Format  string `yaml:"format" mapstructure:"format"` // "json" or "yaml"
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Parser: ParserConfig{
			DefaultReminderMinutes: 15,
			FallbackHour:           9,
		},
		LLM: LLMConfig{
			Provider:  "",
			Timeout:   30,
			MaxTokens: 500,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     15 * time.Minute,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 2.0,
			BurstSize:         5,
		},
		Output: OutputConfig{
			Verbose: false,
			Format:  "json",
		},
	}
}
