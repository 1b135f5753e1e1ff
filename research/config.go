package research

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults for a research run
const (
	DefaultModel       = "gpt-4o-mini"
	DefaultTemperature = 0.5
	DefaultMaxTokens   = 2048
)

// Config holds the tunable settings of a research run.
// Credentials are not configured here: the model API key comes from the
// provider environment variables and the search key is read at call time.
type Config struct {
	// Provider is the model backend: openai, anthropic or cohere.
	Provider string `yaml:"provider"`
	// Model is the model identifier used by every agent.
	Model string `yaml:"model"`
	// Temperature for response generation.
	Temperature float32 `yaml:"temperature"`
	// MaxTokens allowed per model response.
	MaxTokens int `yaml:"max_tokens"`
	// Concurrency is the worker limit per dispatch round. 1 means sequential.
	Concurrency int `yaml:"concurrency"`
	// FollowUpRounds caps follow-up dispatch rounds after the initial one.
	FollowUpRounds int `yaml:"follow_up_rounds"`
	// SearchMaxResults is the per-query search result count for workers.
	SearchMaxResults int `yaml:"search_max_results"`
}

// DefaultConfig returns the built-in settings
func DefaultConfig() *Config {
	return &Config{
		Provider:         "openai",
		Model:            DefaultModel,
		Temperature:      DefaultTemperature,
		MaxTokens:        DefaultMaxTokens,
		Concurrency:      1,
		FollowUpRounds:   DefaultFollowUpRounds,
		SearchMaxResults: DefaultSearchResults,
	}
}

// LoadConfig reads settings from an optional YAML file over the defaults.
// An empty path returns the defaults unchanged.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(bs, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
