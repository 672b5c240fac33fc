package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/docvec/aggregate"
	"github.com/cwbudde/docvec/embedding/openai"
	"github.com/cwbudde/docvec/segment"
)

// configPath is the --config flag value.
var configPath string

// providerConfig configures the OpenAI-compatible embeddings client.
type providerConfig struct {
	BaseURL           string  `yaml:"base_url"`
	Model             string  `yaml:"model"`
	APIKeyEnv         string  `yaml:"api_key_env"`
	TimeoutSecs       int     `yaml:"timeout_secs"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	MaxRetries        int     `yaml:"max_retries"`
}

// appConfig is the root configuration structure.
type appConfig struct {
	Provider        providerConfig `yaml:"provider"`
	WindowSize      int            `yaml:"window_size"`
	OverlapFraction float64        `yaml:"overlap_fraction"`
	CutoffFraction  float64        `yaml:"cutoff_fraction"`
	Filter          *bool          `yaml:"filter"`
	Workers         int            `yaml:"workers"`
	Seed            *int64         `yaml:"seed"`
}

func defaultConfig() *appConfig {
	return &appConfig{
		Provider: providerConfig{
			APIKeyEnv:  "OPENAI_API_KEY",
			MaxRetries: openai.DefaultMaxRetries,
		},
		WindowSize:      segment.DefaultWindowSize,
		OverlapFraction: segment.DefaultOverlapFraction,
		CutoffFraction:  aggregate.DefaultCutoff,
		Workers:         4,
	}
}

// loadConfig reads the YAML config at path, or returns defaults when path is
// empty or the file does not exist.
func loadConfig(path string) (*appConfig, error) {
	cfg := defaultConfig()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}

		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Provider.APIKeyEnv == "" {
		cfg.Provider.APIKeyEnv = "OPENAI_API_KEY"
	}

	return cfg, nil
}

// filterEnabled resolves the optional filter toggle (default on).
func (c *appConfig) filterEnabled() bool {
	return c.Filter == nil || *c.Filter
}

// buildProvider constructs the embeddings client from the config.
func buildProvider(cfg *appConfig) *openai.Client {
	opts := []openai.Option{
		openai.WithBaseURL(cfg.Provider.BaseURL),
		openai.WithModel(cfg.Provider.Model),
		openai.WithAPIKey(os.Getenv(cfg.Provider.APIKeyEnv)),
		openai.WithMaxRetries(cfg.Provider.MaxRetries),
	}

	if cfg.Provider.TimeoutSecs > 0 {
		opts = append(opts, openai.WithTimeout(time.Duration(cfg.Provider.TimeoutSecs)*time.Second))
	}

	if cfg.Provider.RequestsPerSecond > 0 {
		opts = append(opts, openai.WithRequestsPerSecond(cfg.Provider.RequestsPerSecond))
	}

	return openai.New(opts...)
}
