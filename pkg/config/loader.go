package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"

	"github.com/guestwise/guestflow/pkg/llm"
)

// Initialize loads, validates, and returns ready-to-use configuration.
//
// Steps performed:
//  1. Read the YAML file
//  2. Expand environment variables ({{.VAR}} syntax)
//  3. Parse YAML into structs
//  4. Merge user values over built-in defaults
//  5. Validate
func Initialize(_ context.Context, path string) (*Config, error) {
	log := slog.With("config_path", path)
	log.Info("Initializing configuration")

	cfg, err := load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	stats := cfg.Stats()
	log.Info("Configuration initialized successfully",
		"llm_provider", stats.Provider,
		"enrichment_enabled", stats.EnrichmentEnabled,
		"database_enabled", stats.DatabaseEnabled,
		"server_port", stats.ServerPort)

	return cfg, nil
}

// Default returns the built-in configuration, used when no file exists.
func Default() *Config {
	return defaultConfig()
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, err
	}

	// Expand environment variables using {{.VAR}} template syntax.
	// ExpandEnv passes through original data on parse errors, letting
	// the YAML parser produce the clearer error message.
	data = ExpandEnv(data)

	var loaded Config
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}

	// User values override defaults; unset sections keep defaults.
	cfg := defaultConfig()
	if err := mergo.Merge(cfg, &loaded, mergo.WithOverride); err != nil {
		return nil, fmt.Errorf("merge configuration: %w", err)
	}

	cfg.configPath = path
	return cfg, nil
}

func validate(cfg *Config) error {
	if !llm.Provider(cfg.LLM.Provider).IsValid() {
		return newValidationError("llm", "provider",
			fmt.Errorf("%w: %q (want anthropic or openai)", ErrInvalidValue, cfg.LLM.Provider))
	}
	if cfg.LLM.MaxTokens <= 0 {
		return newValidationError("llm", "max_tokens",
			fmt.Errorf("%w: must be positive", ErrInvalidValue))
	}
	if _, err := time.ParseDuration(cfg.LLM.Timeout); cfg.LLM.Timeout != "" && err != nil {
		return newValidationError("llm", "timeout",
			fmt.Errorf("%w: %v", ErrInvalidValue, err))
	}

	if cfg.Enrichment.Enabled && cfg.Enrichment.Endpoint == "" {
		return newValidationError("enrichment", "endpoint",
			fmt.Errorf("%w: required when enrichment is enabled", ErrInvalidValue))
	}

	if cfg.Dialogue.ConfidenceFloor < 0 || cfg.Dialogue.ConfidenceFloor > 1 {
		return newValidationError("dialogue", "confidence_floor",
			fmt.Errorf("%w: must be within [0, 1]", ErrInvalidValue))
	}

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return newValidationError("server", "port",
			fmt.Errorf("%w: %d", ErrInvalidValue, cfg.Server.Port))
	}

	if cfg.Database.Enabled && cfg.Database.URL == "" && os.Getenv(cfg.Database.URLEnv) == "" {
		return newValidationError("database", "url",
			fmt.Errorf("%w: set url or %s when database is enabled", ErrInvalidValue, cfg.Database.URLEnv))
	}
	return nil
}

// DatabaseURL resolves the connection string from config or environment.
func (c *Config) DatabaseURL() string {
	if c.Database.URL != "" {
		return c.Database.URL
	}
	return os.Getenv(c.Database.URLEnv)
}

// LLMAPIKey resolves the provider key from the configured variable.
func (c *Config) LLMAPIKey() string {
	return os.Getenv(c.LLM.APIKeyEnv)
}

// EnrichmentToken resolves the analyzer bearer token.
func (c *Config) EnrichmentToken() string {
	return os.Getenv(c.Enrichment.TokenEnv)
}
