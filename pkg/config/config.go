// Package config loads and validates the guestflow.yaml configuration:
// YAML with {{.VAR}} environment expansion, merged over built-in
// defaults.
package config

import "time"

// Config is the umbrella configuration object returned by Initialize.
type Config struct {
	configPath string

	LLM        *LLMConfig        `yaml:"llm"`
	Enrichment *EnrichmentConfig `yaml:"enrichment"`
	Session    *SessionConfig    `yaml:"session"`
	Dialogue   *DialogueConfig   `yaml:"dialogue"`
	Server     *ServerConfig     `yaml:"server"`
	Database   *DatabaseConfig   `yaml:"database"`
}

// LLMConfig selects and tunes the classification model provider.
type LLMConfig struct {
	// Provider is "anthropic" or "openai".
	Provider string `yaml:"provider"`
	// Model overrides the provider's default model when set.
	Model string `yaml:"model"`
	// APIKeyEnv names the environment variable holding the key.
	APIKeyEnv string `yaml:"api_key_env"`
	// BaseURL overrides the provider endpoint (proxies, test servers).
	BaseURL   string `yaml:"base_url"`
	MaxTokens int    `yaml:"max_tokens"`
	// Temperature below 0 means provider default.
	Temperature float64 `yaml:"temperature"`
	// Timeout is parsed from a duration string, e.g. "30s".
	Timeout string `yaml:"timeout"`
}

// EnrichmentConfig controls the LinkedIn profile analyzer.
type EnrichmentConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint"`
	TokenEnv string `yaml:"token_env"`
	CacheTTL string `yaml:"cache_ttl"`
}

// SessionConfig controls registry eviction.
type SessionConfig struct {
	// IdleEviction is how long a session may sit untouched before the
	// cleanup scan removes it.
	IdleEviction    string `yaml:"idle_eviction"`
	CleanupInterval string `yaml:"cleanup_interval"`
}

// DialogueConfig tunes conversation behavior.
type DialogueConfig struct {
	// ConfidenceFloor drops classifier updates below this confidence.
	ConfidenceFloor float64 `yaml:"confidence_floor"`
	// QuestionSeed pins the question generator's rand source; 0 means
	// seeded from the clock.
	QuestionSeed int64 `yaml:"question_seed"`
}

// ServerConfig is the HTTP listener configuration.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig controls optional state persistence.
type DatabaseConfig struct {
	Enabled bool `yaml:"enabled"`
	// URLEnv names the environment variable with the Postgres URL.
	URLEnv string `yaml:"url_env"`
	// URL may hold the connection string directly (tests, local dev).
	URL string `yaml:"url"`
}

// defaultConfig returns the built-in defaults user YAML merges over.
func defaultConfig() *Config {
	return &Config{
		LLM: &LLMConfig{
			Provider:    "anthropic",
			APIKeyEnv:   "ANTHROPIC_API_KEY",
			MaxTokens:   1024,
			Temperature: -1,
			Timeout:     "30s",
		},
		Enrichment: &EnrichmentConfig{
			Enabled:  false,
			TokenEnv: "ENRICHMENT_TOKEN",
			CacheTTL: "1h",
		},
		Session: &SessionConfig{
			IdleEviction:    "24h",
			CleanupInterval: "10m",
		},
		Dialogue: &DialogueConfig{
			ConfidenceFloor: 0.6,
		},
		Server: &ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Database: &DatabaseConfig{
			Enabled: false,
			URLEnv:  "DATABASE_URL",
		},
	}
}

// ConfigPath returns the file the configuration was loaded from.
func (c *Config) ConfigPath() string {
	return c.configPath
}

// LLMTimeout returns the parsed classifier timeout.
func (c *Config) LLMTimeout() time.Duration {
	return parseDuration(c.LLM.Timeout, 30*time.Second)
}

// EnrichmentCacheTTL returns the parsed analyzer cache TTL.
func (c *Config) EnrichmentCacheTTL() time.Duration {
	return parseDuration(c.Enrichment.CacheTTL, time.Hour)
}

// SessionIdleEviction returns the parsed idle eviction threshold.
func (c *Config) SessionIdleEviction() time.Duration {
	return parseDuration(c.Session.IdleEviction, 24*time.Hour)
}

// SessionCleanupInterval returns the parsed cleanup scan interval.
func (c *Config) SessionCleanupInterval() time.Duration {
	return parseDuration(c.Session.CleanupInterval, 10*time.Minute)
}

// Stats contains loaded-configuration facts for startup logging.
type Stats struct {
	Provider          string
	EnrichmentEnabled bool
	DatabaseEnabled   bool
	ServerPort        int
}

// Stats returns configuration statistics for logging.
func (c *Config) Stats() Stats {
	return Stats{
		Provider:          c.LLM.Provider,
		EnrichmentEnabled: c.Enrichment.Enabled,
		DatabaseEnabled:   c.Database.Enabled,
		ServerPort:        c.Server.Port,
	}
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
