package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for cinelens-engine.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (passwords, API keys) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8090"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// Database configuration (PostgreSQL)
	Database DatabaseConfig `yaml:"database"`

	// MigrationsPath is the directory containing SQL migrations.
	MigrationsPath string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"migrations"`

	// AI provider endpoints. A stage is routed to one of these by the
	// generation settings below; an unconfigured provider makes its stages
	// unavailable (the pipeline reports that rather than guessing).
	OpenAI    OpenAIConfig    `yaml:"openai"`
	Anthropic AnthropicConfig `yaml:"anthropic"`

	// Generation holds per-stage overrides for provider routing and budgets.
	Generation GenerationConfig `yaml:"generation"`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"cinelens"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"cinelens_engine"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"25"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
}

// OpenAIConfig holds settings for OpenAI-compatible endpoints
// (OpenAI itself, vLLM, or any gateway speaking the same API).
type OpenAIConfig struct {
	BaseURL string `yaml:"base_url" env:"OPENAI_BASE_URL" env-default:"https://api.openai.com/v1"`
	Model   string `yaml:"model" env:"OPENAI_MODEL" env-default:"gpt-4o"`
	APIKey  string `yaml:"-" env:"OPENAI_API_KEY"` // Secret - not in YAML
}

// IsAvailable returns true if the OpenAI-compatible endpoint is configured.
func (c *OpenAIConfig) IsAvailable() bool {
	return c.BaseURL != "" && c.Model != "" && c.APIKey != ""
}

// AnthropicConfig holds settings for the Anthropic provider.
type AnthropicConfig struct {
	Model  string `yaml:"model" env:"ANTHROPIC_MODEL" env-default:"claude-sonnet-4-20250514"`
	APIKey string `yaml:"-" env:"ANTHROPIC_API_KEY"` // Secret - not in YAML
}

// IsAvailable returns true if the Anthropic provider is configured.
func (c *AnthropicConfig) IsAvailable() bool {
	return c.Model != "" && c.APIKey != ""
}

// GenerationConfig holds per-stage generation overrides.
// Stage names match the pipeline stage identifiers; empty values fall back to
// the defaults compiled into the stage table.
type GenerationConfig struct {
	// DefaultProvider routes stages with no explicit override.
	// One of "openai", "anthropic".
	DefaultProvider string `yaml:"default_provider" env:"GENERATION_DEFAULT_PROVIDER" env-default:"openai"`

	// Stages maps stage name -> override (provider, max_tokens, temperature).
	Stages map[string]StageOverride `yaml:"stages"`
}

// StageOverride customizes a single stage's generation call.
type StageOverride struct {
	Provider    string  `yaml:"provider"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

// Load reads configuration from config.yaml with environment variable overrides.
// The version parameter is injected at build time and set on the returned Config.
// Secrets (PGPASSWORD, OPENAI_API_KEY, ANTHROPIC_API_KEY) must come from
// environment variables (yaml:"-" fields).
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
		return nil, fmt.Errorf("failed to read config.yaml: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// validate rejects configurations the server cannot start with.
func (c *Config) validate() error {
	switch c.Generation.DefaultProvider {
	case "openai", "anthropic":
	default:
		return fmt.Errorf("unknown default provider %q", c.Generation.DefaultProvider)
	}

	for stage, override := range c.Generation.Stages {
		if override.Provider != "" && override.Provider != "openai" && override.Provider != "anthropic" {
			return fmt.Errorf("stage %s: unknown provider %q", stage, override.Provider)
		}
		if override.MaxTokens < 0 {
			return fmt.Errorf("stage %s: negative max_tokens", stage)
		}
	}

	return nil
}

// ConnectionString returns a PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}
