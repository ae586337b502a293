package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Generation: GenerationConfig{DefaultProvider: "openai"},
		}
	}

	t.Run("valid defaults", func(t *testing.T) {
		assert.NoError(t, base().validate())
	})

	t.Run("anthropic default provider", func(t *testing.T) {
		cfg := base()
		cfg.Generation.DefaultProvider = "anthropic"
		assert.NoError(t, cfg.validate())
	})

	t.Run("unknown default provider", func(t *testing.T) {
		cfg := base()
		cfg.Generation.DefaultProvider = "bard"
		assert.Error(t, cfg.validate())
	})

	t.Run("unknown stage provider", func(t *testing.T) {
		cfg := base()
		cfg.Generation.Stages = map[string]StageOverride{
			"vfx_analysis": {Provider: "bard"},
		}
		assert.Error(t, cfg.validate())
	})

	t.Run("negative max tokens", func(t *testing.T) {
		cfg := base()
		cfg.Generation.Stages = map[string]StageOverride{
			"vfx_analysis": {MaxTokens: -1},
		}
		assert.Error(t, cfg.validate())
	})

	t.Run("empty stage override is fine", func(t *testing.T) {
		cfg := base()
		cfg.Generation.Stages = map[string]StageOverride{
			"vfx_analysis": {},
		}
		assert.NoError(t, cfg.validate())
	})
}

func TestConnectionString(t *testing.T) {
	cfg := &DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "cinelens",
		Password: "secret",
		Database: "cinelens_engine",
		SSLMode:  "disable",
	}
	assert.Equal(t,
		"host=localhost port=5432 user=cinelens password=secret dbname=cinelens_engine sslmode=disable",
		cfg.ConnectionString())
}

func TestProviderAvailability(t *testing.T) {
	openai := &OpenAIConfig{BaseURL: "https://api.openai.com/v1", Model: "gpt-4o"}
	assert.False(t, openai.IsAvailable())
	openai.APIKey = "sk-test"
	assert.True(t, openai.IsAvailable())

	anthropic := &AnthropicConfig{Model: "claude-sonnet-4-20250514"}
	assert.False(t, anthropic.IsAvailable())
	anthropic.APIKey = "sk-ant-test"
	assert.True(t, anthropic.IsAvailable())
}
