package llm

import (
	"go.uber.org/zap"
)

// FactoryConfig holds the provider settings available to the factory.
// A provider whose settings are incomplete is simply unavailable; asking for
// it yields an ErrorTypeUnavailable error rather than a half-configured client.
type FactoryConfig struct {
	OpenAIBaseURL   string
	OpenAIModel     string
	OpenAIAPIKey    string
	AnthropicModel  string
	AnthropicAPIKey string
}

// ProviderFactory creates clients for configured providers.
// It is constructed once at startup and injected into the pipeline, so tests
// can substitute a mock factory without touching process-wide state.
type ProviderFactory struct {
	cfg    FactoryConfig
	logger *zap.Logger
}

// NewProviderFactory creates a new factory.
func NewProviderFactory(cfg FactoryConfig, logger *zap.Logger) *ProviderFactory {
	return &ProviderFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateClient creates a client for the requested provider.
// Returns an ErrorTypeUnavailable error if the provider is not configured.
func (f *ProviderFactory) CreateClient(provider Provider) (LLMClient, error) {
	switch provider {
	case ProviderOpenAI:
		if f.cfg.OpenAIAPIKey == "" {
			return nil, NewError(ErrorTypeUnavailable, "openai provider is not configured", nil)
		}
		return NewClient(&Config{
			Endpoint: f.cfg.OpenAIBaseURL,
			Model:    f.cfg.OpenAIModel,
			APIKey:   f.cfg.OpenAIAPIKey,
		}, f.logger)

	case ProviderAnthropic:
		return NewAnthropicClient(&AnthropicConfig{
			Model:  f.cfg.AnthropicModel,
			APIKey: f.cfg.AnthropicAPIKey,
		}, f.logger)

	default:
		return nil, NewError(ErrorTypeUnavailable, "unknown provider "+string(provider), nil)
	}
}

// Ensure ProviderFactory implements ClientFactory at compile time.
var _ ClientFactory = (*ProviderFactory)(nil)
