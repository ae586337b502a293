package llm

import (
	"context"
)

// MockLLMClient is a configurable mock for testing generation functionality.
// Set the function fields to control behavior in tests.
type MockLLMClient struct {
	// GenerateResponseFunc is called when GenerateResponse is invoked.
	// If nil, returns empty result and nil error.
	GenerateResponseFunc func(ctx context.Context, prompt string, systemMessage string, temperature float64, maxTokens int) (*GenerateResponseResult, error)

	// Model is returned by GetModel. Defaults to "mock-model".
	Model string

	// Provider is returned by GetProvider. Defaults to ProviderOpenAI.
	Provider Provider

	// Call tracking for verification
	GenerateResponseCalls int
	// Prompts records each prompt passed to GenerateResponse.
	Prompts []string
}

// NewMockLLMClient creates a new mock with sensible defaults.
func NewMockLLMClient() *MockLLMClient {
	return &MockLLMClient{
		Model:    "mock-model",
		Provider: ProviderOpenAI,
	}
}

// GenerateResponse implements LLMClient.
func (m *MockLLMClient) GenerateResponse(ctx context.Context, prompt string, systemMessage string, temperature float64, maxTokens int) (*GenerateResponseResult, error) {
	m.GenerateResponseCalls++
	m.Prompts = append(m.Prompts, prompt)
	if m.GenerateResponseFunc != nil {
		return m.GenerateResponseFunc(ctx, prompt, systemMessage, temperature, maxTokens)
	}
	return &GenerateResponseResult{}, nil
}

// GetModel implements LLMClient.
func (m *MockLLMClient) GetModel() string {
	if m.Model == "" {
		return "mock-model"
	}
	return m.Model
}

// GetProvider implements LLMClient.
func (m *MockLLMClient) GetProvider() Provider {
	if m.Provider == "" {
		return ProviderOpenAI
	}
	return m.Provider
}

// Reset clears call tracking counters.
func (m *MockLLMClient) Reset() {
	m.GenerateResponseCalls = 0
	m.Prompts = nil
}

// Ensure MockLLMClient implements LLMClient at compile time.
var _ LLMClient = (*MockLLMClient)(nil)

// MockClientFactory is a configurable mock for testing client creation.
type MockClientFactory struct {
	// CreateClientFunc is called when CreateClient is invoked.
	// If nil, returns MockClient.
	CreateClientFunc func(provider Provider) (LLMClient, error)

	// MockClient is the default client returned if CreateClientFunc is not set.
	MockClient *MockLLMClient
}

// NewMockClientFactory creates a new mock client factory.
func NewMockClientFactory() *MockClientFactory {
	return &MockClientFactory{
		MockClient: NewMockLLMClient(),
	}
}

// CreateClient implements ClientFactory.
func (f *MockClientFactory) CreateClient(provider Provider) (LLMClient, error) {
	if f.CreateClientFunc != nil {
		return f.CreateClientFunc(provider)
	}
	return f.MockClient, nil
}

// Ensure MockClientFactory implements ClientFactory at compile time.
var _ ClientFactory = (*MockClientFactory)(nil)
