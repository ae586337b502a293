// Package llm provides text-generation provider clients and response
// normalization for the analysis pipeline.
package llm

import (
	"context"
)

// Provider identifies a configured text-generation backend.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

// GenerateResponseResult holds a completion plus usage stats.
type GenerateResponseResult struct {
	Content          string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// LLMClient defines the interface for generation operations.
// Use this interface for dependency injection to enable mocking in tests.
type LLMClient interface {
	// GenerateResponse generates a completion for the prompt. maxTokens caps
	// the completion length; each pipeline stage supplies its own budget.
	GenerateResponse(ctx context.Context, prompt string, systemMessage string, temperature float64, maxTokens int) (*GenerateResponseResult, error)

	// GetModel returns the configured model name.
	GetModel() string

	// GetProvider returns the provider identity backing this client.
	GetProvider() Provider
}

// ClientFactory creates clients for a requested provider.
// Use this interface for dependency injection and testing.
type ClientFactory interface {
	CreateClient(provider Provider) (LLMClient, error)
}
