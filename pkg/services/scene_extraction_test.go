package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cinelens-ai/cinelens-engine/pkg/apperrors"
	"github.com/cinelens-ai/cinelens-engine/pkg/llm"
)

func newExtractionService(factory llm.ClientFactory) SceneExtractionService {
	generation := newTestGenerationService(factory, nil)
	return NewSceneExtractionService(generation, zap.NewNop())
}

func TestExtract_EmptyScript(t *testing.T) {
	svc := newExtractionService(llm.NewMockClientFactory())
	_, err := svc.Extract(context.Background(), "   \n\t ")
	assert.ErrorIs(t, err, apperrors.ErrEmptyScript)
}

func TestExtract_AIPath(t *testing.T) {
	factory := llm.NewMockClientFactory()
	factory.MockClient.GenerateResponseFunc = func(ctx context.Context, prompt, systemMessage string, temperature float64, maxTokens int) (*llm.GenerateResponseResult, error) {
		return &llm.GenerateResponseResult{Content: `[
			{"scene_number": 1, "location": "OFFICE", "time_of_day": "DAY",
			 "description": "Mara finds the file.", "characters": ["MARA"],
			 "content": "...", "page_start": 1, "page_end": "2",
			 "duration_minutes": 3.0, "vfx_needs": [], "product_placements": []},
			{"location": "STREET", "time_of_day": "NIGHT", "characters": null}
		]`}, nil
	}

	svc := newExtractionService(factory)
	scenes, err := svc.Extract(context.Background(), twoSceneScript)
	require.NoError(t, err)
	require.Len(t, scenes, 2)

	assert.Equal(t, 1, scenes[0].SceneNumber)
	assert.Equal(t, "OFFICE", scenes[0].Location)
	assert.Equal(t, 2, scenes[0].PageEnd)
	assert.Equal(t, 3, scenes[0].DurationMinutes)

	// Missing scene numbers are filled positionally; nil characters become empty.
	assert.Equal(t, 2, scenes[1].SceneNumber)
	assert.NotNil(t, scenes[1].Characters)
	assert.Empty(t, scenes[1].Characters)
}

func TestExtract_FallsBackOnHardError(t *testing.T) {
	factory := llm.NewMockClientFactory()
	factory.CreateClientFunc = func(provider llm.Provider) (llm.LLMClient, error) {
		return nil, llm.NewError(llm.ErrorTypeUnavailable, "not configured", nil)
	}

	svc := newExtractionService(factory)
	scenes, err := svc.Extract(context.Background(), twoSceneScript)
	require.NoError(t, err)
	require.Len(t, scenes, 2)
	assert.Equal(t, "OFFICE", scenes[0].Location)
	assert.Equal(t, "STREET", scenes[1].Location)
}

func TestExtract_FallsBackOnParseFailure(t *testing.T) {
	factory := llm.NewMockClientFactory()
	factory.MockClient.GenerateResponseFunc = func(ctx context.Context, prompt, systemMessage string, temperature float64, maxTokens int) (*llm.GenerateResponseResult, error) {
		return &llm.GenerateResponseResult{Content: "not json"}, nil
	}

	svc := newExtractionService(factory)
	scenes, err := svc.Extract(context.Background(), twoSceneScript)
	require.NoError(t, err)
	assert.Len(t, scenes, 2)
}

func TestExtract_FallsBackOnEmptyArray(t *testing.T) {
	factory := llm.NewMockClientFactory()
	factory.MockClient.GenerateResponseFunc = func(ctx context.Context, prompt, systemMessage string, temperature float64, maxTokens int) (*llm.GenerateResponseResult, error) {
		return &llm.GenerateResponseResult{Content: "[]"}, nil
	}

	svc := newExtractionService(factory)
	scenes, err := svc.Extract(context.Background(), twoSceneScript)
	require.NoError(t, err)
	assert.Len(t, scenes, 2)
}

func TestExtract_FallbackYieldsNothingForUnformattedText(t *testing.T) {
	factory := llm.NewMockClientFactory()
	factory.MockClient.GenerateResponseFunc = func(ctx context.Context, prompt, systemMessage string, temperature float64, maxTokens int) (*llm.GenerateResponseResult, error) {
		return nil, errors.New("dial tcp: connection refused")
	}

	svc := newExtractionService(factory)
	scenes, err := svc.Extract(context.Background(), "A treatment with no sluglines.")
	require.NoError(t, err)
	assert.Empty(t, scenes)
}
