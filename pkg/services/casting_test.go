package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cinelens-ai/cinelens-engine/pkg/apperrors"
	"github.com/cinelens-ai/cinelens-engine/pkg/llm"
	"github.com/cinelens-ai/cinelens-engine/pkg/models"
)

func TestSuggestActors_RequiresCharacters(t *testing.T) {
	svc := NewCastingService(newTestGenerationService(llm.NewMockClientFactory(), nil), zap.NewNop())
	_, err := svc.Suggest(context.Background(), []*models.Character{})
	assert.ErrorIs(t, err, apperrors.ErrPreconditionNotMet)
}

func TestSuggestActors_Maps(t *testing.T) {
	factory := llm.NewMockClientFactory()
	factory.MockClient.GenerateResponseFunc = func(ctx context.Context, prompt, systemMessage string, temperature float64, maxTokens int) (*llm.GenerateResponseResult, error) {
		return &llm.GenerateResponseResult{Content: `[
			{"character_name": "MARA", "candidates": [
				{"name": "A. Actor", "reasoning": "Range", "fit_score": 150,
				 "availability": "Open spring", "fee_estimate": "$2-4M",
				 "working_relationships": ["B. Actor"]},
				{"name": "", "fit_score": 90}
			]},
			{"character_name": "", "candidates": []}
		]`}, nil
	}

	svc := NewCastingService(newTestGenerationService(factory, nil), zap.NewNop())
	suggestions, err := svc.Suggest(context.Background(), []*models.Character{
		{Name: "MARA", Importance: models.ImportanceLead},
	})
	require.NoError(t, err)
	require.Len(t, suggestions, 1)

	suggestion := suggestions[0]
	assert.Equal(t, "MARA", suggestion.CharacterName)
	require.Len(t, suggestion.Candidates, 1)

	candidate := suggestion.Candidates[0]
	assert.Equal(t, "A. Actor", candidate.Name)
	assert.Equal(t, 100, candidate.FitScore)
	assert.Equal(t, "$2-4M", candidate.FeeEstimate)
	assert.False(t, candidate.UserSuggested)
}

func TestSuggestActors_ParseFailureYieldsEmpty(t *testing.T) {
	factory := llm.NewMockClientFactory()
	factory.MockClient.GenerateResponseFunc = func(ctx context.Context, prompt, systemMessage string, temperature float64, maxTokens int) (*llm.GenerateResponseResult, error) {
		return &llm.GenerateResponseResult{Content: "sorry"}, nil
	}

	svc := NewCastingService(newTestGenerationService(factory, nil), zap.NewNop())
	suggestions, err := svc.Suggest(context.Background(), []*models.Character{{Name: "MARA"}})
	require.NoError(t, err)
	assert.Empty(t, suggestions)
}
