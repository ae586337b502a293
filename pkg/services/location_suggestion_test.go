package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cinelens-ai/cinelens-engine/pkg/apperrors"
	"github.com/cinelens-ai/cinelens-engine/pkg/llm"
)

func TestSuggestLocations_RequiresScenes(t *testing.T) {
	svc := NewLocationService(newTestGenerationService(llm.NewMockClientFactory(), nil), zap.NewNop())
	_, err := svc.Suggest(context.Background(), nil)
	assert.ErrorIs(t, err, apperrors.ErrPreconditionNotMet)
}

func TestSuggestLocations_Maps(t *testing.T) {
	scenes := testScenes(1)

	factory := llm.NewMockClientFactory()
	factory.MockClient.GenerateResponseFunc = func(ctx context.Context, prompt, systemMessage string, temperature float64, maxTokens int) (*llm.GenerateResponseResult, error) {
		content := fmt.Sprintf(`[
			{"scene_id": "%s", "location_type": "corporate office", "candidates": [
				{"name": "Tower 42", "city": "London", "state": "", "country": "UK",
				 "tax_incentive_percent": "25.5", "estimated_cost": 80000,
				 "logistics": "Weekend access only", "weather": "Mild"},
				{"name": "", "country": "UK"}
			]}
		]`, scenes[0].ID)
		return &llm.GenerateResponseResult{Content: content}, nil
	}

	svc := NewLocationService(newTestGenerationService(factory, nil), zap.NewNop())
	suggestions, err := svc.Suggest(context.Background(), scenes)
	require.NoError(t, err)
	require.Len(t, suggestions, 1)

	suggestion := suggestions[0]
	assert.Equal(t, scenes[0].ID, suggestion.SceneID)
	assert.Equal(t, "corporate office", suggestion.LocationType)
	require.Len(t, suggestion.Candidates, 1)
	assert.InDelta(t, 25.5, suggestion.Candidates[0].TaxIncentivePercent, 0.001)
	assert.Equal(t, 80000, suggestion.Candidates[0].EstimatedCost)
}
