package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cinelens-ai/cinelens-engine/pkg/llm"
	"github.com/cinelens-ai/cinelens-engine/pkg/models"
)

func TestAnalyzeVFX_ZeroScenesYieldsEmpty(t *testing.T) {
	svc := NewVFXAnalysisService(newTestGenerationService(llm.NewMockClientFactory(), nil), zap.NewNop())
	needs, err := svc.Analyze(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, needs)
}

func TestAnalyzeVFX_MapsAndResolvesScenes(t *testing.T) {
	scenes := testScenes(2)

	factory := llm.NewMockClientFactory()
	factory.MockClient.GenerateResponseFunc = func(ctx context.Context, prompt, systemMessage string, temperature float64, maxTokens int) (*llm.GenerateResponseResult, error) {
		content := fmt.Sprintf(`[
			{"scene_id": "%s", "effect_type": "fire simulation", "complexity": "heavy",
			 "estimated_cost": "120000", "description": "Warehouse burn"},
			{"scene_id": "2", "effect_type": "compositing", "complexity": "low",
			 "estimated_cost": 15000, "description": "Window replacement"},
			{"scene_id": "no-such-scene", "effect_type": "cg creature"}
		]`, scenes[0].ID)
		return &llm.GenerateResponseResult{Content: content}, nil
	}

	svc := NewVFXAnalysisService(newTestGenerationService(factory, nil), zap.NewNop())
	needs, err := svc.Analyze(context.Background(), scenes)
	require.NoError(t, err)
	require.Len(t, needs, 2)

	assert.Equal(t, scenes[0].ID, needs[0].SceneID)
	assert.Equal(t, models.VFXComplexityHigh, needs[0].Complexity)
	assert.Equal(t, 120000, needs[0].EstimatedCost)

	// Scene-number references resolve too.
	assert.Equal(t, scenes[1].ID, needs[1].SceneID)
	assert.Equal(t, models.VFXComplexityLow, needs[1].Complexity)
}

func TestAnalyzeVFX_ZeroEffectsIsFine(t *testing.T) {
	factory := llm.NewMockClientFactory()
	factory.MockClient.GenerateResponseFunc = func(ctx context.Context, prompt, systemMessage string, temperature float64, maxTokens int) (*llm.GenerateResponseResult, error) {
		return &llm.GenerateResponseResult{Content: "[]"}, nil
	}

	svc := NewVFXAnalysisService(newTestGenerationService(factory, nil), zap.NewNop())
	needs, err := svc.Analyze(context.Background(), testScenes(1))
	require.NoError(t, err)
	assert.Empty(t, needs)
}
