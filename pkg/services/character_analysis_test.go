package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cinelens-ai/cinelens-engine/pkg/llm"
	"github.com/cinelens-ai/cinelens-engine/pkg/models"
)

func testScenes(n int) []*models.Scene {
	scenes := make([]*models.Scene, 0, n)
	for i := 0; i < n; i++ {
		scenes = append(scenes, &models.Scene{
			ID:          uuid.New(),
			SceneNumber: i + 1,
			Location:    "OFFICE",
			TimeOfDay:   "DAY",
			Characters:  []string{"MARA"},
		})
	}
	return scenes
}

func TestAnalyzeCharacters_ZeroScenesYieldsEmpty(t *testing.T) {
	svc := NewCharacterAnalysisService(newTestGenerationService(llm.NewMockClientFactory(), nil), zap.NewNop())
	characters, err := svc.Analyze(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, characters)
}

func TestAnalyzeCharacters_MapsAndNormalizes(t *testing.T) {
	factory := llm.NewMockClientFactory()
	factory.MockClient.GenerateResponseFunc = func(ctx context.Context, prompt, systemMessage string, temperature float64, maxTokens int) (*llm.GenerateResponseResult, error) {
		return &llm.GenerateResponseResult{Content: `[
			{"name": "MARA", "description": "A burned-out analyst", "age": 34,
			 "gender": "female", "personality_traits": ["driven"],
			 "importance": "protagonist", "screen_time_minutes": "45",
			 "relationships": [{"character_name": "JONES", "relationship": "rival", "strength": 15}],
			 "character_arc": "Learns to trust"},
			{"name": "JONES", "importance": "background"},
			{"name": "MARA", "importance": "lead"},
			{"name": "", "importance": "lead"}
		]`}, nil
	}

	svc := NewCharacterAnalysisService(newTestGenerationService(factory, nil), zap.NewNop())
	characters, err := svc.Analyze(context.Background(), testScenes(2))
	require.NoError(t, err)
	require.Len(t, characters, 2)

	mara := characters[0]
	assert.Equal(t, "MARA", mara.Name)
	assert.Equal(t, "34", mara.Age)
	assert.Equal(t, models.ImportanceLead, mara.Importance)
	assert.Equal(t, 45, mara.ScreenTimeMinutes)
	require.Len(t, mara.Relationships, 1)
	assert.Equal(t, 10, mara.Relationships[0].Strength)

	assert.Equal(t, models.ImportanceMinor, characters[1].Importance)
}

func TestAnalyzeCharacters_ParseFailureFallsBackToStubs(t *testing.T) {
	factory := llm.NewMockClientFactory()
	factory.MockClient.GenerateResponseFunc = func(ctx context.Context, prompt, systemMessage string, temperature float64, maxTokens int) (*llm.GenerateResponseResult, error) {
		return &llm.GenerateResponseResult{Content: "no structure whatsoever"}, nil
	}

	svc := NewCharacterAnalysisService(newTestGenerationService(factory, nil), zap.NewNop())
	characters, err := svc.Analyze(context.Background(), testScenes(1))
	require.NoError(t, err)
	require.Len(t, characters, 1)
	assert.Equal(t, "MARA", characters[0].Name)
	assert.Equal(t, models.ImportanceSupporting, characters[0].Importance)
}

func TestAnalyzeCharacters_ProviderDownFallsBackToStubs(t *testing.T) {
	factory := llm.NewMockClientFactory()
	factory.CreateClientFunc = func(provider llm.Provider) (llm.LLMClient, error) {
		return nil, llm.NewError(llm.ErrorTypeAuth, "key rejected", nil)
	}

	scenes := testScenes(1)
	scenes[0].Characters = []string{"MARA", "JONES", "MARA"}

	svc := NewCharacterAnalysisService(newTestGenerationService(factory, nil), zap.NewNop())
	characters, err := svc.Analyze(context.Background(), scenes)
	require.NoError(t, err)
	require.Len(t, characters, 2)
	assert.Equal(t, "MARA", characters[0].Name)
	assert.Equal(t, "JONES", characters[1].Name)
}
