package services

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/cinelens-ai/cinelens-engine/pkg/jsonutil"
	"github.com/cinelens-ai/cinelens-engine/pkg/models"
	"github.com/cinelens-ai/cinelens-engine/pkg/prompts"
)

// CharacterAnalysisService profiles every named character across the
// extracted scenes. When the generation capability is unavailable or its
// output is unusable, the names already detected on the scenes become
// character stubs so downstream stages still have records to work with.
type CharacterAnalysisService interface {
	Analyze(ctx context.Context, scenes []*models.Scene) ([]*models.Character, error)
}

type characterAnalysisService struct {
	generation GenerationService
	logger     *zap.Logger
}

// NewCharacterAnalysisService creates a new character analysis service.
func NewCharacterAnalysisService(generation GenerationService, logger *zap.Logger) CharacterAnalysisService {
	return &characterAnalysisService{
		generation: generation,
		logger:     logger.Named("character-analysis"),
	}
}

type relationshipPayload struct {
	CharacterName string          `json:"character_name"`
	Relationship  string          `json:"relationship"`
	Strength      json.RawMessage `json:"strength"`
}

type characterPayload struct {
	Name              string                `json:"name"`
	Description       string                `json:"description"`
	Age               json.RawMessage       `json:"age"`
	Gender            string                `json:"gender"`
	PersonalityTraits json.RawMessage       `json:"personality_traits"`
	Importance        string                `json:"importance"`
	ScreenTimeMinutes json.RawMessage       `json:"screen_time_minutes"`
	Relationships     []relationshipPayload `json:"relationships"`
	CharacterArc      string                `json:"character_arc"`
}

// Analyze profiles characters across the given scenes. Zero scenes yields
// zero characters, not an error. Any generation failure degrades to stubs
// built from the scenes' detected character names.
func (s *characterAnalysisService) Analyze(ctx context.Context, scenes []*models.Scene) ([]*models.Character, error) {
	if len(scenes) == 0 {
		return []*models.Character{}, nil
	}

	prompt := prompts.BuildCharacterAnalysisPrompt(scenes)

	result, err := s.generation.Generate(ctx, StageCharacters, prompt, prompts.CharacterAnalysisSystem)
	if err != nil {
		s.logger.Warn("AI character analysis unavailable - using scene-name stubs", zap.Error(err))
		return stubCharacters(scenes), nil
	}
	if result.ParseFailed {
		s.logger.Warn("AI character analysis returned unusable output - using scene-name stubs")
		return stubCharacters(scenes), nil
	}

	var payloads []characterPayload
	if err := json.Unmarshal(result.Normalized.Array, &payloads); err != nil {
		s.logger.Warn("Character array did not decode - using scene-name stubs", zap.Error(err))
		return stubCharacters(scenes), nil
	}

	characters := make([]*models.Character, 0, len(payloads))
	seen := map[string]bool{}
	for _, payload := range payloads {
		if payload.Name == "" || seen[payload.Name] {
			continue
		}
		seen[payload.Name] = true

		character := &models.Character{
			Name:              payload.Name,
			Description:       payload.Description,
			Age:               jsonutil.FlexibleStringValue(payload.Age),
			Gender:            payload.Gender,
			PersonalityTraits: jsonutil.FlexibleStringSlice(payload.PersonalityTraits),
			Importance:        models.NormalizeImportance(payload.Importance),
			ScreenTimeMinutes: jsonutil.FlexibleIntValue(payload.ScreenTimeMinutes),
			CharacterArc:      payload.CharacterArc,
		}
		for _, rel := range payload.Relationships {
			if rel.CharacterName == "" {
				continue
			}
			character.Relationships = append(character.Relationships, models.CharacterRelationship{
				CharacterName: rel.CharacterName,
				Relationship:  rel.Relationship,
				Strength:      clampScore(jsonutil.FlexibleIntValue(rel.Strength), 1, 10),
			})
		}
		characters = append(characters, character)
	}

	if len(characters) == 0 {
		s.logger.Warn("AI character analysis yielded no characters - using scene-name stubs")
		return stubCharacters(scenes), nil
	}

	s.logger.Info("Analyzed characters", zap.Int("count", len(characters)))
	return characters, nil
}

// stubCharacters builds minimal Character records from the names the scenes
// already carry, deduplicated in first-appearance order.
func stubCharacters(scenes []*models.Scene) []*models.Character {
	characters := []*models.Character{}
	seen := map[string]bool{}
	for _, scene := range scenes {
		for _, name := range scene.Characters {
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			characters = append(characters, &models.Character{
				Name:       name,
				Importance: models.ImportanceSupporting,
			})
		}
	}
	return characters
}

// clampScore bounds a model-produced score to [min, max].
func clampScore(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

var _ CharacterAnalysisService = (*characterAnalysisService)(nil)
