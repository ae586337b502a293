package services

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/cinelens-ai/cinelens-engine/pkg/jsonutil"
	"github.com/cinelens-ai/cinelens-engine/pkg/models"
	"github.com/cinelens-ai/cinelens-engine/pkg/prompts"
)

// VFXAnalysisService identifies per-scene visual-effects requirements.
type VFXAnalysisService interface {
	Analyze(ctx context.Context, scenes []*models.Scene) ([]*models.VFXNeed, error)
}

type vfxAnalysisService struct {
	generation GenerationService
	logger     *zap.Logger
}

// NewVFXAnalysisService creates a new VFX analysis service.
func NewVFXAnalysisService(generation GenerationService, logger *zap.Logger) VFXAnalysisService {
	return &vfxAnalysisService{
		generation: generation,
		logger:     logger.Named("vfx-analysis"),
	}
}

type vfxNeedPayload struct {
	SceneID         string          `json:"scene_id"`
	EffectType      string          `json:"effect_type"`
	Complexity      string          `json:"complexity"`
	EstimatedCost   json.RawMessage `json:"estimated_cost"`
	Description     string          `json:"description"`
	ReferenceImages json.RawMessage `json:"reference_images"`
}

// Analyze tolerates zero scenes. Zero effects is a legitimate outcome; so is
// a parse failure.
func (s *vfxAnalysisService) Analyze(ctx context.Context, scenes []*models.Scene) ([]*models.VFXNeed, error) {
	if len(scenes) == 0 {
		return []*models.VFXNeed{}, nil
	}

	prompt := prompts.BuildVFXAnalysisPrompt(scenes)

	result, err := s.generation.Generate(ctx, StageVFX, prompt, prompts.VFXAnalysisSystem)
	if err != nil {
		return nil, err
	}
	if result.ParseFailed {
		return []*models.VFXNeed{}, nil
	}

	var payloads []vfxNeedPayload
	if err := json.Unmarshal(result.Normalized.Array, &payloads); err != nil {
		s.logger.Warn("VFX array did not decode", zap.Error(err))
		return []*models.VFXNeed{}, nil
	}

	idx := indexScenes(scenes)
	needs := make([]*models.VFXNeed, 0, len(payloads))
	for _, payload := range payloads {
		sceneID, ok := idx.resolve(payload.SceneID)
		if !ok {
			s.logger.Warn("VFX entry references unknown scene", zap.String("scene_ref", payload.SceneID))
			continue
		}
		needs = append(needs, &models.VFXNeed{
			SceneID:         sceneID,
			EffectType:      payload.EffectType,
			Complexity:      models.NormalizeVFXComplexity(payload.Complexity),
			EstimatedCost:   jsonutil.FlexibleIntValue(payload.EstimatedCost),
			Description:     payload.Description,
			ReferenceImages: jsonutil.FlexibleStringSlice(payload.ReferenceImages),
		})
	}

	s.logger.Info("Analyzed VFX needs", zap.Int("count", len(needs)))
	return needs, nil
}

var _ VFXAnalysisService = (*vfxAnalysisService)(nil)
