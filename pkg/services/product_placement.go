package services

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/cinelens-ai/cinelens-engine/pkg/jsonutil"
	"github.com/cinelens-ai/cinelens-engine/pkg/models"
	"github.com/cinelens-ai/cinelens-engine/pkg/prompts"
)

// PlacementService finds brand-placement opportunities per scene.
type PlacementService interface {
	Analyze(ctx context.Context, scenes []*models.Scene) ([]*models.ProductPlacement, error)
}

type placementService struct {
	generation GenerationService
	logger     *zap.Logger
}

// NewPlacementService creates a new product placement service.
func NewPlacementService(generation GenerationService, logger *zap.Logger) PlacementService {
	return &placementService{
		generation: generation,
		logger:     logger.Named("product-placement"),
	}
}

type placementPayload struct {
	SceneID          string          `json:"scene_id"`
	Brand            string          `json:"brand"`
	Product          string          `json:"product"`
	Placement        string          `json:"placement"`
	NaturalnessScore json.RawMessage `json:"naturalness_score"`
	Visibility       string          `json:"visibility"`
	EstimatedValue   json.RawMessage `json:"estimated_value"`
}

// Analyze tolerates zero scenes. Zero opportunities is a legitimate outcome;
// so is a parse failure.
func (s *placementService) Analyze(ctx context.Context, scenes []*models.Scene) ([]*models.ProductPlacement, error) {
	if len(scenes) == 0 {
		return []*models.ProductPlacement{}, nil
	}

	prompt := prompts.BuildPlacementPrompt(scenes)

	result, err := s.generation.Generate(ctx, StagePlacement, prompt, prompts.PlacementSystem)
	if err != nil {
		return nil, err
	}
	if result.ParseFailed {
		return []*models.ProductPlacement{}, nil
	}

	var payloads []placementPayload
	if err := json.Unmarshal(result.Normalized.Array, &payloads); err != nil {
		s.logger.Warn("Placement array did not decode", zap.Error(err))
		return []*models.ProductPlacement{}, nil
	}

	idx := indexScenes(scenes)
	placements := make([]*models.ProductPlacement, 0, len(payloads))
	for _, payload := range payloads {
		sceneID, ok := idx.resolve(payload.SceneID)
		if !ok {
			s.logger.Warn("Placement entry references unknown scene", zap.String("scene_ref", payload.SceneID))
			continue
		}
		placements = append(placements, &models.ProductPlacement{
			SceneID:          sceneID,
			Brand:            payload.Brand,
			Product:          payload.Product,
			Placement:        payload.Placement,
			NaturalnessScore: clampScore(jsonutil.FlexibleIntValue(payload.NaturalnessScore), 1, 10),
			Visibility:       models.NormalizePlacementVisibility(payload.Visibility),
			EstimatedValue:   jsonutil.FlexibleIntValue(payload.EstimatedValue),
		})
	}

	s.logger.Info("Analyzed product placements", zap.Int("count", len(placements)))
	return placements, nil
}

var _ PlacementService = (*placementService)(nil)
