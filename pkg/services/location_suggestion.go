package services

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/cinelens-ai/cinelens-engine/pkg/apperrors"
	"github.com/cinelens-ai/cinelens-engine/pkg/jsonutil"
	"github.com/cinelens-ai/cinelens-engine/pkg/models"
	"github.com/cinelens-ai/cinelens-engine/pkg/prompts"
)

// LocationService suggests real shooting locations per scene.
type LocationService interface {
	Suggest(ctx context.Context, scenes []*models.Scene) ([]*models.LocationSuggestion, error)
}

type locationService struct {
	generation GenerationService
	logger     *zap.Logger
}

// NewLocationService creates a new location suggestion service.
func NewLocationService(generation GenerationService, logger *zap.Logger) LocationService {
	return &locationService{
		generation: generation,
		logger:     logger.Named("location-suggestions"),
	}
}

type locationCandidatePayload struct {
	Name                string          `json:"name"`
	City                string          `json:"city"`
	State               string          `json:"state"`
	Country             string          `json:"country"`
	TaxIncentivePercent json.RawMessage `json:"tax_incentive_percent"`
	EstimatedCost       json.RawMessage `json:"estimated_cost"`
	Logistics           string          `json:"logistics"`
	Weather             string          `json:"weather"`
}

type locationSuggestionPayload struct {
	SceneID      string                     `json:"scene_id"`
	LocationType string                     `json:"location_type"`
	Candidates   []locationCandidatePayload `json:"candidates"`
}

// Suggest requires at least one extracted scene. A parse failure yields zero
// suggestions, not an error.
func (s *locationService) Suggest(ctx context.Context, scenes []*models.Scene) ([]*models.LocationSuggestion, error) {
	if len(scenes) == 0 {
		return nil, apperrors.ErrPreconditionNotMet
	}

	prompt := prompts.BuildLocationPrompt(scenes)

	result, err := s.generation.Generate(ctx, StageLocations, prompt, prompts.LocationSystem)
	if err != nil {
		return nil, err
	}
	if result.ParseFailed {
		return []*models.LocationSuggestion{}, nil
	}

	var payloads []locationSuggestionPayload
	if err := json.Unmarshal(result.Normalized.Array, &payloads); err != nil {
		s.logger.Warn("Location array did not decode", zap.Error(err))
		return []*models.LocationSuggestion{}, nil
	}

	idx := indexScenes(scenes)
	suggestions := make([]*models.LocationSuggestion, 0, len(payloads))
	for _, payload := range payloads {
		sceneID, ok := idx.resolve(payload.SceneID)
		if !ok {
			s.logger.Warn("Location entry references unknown scene", zap.String("scene_ref", payload.SceneID))
			continue
		}

		suggestion := &models.LocationSuggestion{
			SceneID:      sceneID,
			LocationType: payload.LocationType,
			Candidates:   make([]models.LocationCandidate, 0, len(payload.Candidates)),
		}
		for _, candidate := range payload.Candidates {
			if candidate.Name == "" {
				continue
			}
			suggestion.Candidates = append(suggestion.Candidates, models.LocationCandidate{
				Name:                candidate.Name,
				City:                candidate.City,
				State:               candidate.State,
				Country:             candidate.Country,
				TaxIncentivePercent: flexibleFloat(candidate.TaxIncentivePercent),
				EstimatedCost:       jsonutil.FlexibleIntValue(candidate.EstimatedCost),
				Logistics:           candidate.Logistics,
				Weather:             candidate.Weather,
			})
		}
		suggestions = append(suggestions, suggestion)
	}

	s.logger.Info("Suggested locations", zap.Int("count", len(suggestions)))
	return suggestions, nil
}

// flexibleFloat decodes a number that may arrive quoted.
func flexibleFloat(raw json.RawMessage) float64 {
	if len(raw) == 0 || string(raw) == "null" {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if parsed, err := json.Number(s).Float64(); err == nil {
			return parsed
		}
	}
	return 0
}

var _ LocationService = (*locationService)(nil)
