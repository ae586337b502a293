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

// CastingService suggests candidate actors per analyzed character.
type CastingService interface {
	Suggest(ctx context.Context, characters []*models.Character) ([]*models.ActorSuggestion, error)
}

type castingService struct {
	generation GenerationService
	logger     *zap.Logger
}

// NewCastingService creates a new casting service.
func NewCastingService(generation GenerationService, logger *zap.Logger) CastingService {
	return &castingService{
		generation: generation,
		logger:     logger.Named("casting"),
	}
}

type actorCandidatePayload struct {
	Name                 string          `json:"name"`
	Reasoning            string          `json:"reasoning"`
	FitScore             json.RawMessage `json:"fit_score"`
	Availability         string          `json:"availability"`
	FeeEstimate          json.RawMessage `json:"fee_estimate"`
	WorkingRelationships json.RawMessage `json:"working_relationships"`
}

type actorSuggestionPayload struct {
	CharacterName string                  `json:"character_name"`
	Candidates    []actorCandidatePayload `json:"candidates"`
}

// Suggest requires at least one analyzed character. A parse failure yields
// zero suggestions, not an error.
func (s *castingService) Suggest(ctx context.Context, characters []*models.Character) ([]*models.ActorSuggestion, error) {
	if len(characters) == 0 {
		return nil, apperrors.ErrPreconditionNotMet
	}

	prompt := prompts.BuildCastingPrompt(characters)

	result, err := s.generation.Generate(ctx, StageCasting, prompt, prompts.CastingSystem)
	if err != nil {
		return nil, err
	}
	if result.ParseFailed {
		return []*models.ActorSuggestion{}, nil
	}

	var payloads []actorSuggestionPayload
	if err := json.Unmarshal(result.Normalized.Array, &payloads); err != nil {
		s.logger.Warn("Casting array did not decode", zap.Error(err))
		return []*models.ActorSuggestion{}, nil
	}

	suggestions := make([]*models.ActorSuggestion, 0, len(payloads))
	for _, payload := range payloads {
		if payload.CharacterName == "" {
			continue
		}

		suggestion := &models.ActorSuggestion{
			CharacterName: payload.CharacterName,
			Candidates:    make([]models.ActorCandidate, 0, len(payload.Candidates)),
		}
		for _, candidate := range payload.Candidates {
			if candidate.Name == "" {
				continue
			}
			suggestion.Candidates = append(suggestion.Candidates, models.ActorCandidate{
				Name:                 candidate.Name,
				Reasoning:            candidate.Reasoning,
				FitScore:             clampScore(jsonutil.FlexibleIntValue(candidate.FitScore), 1, 100),
				Availability:         candidate.Availability,
				FeeEstimate:          jsonutil.FlexibleStringValue(candidate.FeeEstimate),
				WorkingRelationships: jsonutil.FlexibleStringSlice(candidate.WorkingRelationships),
			})
		}
		suggestions = append(suggestions, suggestion)
	}

	s.logger.Info("Suggested casting", zap.Int("characters", len(suggestions)))
	return suggestions, nil
}

var _ CastingService = (*castingService)(nil)
