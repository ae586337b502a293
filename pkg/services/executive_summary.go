package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/cinelens-ai/cinelens-engine/pkg/apperrors"
	"github.com/cinelens-ai/cinelens-engine/pkg/models"
	"github.com/cinelens-ai/cinelens-engine/pkg/prompts"
)

// SummaryService writes the closing prose summary over the full breakdown.
type SummaryService interface {
	Summarize(ctx context.Context, project *models.Project, inputs FinancialInputs, plan *models.FinancialPlan) (string, error)
}

type summaryService struct {
	generation GenerationService
	logger     *zap.Logger
}

// NewSummaryService creates a new executive summary service.
func NewSummaryService(generation GenerationService, logger *zap.Logger) SummaryService {
	return &summaryService{
		generation: generation,
		logger:     logger.Named("executive-summary"),
	}
}

// Summarize requires at least one extracted scene. The output is prose, so
// there is no parse step; whatever the model returns is the summary.
func (s *summaryService) Summarize(ctx context.Context, project *models.Project, inputs FinancialInputs, plan *models.FinancialPlan) (string, error) {
	if len(inputs.Scenes) == 0 {
		return "", apperrors.ErrPreconditionNotMet
	}

	prompt := prompts.BuildExecutiveSummaryPrompt(
		project, inputs.Scenes, inputs.Characters, inputs.VFXNeeds,
		inputs.Castings, inputs.Locations, inputs.Placements, plan)

	result, err := s.generation.Generate(ctx, StageExecutiveSummary, prompt, prompts.ExecutiveSummarySystem)
	if err != nil {
		return "", err
	}

	summary := strings.TrimSpace(result.Raw)
	s.logger.Info("Wrote executive summary", zap.Int("length", len(summary)))
	return summary, nil
}

var _ SummaryService = (*summaryService)(nil)
