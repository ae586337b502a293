package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cinelens-ai/cinelens-engine/pkg/apperrors"
	"github.com/cinelens-ai/cinelens-engine/pkg/models"
	"github.com/cinelens-ai/cinelens-engine/pkg/repositories"
)

// PipelineService sequences the analysis stages for a project. Analyze runs
// the full pipeline; the Run* methods re-run one stage against whatever
// upstream records are already persisted. No stage is retried automatically.
type PipelineService interface {
	Analyze(ctx context.Context, projectID uuid.UUID, script string) error
	RunSceneExtraction(ctx context.Context, projectID uuid.UUID, script string) ([]*models.Scene, error)
	RunCharacterAnalysis(ctx context.Context, projectID uuid.UUID) ([]*models.Character, error)
	RunCasting(ctx context.Context, projectID uuid.UUID) ([]*models.ActorSuggestion, error)
	RunVFXAnalysis(ctx context.Context, projectID uuid.UUID) ([]*models.VFXNeed, error)
	RunPlacementAnalysis(ctx context.Context, projectID uuid.UUID) ([]*models.ProductPlacement, error)
	RunLocationSuggestions(ctx context.Context, projectID uuid.UUID) ([]*models.LocationSuggestion, error)
	RunFinancialPlan(ctx context.Context, projectID uuid.UUID) (*models.FinancialPlan, error)
	RunExecutiveSummary(ctx context.Context, projectID uuid.UUID) (string, error)
}

// PipelineRepositories bundles the persistence dependencies of the pipeline.
type PipelineRepositories struct {
	Projects   repositories.ProjectRepository
	Scenes     repositories.SceneRepository
	Characters repositories.CharacterRepository
	Castings   repositories.CastingRepository
	VFX        repositories.VFXRepository
	Placements repositories.PlacementRepository
	Locations  repositories.LocationRepository
	Financial  repositories.FinancialRepository
}

// PipelineStages bundles the per-stage analysis services.
type PipelineStages struct {
	SceneExtraction   SceneExtractionService
	CharacterAnalysis CharacterAnalysisService
	Casting           CastingService
	VFXAnalysis       VFXAnalysisService
	Placement         PlacementService
	Locations         LocationService
	FinancialPlan     FinancialPlanService
	Summary           SummaryService
}

type pipelineService struct {
	repos  PipelineRepositories
	stages PipelineStages
	logger *zap.Logger
}

// NewPipelineService creates the stage orchestrator.
func NewPipelineService(repos PipelineRepositories, stages PipelineStages, logger *zap.Logger) PipelineService {
	return &pipelineService{
		repos:  repos,
		stages: stages,
		logger: logger.Named("pipeline"),
	}
}

// Analyze runs all eight stages in order, persisting each stage's output
// before the next stage starts. The first hard failure marks the project
// failed and aborts the run; everything persisted so far stays.
func (s *pipelineService) Analyze(ctx context.Context, projectID uuid.UUID, script string) error {
	project, err := s.repos.Projects.Get(ctx, projectID)
	if err != nil {
		return err
	}

	s.logger.Info("Starting analysis",
		zap.String("project_id", projectID.String()),
		zap.String("title", project.Title))

	steps := []struct {
		stage StageName
		run   func(context.Context) error
	}{
		{StageSceneExtraction, func(ctx context.Context) error {
			_, err := s.RunSceneExtraction(ctx, projectID, script)
			return err
		}},
		{StageCharacters, func(ctx context.Context) error {
			_, err := s.RunCharacterAnalysis(ctx, projectID)
			return err
		}},
		{StageCasting, func(ctx context.Context) error {
			_, err := s.RunCasting(ctx, projectID)
			return err
		}},
		{StageVFX, func(ctx context.Context) error {
			_, err := s.RunVFXAnalysis(ctx, projectID)
			return err
		}},
		{StagePlacement, func(ctx context.Context) error {
			_, err := s.RunPlacementAnalysis(ctx, projectID)
			return err
		}},
		{StageLocations, func(ctx context.Context) error {
			_, err := s.RunLocationSuggestions(ctx, projectID)
			return err
		}},
		{StageFinancialPlan, func(ctx context.Context) error {
			_, err := s.RunFinancialPlan(ctx, projectID)
			return err
		}},
		{StageExecutiveSummary, func(ctx context.Context) error {
			_, err := s.RunExecutiveSummary(ctx, projectID)
			return err
		}},
	}

	for _, step := range steps {
		if err := s.repos.Projects.UpdateStatus(ctx, projectID, models.ProjectStatusAnalyzing, string(step.stage)); err != nil {
			return err
		}
		if err := step.run(ctx); err != nil {
			s.logger.Error("Stage failed",
				zap.String("project_id", projectID.String()),
				zap.String("stage", string(step.stage)),
				zap.Error(err))
			if statusErr := s.repos.Projects.UpdateStatus(ctx, projectID, models.ProjectStatusFailed, string(step.stage)); statusErr != nil {
				s.logger.Error("Failed to mark project failed", zap.Error(statusErr))
			}
			return fmt.Errorf("stage %s: %w", step.stage, err)
		}
	}

	if err := s.repos.Projects.UpdateStatus(ctx, projectID, models.ProjectStatusCompleted, ""); err != nil {
		return err
	}

	s.logger.Info("Analysis completed", zap.String("project_id", projectID.String()))
	return nil
}

// RunSceneExtraction extracts scenes from the script and replaces the
// project's scene set. Downstream scene-scoped records cascade away.
func (s *pipelineService) RunSceneExtraction(ctx context.Context, projectID uuid.UUID, script string) ([]*models.Scene, error) {
	scenes, err := s.stages.SceneExtraction.Extract(ctx, script)
	if err != nil {
		return nil, err
	}
	if err := s.repos.Scenes.ReplaceForProject(ctx, projectID, scenes); err != nil {
		return nil, err
	}
	return scenes, nil
}

// RunCharacterAnalysis re-analyzes characters from the stored scenes.
func (s *pipelineService) RunCharacterAnalysis(ctx context.Context, projectID uuid.UUID) ([]*models.Character, error) {
	scenes, err := s.repos.Scenes.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	characters, err := s.stages.CharacterAnalysis.Analyze(ctx, scenes)
	if err != nil {
		return nil, err
	}
	if err := s.repos.Characters.ReplaceForProject(ctx, projectID, characters); err != nil {
		return nil, err
	}
	return characters, nil
}

// RunCasting re-suggests actors from the stored characters.
func (s *pipelineService) RunCasting(ctx context.Context, projectID uuid.UUID) ([]*models.ActorSuggestion, error) {
	characters, err := s.repos.Characters.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	suggestions, err := s.stages.Casting.Suggest(ctx, characters)
	if err != nil {
		return nil, err
	}
	if err := s.repos.Castings.ReplaceForProject(ctx, projectID, suggestions); err != nil {
		return nil, err
	}
	return suggestions, nil
}

// RunVFXAnalysis re-analyzes VFX needs from the stored scenes.
func (s *pipelineService) RunVFXAnalysis(ctx context.Context, projectID uuid.UUID) ([]*models.VFXNeed, error) {
	scenes, err := s.repos.Scenes.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	needs, err := s.stages.VFXAnalysis.Analyze(ctx, scenes)
	if err != nil {
		return nil, err
	}
	if err := s.repos.VFX.ReplaceForProject(ctx, projectID, needs); err != nil {
		return nil, err
	}
	return needs, nil
}

// RunPlacementAnalysis re-analyzes product placements from the stored scenes.
func (s *pipelineService) RunPlacementAnalysis(ctx context.Context, projectID uuid.UUID) ([]*models.ProductPlacement, error) {
	scenes, err := s.repos.Scenes.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	placements, err := s.stages.Placement.Analyze(ctx, scenes)
	if err != nil {
		return nil, err
	}
	if err := s.repos.Placements.ReplaceForProject(ctx, projectID, placements); err != nil {
		return nil, err
	}
	return placements, nil
}

// RunLocationSuggestions re-suggests locations from the stored scenes.
func (s *pipelineService) RunLocationSuggestions(ctx context.Context, projectID uuid.UUID) ([]*models.LocationSuggestion, error) {
	scenes, err := s.repos.Scenes.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	suggestions, err := s.stages.Locations.Suggest(ctx, scenes)
	if err != nil {
		return nil, err
	}
	if err := s.repos.Locations.ReplaceForProject(ctx, projectID, suggestions); err != nil {
		return nil, err
	}
	return suggestions, nil
}

// RunFinancialPlan re-synthesizes the plan from everything persisted upstream.
// When the stage yields no usable plan the prior record is left in place and
// nil is returned.
func (s *pipelineService) RunFinancialPlan(ctx context.Context, projectID uuid.UUID) (*models.FinancialPlan, error) {
	inputs, err := s.loadInputs(ctx, projectID)
	if err != nil {
		return nil, err
	}
	plan, err := s.stages.FinancialPlan.BuildPlan(ctx, inputs)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, nil
	}
	plan.ProjectID = projectID
	if err := s.repos.Financial.Replace(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// RunExecutiveSummary re-writes the summary and stores it on the project.
func (s *pipelineService) RunExecutiveSummary(ctx context.Context, projectID uuid.UUID) (string, error) {
	project, err := s.repos.Projects.Get(ctx, projectID)
	if err != nil {
		return "", err
	}
	inputs, err := s.loadInputs(ctx, projectID)
	if err != nil {
		return "", err
	}
	plan, err := s.repos.Financial.GetByProject(ctx, projectID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return "", err
		}
		plan = nil
	}

	summary, err := s.stages.Summary.Summarize(ctx, project, inputs, plan)
	if err != nil {
		return "", err
	}
	if err := s.repos.Projects.SetExecutiveSummary(ctx, projectID, summary); err != nil {
		return "", err
	}
	return summary, nil
}

// loadInputs fetches every persisted upstream record set for the synthesis
// stages. Absence of any downstream set is fine; scenes gate separately in
// the stage services.
func (s *pipelineService) loadInputs(ctx context.Context, projectID uuid.UUID) (FinancialInputs, error) {
	var inputs FinancialInputs
	var err error

	if inputs.Scenes, err = s.repos.Scenes.ListByProject(ctx, projectID); err != nil {
		return inputs, err
	}
	if inputs.Characters, err = s.repos.Characters.ListByProject(ctx, projectID); err != nil {
		return inputs, err
	}
	if inputs.VFXNeeds, err = s.repos.VFX.ListByProject(ctx, projectID); err != nil {
		return inputs, err
	}
	if inputs.Castings, err = s.repos.Castings.ListByProject(ctx, projectID); err != nil {
		return inputs, err
	}
	if inputs.Locations, err = s.repos.Locations.ListByProject(ctx, projectID); err != nil {
		return inputs, err
	}
	if inputs.Placements, err = s.repos.Placements.ListByProject(ctx, projectID); err != nil {
		return inputs, err
	}

	return inputs, nil
}

var _ PipelineService = (*pipelineService)(nil)
