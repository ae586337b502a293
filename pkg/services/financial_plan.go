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

// FinancialInputs bundles the upstream outputs the financial plan is
// synthesized from. Scenes are required; the rest may be empty.
type FinancialInputs struct {
	Scenes     []*models.Scene
	Characters []*models.Character
	VFXNeeds   []*models.VFXNeed
	Castings   []*models.ActorSuggestion
	Locations  []*models.LocationSuggestion
	Placements []*models.ProductPlacement
}

// FinancialPlanService synthesizes the budget and revenue plan.
type FinancialPlanService interface {
	// BuildPlan returns (nil, nil) when the model output is unusable; the
	// caller keeps any prior plan in that case.
	BuildPlan(ctx context.Context, inputs FinancialInputs) (*models.FinancialPlan, error)
}

type financialPlanService struct {
	generation GenerationService
	logger     *zap.Logger
}

// NewFinancialPlanService creates a new financial plan service.
func NewFinancialPlanService(generation GenerationService, logger *zap.Logger) FinancialPlanService {
	return &financialPlanService{
		generation: generation,
		logger:     logger.Named("financial-plan"),
	}
}

type budgetPayload struct {
	AboveTheLine   json.RawMessage `json:"above_the_line"`
	Production     json.RawMessage `json:"production"`
	PostProduction json.RawMessage `json:"post_production"`
	Marketing      json.RawMessage `json:"marketing"`
	Contingency    json.RawMessage `json:"contingency"`
}

type revenuePayload struct {
	DomesticBoxOffice      json.RawMessage `json:"domestic_box_office"`
	InternationalBoxOffice json.RawMessage `json:"international_box_office"`
	Streaming              json.RawMessage `json:"streaming"`
	HomeEntertainment      json.RawMessage `json:"home_entertainment"`
	ProductPlacement       json.RawMessage `json:"product_placement"`
}

type financialPlanPayload struct {
	TotalBudget     json.RawMessage `json:"total_budget"`
	Budget          budgetPayload   `json:"budget"`
	Revenue         revenuePayload  `json:"revenue"`
	ROI             json.RawMessage `json:"roi"`
	BreakEvenBudget json.RawMessage `json:"break_even_budget"`
}

// BuildPlan requires at least one extracted scene.
func (s *financialPlanService) BuildPlan(ctx context.Context, inputs FinancialInputs) (*models.FinancialPlan, error) {
	if len(inputs.Scenes) == 0 {
		return nil, apperrors.ErrPreconditionNotMet
	}

	prompt := prompts.BuildFinancialPlanPrompt(
		inputs.Scenes, inputs.Characters, inputs.VFXNeeds,
		inputs.Castings, inputs.Locations, inputs.Placements)

	result, err := s.generation.Generate(ctx, StageFinancialPlan, prompt, prompts.FinancialPlanSystem)
	if err != nil {
		return nil, err
	}
	if result.ParseFailed {
		return nil, nil
	}

	var payload financialPlanPayload
	if err := json.Unmarshal(result.Normalized.Object, &payload); err != nil {
		s.logger.Warn("Financial plan object did not decode", zap.Error(err))
		return nil, nil
	}

	plan := &models.FinancialPlan{
		TotalBudget: jsonutil.FlexibleIntValue(payload.TotalBudget),
		Budget: models.BudgetBreakdown{
			AboveTheLine:   jsonutil.FlexibleIntValue(payload.Budget.AboveTheLine),
			Production:     jsonutil.FlexibleIntValue(payload.Budget.Production),
			PostProduction: jsonutil.FlexibleIntValue(payload.Budget.PostProduction),
			Marketing:      jsonutil.FlexibleIntValue(payload.Budget.Marketing),
			Contingency:    jsonutil.FlexibleIntValue(payload.Budget.Contingency),
		},
		Revenue: models.RevenueProjection{
			DomesticBoxOffice:      jsonutil.FlexibleIntValue(payload.Revenue.DomesticBoxOffice),
			InternationalBoxOffice: jsonutil.FlexibleIntValue(payload.Revenue.InternationalBoxOffice),
			Streaming:              jsonutil.FlexibleIntValue(payload.Revenue.Streaming),
			HomeEntertainment:      jsonutil.FlexibleIntValue(payload.Revenue.HomeEntertainment),
			ProductPlacement:       jsonutil.FlexibleIntValue(payload.Revenue.ProductPlacement),
		},
		ROI:             flexibleFloat(payload.ROI),
		BreakEvenBudget: jsonutil.FlexibleIntValue(payload.BreakEvenBudget),
	}

	if plan.TotalBudget == 0 {
		s.logger.Warn("Financial plan has zero total budget - discarding")
		return nil, nil
	}

	s.logger.Info("Built financial plan",
		zap.Int("total_budget", plan.TotalBudget),
		zap.Float64("roi", plan.ROI))
	return plan, nil
}

var _ FinancialPlanService = (*financialPlanService)(nil)
