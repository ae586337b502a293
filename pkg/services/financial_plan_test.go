package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cinelens-ai/cinelens-engine/pkg/apperrors"
	"github.com/cinelens-ai/cinelens-engine/pkg/llm"
)

const planJSON = `{
	"total_budget": 25000000,
	"budget": {
		"above_the_line": 6000000,
		"production": 12000000,
		"post_production": 4000000,
		"marketing": 2000000,
		"contingency": 1000000
	},
	"revenue": {
		"domestic_box_office": 30000000,
		"international_box_office": 25000000,
		"streaming": 10000000,
		"home_entertainment": 3000000,
		"product_placement": 500000
	},
	"roi": 1.74,
	"break_even_budget": 27000000
}`

func TestBuildPlan_RequiresScenes(t *testing.T) {
	svc := NewFinancialPlanService(newTestGenerationService(llm.NewMockClientFactory(), nil), zap.NewNop())
	_, err := svc.BuildPlan(context.Background(), FinancialInputs{})
	assert.ErrorIs(t, err, apperrors.ErrPreconditionNotMet)
}

func TestBuildPlan_StructuralCompleteness(t *testing.T) {
	factory := llm.NewMockClientFactory()
	factory.MockClient.GenerateResponseFunc = func(ctx context.Context, prompt, systemMessage string, temperature float64, maxTokens int) (*llm.GenerateResponseResult, error) {
		return &llm.GenerateResponseResult{Content: "Here you go:\n" + planJSON}, nil
	}

	svc := NewFinancialPlanService(newTestGenerationService(factory, nil), zap.NewNop())
	plan, err := svc.BuildPlan(context.Background(), FinancialInputs{Scenes: testScenes(3)})
	require.NoError(t, err)
	require.NotNil(t, plan)

	assert.Equal(t, 25000000, plan.TotalBudget)
	assert.Equal(t, 6000000, plan.Budget.AboveTheLine)
	assert.Equal(t, 12000000, plan.Budget.Production)
	assert.Equal(t, 4000000, plan.Budget.PostProduction)
	assert.Equal(t, 2000000, plan.Budget.Marketing)
	assert.Equal(t, 1000000, plan.Budget.Contingency)
	assert.Equal(t, 30000000, plan.Revenue.DomesticBoxOffice)
	assert.Equal(t, 500000, plan.Revenue.ProductPlacement)
	assert.InDelta(t, 1.74, plan.ROI, 0.001)
	assert.Equal(t, 27000000, plan.BreakEvenBudget)
}

func TestBuildPlan_ParseFailureYieldsNilPlan(t *testing.T) {
	factory := llm.NewMockClientFactory()
	factory.MockClient.GenerateResponseFunc = func(ctx context.Context, prompt, systemMessage string, temperature float64, maxTokens int) (*llm.GenerateResponseResult, error) {
		return &llm.GenerateResponseResult{Content: "no numbers, sorry"}, nil
	}

	svc := NewFinancialPlanService(newTestGenerationService(factory, nil), zap.NewNop())
	plan, err := svc.BuildPlan(context.Background(), FinancialInputs{Scenes: testScenes(1)})
	require.NoError(t, err)
	assert.Nil(t, plan)
}

func TestBuildPlan_ZeroBudgetDiscarded(t *testing.T) {
	factory := llm.NewMockClientFactory()
	factory.MockClient.GenerateResponseFunc = func(ctx context.Context, prompt, systemMessage string, temperature float64, maxTokens int) (*llm.GenerateResponseResult, error) {
		return &llm.GenerateResponseResult{Content: `{"total_budget": 0}`}, nil
	}

	svc := NewFinancialPlanService(newTestGenerationService(factory, nil), zap.NewNop())
	plan, err := svc.BuildPlan(context.Background(), FinancialInputs{Scenes: testScenes(1)})
	require.NoError(t, err)
	assert.Nil(t, plan)
}

func TestBuildPlan_QuotedNumbersAccepted(t *testing.T) {
	factory := llm.NewMockClientFactory()
	factory.MockClient.GenerateResponseFunc = func(ctx context.Context, prompt, systemMessage string, temperature float64, maxTokens int) (*llm.GenerateResponseResult, error) {
		return &llm.GenerateResponseResult{Content: `{"total_budget": "25000000", "roi": "1.5"}`}, nil
	}

	svc := NewFinancialPlanService(newTestGenerationService(factory, nil), zap.NewNop())
	plan, err := svc.BuildPlan(context.Background(), FinancialInputs{Scenes: testScenes(1)})
	require.NoError(t, err)
	require.NotNil(t, plan)
	assert.Equal(t, 25000000, plan.TotalBudget)
	assert.InDelta(t, 1.5, plan.ROI, 0.001)
}
