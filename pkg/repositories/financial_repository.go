package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/cinelens-ai/cinelens-engine/pkg/apperrors"
	"github.com/cinelens-ai/cinelens-engine/pkg/database"
	"github.com/cinelens-ai/cinelens-engine/pkg/models"
)

// FinancialRepository defines the interface for financial-plan data access.
// A project has at most one plan; Replace overwrites any prior record.
type FinancialRepository interface {
	Replace(ctx context.Context, plan *models.FinancialPlan) error
	GetByProject(ctx context.Context, projectID uuid.UUID) (*models.FinancialPlan, error)
}

type financialRepository struct {
	db *database.DB
}

// NewFinancialRepository creates a new financial repository.
func NewFinancialRepository(db *database.DB) FinancialRepository {
	return &financialRepository{db: db}
}

// Replace upserts the project's financial plan.
func (r *financialRepository) Replace(ctx context.Context, plan *models.FinancialPlan) error {
	if plan.ID == uuid.Nil {
		plan.ID = uuid.New()
	}
	plan.CreatedAt = time.Now()

	budget, err := json.Marshal(plan.Budget)
	if err != nil {
		return fmt.Errorf("marshal budget: %w", err)
	}
	revenue, err := json.Marshal(plan.Revenue)
	if err != nil {
		return fmt.Errorf("marshal revenue: %w", err)
	}

	query := `
		INSERT INTO engine_financial_plans (id, project_id, total_budget, budget, revenue, roi, break_even_budget, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (project_id) DO UPDATE
		SET total_budget = EXCLUDED.total_budget,
		    budget = EXCLUDED.budget,
		    revenue = EXCLUDED.revenue,
		    roi = EXCLUDED.roi,
		    break_even_budget = EXCLUDED.break_even_budget,
		    created_at = EXCLUDED.created_at`

	_, err = r.db.Exec(ctx, query,
		plan.ID, plan.ProjectID, plan.TotalBudget, budget, revenue,
		plan.ROI, plan.BreakEvenBudget, plan.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to replace financial plan: %w", err)
	}

	return nil
}

// GetByProject retrieves the project's financial plan.
func (r *financialRepository) GetByProject(ctx context.Context, projectID uuid.UUID) (*models.FinancialPlan, error) {
	query := `
		SELECT id, project_id, total_budget, budget, revenue, roi, break_even_budget, created_at
		FROM engine_financial_plans
		WHERE project_id = $1`

	var plan models.FinancialPlan
	var budget, revenue []byte
	err := r.db.QueryRow(ctx, query, projectID).Scan(
		&plan.ID, &plan.ProjectID, &plan.TotalBudget, &budget, &revenue,
		&plan.ROI, &plan.BreakEvenBudget, &plan.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get financial plan: %w", err)
	}

	if err := json.Unmarshal(budget, &plan.Budget); err != nil {
		return nil, fmt.Errorf("unmarshal budget: %w", err)
	}
	if err := json.Unmarshal(revenue, &plan.Revenue); err != nil {
		return nil, fmt.Errorf("unmarshal revenue: %w", err)
	}

	return &plan, nil
}

// Ensure financialRepository implements FinancialRepository at compile time.
var _ FinancialRepository = (*financialRepository)(nil)
