package models

import (
	"time"

	"github.com/google/uuid"
)

// BudgetBreakdown holds the five budget buckets. By convention the buckets
// sum to the plan total; the model is responsible for self-consistency and
// the pipeline does not recompute or enforce the arithmetic.
type BudgetBreakdown struct {
	AboveTheLine int `json:"above_the_line"`
	Production   int `json:"production"`
	PostProduction int `json:"post_production"`
	Marketing    int `json:"marketing"`
	Contingency  int `json:"contingency"`
}

// RevenueProjection holds the five revenue buckets.
type RevenueProjection struct {
	DomesticBoxOffice      int `json:"domestic_box_office"`
	InternationalBoxOffice int `json:"international_box_office"`
	Streaming              int `json:"streaming"`
	HomeEntertainment      int `json:"home_entertainment"`
	ProductPlacement       int `json:"product_placement"`
}

// FinancialPlan is the single per-project financial record.
// Regeneration replaces the prior record.
type FinancialPlan struct {
	ID              uuid.UUID         `json:"id"`
	ProjectID       uuid.UUID         `json:"project_id"`
	TotalBudget     int               `json:"total_budget"`
	Budget          BudgetBreakdown   `json:"budget"`
	Revenue         RevenueProjection `json:"revenue"`
	ROI             float64           `json:"roi"`
	BreakEvenBudget int               `json:"break_even_budget"`
	CreatedAt       time.Time         `json:"created_at"`
}
