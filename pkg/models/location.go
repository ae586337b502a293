package models

import (
	"time"

	"github.com/google/uuid"
)

// LocationCandidate is one concrete shooting location option.
// TaxIncentivePercent is the jurisdiction's production incentive;
// EstimatedCost is whole currency units.
type LocationCandidate struct {
	Name                string  `json:"name"`
	City                string  `json:"city"`
	State               string  `json:"state"`
	Country             string  `json:"country"`
	TaxIncentivePercent float64 `json:"tax_incentive_percent"`
	EstimatedCost       int     `json:"estimated_cost"`
	Logistics           string  `json:"logistics"`
	Weather             string  `json:"weather"`
}

// LocationSuggestion holds candidate shooting locations for a scene.
type LocationSuggestion struct {
	ID           uuid.UUID           `json:"id"`
	ProjectID    uuid.UUID           `json:"project_id"`
	SceneID      uuid.UUID           `json:"scene_id"`
	LocationType string              `json:"location_type"`
	Candidates   []LocationCandidate `json:"candidates"`
	CreatedAt    time.Time           `json:"created_at"`
}
