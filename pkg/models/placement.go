package models

import (
	"time"

	"github.com/google/uuid"
)

// Product placement visibility tiers.
const (
	PlacementVisibilityBackground = "background"
	PlacementVisibilityFeatured   = "featured"
	PlacementVisibilityHero       = "hero"
)

// ProductPlacement is one brand-placement opportunity tied to a scene.
// NaturalnessScore runs 1-10; EstimatedValue is whole currency units.
type ProductPlacement struct {
	ID               uuid.UUID `json:"id"`
	ProjectID        uuid.UUID `json:"project_id"`
	SceneID          uuid.UUID `json:"scene_id"`
	Brand            string    `json:"brand"`
	Product          string    `json:"product"`
	Placement        string    `json:"placement"`
	NaturalnessScore int       `json:"naturalness_score"`
	Visibility       string    `json:"visibility"`
	EstimatedValue   int       `json:"estimated_value"`
	CreatedAt        time.Time `json:"created_at"`
}

// NormalizePlacementVisibility maps free-form model output onto a known tier.
func NormalizePlacementVisibility(v string) string {
	switch v {
	case PlacementVisibilityBackground, PlacementVisibilityFeatured, PlacementVisibilityHero:
		return v
	case "prominent", "primary":
		return PlacementVisibilityHero
	case "secondary", "visible":
		return PlacementVisibilityFeatured
	default:
		return PlacementVisibilityBackground
	}
}
