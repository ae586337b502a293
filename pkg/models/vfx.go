package models

import (
	"time"

	"github.com/google/uuid"
)

// VFX complexity tiers.
const (
	VFXComplexityLow     = "low"
	VFXComplexityMedium  = "medium"
	VFXComplexityHigh    = "high"
	VFXComplexityExtreme = "extreme"
)

// VFXNeed is one visual-effects requirement tied to a scene.
// EstimatedCost is whole currency units.
type VFXNeed struct {
	ID              uuid.UUID `json:"id"`
	ProjectID       uuid.UUID `json:"project_id"`
	SceneID         uuid.UUID `json:"scene_id"`
	EffectType      string    `json:"effect_type"`
	Complexity      string    `json:"complexity"`
	EstimatedCost   int       `json:"estimated_cost"`
	Description     string    `json:"description"`
	ReferenceImages []string  `json:"reference_images,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// NormalizeVFXComplexity maps free-form model output onto a known tier.
func NormalizeVFXComplexity(v string) string {
	switch v {
	case VFXComplexityLow, VFXComplexityMedium, VFXComplexityHigh, VFXComplexityExtreme:
		return v
	case "simple", "minimal":
		return VFXComplexityLow
	case "moderate":
		return VFXComplexityMedium
	case "complex", "heavy":
		return VFXComplexityHigh
	case "very high", "massive":
		return VFXComplexityExtreme
	default:
		return VFXComplexityMedium
	}
}
