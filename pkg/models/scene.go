package models

import (
	"time"

	"github.com/google/uuid"
)

// Scene is one screenplay scene, produced by scene extraction (AI path or
// the deterministic fallback parser). Scenes are immutable once persisted;
// every scene-scoped downstream record references a Scene by ID.
type Scene struct {
	ID              uuid.UUID `json:"id"`
	ProjectID       uuid.UUID `json:"project_id"`
	SceneNumber     int       `json:"scene_number"`
	Location        string    `json:"location"`
	TimeOfDay       string    `json:"time_of_day"`
	Description     string    `json:"description"`
	Characters      []string  `json:"characters"`
	Content         string    `json:"content"`
	PageStart       int       `json:"page_start"`
	PageEnd         int       `json:"page_end"`
	DurationMinutes int       `json:"duration_minutes"`
	VFXNeeds        []string  `json:"vfx_needs,omitempty"`
	ProductPlacements []string `json:"product_placements,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}
