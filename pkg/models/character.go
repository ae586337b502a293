package models

import (
	"time"

	"github.com/google/uuid"
)

// Importance tiers for characters.
const (
	ImportanceLead       = "lead"
	ImportanceSupporting = "supporting"
	ImportanceMinor      = "minor"
)

// CharacterRelationship is an edge between two characters.
// Strength runs 1-10.
type CharacterRelationship struct {
	CharacterName string `json:"character_name"`
	Relationship  string `json:"relationship"`
	Strength      int    `json:"strength"`
}

// Character is a screenplay character produced by character analysis.
// Name acts as the natural key within a project.
type Character struct {
	ID                uuid.UUID               `json:"id"`
	ProjectID         uuid.UUID               `json:"project_id"`
	Name              string                  `json:"name"`
	Description       string                  `json:"description"`
	Age               string                  `json:"age"`
	Gender            string                  `json:"gender"`
	PersonalityTraits []string                `json:"personality_traits"`
	Importance        string                  `json:"importance"`
	ScreenTimeMinutes int                     `json:"screen_time_minutes"`
	Relationships     []CharacterRelationship `json:"relationships"`
	CharacterArc      string                  `json:"character_arc"`
	CreatedAt         time.Time               `json:"created_at"`
}

// NormalizeImportance maps free-form model output onto a known tier.
// Unknown values fall back to "supporting".
func NormalizeImportance(v string) string {
	switch v {
	case ImportanceLead, ImportanceSupporting, ImportanceMinor:
		return v
	case "main", "protagonist", "primary":
		return ImportanceLead
	case "secondary":
		return ImportanceSupporting
	case "background", "extra", "cameo":
		return ImportanceMinor
	default:
		return ImportanceSupporting
	}
}
