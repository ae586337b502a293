package models

import (
	"time"

	"github.com/google/uuid"
)

// ActorCandidate is one candidate actor for a character.
// FitScore runs 1-100.
type ActorCandidate struct {
	Name                 string   `json:"name"`
	Reasoning            string   `json:"reasoning"`
	FitScore             int      `json:"fit_score"`
	Availability         string   `json:"availability"`
	FeeEstimate          string   `json:"fee_estimate"`
	WorkingRelationships []string `json:"working_relationships,omitempty"`

	// UserSuggested marks candidates appended out-of-band by a caller.
	// AI-original entries always carry false and are never mutated.
	UserSuggested bool `json:"user_suggested,omitempty"`
}

// ActorSuggestion holds the ordered candidate list for one character.
type ActorSuggestion struct {
	ID            uuid.UUID        `json:"id"`
	ProjectID     uuid.UUID        `json:"project_id"`
	CharacterName string           `json:"character_name"`
	Candidates    []ActorCandidate `json:"candidates"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}
