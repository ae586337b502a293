// Package models contains domain types for cinelens-engine.
package models

import (
	"time"

	"github.com/google/uuid"
)

// ProjectStatus tracks where a project is in its analysis lifecycle.
type ProjectStatus string

const (
	ProjectStatusPending   ProjectStatus = "pending"
	ProjectStatusAnalyzing ProjectStatus = "analyzing"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusFailed    ProjectStatus = "failed"
)

// IsTerminal returns true for statuses a run cannot leave on its own.
func (s ProjectStatus) IsTerminal() bool {
	return s == ProjectStatusCompleted || s == ProjectStatusFailed
}

// Project represents a screenplay analysis project.
// WorkflowStatus names the stage currently active while Status is "analyzing";
// it is informational only and never drives control flow.
type Project struct {
	ID               uuid.UUID     `json:"id"`
	Title            string        `json:"title"`
	Status           ProjectStatus `json:"status"`
	WorkflowStatus   string        `json:"workflow_status"`
	ExecutiveSummary string        `json:"executive_summary,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}
