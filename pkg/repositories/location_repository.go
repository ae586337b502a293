package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cinelens-ai/cinelens-engine/pkg/database"
	"github.com/cinelens-ai/cinelens-engine/pkg/models"
)

// LocationRepository defines the interface for location-suggestion data access.
type LocationRepository interface {
	ReplaceForProject(ctx context.Context, projectID uuid.UUID, suggestions []*models.LocationSuggestion) error
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.LocationSuggestion, error)
}

type locationRepository struct {
	db *database.DB
}

// NewLocationRepository creates a new location repository.
func NewLocationRepository(db *database.DB) LocationRepository {
	return &locationRepository{db: db}
}

// ReplaceForProject deletes the project's location suggestions and inserts the new set.
func (r *locationRepository) ReplaceForProject(ctx context.Context, projectID uuid.UUID, suggestions []*models.LocationSuggestion) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM engine_location_suggestions WHERE project_id = $1`, projectID); err != nil {
		return fmt.Errorf("delete location suggestions: %w", err)
	}

	query := `
		INSERT INTO engine_location_suggestions (id, project_id, scene_id, location_type, candidates, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	now := time.Now()
	for _, suggestion := range suggestions {
		if suggestion.ID == uuid.Nil {
			suggestion.ID = uuid.New()
		}
		suggestion.ProjectID = projectID
		suggestion.CreatedAt = now

		candidates, err := json.Marshal(suggestion.Candidates)
		if err != nil {
			return fmt.Errorf("marshal candidates: %w", err)
		}

		if _, err := tx.Exec(ctx, query,
			suggestion.ID, suggestion.ProjectID, suggestion.SceneID,
			suggestion.LocationType, candidates, suggestion.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert location suggestion: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// ListByProject retrieves a project's location suggestions.
func (r *locationRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.LocationSuggestion, error) {
	query := `
		SELECT id, project_id, scene_id, location_type, candidates, created_at
		FROM engine_location_suggestions
		WHERE project_id = $1
		ORDER BY created_at, id`

	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list location suggestions: %w", err)
	}
	defer rows.Close()

	var suggestions []*models.LocationSuggestion
	for rows.Next() {
		var suggestion models.LocationSuggestion
		var candidates []byte
		if err := rows.Scan(
			&suggestion.ID, &suggestion.ProjectID, &suggestion.SceneID,
			&suggestion.LocationType, &candidates, &suggestion.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan location suggestion: %w", err)
		}
		if err := json.Unmarshal(candidates, &suggestion.Candidates); err != nil {
			return nil, fmt.Errorf("unmarshal candidates: %w", err)
		}
		suggestions = append(suggestions, &suggestion)
	}

	return suggestions, rows.Err()
}

// Ensure locationRepository implements LocationRepository at compile time.
var _ LocationRepository = (*locationRepository)(nil)
