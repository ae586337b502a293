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

// CastingRepository defines the interface for actor-suggestion data access.
type CastingRepository interface {
	ReplaceForProject(ctx context.Context, projectID uuid.UUID, suggestions []*models.ActorSuggestion) error
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.ActorSuggestion, error)
	GetByCharacter(ctx context.Context, projectID uuid.UUID, characterName string) (*models.ActorSuggestion, error)
	// AppendCandidate adds a user-suggested candidate to a character's
	// suggestion list. AI-original entries are never mutated.
	AppendCandidate(ctx context.Context, projectID uuid.UUID, characterName string, candidate models.ActorCandidate) (*models.ActorSuggestion, error)
}

type castingRepository struct {
	db *database.DB
}

// NewCastingRepository creates a new casting repository.
func NewCastingRepository(db *database.DB) CastingRepository {
	return &castingRepository{db: db}
}

// ReplaceForProject deletes the project's suggestions and inserts the new set.
func (r *castingRepository) ReplaceForProject(ctx context.Context, projectID uuid.UUID, suggestions []*models.ActorSuggestion) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM engine_actor_suggestions WHERE project_id = $1`, projectID); err != nil {
		return fmt.Errorf("delete suggestions: %w", err)
	}

	query := `
		INSERT INTO engine_actor_suggestions (id, project_id, character_name, candidates, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	now := time.Now()
	for _, suggestion := range suggestions {
		if suggestion.ID == uuid.Nil {
			suggestion.ID = uuid.New()
		}
		suggestion.ProjectID = projectID
		suggestion.CreatedAt = now
		suggestion.UpdatedAt = now

		candidates, err := json.Marshal(suggestion.Candidates)
		if err != nil {
			return fmt.Errorf("marshal candidates: %w", err)
		}

		if _, err := tx.Exec(ctx, query,
			suggestion.ID, suggestion.ProjectID, suggestion.CharacterName,
			candidates, suggestion.CreatedAt, suggestion.UpdatedAt,
		); err != nil {
			return fmt.Errorf("insert suggestion for %s: %w", suggestion.CharacterName, err)
		}
	}

	return tx.Commit(ctx)
}

// ListByProject retrieves a project's actor suggestions.
func (r *castingRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.ActorSuggestion, error) {
	query := `
		SELECT id, project_id, character_name, candidates, created_at, updated_at
		FROM engine_actor_suggestions
		WHERE project_id = $1
		ORDER BY character_name`

	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list actor suggestions: %w", err)
	}
	defer rows.Close()

	var suggestions []*models.ActorSuggestion
	for rows.Next() {
		suggestion, err := scanSuggestion(rows.Scan)
		if err != nil {
			return nil, err
		}
		suggestions = append(suggestions, suggestion)
	}

	return suggestions, rows.Err()
}

// GetByCharacter retrieves one character's suggestion.
func (r *castingRepository) GetByCharacter(ctx context.Context, projectID uuid.UUID, characterName string) (*models.ActorSuggestion, error) {
	query := `
		SELECT id, project_id, character_name, candidates, created_at, updated_at
		FROM engine_actor_suggestions
		WHERE project_id = $1 AND character_name = $2`

	row := r.db.QueryRow(ctx, query, projectID, characterName)
	suggestion, err := scanSuggestion(row.Scan)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return suggestion, nil
}

// AppendCandidate appends a user-suggested candidate to the stored list.
func (r *castingRepository) AppendCandidate(ctx context.Context, projectID uuid.UUID, characterName string, candidate models.ActorCandidate) (*models.ActorSuggestion, error) {
	suggestion, err := r.GetByCharacter(ctx, projectID, characterName)
	if err != nil {
		return nil, err
	}

	candidate.UserSuggested = true
	suggestion.Candidates = append(suggestion.Candidates, candidate)
	suggestion.UpdatedAt = time.Now()

	candidates, err := json.Marshal(suggestion.Candidates)
	if err != nil {
		return nil, fmt.Errorf("marshal candidates: %w", err)
	}

	query := `
		UPDATE engine_actor_suggestions
		SET candidates = $3, updated_at = $4
		WHERE project_id = $1 AND character_name = $2`

	result, err := r.db.Exec(ctx, query, projectID, characterName, candidates, suggestion.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to append candidate: %w", err)
	}
	if result.RowsAffected() == 0 {
		return nil, apperrors.ErrNotFound
	}

	return suggestion, nil
}

// scanSuggestion scans one suggestion row regardless of row source.
func scanSuggestion(scan func(dest ...any) error) (*models.ActorSuggestion, error) {
	var suggestion models.ActorSuggestion
	var candidates []byte
	if err := scan(
		&suggestion.ID, &suggestion.ProjectID, &suggestion.CharacterName,
		&candidates, &suggestion.CreatedAt, &suggestion.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(candidates, &suggestion.Candidates); err != nil {
		return nil, fmt.Errorf("unmarshal candidates: %w", err)
	}
	return &suggestion, nil
}

// Ensure castingRepository implements CastingRepository at compile time.
var _ CastingRepository = (*castingRepository)(nil)
