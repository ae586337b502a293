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

// CharacterRepository defines the interface for character data access.
type CharacterRepository interface {
	ReplaceForProject(ctx context.Context, projectID uuid.UUID, characters []*models.Character) error
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.Character, error)
	CountByProject(ctx context.Context, projectID uuid.UUID) (int, error)
}

type characterRepository struct {
	db *database.DB
}

// NewCharacterRepository creates a new character repository.
func NewCharacterRepository(db *database.DB) CharacterRepository {
	return &characterRepository{db: db}
}

// ReplaceForProject deletes the project's characters and inserts the new set.
func (r *characterRepository) ReplaceForProject(ctx context.Context, projectID uuid.UUID, characters []*models.Character) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM engine_characters WHERE project_id = $1`, projectID); err != nil {
		return fmt.Errorf("delete characters: %w", err)
	}

	query := `
		INSERT INTO engine_characters (id, project_id, name, description, age, gender,
			personality_traits, importance, screen_time_minutes, relationships, character_arc, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	now := time.Now()
	for _, character := range characters {
		if character.ID == uuid.Nil {
			character.ID = uuid.New()
		}
		character.ProjectID = projectID
		character.CreatedAt = now

		traits, err := json.Marshal(character.PersonalityTraits)
		if err != nil {
			return fmt.Errorf("marshal traits: %w", err)
		}
		relationships, err := json.Marshal(character.Relationships)
		if err != nil {
			return fmt.Errorf("marshal relationships: %w", err)
		}

		if _, err := tx.Exec(ctx, query,
			character.ID, character.ProjectID, character.Name, character.Description,
			character.Age, character.Gender, traits, character.Importance,
			character.ScreenTimeMinutes, relationships, character.CharacterArc, character.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert character %s: %w", character.Name, err)
		}
	}

	return tx.Commit(ctx)
}

// ListByProject retrieves a project's characters, leads first.
func (r *characterRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.Character, error) {
	query := `
		SELECT id, project_id, name, description, age, gender,
			personality_traits, importance, screen_time_minutes, relationships, character_arc, created_at
		FROM engine_characters
		WHERE project_id = $1
		ORDER BY CASE importance WHEN 'lead' THEN 0 WHEN 'supporting' THEN 1 ELSE 2 END, name`

	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list characters: %w", err)
	}
	defer rows.Close()

	var characters []*models.Character
	for rows.Next() {
		var character models.Character
		var traits, relationships []byte
		if err := rows.Scan(
			&character.ID, &character.ProjectID, &character.Name, &character.Description,
			&character.Age, &character.Gender, &traits, &character.Importance,
			&character.ScreenTimeMinutes, &relationships, &character.CharacterArc, &character.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan character: %w", err)
		}
		if err := json.Unmarshal(traits, &character.PersonalityTraits); err != nil {
			return nil, fmt.Errorf("unmarshal traits: %w", err)
		}
		if err := json.Unmarshal(relationships, &character.Relationships); err != nil {
			return nil, fmt.Errorf("unmarshal relationships: %w", err)
		}
		characters = append(characters, &character)
	}

	return characters, rows.Err()
}

// CountByProject returns how many characters the project has.
func (r *characterRepository) CountByProject(ctx context.Context, projectID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM engine_characters WHERE project_id = $1`, projectID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count characters: %w", err)
	}
	return count, nil
}

// Ensure characterRepository implements CharacterRepository at compile time.
var _ CharacterRepository = (*characterRepository)(nil)
