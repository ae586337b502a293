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

// SceneRepository defines the interface for scene data access.
// Scenes are append-only within a run; re-running extraction replaces the
// project's scene set wholesale (ReplaceForProject).
type SceneRepository interface {
	ReplaceForProject(ctx context.Context, projectID uuid.UUID, scenes []*models.Scene) error
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.Scene, error)
	CountByProject(ctx context.Context, projectID uuid.UUID) (int, error)
}

type sceneRepository struct {
	db *database.DB
}

// NewSceneRepository creates a new scene repository.
func NewSceneRepository(db *database.DB) SceneRepository {
	return &sceneRepository{db: db}
}

// ReplaceForProject deletes the project's scenes and inserts the new set.
// Downstream record sets cascade via FK, which is what a re-extraction means:
// scene-scoped findings no longer reference anything real.
func (r *sceneRepository) ReplaceForProject(ctx context.Context, projectID uuid.UUID, scenes []*models.Scene) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM engine_scenes WHERE project_id = $1`, projectID); err != nil {
		return fmt.Errorf("delete scenes: %w", err)
	}

	query := `
		INSERT INTO engine_scenes (id, project_id, scene_number, location, time_of_day, description,
			characters, content, page_start, page_end, duration_minutes, vfx_needs, product_placements, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	now := time.Now()
	for _, scene := range scenes {
		if scene.ID == uuid.Nil {
			scene.ID = uuid.New()
		}
		scene.ProjectID = projectID
		scene.CreatedAt = now

		characters, err := json.Marshal(scene.Characters)
		if err != nil {
			return fmt.Errorf("marshal characters: %w", err)
		}
		vfxNeeds, err := json.Marshal(scene.VFXNeeds)
		if err != nil {
			return fmt.Errorf("marshal vfx needs: %w", err)
		}
		placements, err := json.Marshal(scene.ProductPlacements)
		if err != nil {
			return fmt.Errorf("marshal product placements: %w", err)
		}

		if _, err := tx.Exec(ctx, query,
			scene.ID, scene.ProjectID, scene.SceneNumber, scene.Location, scene.TimeOfDay,
			scene.Description, characters, scene.Content, scene.PageStart, scene.PageEnd,
			scene.DurationMinutes, vfxNeeds, placements, scene.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert scene %d: %w", scene.SceneNumber, err)
		}
	}

	return tx.Commit(ctx)
}

// ListByProject retrieves a project's scenes ordered by scene number.
func (r *sceneRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.Scene, error) {
	query := `
		SELECT id, project_id, scene_number, location, time_of_day, description,
			characters, content, page_start, page_end, duration_minutes, vfx_needs, product_placements, created_at
		FROM engine_scenes
		WHERE project_id = $1
		ORDER BY scene_number`

	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list scenes: %w", err)
	}
	defer rows.Close()

	var scenes []*models.Scene
	for rows.Next() {
		var scene models.Scene
		var characters, vfxNeeds, placements []byte
		if err := rows.Scan(
			&scene.ID, &scene.ProjectID, &scene.SceneNumber, &scene.Location, &scene.TimeOfDay,
			&scene.Description, &characters, &scene.Content, &scene.PageStart, &scene.PageEnd,
			&scene.DurationMinutes, &vfxNeeds, &placements, &scene.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan scene: %w", err)
		}
		if err := json.Unmarshal(characters, &scene.Characters); err != nil {
			return nil, fmt.Errorf("unmarshal characters: %w", err)
		}
		if err := json.Unmarshal(vfxNeeds, &scene.VFXNeeds); err != nil {
			return nil, fmt.Errorf("unmarshal vfx needs: %w", err)
		}
		if err := json.Unmarshal(placements, &scene.ProductPlacements); err != nil {
			return nil, fmt.Errorf("unmarshal product placements: %w", err)
		}
		scenes = append(scenes, &scene)
	}

	return scenes, rows.Err()
}

// CountByProject returns how many scenes the project has.
func (r *sceneRepository) CountByProject(ctx context.Context, projectID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM engine_scenes WHERE project_id = $1`, projectID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count scenes: %w", err)
	}
	return count, nil
}

// Ensure sceneRepository implements SceneRepository at compile time.
var _ SceneRepository = (*sceneRepository)(nil)
