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

// VFXRepository defines the interface for VFX-need data access.
type VFXRepository interface {
	ReplaceForProject(ctx context.Context, projectID uuid.UUID, needs []*models.VFXNeed) error
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.VFXNeed, error)
}

type vfxRepository struct {
	db *database.DB
}

// NewVFXRepository creates a new VFX repository.
func NewVFXRepository(db *database.DB) VFXRepository {
	return &vfxRepository{db: db}
}

// ReplaceForProject deletes the project's VFX needs and inserts the new set.
func (r *vfxRepository) ReplaceForProject(ctx context.Context, projectID uuid.UUID, needs []*models.VFXNeed) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM engine_vfx_needs WHERE project_id = $1`, projectID); err != nil {
		return fmt.Errorf("delete vfx needs: %w", err)
	}

	query := `
		INSERT INTO engine_vfx_needs (id, project_id, scene_id, effect_type, complexity,
			estimated_cost, description, reference_images, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	now := time.Now()
	for _, need := range needs {
		if need.ID == uuid.Nil {
			need.ID = uuid.New()
		}
		need.ProjectID = projectID
		need.CreatedAt = now

		refs, err := json.Marshal(need.ReferenceImages)
		if err != nil {
			return fmt.Errorf("marshal reference images: %w", err)
		}

		if _, err := tx.Exec(ctx, query,
			need.ID, need.ProjectID, need.SceneID, need.EffectType, need.Complexity,
			need.EstimatedCost, need.Description, refs, need.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert vfx need: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// ListByProject retrieves a project's VFX needs.
func (r *vfxRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.VFXNeed, error) {
	query := `
		SELECT id, project_id, scene_id, effect_type, complexity,
			estimated_cost, description, reference_images, created_at
		FROM engine_vfx_needs
		WHERE project_id = $1
		ORDER BY created_at, id`

	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list vfx needs: %w", err)
	}
	defer rows.Close()

	var needs []*models.VFXNeed
	for rows.Next() {
		var need models.VFXNeed
		var refs []byte
		if err := rows.Scan(
			&need.ID, &need.ProjectID, &need.SceneID, &need.EffectType, &need.Complexity,
			&need.EstimatedCost, &need.Description, &refs, &need.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan vfx need: %w", err)
		}
		if err := json.Unmarshal(refs, &need.ReferenceImages); err != nil {
			return nil, fmt.Errorf("unmarshal reference images: %w", err)
		}
		needs = append(needs, &need)
	}

	return needs, rows.Err()
}

// Ensure vfxRepository implements VFXRepository at compile time.
var _ VFXRepository = (*vfxRepository)(nil)
