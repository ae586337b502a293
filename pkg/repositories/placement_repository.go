package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cinelens-ai/cinelens-engine/pkg/database"
	"github.com/cinelens-ai/cinelens-engine/pkg/models"
)

// PlacementRepository defines the interface for product-placement data access.
type PlacementRepository interface {
	ReplaceForProject(ctx context.Context, projectID uuid.UUID, placements []*models.ProductPlacement) error
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.ProductPlacement, error)
}

type placementRepository struct {
	db *database.DB
}

// NewPlacementRepository creates a new placement repository.
func NewPlacementRepository(db *database.DB) PlacementRepository {
	return &placementRepository{db: db}
}

// ReplaceForProject deletes the project's placements and inserts the new set.
func (r *placementRepository) ReplaceForProject(ctx context.Context, projectID uuid.UUID, placements []*models.ProductPlacement) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM engine_product_placements WHERE project_id = $1`, projectID); err != nil {
		return fmt.Errorf("delete placements: %w", err)
	}

	query := `
		INSERT INTO engine_product_placements (id, project_id, scene_id, brand, product,
			placement, naturalness_score, visibility, estimated_value, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	now := time.Now()
	for _, placement := range placements {
		if placement.ID == uuid.Nil {
			placement.ID = uuid.New()
		}
		placement.ProjectID = projectID
		placement.CreatedAt = now

		if _, err := tx.Exec(ctx, query,
			placement.ID, placement.ProjectID, placement.SceneID, placement.Brand, placement.Product,
			placement.Placement, placement.NaturalnessScore, placement.Visibility,
			placement.EstimatedValue, placement.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert placement for %s: %w", placement.Brand, err)
		}
	}

	return tx.Commit(ctx)
}

// ListByProject retrieves a project's product placements.
func (r *placementRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.ProductPlacement, error) {
	query := `
		SELECT id, project_id, scene_id, brand, product,
			placement, naturalness_score, visibility, estimated_value, created_at
		FROM engine_product_placements
		WHERE project_id = $1
		ORDER BY created_at, id`

	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list placements: %w", err)
	}
	defer rows.Close()

	var placements []*models.ProductPlacement
	for rows.Next() {
		var placement models.ProductPlacement
		if err := rows.Scan(
			&placement.ID, &placement.ProjectID, &placement.SceneID, &placement.Brand, &placement.Product,
			&placement.Placement, &placement.NaturalnessScore, &placement.Visibility,
			&placement.EstimatedValue, &placement.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan placement: %w", err)
		}
		placements = append(placements, &placement)
	}

	return placements, rows.Err()
}

// Ensure placementRepository implements PlacementRepository at compile time.
var _ PlacementRepository = (*placementRepository)(nil)
