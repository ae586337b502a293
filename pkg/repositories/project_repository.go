package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/cinelens-ai/cinelens-engine/pkg/apperrors"
	"github.com/cinelens-ai/cinelens-engine/pkg/database"
	"github.com/cinelens-ai/cinelens-engine/pkg/models"
)

// ProjectRepository defines the interface for project data access.
type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	Get(ctx context.Context, id uuid.UUID) (*models.Project, error)
	List(ctx context.Context) ([]*models.Project, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.ProjectStatus, workflowStatus string) error
	// ClaimForAnalysis atomically transitions the project into "analyzing".
	// Returns false when the project is already being analyzed (or missing),
	// so at most one full run can hold the claim at a time.
	ClaimForAnalysis(ctx context.Context, id uuid.UUID) (bool, error)
	SetExecutiveSummary(ctx context.Context, id uuid.UUID, summary string) error
}

// projectRepository implements ProjectRepository using PostgreSQL.
type projectRepository struct {
	db *database.DB
}

// NewProjectRepository creates a new project repository.
func NewProjectRepository(db *database.DB) ProjectRepository {
	return &projectRepository{db: db}
}

// Create inserts a new project.
func (r *projectRepository) Create(ctx context.Context, project *models.Project) error {
	if project.ID == uuid.Nil {
		project.ID = uuid.New()
	}

	now := time.Now()
	project.CreatedAt = now
	project.UpdatedAt = now
	if project.Status == "" {
		project.Status = models.ProjectStatusPending
	}

	query := `
		INSERT INTO engine_projects (id, title, status, workflow_status, executive_summary, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(ctx, query,
		project.ID,
		project.Title,
		project.Status,
		project.WorkflowStatus,
		project.ExecutiveSummary,
		project.CreatedAt,
		project.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	return nil
}

// Get retrieves a project by ID.
func (r *projectRepository) Get(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	query := `
		SELECT id, title, status, workflow_status, COALESCE(executive_summary, ''), created_at, updated_at
		FROM engine_projects
		WHERE id = $1`

	var project models.Project
	err := r.db.QueryRow(ctx, query, id).Scan(
		&project.ID,
		&project.Title,
		&project.Status,
		&project.WorkflowStatus,
		&project.ExecutiveSummary,
		&project.CreatedAt,
		&project.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return &project, nil
}

// List retrieves all projects, newest first.
func (r *projectRepository) List(ctx context.Context) ([]*models.Project, error) {
	query := `
		SELECT id, title, status, workflow_status, COALESCE(executive_summary, ''), created_at, updated_at
		FROM engine_projects
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		var project models.Project
		if err := rows.Scan(
			&project.ID,
			&project.Title,
			&project.Status,
			&project.WorkflowStatus,
			&project.ExecutiveSummary,
			&project.CreatedAt,
			&project.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, &project)
	}

	return projects, rows.Err()
}

// UpdateStatus transitions the project's status and active-stage marker.
func (r *projectRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ProjectStatus, workflowStatus string) error {
	query := `
		UPDATE engine_projects
		SET status = $2, workflow_status = $3, updated_at = $4
		WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, status, workflowStatus, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update project status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// ClaimForAnalysis transitions the project to "analyzing" only if it is not
// already in that state. The conditional UPDATE makes concurrent claims race
// on the database row, not on a read-then-write in the handler.
func (r *projectRepository) ClaimForAnalysis(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `
		UPDATE engine_projects
		SET status = $2, workflow_status = '', updated_at = $3
		WHERE id = $1 AND status <> $2`

	result, err := r.db.Exec(ctx, query, id, models.ProjectStatusAnalyzing, time.Now())
	if err != nil {
		return false, fmt.Errorf("failed to claim project for analysis: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// SetExecutiveSummary stores the summary text on the project record.
func (r *projectRepository) SetExecutiveSummary(ctx context.Context, id uuid.UUID, summary string) error {
	query := `
		UPDATE engine_projects
		SET executive_summary = $2, updated_at = $3
		WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, summary, time.Now())
	if err != nil {
		return fmt.Errorf("failed to set executive summary: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// Ensure projectRepository implements ProjectRepository at compile time.
var _ ProjectRepository = (*projectRepository)(nil)
