package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/cinelens-ai/cinelens-engine/pkg/models"
	"github.com/cinelens-ai/cinelens-engine/pkg/repositories"
	"github.com/cinelens-ai/cinelens-engine/pkg/services"
)

// CreateProjectRequest for POST /api/projects
type CreateProjectRequest struct {
	Title string `json:"title"`
}

// AnalyzeRequest for POST /api/projects/{pid}/analyze
type AnalyzeRequest struct {
	Script string `json:"script"`
}

// ProjectListResponse for GET /api/projects
type ProjectListResponse struct {
	Projects []*models.Project `json:"projects"`
	Total    int               `json:"total"`
}

// ProjectsHandler handles project lifecycle HTTP requests.
type ProjectsHandler struct {
	projects repositories.ProjectRepository
	pipeline services.PipelineService
	logger   *zap.Logger
}

// NewProjectsHandler creates a new projects handler.
func NewProjectsHandler(projects repositories.ProjectRepository, pipeline services.PipelineService, logger *zap.Logger) *ProjectsHandler {
	return &ProjectsHandler{
		projects: projects,
		pipeline: pipeline,
		logger:   logger,
	}
}

// RegisterRoutes registers the project handler's routes on the given mux.
func (h *ProjectsHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/projects", h.Create)
	mux.HandleFunc("GET /api/projects", h.List)
	mux.HandleFunc("GET /api/projects/{pid}", h.Get)
	mux.HandleFunc("POST /api/projects/{pid}/analyze", h.Analyze)
}

// Create handles POST /api/projects
func (h *ProjectsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		if err := ErrorResponse(w, http.StatusBadRequest, "validation_error", "Title is required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	project := &models.Project{Title: req.Title}
	if err := h.projects.Create(r.Context(), project); err != nil {
		h.logger.Error("Failed to create project", zap.Error(err))
		h.writeError(w, err, "create_project_failed")
		return
	}

	if err := WriteJSON(w, http.StatusCreated, ApiResponse{Success: true, Data: project}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// List handles GET /api/projects
func (h *ProjectsHandler) List(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projects.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list projects", zap.Error(err))
		h.writeError(w, err, "list_projects_failed")
		return
	}

	response := ProjectListResponse{Projects: projects, Total: len(projects)}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: response}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Get handles GET /api/projects/{pid}
func (h *ProjectsHandler) Get(w http.ResponseWriter, r *http.Request) {
	projectID, ok := ParseProjectID(w, r, h.logger)
	if !ok {
		return
	}

	project, err := h.projects.Get(r.Context(), projectID)
	if err != nil {
		h.writeError(w, err, "get_project_failed")
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: project}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Analyze handles POST /api/projects/{pid}/analyze
// The full pipeline runs for minutes, so the run is detached from the request
// and callers poll project status.
func (h *ProjectsHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	projectID, ok := ParseProjectID(w, r, h.logger)
	if !ok {
		return
	}

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if strings.TrimSpace(req.Script) == "" {
		if err := ErrorResponse(w, http.StatusBadRequest, "empty_script", "Script is required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if _, err := h.projects.Get(r.Context(), projectID); err != nil {
		h.writeError(w, err, "get_project_failed")
		return
	}

	// The claim is a conditional status transition, so two overlapping
	// requests cannot both start a run.
	claimed, err := h.projects.ClaimForAnalysis(r.Context(), projectID)
	if err != nil {
		h.writeError(w, err, "claim_project_failed")
		return
	}
	if !claimed {
		if err := ErrorResponse(w, http.StatusConflict, "analysis_in_progress", "Project is already being analyzed"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	go func() {
		if err := h.pipeline.Analyze(context.Background(), projectID, req.Script); err != nil {
			h.logger.Error("Analysis run failed",
				zap.String("project_id", projectID.String()),
				zap.Error(err))
		}
	}()

	if err := WriteJSON(w, http.StatusAccepted, ApiResponse{
		Success: true,
		Message: "Analysis started",
	}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

func (h *ProjectsHandler) writeError(w http.ResponseWriter, err error, fallbackCode string) {
	status, code := MapError(err)
	if status == http.StatusInternalServerError {
		code = fallbackCode
	}
	if writeErr := ErrorResponse(w, status, code, err.Error()); writeErr != nil {
		h.logger.Error("Failed to write error response", zap.Error(writeErr))
	}
}
