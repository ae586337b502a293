package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/cinelens-ai/cinelens-engine/pkg/models"
	"github.com/cinelens-ai/cinelens-engine/pkg/services"
)

// ============================================================================
// Request/Response Types
// ============================================================================

// ReExtractRequest for POST /api/projects/{pid}/scenes/analyze
type ReExtractRequest struct {
	Script string `json:"script"`
}

// ScenesResponse for scene list and re-extraction results.
type ScenesResponse struct {
	Scenes               []*models.Scene `json:"scenes"`
	Total                int             `json:"total"`
	TotalDurationMinutes int             `json:"total_duration_minutes"`
}

// CharactersResponse for character list and re-analysis results.
type CharactersResponse struct {
	Characters []*models.Character `json:"characters"`
	Total      int                 `json:"total"`
}

// CastingResponse for actor-suggestion list and re-analysis results.
type CastingResponse struct {
	Suggestions []*models.ActorSuggestion `json:"suggestions"`
	Total       int                       `json:"total"`
}

// AddCandidateRequest for POST /api/projects/{pid}/casting/{character}/candidates
type AddCandidateRequest struct {
	Name        string `json:"name"`
	Reasoning   string `json:"reasoning,omitempty"`
	FitScore    int    `json:"fit_score,omitempty"`
	FeeEstimate string `json:"fee_estimate,omitempty"`
}

// VFXResponse for VFX-need list and re-analysis results.
type VFXResponse struct {
	Needs              []*models.VFXNeed `json:"needs"`
	Total              int               `json:"total"`
	TotalEstimatedCost int               `json:"total_estimated_cost"`
}

// PlacementsResponse for placement list and re-analysis results.
type PlacementsResponse struct {
	Placements          []*models.ProductPlacement `json:"placements"`
	Total               int                        `json:"total"`
	TotalEstimatedValue int                        `json:"total_estimated_value"`
}

// LocationsResponse for location-suggestion list and re-analysis results.
type LocationsResponse struct {
	Suggestions []*models.LocationSuggestion `json:"suggestions"`
	Total       int                          `json:"total"`
}

// SummaryResponse for the executive summary.
type SummaryResponse struct {
	Summary string `json:"summary"`
}

// ============================================================================
// Handler
// ============================================================================

// AnalysisHandler handles per-stage analysis HTTP requests: reading persisted
// stage output and re-running individual stages.
type AnalysisHandler struct {
	pipeline services.PipelineService
	repos    services.PipelineRepositories
	logger   *zap.Logger
}

// NewAnalysisHandler creates a new analysis handler.
func NewAnalysisHandler(pipeline services.PipelineService, repos services.PipelineRepositories, logger *zap.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		pipeline: pipeline,
		repos:    repos,
		logger:   logger,
	}
}

// RegisterRoutes registers the analysis handler's routes on the given mux.
func (h *AnalysisHandler) RegisterRoutes(mux *http.ServeMux) {
	base := "/api/projects/{pid}"

	mux.HandleFunc("GET "+base+"/scenes", h.ListScenes)
	mux.HandleFunc("POST "+base+"/scenes/analyze", h.ReExtractScenes)
	mux.HandleFunc("GET "+base+"/characters", h.ListCharacters)
	mux.HandleFunc("POST "+base+"/characters/analyze", h.ReAnalyzeCharacters)
	mux.HandleFunc("GET "+base+"/casting", h.ListCasting)
	mux.HandleFunc("POST "+base+"/casting/analyze", h.ReAnalyzeCasting)
	mux.HandleFunc("POST "+base+"/casting/{character}/candidates", h.AddCandidate)
	mux.HandleFunc("GET "+base+"/vfx", h.ListVFX)
	mux.HandleFunc("POST "+base+"/vfx/analyze", h.ReAnalyzeVFX)
	mux.HandleFunc("GET "+base+"/placements", h.ListPlacements)
	mux.HandleFunc("POST "+base+"/placements/analyze", h.ReAnalyzePlacements)
	mux.HandleFunc("GET "+base+"/locations", h.ListLocations)
	mux.HandleFunc("POST "+base+"/locations/analyze", h.ReAnalyzeLocations)
	mux.HandleFunc("GET "+base+"/financial", h.GetFinancialPlan)
	mux.HandleFunc("POST "+base+"/financial/analyze", h.ReAnalyzeFinancialPlan)
	mux.HandleFunc("POST "+base+"/summary/analyze", h.ReWriteSummary)
}

// ListScenes handles GET /api/projects/{pid}/scenes
func (h *AnalysisHandler) ListScenes(w http.ResponseWriter, r *http.Request) {
	projectID, ok := ParseProjectID(w, r, h.logger)
	if !ok {
		return
	}

	scenes, err := h.repos.Scenes.ListByProject(r.Context(), projectID)
	if err != nil {
		h.writeError(w, err, "list_scenes_failed")
		return
	}
	h.writeScenes(w, scenes)
}

// ReExtractScenes handles POST /api/projects/{pid}/scenes/analyze
// Replaces the project's scene set; scene-scoped downstream findings cascade.
func (h *AnalysisHandler) ReExtractScenes(w http.ResponseWriter, r *http.Request) {
	projectID, ok := ParseProjectID(w, r, h.logger)
	if !ok {
		return
	}

	var req ReExtractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	scenes, err := h.pipeline.RunSceneExtraction(r.Context(), projectID, req.Script)
	if err != nil {
		h.logger.Error("Scene re-extraction failed",
			zap.String("project_id", projectID.String()),
			zap.Error(err))
		h.writeError(w, err, "scene_extraction_failed")
		return
	}
	h.writeScenes(w, scenes)
}

func (h *AnalysisHandler) writeScenes(w http.ResponseWriter, scenes []*models.Scene) {
	totalDuration := 0
	for _, scene := range scenes {
		totalDuration += scene.DurationMinutes
	}
	response := ScenesResponse{
		Scenes:               scenes,
		Total:                len(scenes),
		TotalDurationMinutes: totalDuration,
	}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: response}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ListCharacters handles GET /api/projects/{pid}/characters
func (h *AnalysisHandler) ListCharacters(w http.ResponseWriter, r *http.Request) {
	projectID, ok := ParseProjectID(w, r, h.logger)
	if !ok {
		return
	}

	characters, err := h.repos.Characters.ListByProject(r.Context(), projectID)
	if err != nil {
		h.writeError(w, err, "list_characters_failed")
		return
	}
	h.writeCharacters(w, characters)
}

// ReAnalyzeCharacters handles POST /api/projects/{pid}/characters/analyze
func (h *AnalysisHandler) ReAnalyzeCharacters(w http.ResponseWriter, r *http.Request) {
	projectID, ok := ParseProjectID(w, r, h.logger)
	if !ok {
		return
	}

	characters, err := h.pipeline.RunCharacterAnalysis(r.Context(), projectID)
	if err != nil {
		h.logger.Error("Character re-analysis failed",
			zap.String("project_id", projectID.String()),
			zap.Error(err))
		h.writeError(w, err, "character_analysis_failed")
		return
	}
	h.writeCharacters(w, characters)
}

func (h *AnalysisHandler) writeCharacters(w http.ResponseWriter, characters []*models.Character) {
	response := CharactersResponse{Characters: characters, Total: len(characters)}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: response}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ListCasting handles GET /api/projects/{pid}/casting
func (h *AnalysisHandler) ListCasting(w http.ResponseWriter, r *http.Request) {
	projectID, ok := ParseProjectID(w, r, h.logger)
	if !ok {
		return
	}

	suggestions, err := h.repos.Castings.ListByProject(r.Context(), projectID)
	if err != nil {
		h.writeError(w, err, "list_casting_failed")
		return
	}
	h.writeCasting(w, suggestions)
}

// ReAnalyzeCasting handles POST /api/projects/{pid}/casting/analyze
func (h *AnalysisHandler) ReAnalyzeCasting(w http.ResponseWriter, r *http.Request) {
	projectID, ok := ParseProjectID(w, r, h.logger)
	if !ok {
		return
	}

	suggestions, err := h.pipeline.RunCasting(r.Context(), projectID)
	if err != nil {
		h.logger.Error("Casting re-analysis failed",
			zap.String("project_id", projectID.String()),
			zap.Error(err))
		h.writeError(w, err, "casting_failed")
		return
	}
	h.writeCasting(w, suggestions)
}

func (h *AnalysisHandler) writeCasting(w http.ResponseWriter, suggestions []*models.ActorSuggestion) {
	response := CastingResponse{Suggestions: suggestions, Total: len(suggestions)}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: response}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// AddCandidate handles POST /api/projects/{pid}/casting/{character}/candidates
// Appends a user-suggested candidate; AI-original candidates stay untouched.
func (h *AnalysisHandler) AddCandidate(w http.ResponseWriter, r *http.Request) {
	projectID, ok := ParseProjectID(w, r, h.logger)
	if !ok {
		return
	}

	characterName := r.PathValue("character")
	if characterName == "" {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_character", "Character name is required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	var req AddCandidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		if err := ErrorResponse(w, http.StatusBadRequest, "validation_error", "Candidate name is required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	candidate := models.ActorCandidate{
		Name:        req.Name,
		Reasoning:   req.Reasoning,
		FitScore:    req.FitScore,
		FeeEstimate: req.FeeEstimate,
	}

	suggestion, err := h.repos.Castings.AppendCandidate(r.Context(), projectID, characterName, candidate)
	if err != nil {
		h.logger.Error("Failed to append candidate",
			zap.String("project_id", projectID.String()),
			zap.String("character", characterName),
			zap.Error(err))
		h.writeError(w, err, "append_candidate_failed")
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: suggestion}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ListVFX handles GET /api/projects/{pid}/vfx
func (h *AnalysisHandler) ListVFX(w http.ResponseWriter, r *http.Request) {
	projectID, ok := ParseProjectID(w, r, h.logger)
	if !ok {
		return
	}

	needs, err := h.repos.VFX.ListByProject(r.Context(), projectID)
	if err != nil {
		h.writeError(w, err, "list_vfx_failed")
		return
	}
	h.writeVFX(w, needs)
}

// ReAnalyzeVFX handles POST /api/projects/{pid}/vfx/analyze
func (h *AnalysisHandler) ReAnalyzeVFX(w http.ResponseWriter, r *http.Request) {
	projectID, ok := ParseProjectID(w, r, h.logger)
	if !ok {
		return
	}

	needs, err := h.pipeline.RunVFXAnalysis(r.Context(), projectID)
	if err != nil {
		h.logger.Error("VFX re-analysis failed",
			zap.String("project_id", projectID.String()),
			zap.Error(err))
		h.writeError(w, err, "vfx_analysis_failed")
		return
	}
	h.writeVFX(w, needs)
}

func (h *AnalysisHandler) writeVFX(w http.ResponseWriter, needs []*models.VFXNeed) {
	totalCost := 0
	for _, need := range needs {
		totalCost += need.EstimatedCost
	}
	response := VFXResponse{Needs: needs, Total: len(needs), TotalEstimatedCost: totalCost}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: response}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ListPlacements handles GET /api/projects/{pid}/placements
func (h *AnalysisHandler) ListPlacements(w http.ResponseWriter, r *http.Request) {
	projectID, ok := ParseProjectID(w, r, h.logger)
	if !ok {
		return
	}

	placements, err := h.repos.Placements.ListByProject(r.Context(), projectID)
	if err != nil {
		h.writeError(w, err, "list_placements_failed")
		return
	}
	h.writePlacements(w, placements)
}

// ReAnalyzePlacements handles POST /api/projects/{pid}/placements/analyze
func (h *AnalysisHandler) ReAnalyzePlacements(w http.ResponseWriter, r *http.Request) {
	projectID, ok := ParseProjectID(w, r, h.logger)
	if !ok {
		return
	}

	placements, err := h.pipeline.RunPlacementAnalysis(r.Context(), projectID)
	if err != nil {
		h.logger.Error("Placement re-analysis failed",
			zap.String("project_id", projectID.String()),
			zap.Error(err))
		h.writeError(w, err, "placement_analysis_failed")
		return
	}
	h.writePlacements(w, placements)
}

func (h *AnalysisHandler) writePlacements(w http.ResponseWriter, placements []*models.ProductPlacement) {
	totalValue := 0
	for _, placement := range placements {
		totalValue += placement.EstimatedValue
	}
	response := PlacementsResponse{Placements: placements, Total: len(placements), TotalEstimatedValue: totalValue}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: response}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ListLocations handles GET /api/projects/{pid}/locations
func (h *AnalysisHandler) ListLocations(w http.ResponseWriter, r *http.Request) {
	projectID, ok := ParseProjectID(w, r, h.logger)
	if !ok {
		return
	}

	suggestions, err := h.repos.Locations.ListByProject(r.Context(), projectID)
	if err != nil {
		h.writeError(w, err, "list_locations_failed")
		return
	}
	h.writeLocations(w, suggestions)
}

// ReAnalyzeLocations handles POST /api/projects/{pid}/locations/analyze
func (h *AnalysisHandler) ReAnalyzeLocations(w http.ResponseWriter, r *http.Request) {
	projectID, ok := ParseProjectID(w, r, h.logger)
	if !ok {
		return
	}

	suggestions, err := h.pipeline.RunLocationSuggestions(r.Context(), projectID)
	if err != nil {
		h.logger.Error("Location re-analysis failed",
			zap.String("project_id", projectID.String()),
			zap.Error(err))
		h.writeError(w, err, "location_suggestions_failed")
		return
	}
	h.writeLocations(w, suggestions)
}

func (h *AnalysisHandler) writeLocations(w http.ResponseWriter, suggestions []*models.LocationSuggestion) {
	response := LocationsResponse{Suggestions: suggestions, Total: len(suggestions)}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: response}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// GetFinancialPlan handles GET /api/projects/{pid}/financial
func (h *AnalysisHandler) GetFinancialPlan(w http.ResponseWriter, r *http.Request) {
	projectID, ok := ParseProjectID(w, r, h.logger)
	if !ok {
		return
	}

	plan, err := h.repos.Financial.GetByProject(r.Context(), projectID)
	if err != nil {
		h.writeError(w, err, "get_financial_plan_failed")
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: plan}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ReAnalyzeFinancialPlan handles POST /api/projects/{pid}/financial/analyze
func (h *AnalysisHandler) ReAnalyzeFinancialPlan(w http.ResponseWriter, r *http.Request) {
	projectID, ok := ParseProjectID(w, r, h.logger)
	if !ok {
		return
	}

	plan, err := h.pipeline.RunFinancialPlan(r.Context(), projectID)
	if err != nil {
		h.logger.Error("Financial plan re-analysis failed",
			zap.String("project_id", projectID.String()),
			zap.Error(err))
		h.writeError(w, err, "financial_plan_failed")
		return
	}
	if plan == nil {
		if err := ErrorResponse(w, http.StatusBadGateway, "unusable_plan", "Generated plan was unusable; prior plan retained"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: plan}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ReWriteSummary handles POST /api/projects/{pid}/summary/analyze
func (h *AnalysisHandler) ReWriteSummary(w http.ResponseWriter, r *http.Request) {
	projectID, ok := ParseProjectID(w, r, h.logger)
	if !ok {
		return
	}

	summary, err := h.pipeline.RunExecutiveSummary(r.Context(), projectID)
	if err != nil {
		h.logger.Error("Summary re-write failed",
			zap.String("project_id", projectID.String()),
			zap.Error(err))
		h.writeError(w, err, "executive_summary_failed")
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: SummaryResponse{Summary: summary}}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

func (h *AnalysisHandler) writeError(w http.ResponseWriter, err error, fallbackCode string) {
	status, code := MapError(err)
	if status == http.StatusInternalServerError {
		code = fallbackCode
	}
	if writeErr := ErrorResponse(w, status, code, err.Error()); writeErr != nil {
		h.logger.Error("Failed to write error response", zap.Error(writeErr))
	}
}
