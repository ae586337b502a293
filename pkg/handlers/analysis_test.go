package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cinelens-ai/cinelens-engine/pkg/apperrors"
	"github.com/cinelens-ai/cinelens-engine/pkg/models"
	"github.com/cinelens-ai/cinelens-engine/pkg/services"
)

// stubPipeline implements services.PipelineService with function fields.
type stubPipeline struct {
	runSceneExtractionFunc   func(ctx context.Context, projectID uuid.UUID, script string) ([]*models.Scene, error)
	runCharacterAnalysisFunc func(ctx context.Context, projectID uuid.UUID) ([]*models.Character, error)
	runCastingFunc           func(ctx context.Context, projectID uuid.UUID) ([]*models.ActorSuggestion, error)
	runFinancialPlanFunc     func(ctx context.Context, projectID uuid.UUID) (*models.FinancialPlan, error)
	analyzeFunc              func(ctx context.Context, projectID uuid.UUID, script string) error
}

func (s *stubPipeline) Analyze(ctx context.Context, projectID uuid.UUID, script string) error {
	if s.analyzeFunc != nil {
		return s.analyzeFunc(ctx, projectID, script)
	}
	return nil
}

func (s *stubPipeline) RunSceneExtraction(ctx context.Context, projectID uuid.UUID, script string) ([]*models.Scene, error) {
	if s.runSceneExtractionFunc != nil {
		return s.runSceneExtractionFunc(ctx, projectID, script)
	}
	return nil, nil
}

func (s *stubPipeline) RunCharacterAnalysis(ctx context.Context, projectID uuid.UUID) ([]*models.Character, error) {
	if s.runCharacterAnalysisFunc != nil {
		return s.runCharacterAnalysisFunc(ctx, projectID)
	}
	return nil, nil
}

func (s *stubPipeline) RunCasting(ctx context.Context, projectID uuid.UUID) ([]*models.ActorSuggestion, error) {
	if s.runCastingFunc != nil {
		return s.runCastingFunc(ctx, projectID)
	}
	return nil, nil
}

func (s *stubPipeline) RunVFXAnalysis(ctx context.Context, projectID uuid.UUID) ([]*models.VFXNeed, error) {
	return nil, nil
}

func (s *stubPipeline) RunPlacementAnalysis(ctx context.Context, projectID uuid.UUID) ([]*models.ProductPlacement, error) {
	return nil, nil
}

func (s *stubPipeline) RunLocationSuggestions(ctx context.Context, projectID uuid.UUID) ([]*models.LocationSuggestion, error) {
	return nil, nil
}

func (s *stubPipeline) RunFinancialPlan(ctx context.Context, projectID uuid.UUID) (*models.FinancialPlan, error) {
	if s.runFinancialPlanFunc != nil {
		return s.runFinancialPlanFunc(ctx, projectID)
	}
	return nil, nil
}

func (s *stubPipeline) RunExecutiveSummary(ctx context.Context, projectID uuid.UUID) (string, error) {
	return "", nil
}

// stubSceneRepo implements repositories.SceneRepository over a fixed slice.
type stubSceneRepo struct {
	scenes []*models.Scene
}

func (r *stubSceneRepo) ReplaceForProject(ctx context.Context, projectID uuid.UUID, scenes []*models.Scene) error {
	r.scenes = scenes
	return nil
}

func (r *stubSceneRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.Scene, error) {
	return r.scenes, nil
}

func (r *stubSceneRepo) CountByProject(ctx context.Context, projectID uuid.UUID) (int, error) {
	return len(r.scenes), nil
}

// stubCastingRepo implements repositories.CastingRepository over one record.
type stubCastingRepo struct {
	suggestion *models.ActorSuggestion
}

func (r *stubCastingRepo) ReplaceForProject(ctx context.Context, projectID uuid.UUID, suggestions []*models.ActorSuggestion) error {
	return nil
}

func (r *stubCastingRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.ActorSuggestion, error) {
	if r.suggestion == nil {
		return nil, nil
	}
	return []*models.ActorSuggestion{r.suggestion}, nil
}

func (r *stubCastingRepo) GetByCharacter(ctx context.Context, projectID uuid.UUID, characterName string) (*models.ActorSuggestion, error) {
	if r.suggestion == nil || r.suggestion.CharacterName != characterName {
		return nil, apperrors.ErrNotFound
	}
	return r.suggestion, nil
}

func (r *stubCastingRepo) AppendCandidate(ctx context.Context, projectID uuid.UUID, characterName string, candidate models.ActorCandidate) (*models.ActorSuggestion, error) {
	suggestion, err := r.GetByCharacter(ctx, projectID, characterName)
	if err != nil {
		return nil, err
	}
	candidate.UserSuggested = true
	suggestion.Candidates = append(suggestion.Candidates, candidate)
	return suggestion, nil
}

// stubFinancialRepo implements repositories.FinancialRepository.
type stubFinancialRepo struct {
	plan *models.FinancialPlan
}

func (r *stubFinancialRepo) Replace(ctx context.Context, plan *models.FinancialPlan) error {
	r.plan = plan
	return nil
}

func (r *stubFinancialRepo) GetByProject(ctx context.Context, projectID uuid.UUID) (*models.FinancialPlan, error) {
	if r.plan == nil {
		return nil, apperrors.ErrNotFound
	}
	return r.plan, nil
}

func newAnalysisMux(pipeline services.PipelineService, repos services.PipelineRepositories) *http.ServeMux {
	mux := http.NewServeMux()
	NewAnalysisHandler(pipeline, repos, zap.NewNop()).RegisterRoutes(mux)
	return mux
}

func TestListScenes(t *testing.T) {
	sceneRepo := &stubSceneRepo{scenes: []*models.Scene{
		{ID: uuid.New(), SceneNumber: 1, Location: "OFFICE", DurationMinutes: 3},
		{ID: uuid.New(), SceneNumber: 2, Location: "STREET", DurationMinutes: 2},
	}}
	mux := newAnalysisMux(&stubPipeline{}, services.PipelineRepositories{Scenes: sceneRepo})

	req := httptest.NewRequest(http.MethodGet, "/api/projects/"+uuid.NewString()+"/scenes", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Success bool `json:"success"`
		Data    struct {
			Total                int `json:"total"`
			TotalDurationMinutes int `json:"total_duration_minutes"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	assert.Equal(t, 2, envelope.Data.Total)
	assert.Equal(t, 5, envelope.Data.TotalDurationMinutes)
}

func TestListScenes_InvalidProjectID(t *testing.T) {
	mux := newAnalysisMux(&stubPipeline{}, services.PipelineRepositories{Scenes: &stubSceneRepo{}})

	req := httptest.NewRequest(http.MethodGet, "/api/projects/not-a-uuid/scenes", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReAnalyzeCasting_PreconditionNotMet(t *testing.T) {
	pipeline := &stubPipeline{
		runCastingFunc: func(ctx context.Context, projectID uuid.UUID) ([]*models.ActorSuggestion, error) {
			return nil, apperrors.ErrPreconditionNotMet
		},
	}
	mux := newAnalysisMux(pipeline, services.PipelineRepositories{})

	req := httptest.NewRequest(http.MethodPost, "/api/projects/"+uuid.NewString()+"/casting/analyze", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "precondition_not_met")
}

func TestAddCandidate(t *testing.T) {
	castingRepo := &stubCastingRepo{suggestion: &models.ActorSuggestion{
		CharacterName: "MARA",
		Candidates:    []models.ActorCandidate{{Name: "A. Actor", FitScore: 88}},
	}}
	mux := newAnalysisMux(&stubPipeline{}, services.PipelineRepositories{Castings: castingRepo})

	body := strings.NewReader(`{"name": "B. Actor", "reasoning": "Producer request", "fit_score": 70}`)
	req := httptest.NewRequest(http.MethodPost, "/api/projects/"+uuid.NewString()+"/casting/MARA/candidates", body)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, castingRepo.suggestion.Candidates, 2)
	appended := castingRepo.suggestion.Candidates[1]
	assert.Equal(t, "B. Actor", appended.Name)
	assert.True(t, appended.UserSuggested)
	assert.False(t, castingRepo.suggestion.Candidates[0].UserSuggested)
}

func TestAddCandidate_MissingName(t *testing.T) {
	mux := newAnalysisMux(&stubPipeline{}, services.PipelineRepositories{Castings: &stubCastingRepo{}})

	body := strings.NewReader(`{"reasoning": "no name"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/projects/"+uuid.NewString()+"/casting/MARA/candidates", body)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddCandidate_UnknownCharacter(t *testing.T) {
	mux := newAnalysisMux(&stubPipeline{}, services.PipelineRepositories{Castings: &stubCastingRepo{}})

	body := strings.NewReader(`{"name": "B. Actor"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/projects/"+uuid.NewString()+"/casting/NOBODY/candidates", body)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetFinancialPlan_NotFound(t *testing.T) {
	mux := newAnalysisMux(&stubPipeline{}, services.PipelineRepositories{Financial: &stubFinancialRepo{}})

	req := httptest.NewRequest(http.MethodGet, "/api/projects/"+uuid.NewString()+"/financial", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReAnalyzeFinancialPlan_UnusableOutput(t *testing.T) {
	pipeline := &stubPipeline{
		runFinancialPlanFunc: func(ctx context.Context, projectID uuid.UUID) (*models.FinancialPlan, error) {
			return nil, nil
		},
	}
	mux := newAnalysisMux(pipeline, services.PipelineRepositories{})

	req := httptest.NewRequest(http.MethodPost, "/api/projects/"+uuid.NewString()+"/financial/analyze", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
