package services

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/cinelens-ai/cinelens-engine/pkg/apperrors"
	"github.com/cinelens-ai/cinelens-engine/pkg/jsonutil"
	"github.com/cinelens-ai/cinelens-engine/pkg/models"
	"github.com/cinelens-ai/cinelens-engine/pkg/prompts"
)

// SceneExtractionService segments a raw script into scenes.
// This is the only stage with a deterministic fallback: when the generation
// capability is unavailable or its output is unusable, the basic parser runs
// instead so the pipeline degrades gracefully rather than blocking.
type SceneExtractionService interface {
	Extract(ctx context.Context, script string) ([]*models.Scene, error)
}

type sceneExtractionService struct {
	generation GenerationService
	logger     *zap.Logger
}

// NewSceneExtractionService creates a new scene extraction service.
func NewSceneExtractionService(generation GenerationService, logger *zap.Logger) SceneExtractionService {
	return &sceneExtractionService{
		generation: generation,
		logger:     logger.Named("scene-extraction"),
	}
}

// scenePayload is the wire shape the extraction prompt asks for. Numeric
// fields are raw so sloppy model output ("3" vs 3) still decodes.
type scenePayload struct {
	SceneNumber       json.RawMessage `json:"scene_number"`
	Location          string          `json:"location"`
	TimeOfDay         string          `json:"time_of_day"`
	Description       string          `json:"description"`
	Characters        json.RawMessage `json:"characters"`
	Content           string          `json:"content"`
	PageStart         json.RawMessage `json:"page_start"`
	PageEnd           json.RawMessage `json:"page_end"`
	DurationMinutes   json.RawMessage `json:"duration_minutes"`
	VFXNeeds          json.RawMessage `json:"vfx_needs"`
	ProductPlacements json.RawMessage `json:"product_placements"`
}

// Extract segments the script, preferring the AI path and falling back to the
// deterministic parser on any hard or soft generation failure.
func (s *sceneExtractionService) Extract(ctx context.Context, script string) ([]*models.Scene, error) {
	if strings.TrimSpace(script) == "" {
		return nil, apperrors.ErrEmptyScript
	}

	prompt := prompts.BuildSceneExtractionPrompt(script)

	result, err := s.generation.Generate(ctx, StageSceneExtraction, prompt, prompts.SceneExtractionSystem)
	if err != nil {
		s.logger.Warn("AI scene extraction unavailable - using basic parser", zap.Error(err))
		return ParseScenesBasic(script), nil
	}
	if result.ParseFailed {
		s.logger.Warn("AI scene extraction returned unusable output - using basic parser")
		return ParseScenesBasic(script), nil
	}

	var payloads []scenePayload
	if err := json.Unmarshal(result.Normalized.Array, &payloads); err != nil {
		s.logger.Warn("AI scene extraction array did not decode - using basic parser", zap.Error(err))
		return ParseScenesBasic(script), nil
	}

	scenes := make([]*models.Scene, 0, len(payloads))
	for i, payload := range payloads {
		scene := &models.Scene{
			SceneNumber:       jsonutil.FlexibleIntValue(payload.SceneNumber),
			Location:          payload.Location,
			TimeOfDay:         payload.TimeOfDay,
			Description:       payload.Description,
			Characters:        jsonutil.FlexibleStringSlice(payload.Characters),
			Content:           payload.Content,
			PageStart:         jsonutil.FlexibleIntValue(payload.PageStart),
			PageEnd:           jsonutil.FlexibleIntValue(payload.PageEnd),
			DurationMinutes:   jsonutil.FlexibleIntValue(payload.DurationMinutes),
			VFXNeeds:          jsonutil.FlexibleStringSlice(payload.VFXNeeds),
			ProductPlacements: jsonutil.FlexibleStringSlice(payload.ProductPlacements),
		}
		if scene.SceneNumber == 0 {
			scene.SceneNumber = i + 1
		}
		if scene.Characters == nil {
			scene.Characters = []string{}
		}
		scenes = append(scenes, scene)
	}

	if len(scenes) == 0 {
		s.logger.Warn("AI scene extraction yielded no scenes - using basic parser")
		return ParseScenesBasic(script), nil
	}

	s.logger.Info("Extracted scenes", zap.Int("count", len(scenes)))
	return scenes, nil
}

// Ensure sceneExtractionService implements SceneExtractionService at compile time.
var _ SceneExtractionService = (*sceneExtractionService)(nil)
