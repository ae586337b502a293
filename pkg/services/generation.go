// Package services contains the analysis pipeline: the generation client,
// the per-stage analysis functions, and the orchestrator that sequences them.
package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/cinelens-ai/cinelens-engine/pkg/config"
	"github.com/cinelens-ai/cinelens-engine/pkg/llm"
	"github.com/cinelens-ai/cinelens-engine/pkg/logging"
)

// StageName identifies one pipeline stage.
type StageName string

const (
	StageSceneExtraction  StageName = "scene_extraction"
	StageCharacters       StageName = "character_analysis"
	StageCasting          StageName = "casting_suggestions"
	StageVFX              StageName = "vfx_analysis"
	StagePlacement        StageName = "product_placement"
	StageLocations        StageName = "location_suggestions"
	StageFinancialPlan    StageName = "financial_plan"
	StageExecutiveSummary StageName = "executive_summary"
)

// StageConfig holds the generation settings for one stage: which provider to
// call, the completion token budget, sampling temperature, and the output
// shape the normalizer should enforce.
type StageConfig struct {
	Provider    llm.Provider
	MaxTokens   int
	Temperature float64
	Shape       llm.OutputShape
}

// defaultStageConfigs carries the compiled-in budgets. Extraction and the
// financial plan need the largest completions; product placement the smallest.
var defaultStageConfigs = map[StageName]StageConfig{
	StageSceneExtraction:  {MaxTokens: 8000, Temperature: 0.2, Shape: llm.ShapeArray},
	StageCharacters:       {MaxTokens: 6000, Temperature: 0.3, Shape: llm.ShapeArray},
	StageCasting:          {MaxTokens: 4000, Temperature: 0.5, Shape: llm.ShapeArray},
	StageVFX:              {MaxTokens: 3000, Temperature: 0.3, Shape: llm.ShapeArray},
	StagePlacement:        {MaxTokens: 2000, Temperature: 0.5, Shape: llm.ShapeArray},
	StageLocations:        {MaxTokens: 4000, Temperature: 0.5, Shape: llm.ShapeArray},
	StageFinancialPlan:    {MaxTokens: 6000, Temperature: 0.2, Shape: llm.ShapeObject},
	StageExecutiveSummary: {MaxTokens: 2000, Temperature: 0.6, Shape: llm.ShapeText},
}

// StageResult is what a generation call yields for a stage.
// For structured shapes exactly one of Normalized or ParseFailed is
// meaningful: a failed parse is a soft outcome (zero findings), not an error.
type StageResult struct {
	Raw         string
	Normalized  *llm.NormalizedResult
	ParseFailed bool
}

// GenerationService sends stage prompts to the configured provider and
// normalizes the response according to the stage's declared shape.
type GenerationService interface {
	Generate(ctx context.Context, stage StageName, prompt, systemMessage string) (*StageResult, error)
	StageConfig(stage StageName) StageConfig
}

type generationService struct {
	factory llm.ClientFactory
	stages  map[StageName]StageConfig
	logger  *zap.Logger
}

// NewGenerationService builds the per-stage configuration table once, applying
// config overrides on top of the compiled-in defaults, and returns a service
// bound to the injected client factory.
func NewGenerationService(factory llm.ClientFactory, cfg *config.GenerationConfig, logger *zap.Logger) GenerationService {
	defaultProvider := llm.Provider(cfg.DefaultProvider)
	if defaultProvider == "" {
		defaultProvider = llm.ProviderOpenAI
	}

	stages := make(map[StageName]StageConfig, len(defaultStageConfigs))
	for stage, stageCfg := range defaultStageConfigs {
		stageCfg.Provider = defaultProvider
		if override, ok := cfg.Stages[string(stage)]; ok {
			if override.Provider != "" {
				stageCfg.Provider = llm.Provider(override.Provider)
			}
			if override.MaxTokens > 0 {
				stageCfg.MaxTokens = override.MaxTokens
			}
			if override.Temperature > 0 {
				stageCfg.Temperature = override.Temperature
			}
		}
		stages[stage] = stageCfg
	}

	return &generationService{
		factory: factory,
		stages:  stages,
		logger:  logger.Named("generation"),
	}
}

// StageConfig returns the resolved configuration for a stage.
func (s *generationService) StageConfig(stage StageName) StageConfig {
	return s.stages[stage]
}

// Generate runs one generation call for a stage. Provider errors are returned
// as classified *llm.Error values (hard failures); an unparsable response for
// a structured stage is returned as a soft ParseFailed result with the raw
// text logged for offline inspection.
func (s *generationService) Generate(ctx context.Context, stage StageName, prompt, systemMessage string) (*StageResult, error) {
	stageCfg, ok := s.stages[stage]
	if !ok {
		return nil, llm.NewError(llm.ErrorTypeUnknown, "unknown stage "+string(stage), nil)
	}

	client, err := s.factory.CreateClient(stageCfg.Provider)
	if err != nil {
		return nil, llm.ClassifyError(err)
	}

	s.logger.Debug("Generating stage output",
		zap.String("stage", string(stage)),
		zap.String("provider", string(stageCfg.Provider)),
		zap.String("model", client.GetModel()),
		zap.Int("max_tokens", stageCfg.MaxTokens))

	result, err := client.GenerateResponse(ctx, prompt, systemMessage, stageCfg.Temperature, stageCfg.MaxTokens)
	if err != nil {
		return nil, llm.ClassifyError(err)
	}

	if stageCfg.Shape == llm.ShapeText {
		return &StageResult{Raw: result.Content}, nil
	}

	normalized, err := llm.Normalize(result.Content, stageCfg.Shape)
	if err != nil {
		var parseErr *llm.ParseError
		if errors.As(err, &parseErr) {
			// Deliberate: malformed output is the common case with
			// non-deterministic generation. Log the raw text and hand the
			// stage a zero-result outcome instead of failing the run.
			s.logger.Warn("Stage response could not be normalized",
				zap.String("stage", string(stage)),
				zap.String("shape", string(stageCfg.Shape)),
				zap.String("raw", logging.SanitizeRawResponse(parseErr.Raw)),
				zap.NamedError("reason", parseErr.Cause))
			return &StageResult{Raw: result.Content, ParseFailed: true}, nil
		}
		return nil, err
	}

	return &StageResult{Raw: result.Content, Normalized: normalized}, nil
}

// Ensure generationService implements GenerationService at compile time.
var _ GenerationService = (*generationService)(nil)
