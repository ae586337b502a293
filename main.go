package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/cinelens-ai/cinelens-engine/pkg/config"
	"github.com/cinelens-ai/cinelens-engine/pkg/database"
	"github.com/cinelens-ai/cinelens-engine/pkg/handlers"
	"github.com/cinelens-ai/cinelens-engine/pkg/llm"
	"github.com/cinelens-ai/cinelens-engine/pkg/logging"
	"github.com/cinelens-ai/cinelens-engine/pkg/repositories"
	"github.com/cinelens-ai/cinelens-engine/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("database", logging.SanitizeConnectionString(cfg.Database.ConnectionString())),
		zap.String("default_provider", cfg.Generation.DefaultProvider),
		zap.Bool("openai_configured", cfg.OpenAI.IsAvailable()),
		zap.Bool("anthropic_configured", cfg.Anthropic.IsAvailable()))

	ctx := context.Background()

	// Migrations run over database/sql; the serving path uses pgx pools.
	sqlDB, err := sql.Open("pgx", cfg.Database.ConnectionString())
	if err != nil {
		logger.Fatal("Failed to open migration connection", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, cfg.MigrationsPath, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	_ = sqlDB.Close()

	db, err := database.NewConnection(ctx, &database.Config{
		URL:            cfg.Database.ConnectionString(),
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	factory := llm.NewProviderFactory(llm.FactoryConfig{
		OpenAIBaseURL:   cfg.OpenAI.BaseURL,
		OpenAIModel:     cfg.OpenAI.Model,
		OpenAIAPIKey:    cfg.OpenAI.APIKey,
		AnthropicModel:  cfg.Anthropic.Model,
		AnthropicAPIKey: cfg.Anthropic.APIKey,
	}, logger)

	generation := services.NewGenerationService(factory, &cfg.Generation, logger)

	repos := services.PipelineRepositories{
		Projects:   repositories.NewProjectRepository(db),
		Scenes:     repositories.NewSceneRepository(db),
		Characters: repositories.NewCharacterRepository(db),
		Castings:   repositories.NewCastingRepository(db),
		VFX:        repositories.NewVFXRepository(db),
		Placements: repositories.NewPlacementRepository(db),
		Locations:  repositories.NewLocationRepository(db),
		Financial:  repositories.NewFinancialRepository(db),
	}

	stages := services.PipelineStages{
		SceneExtraction:   services.NewSceneExtractionService(generation, logger),
		CharacterAnalysis: services.NewCharacterAnalysisService(generation, logger),
		Casting:           services.NewCastingService(generation, logger),
		VFXAnalysis:       services.NewVFXAnalysisService(generation, logger),
		Placement:         services.NewPlacementService(generation, logger),
		Locations:         services.NewLocationService(generation, logger),
		FinancialPlan:     services.NewFinancialPlanService(generation, logger),
		Summary:           services.NewSummaryService(generation, logger),
	}

	pipeline := services.NewPipelineService(repos, stages, logger)

	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(cfg, logger)
	healthHandler.RegisterRoutes(mux)

	projectsHandler := handlers.NewProjectsHandler(repos.Projects, pipeline, logger)
	projectsHandler.RegisterRoutes(mux)

	analysisHandler := handlers.NewAnalysisHandler(pipeline, repos, logger)
	analysisHandler.RegisterRoutes(mux)

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("Starting cinelens-engine",
		zap.String("addr", addr),
		zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

// newLogger builds a production logger everywhere except local development.
func newLogger(env string) (*zap.Logger, error) {
	if env == "local" || env == "dev" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
