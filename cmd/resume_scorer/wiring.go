package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/riyanshibariyaa/resume-scoring-system/internal/config"
	"github.com/riyanshibariyaa/resume-scoring-system/internal/db"
	"github.com/riyanshibariyaa/resume-scoring-system/internal/extract"
	"github.com/riyanshibariyaa/resume-scoring-system/internal/logger"
	"github.com/riyanshibariyaa/resume-scoring-system/internal/scoring"
)

// loadConfig resolves configuration: environment wins over the optional
// config file, which wins over built-in defaults.
func loadConfig() (config.Config, error) {
	cfg := config.FromEnv()

	defaults := config.Defaults()
	if configPath != "" {
		fileCfg, err := config.LoadConfig(configPath)
		if err != nil {
			return config.Config{}, err
		}
		defaults = fileCfg.MergeWithDefaults(defaults)
	}
	cfg = cfg.MergeWithDefaults(defaults)

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// deps holds the wired service dependencies.
type deps struct {
	cfg      config.Config
	log      *zap.Logger
	database *db.DB
	scorer   *scoring.Orchestrator
	parser   *extract.ParserClient
	embedder *extract.EmbeddingClient
}

// buildDeps connects the database, applies migrations and constructs the
// scoring orchestrator and collaborator clients.
func buildDeps(ctx context.Context) (*deps, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.LogJSON, cfg.LogDebug)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(ctx); err != nil {
		database.Close()
		return nil, err
	}

	timeout := time.Duration(cfg.ExtractTimeoutSeconds) * time.Second

	return &deps{
		cfg:      cfg,
		log:      log,
		database: database,
		scorer:   scoring.NewOrchestrator(database, scoring.NewSynonymResolver(scoring.DefaultSynonymTable()), log),
		parser:   extract.NewParserClient(cfg.ParserServiceURL, timeout),
		embedder: extract.NewEmbeddingClient(cfg.EmbeddingServiceURL, timeout),
	}, nil
}

func (d *deps) close() {
	d.database.Close()
	_ = d.log.Sync()
}
