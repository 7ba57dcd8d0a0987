// Package common builds the dependency graph shared by all commands.
package common

import (
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/openlingua/ingestor/internal/config"
	"github.com/openlingua/ingestor/internal/enrich"
	"github.com/openlingua/ingestor/internal/extractor"
	"github.com/openlingua/ingestor/internal/feed"
	"github.com/openlingua/ingestor/internal/logger"
	"github.com/openlingua/ingestor/internal/pipeline"
	"github.com/openlingua/ingestor/internal/store"
	"github.com/openlingua/ingestor/internal/transcript"
)

// Deps holds the wired dependencies for a command run.
type Deps struct {
	Config      *config.Config
	Log         logger.Logger
	DB          *sqlx.DB
	Contents    *store.ContentRepository
	Transcripts *transcript.Fetcher
	Pipeline    *pipeline.Pipeline
}

// Build loads configuration and wires the full dependency graph.
func Build(configPath string) (*Deps, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if validateErr := cfg.Validate(); validateErr != nil {
		return nil, fmt.Errorf("validate config: %w", validateErr)
	}

	log, logErr := logger.New(cfg.Logging)
	if logErr != nil {
		return nil, fmt.Errorf("create logger: %w", logErr)
	}

	db, dbErr := store.NewPostgresConnection(store.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.Name,
		SSLMode:  cfg.Database.SSLMode,
	})
	if dbErr != nil {
		return nil, fmt.Errorf("connect database: %w", dbErr)
	}

	contents := store.NewContentRepository(db)

	// One client per outbound concern; the fetch timeout bounds each call.
	fetchClient := &http.Client{Timeout: cfg.Ingest.FetchTimeout}

	articles := extractor.New(fetchClient, log)
	transcripts := transcript.NewFetcher(fetchClient, cfg.Ingest.TranscriptLanguage, log)
	feeds := feed.NewFetcher(fetchClient)

	prompts := enrich.NewPromptStore(cfg.Enrich.TemplatePaths)
	generator := enrich.NewAnthropicGenerator(cfg.Enrich.APIKey, cfg.Enrich.Model, cfg.Enrich.MaxTokens)
	enricher := enrich.NewClient(generator, prompts, cfg.Enrich.Template, log)

	pipe := pipeline.New(contents, transcripts, articles, enricher, feeds, pipeline.Config{
		FeedURLs:     cfg.Ingest.FeedURLs,
		PerFeedLimit: cfg.Ingest.PerFeedLimit,
		Concurrency:  cfg.Ingest.Concurrency,
	}, log)

	return &Deps{
		Config:      cfg,
		Log:         log,
		DB:          db,
		Contents:    contents,
		Transcripts: transcripts,
		Pipeline:    pipe,
	}, nil
}

// Close releases the resources held by the dependency graph.
func (d *Deps) Close() {
	if d.DB != nil {
		if err := d.DB.Close(); err != nil {
			d.Log.Error("close database", logger.Error(err))
		}
	}
	_ = d.Log.Sync()
}
