// Package config provides configuration management for the ingestor service.
// Configuration is read from a YAML file with environment variable overrides;
// a .env file is loaded first when present.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/openlingua/ingestor/internal/logger"
)

// Server defaults.
const (
	defaultServerAddress      = ":8080"
	defaultServerReadTimeout  = 30 * time.Second
	defaultServerWriteTimeout = 30 * time.Second
	defaultServerIdleTimeout  = 60 * time.Second
)

// Ingest defaults.
const (
	defaultPerFeedLimit    = 3
	defaultConcurrency     = 5
	defaultFetchTimeout    = 10 * time.Second
	defaultTranscriptLang  = "en"
	defaultSweepSchedule   = "0 */6 * * *"
	defaultEnrichModel     = "claude-3-5-haiku-latest"
	defaultEnrichMaxTokens = 2048
	defaultPromptTemplate  = "resource_analysis"
)

// Config represents the application configuration.
type Config struct {
	// Server holds HTTP server configuration.
	Server ServerConfig `yaml:"server"`
	// Database holds PostgreSQL configuration.
	Database DatabaseConfig `yaml:"database"`
	// Ingest holds ingestion pipeline configuration.
	Ingest IngestConfig `yaml:"ingest"`
	// Enrich holds label enrichment configuration.
	Enrich EnrichConfig `yaml:"enrich"`
	// Logging holds logger configuration.
	Logging logger.Config `yaml:"logging"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Address      string        `yaml:"address" env:"SERVER_ADDRESS"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	Host     string `yaml:"host" env:"DB_HOST"`
	Port     string `yaml:"port" env:"DB_PORT"`
	User     string `yaml:"user" env:"DB_USER"`
	Password string `yaml:"password" env:"DB_PASSWORD"`
	Name     string `yaml:"name" env:"DB_NAME"`
	SSLMode  string `yaml:"ssl_mode" env:"DB_SSL_MODE"`
}

// IngestConfig holds ingestion pipeline configuration.
type IngestConfig struct {
	// FeedURLs lists the RSS/Atom feeds scanned by the feed sweep.
	FeedURLs []string `yaml:"feed_urls" env:"INGEST_FEED_URLS"`
	// PerFeedLimit caps how many new (non-duplicate) items are ingested
	// per feed per sweep.
	PerFeedLimit int `yaml:"per_feed_limit" env:"INGEST_PER_FEED_LIMIT"`
	// Concurrency caps in-flight ingestion tasks across a sweep.
	Concurrency int `yaml:"concurrency" env:"INGEST_CONCURRENCY"`
	// FetchTimeout bounds each outbound article or feed fetch.
	FetchTimeout time.Duration `yaml:"fetch_timeout" env:"INGEST_FETCH_TIMEOUT"`
	// TranscriptLanguage is the caption language requested from YouTube.
	TranscriptLanguage string `yaml:"transcript_language"`
	// SweepSchedule is the cron spec for the periodic feed sweep.
	SweepSchedule string `yaml:"sweep_schedule" env:"INGEST_SWEEP_SCHEDULE"`
	// SweepEnabled toggles the periodic sweep in serve mode.
	SweepEnabled bool `yaml:"sweep_enabled" env:"INGEST_SWEEP_ENABLED"`
}

// EnrichConfig holds label enrichment configuration.
type EnrichConfig struct {
	// APIKey authenticates against the Anthropic API.
	APIKey string `yaml:"api_key" env:"ANTHROPIC_API_KEY"`
	// Model is the generation model identifier.
	Model string `yaml:"model" env:"ENRICH_MODEL"`
	// MaxTokens bounds the model response length.
	MaxTokens int `yaml:"max_tokens"`
	// Template is the name of the prompt template to render.
	Template string `yaml:"template"`
	// TemplatePaths lists directories searched for prompt templates, in
	// order. The first directory containing <name>.txt wins.
	TemplatePaths []string `yaml:"template_paths"`
}

// SetDefaults applies default values to unset fields.
func (c *Config) SetDefaults() {
	if c.Server.Address == "" {
		c.Server.Address = defaultServerAddress
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = defaultServerReadTimeout
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = defaultServerWriteTimeout
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = defaultServerIdleTimeout
	}

	if c.Database.Port == "" {
		c.Database.Port = "5432"
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}

	if c.Ingest.PerFeedLimit == 0 {
		c.Ingest.PerFeedLimit = defaultPerFeedLimit
	}
	if c.Ingest.Concurrency == 0 {
		c.Ingest.Concurrency = defaultConcurrency
	}
	if c.Ingest.FetchTimeout == 0 {
		c.Ingest.FetchTimeout = defaultFetchTimeout
	}
	if c.Ingest.TranscriptLanguage == "" {
		c.Ingest.TranscriptLanguage = defaultTranscriptLang
	}
	if c.Ingest.SweepSchedule == "" {
		c.Ingest.SweepSchedule = defaultSweepSchedule
	}

	if c.Enrich.Model == "" {
		c.Enrich.Model = defaultEnrichModel
	}
	if c.Enrich.MaxTokens == 0 {
		c.Enrich.MaxTokens = defaultEnrichMaxTokens
	}
	if c.Enrich.Template == "" {
		c.Enrich.Template = defaultPromptTemplate
	}
	if len(c.Enrich.TemplatePaths) == 0 {
		c.Enrich.TemplatePaths = []string{"prompts/templates"}
	}
}

// Validate checks the configuration for the serve and sweep commands.
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return errors.New("database host is required")
	}
	if c.Database.User == "" {
		return errors.New("database user is required")
	}
	if c.Database.Name == "" {
		return errors.New("database name is required")
	}
	if c.Enrich.APIKey == "" {
		return errors.New("enrich api_key is required")
	}
	if c.Ingest.PerFeedLimit < 0 {
		return fmt.Errorf("per_feed_limit must be non-negative, got %d", c.Ingest.PerFeedLimit)
	}
	if c.Ingest.Concurrency < 1 {
		return fmt.Errorf("concurrency must be positive, got %d", c.Ingest.Concurrency)
	}
	return nil
}
