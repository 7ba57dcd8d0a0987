package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetDefaults(t *testing.T) {
	t.Parallel()

	var cfg Config
	cfg.SetDefaults()

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 3, cfg.Ingest.PerFeedLimit)
	assert.Equal(t, 5, cfg.Ingest.Concurrency)
	assert.Equal(t, 10*time.Second, cfg.Ingest.FetchTimeout)
	assert.Equal(t, "en", cfg.Ingest.TranscriptLanguage)
	assert.Equal(t, "0 */6 * * *", cfg.Ingest.SweepSchedule)
	assert.Equal(t, "claude-3-5-haiku-latest", cfg.Enrich.Model)
	assert.Equal(t, 2048, cfg.Enrich.MaxTokens)
	assert.Equal(t, "resource_analysis", cfg.Enrich.Template)
	assert.Equal(t, []string{"prompts/templates"}, cfg.Enrich.TemplatePaths)
}

func TestSetDefaults_KeepsExplicitValues(t *testing.T) {
	t.Parallel()

	cfg := Config{}
	cfg.Ingest.PerFeedLimit = 7
	cfg.Server.Address = ":9000"
	cfg.SetDefaults()

	assert.Equal(t, 7, cfg.Ingest.PerFeedLimit)
	assert.Equal(t, ":9000", cfg.Server.Address)
}

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_YAMLFile(t *testing.T) {
	path := writeConfigFile(t, `
server:
  address: ":9090"
database:
  host: localhost
  user: ingestor
  name: ingestor
ingest:
  feed_urls:
    - https://example.com/feed.xml
  per_feed_limit: 5
enrich:
  api_key: test-key
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, []string{"https://example.com/feed.xml"}, cfg.Ingest.FeedURLs)
	assert.Equal(t, 5, cfg.Ingest.PerFeedLimit)

	// Unset fields still receive defaults.
	assert.Equal(t, 5, cfg.Ingest.Concurrency)
	assert.Equal(t, "claude-3-5-haiku-latest", cfg.Enrich.Model)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Address)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfigFile(t, "server: [not a mapping")

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("INGEST_PER_FEED_LIMIT", "9")
	t.Setenv("INGEST_FETCH_TIMEOUT", "2s")
	t.Setenv("INGEST_SWEEP_ENABLED", "true")
	t.Setenv("INGEST_FEED_URLS", "https://a.example/feed, https://b.example/feed")
	t.Setenv("ANTHROPIC_API_KEY", "env-key")

	path := writeConfigFile(t, `
database:
  host: from-file
ingest:
  per_feed_limit: 2
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	// Environment always wins over file values.
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 9, cfg.Ingest.PerFeedLimit)
	assert.Equal(t, 2*time.Second, cfg.Ingest.FetchTimeout)
	assert.True(t, cfg.Ingest.SweepEnabled)
	assert.Equal(t, []string{"https://a.example/feed", "https://b.example/feed"}, cfg.Ingest.FeedURLs)
	assert.Equal(t, "env-key", cfg.Enrich.APIKey)
}

func validTestConfig() Config {
	var cfg Config
	cfg.SetDefaults()
	cfg.Database.Host = "localhost"
	cfg.Database.User = "ingestor"
	cfg.Database.Name = "ingestor"
	cfg.Enrich.APIKey = "key"
	return cfg
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(_ *Config) {},
		},
		{
			name:    "missing database host",
			mutate:  func(c *Config) { c.Database.Host = "" },
			wantErr: "database host",
		},
		{
			name:    "missing database user",
			mutate:  func(c *Config) { c.Database.User = "" },
			wantErr: "database user",
		},
		{
			name:    "missing database name",
			mutate:  func(c *Config) { c.Database.Name = "" },
			wantErr: "database name",
		},
		{
			name:    "missing api key",
			mutate:  func(c *Config) { c.Enrich.APIKey = "" },
			wantErr: "api_key",
		},
		{
			name:    "negative per feed limit",
			mutate:  func(c *Config) { c.Ingest.PerFeedLimit = -1 },
			wantErr: "per_feed_limit",
		},
		{
			name:    "zero concurrency",
			mutate:  func(c *Config) { c.Ingest.Concurrency = 0 },
			wantErr: "concurrency",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validTestConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
