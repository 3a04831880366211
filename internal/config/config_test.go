package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	content := `{
		"port": 9090,
		"database_url": "postgres://localhost/scores",
		"parser_service_url": "http://parser:5001",
		"extract_timeout_seconds": 30,
		"log_json": true
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "postgres://localhost/scores", cfg.DatabaseURL)
	assert.Equal(t, "http://parser:5001", cfg.ParserServiceURL)
	assert.Equal(t, 30, cfg.ExtractTimeoutSeconds)
	assert.True(t, cfg.LogJSON)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	content := `{ invalid json }`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestValidate_MissingDatabaseURL(t *testing.T) {
	cfg := &Config{Port: 8080, ExtractTimeoutSeconds: 10}

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "'database_url' is required")
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := &Config{Port: 70000, DatabaseURL: "postgres://localhost/scores", ExtractTimeoutSeconds: 10}

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "'port'")
}

func TestValidate_BadCollaboratorURL(t *testing.T) {
	cfg := &Config{
		Port:                  8080,
		DatabaseURL:           "postgres://localhost/scores",
		ExtractTimeoutSeconds: 10,
		ParserServiceURL:      "parser:5001",
	}

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "parser_service_url")
}

func TestValidate_Valid(t *testing.T) {
	cfg := &Config{
		Port:                  8080,
		DatabaseURL:           "postgres://localhost/scores",
		ExtractTimeoutSeconds: 10,
		ParserServiceURL:      "http://parser:5001",
		EmbeddingServiceURL:   "http://embed:5002",
	}

	assert.NoError(t, cfg.Validate())
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{
		DatabaseURL: "postgres://localhost/scores",
		LogDebug:    true,
	}

	merged := cfg.MergeWithDefaults(Defaults())

	assert.Equal(t, 8080, merged.Port)
	assert.Equal(t, 10, merged.ExtractTimeoutSeconds)
	assert.Equal(t, "postgres://localhost/scores", merged.DatabaseURL)
	assert.True(t, merged.LogDebug)
}

func TestMergeWithDefaults_SetValuesWin(t *testing.T) {
	cfg := Config{
		Port:                  9090,
		DatabaseURL:           "postgres://db1/scores",
		ExtractTimeoutSeconds: 5,
	}
	defaults := Config{
		Port:                  8080,
		DatabaseURL:           "postgres://db2/scores",
		ExtractTimeoutSeconds: 10,
	}

	merged := cfg.MergeWithDefaults(defaults)

	assert.Equal(t, 9090, merged.Port)
	assert.Equal(t, "postgres://db1/scores", merged.DatabaseURL)
	assert.Equal(t, 5, merged.ExtractTimeoutSeconds)
}

func TestFromEnv(t *testing.T) {
	t.Setenv("PORT", "9191")
	t.Setenv("DATABASE_URL", "postgres://envhost/scores")
	t.Setenv("EXTRACT_TIMEOUT_SECONDS", "20")
	t.Setenv("LOG_JSON", "true")

	cfg := FromEnv()

	assert.Equal(t, 9191, cfg.Port)
	assert.Equal(t, "postgres://envhost/scores", cfg.DatabaseURL)
	assert.Equal(t, 20, cfg.ExtractTimeoutSeconds)
	assert.True(t, cfg.LogJSON)
	assert.False(t, cfg.LogDebug)
}
