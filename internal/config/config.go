// Package config provides configuration loading and validation for the
// scoring service.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
)

// Config represents the service configuration. Values are read from the
// environment; an optional JSON file can supply defaults for anything the
// environment leaves unset.
type Config struct {
	// Server
	Port int `json:"port,omitempty"` // HTTP listen port

	// Storage
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL

	// Collaborating services
	ParserServiceURL    string `json:"parser_service_url,omitempty"`    // Document parsing and field extraction service
	EmbeddingServiceURL string `json:"embedding_service_url,omitempty"` // Text embedding service

	// Behavior
	ExtractTimeoutSeconds int    `json:"extract_timeout_seconds,omitempty"` // Timeout for collaborator calls
	JWTSecret             string `json:"jwt_secret,omitempty"`              // Shared secret for bearer tokens; empty disables auth
	LogJSON               bool   `json:"log_json,omitempty"`                // Emit JSON logs instead of console output
	LogDebug              bool   `json:"log_debug,omitempty"`               // Enable debug-level logging
}

// Defaults returns the built-in configuration defaults.
func Defaults() Config {
	return Config{
		Port:                  8080,
		ExtractTimeoutSeconds: 10,
	}
}

// FromEnv builds a Config from environment variables. Unset variables leave
// the zero value so file and built-in defaults can fill them in.
func FromEnv() Config {
	cfg := Config{
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		ParserServiceURL:    os.Getenv("PARSER_SERVICE_URL"),
		EmbeddingServiceURL: os.Getenv("EMBEDDING_SERVICE_URL"),
		JWTSecret:           os.Getenv("JWT_SECRET"),
	}

	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Port = port
		}
	}
	if v := os.Getenv("EXTRACT_TIMEOUT_SECONDS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			cfg.ExtractTimeoutSeconds = secs
		}
	}
	cfg.LogJSON = envBool("LOG_JSON")
	cfg.LogDebug = envBool("LOG_DEBUG")

	return cfg
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 1 and 65535")
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("config error: 'database_url' is required")
	}
	if c.ExtractTimeoutSeconds <= 0 {
		return fmt.Errorf("config error: 'extract_timeout_seconds' must be positive")
	}
	if c.ParserServiceURL != "" {
		if err := validateURL(c.ParserServiceURL); err != nil {
			return fmt.Errorf("config error: invalid 'parser_service_url': %w", err)
		}
	}
	if c.EmbeddingServiceURL != "" {
		if err := validateURL(c.EmbeddingServiceURL); err != nil {
			return fmt.Errorf("config error: invalid 'embedding_service_url': %w", err)
		}
	}
	return nil
}

// MergeWithDefaults returns a new Config with zero-valued fields filled
// from defaults. Environment values win over file values, which win over
// the built-in defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.ParserServiceURL == "" {
		result.ParserServiceURL = defaults.ParserServiceURL
	}
	if result.EmbeddingServiceURL == "" {
		result.EmbeddingServiceURL = defaults.EmbeddingServiceURL
	}
	if result.ExtractTimeoutSeconds == 0 {
		result.ExtractTimeoutSeconds = defaults.ExtractTimeoutSeconds
	}
	if result.JWTSecret == "" {
		result.JWTSecret = defaults.JWTSecret
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (environment values should always win for bools)

	return result
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https")
	}
	if u.Host == "" {
		return fmt.Errorf("host is required")
	}
	return nil
}

func envBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}
