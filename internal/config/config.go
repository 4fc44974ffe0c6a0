// Package config provides configuration management for the cantina service.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port        int    `yaml:"port"`
	MetricsPort int    `yaml:"metrics_port"`
	AuthSecret  string `yaml:"auth_secret"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Driver string `yaml:"driver"` // "sqlite3" or "postgres"
	DSN    string `yaml:"dsn"`
}

// SuggestionConfig holds tuning knobs for the suggestion engine.
type SuggestionConfig struct {
	LookbackWeeks    int     `yaml:"lookback_weeks"`
	MinConfidence    float64 `yaml:"min_confidence"`
	RecentSampleSize int     `yaml:"recent_sample_size"`
	CacheTTLSeconds  int     `yaml:"cache_ttl_seconds"`
	CacheSize        int     `yaml:"cache_size"`
}

// CacheTTL returns the adjustment cache TTL as a duration.
func (s SuggestionConfig) CacheTTL() time.Duration {
	return time.Duration(s.CacheTTLSeconds) * time.Second
}

// AdvisorConfig holds settings for the optional LLM run explainer.
type AdvisorConfig struct {
	Enabled   bool   `yaml:"enabled"`
	OpenAIKey string `yaml:"openai_api_key"`
	Model     string `yaml:"model"`
}

// Config holds the application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Suggestion SuggestionConfig `yaml:"suggestion"`
	Advisor    AdvisorConfig    `yaml:"advisor"`
}

// Default returns the configuration used when no file overrides are present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        8080,
			MetricsPort: 9090,
		},
		Database: DatabaseConfig{
			Driver: "sqlite3",
			DSN:    "cantina.db",
		},
		Suggestion: SuggestionConfig{
			LookbackWeeks:    8,
			MinConfidence:    0.25,
			RecentSampleSize: 8,
			CacheTTLSeconds:  300,
			CacheSize:        256,
		},
		Advisor: AdvisorConfig{
			Model: "gpt-4o-mini",
		},
	}
}

// Load reads the YAML file at path over the defaults. A missing file is not
// an error; the defaults are returned as-is.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if cfg.Suggestion.LookbackWeeks <= 0 {
		cfg.Suggestion.LookbackWeeks = 8
	}
	if cfg.Suggestion.RecentSampleSize <= 0 {
		cfg.Suggestion.RecentSampleSize = 8
	}
	if cfg.Suggestion.MinConfidence <= 0 {
		cfg.Suggestion.MinConfidence = 0.25
	}
	if cfg.Advisor.OpenAIKey == "" {
		cfg.Advisor.OpenAIKey = os.Getenv("OPENAI_API_KEY")
	}
	return cfg, nil
}
