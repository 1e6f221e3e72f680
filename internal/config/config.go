// Package config loads and validates the module's runtime configuration
// with Viper: a config file when present, environment variables always,
// and hard-coded defaults underneath both.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/medmatch/matching-core/internal/domain"
)

// Manager owns a loaded, validated domain.Config.
type Manager struct {
	v      *viper.Viper
	config *domain.Config
}

// NewManager loads configuration from hard-coded defaults, a config.yaml
// (in ., ./config or /etc/medmatch/, if present), and MEDMATCH_-prefixed
// environment variables, in that order of increasing priority.
func NewManager() (*Manager, error) {
	m := &Manager{v: viper.New()}
	if err := m.loadConfig(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return m, nil
}

func (m *Manager) loadConfig() error {
	m.v.SetConfigName("config")
	m.v.SetConfigType("yaml")
	m.v.AddConfigPath(".")
	m.v.AddConfigPath("./config")
	m.v.AddConfigPath("/etc/medmatch/")

	m.v.SetEnvPrefix("MEDMATCH")
	m.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	m.v.AutomaticEnv()

	m.setDefaults()

	if err := m.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &domain.Config{}
	if err := m.v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("error unmarshaling config: %w", err)
	}

	m.config = cfg
	return nil
}

func (m *Manager) setDefaults() {
	m.v.SetDefault("server_addr", ":8080")

	m.v.SetDefault("cerebras.api_key", "")
	m.v.SetDefault("cerebras.base_url", "https://api.cerebras.ai/v1")
	m.v.SetDefault("cerebras.model", "llama3.1-8b")
	m.v.SetDefault("cerebras.max_tokens", 1024)
	m.v.SetDefault("cerebras.timeout", "30s")
	m.v.SetDefault("cerebras.rate_limit_per_minute", 60)
	m.v.SetDefault("cerebras.max_retries", 3)

	m.v.SetDefault("clinicaltrials.base_url", "https://clinicaltrials.gov/api/v2")
	m.v.SetDefault("clinicaltrials.rate_limit", 100)
	m.v.SetDefault("clinicaltrials.timeout", "15s")
	m.v.SetDefault("clinicaltrials.max_retries", 3)

	m.v.SetDefault("search.similarity_threshold", 0.3)
	m.v.SetDefault("search.vector_dimension", 384)

	m.v.SetDefault("cache.enabled", false)
	m.v.SetDefault("cache.redis_url", "")
	m.v.SetDefault("cache.memory_size", 1000)
	m.v.SetDefault("cache.ttl", "1h")

	m.v.SetDefault("logging.level", "info")
	m.v.SetDefault("logging.format", "json")
	m.v.SetDefault("logging.hipaa_safe_logging", true)
}

// GetConfig returns the loaded configuration.
func (m *Manager) GetConfig() *domain.Config {
	return m.config
}

// Reload re-reads configuration from all sources.
func (m *Manager) Reload() error {
	return m.loadConfig()
}

// Validate checks the loaded config for values the rest of the module
// cannot safely run without.
func (m *Manager) Validate() error {
	cfg := m.config

	if cfg.Cerebras.BaseURL == "" {
		return fmt.Errorf("cerebras base URL is required")
	}
	if cfg.Cerebras.RateLimitPerMinute <= 0 {
		return fmt.Errorf("cerebras rate_limit_per_minute must be positive")
	}
	if cfg.ClinicalTrials.BaseURL == "" {
		return fmt.Errorf("clinicaltrials base URL is required")
	}
	if cfg.ClinicalTrials.RateLimitPerMinute <= 0 {
		return fmt.Errorf("clinicaltrials rate_limit must be positive")
	}
	if cfg.Search.SimilarityThreshold < 0 || cfg.Search.SimilarityThreshold > 1 {
		return fmt.Errorf("search similarity_threshold must be within [0,1]: %v", cfg.Search.SimilarityThreshold)
	}
	if cfg.Search.VectorDimension <= 0 {
		return fmt.Errorf("search vector_dimension must be positive")
	}
	if cfg.Cache.Enabled && cfg.Cache.RedisURL == "" && cfg.Cache.MemorySize <= 0 {
		return fmt.Errorf("cache is enabled but neither redis_url nor a positive memory_size is set")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true, "fatal": true, "panic": true}
	if !validLevels[strings.ToLower(cfg.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s", cfg.Logging.Level)
	}

	return nil
}
