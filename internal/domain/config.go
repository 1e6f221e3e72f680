package domain

import "time"

// CerebrasConfig configures the LLM client (C2). Each field is read from
// a MEDMATCH_-prefixed environment variable named after its key (e.g.
// MEDMATCH_CEREBRAS_API_KEY); "Cerebras" names the inference provider the
// original system targets, kept here as the concrete default provider.
type CerebrasConfig struct {
	APIKey    string        `mapstructure:"api_key"`
	BaseURL   string        `mapstructure:"base_url"`
	Model     string        `mapstructure:"model"`
	MaxTokens int           `mapstructure:"max_tokens"`
	Timeout   time.Duration `mapstructure:"timeout"`
	RateLimitPerMinute int  `mapstructure:"rate_limit_per_minute"`
	MaxRetries int          `mapstructure:"max_retries"`
}

// ClinicalTrialsConfig configures the registry client (C1).
type ClinicalTrialsConfig struct {
	BaseURL          string        `mapstructure:"base_url"`
	RateLimitPerMinute int         `mapstructure:"rate_limit"`
	Timeout          time.Duration `mapstructure:"timeout"`
	MaxRetries       int           `mapstructure:"max_retries"`
}

// SearchConfig configures the hybrid search engine (C4).
type SearchConfig struct {
	SimilarityThreshold float64 `mapstructure:"similarity_threshold"`
	VectorDimension     int     `mapstructure:"vector_dimension"`
}

// CacheConfig configures C5's optional LRU/Redis cache tiers.
type CacheConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	RedisURL   string        `mapstructure:"redis_url"`
	MemorySize int           `mapstructure:"memory_size"`
	TTL        time.Duration `mapstructure:"ttl"`
}

// LoggingConfig configures the telemetry package.
type LoggingConfig struct {
	Level           string `mapstructure:"level"`
	Format          string `mapstructure:"format"`
	HIPAASafeLogging bool  `mapstructure:"hipaa_safe_logging"`
}

// Config is the root configuration object unmarshaled by viper.
type Config struct {
	Cerebras       CerebrasConfig       `mapstructure:"cerebras"`
	ClinicalTrials ClinicalTrialsConfig `mapstructure:"clinicaltrials"`
	Search         SearchConfig         `mapstructure:"search"`
	Cache          CacheConfig          `mapstructure:"cache"`
	Logging        LoggingConfig        `mapstructure:"logging"`
	ServerAddr     string               `mapstructure:"server_addr"`
}
