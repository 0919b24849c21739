package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server        ServerConfig
	OpenFoodFacts OpenFoodFactsConfig `mapstructure:"openfoodfacts"`
	Cache         CacheConfig
	Storage       StorageConfig
	RateLimit     RateLimitConfig `mapstructure:"ratelimit"`
	Analysis      AnalysisConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Environment     string        `mapstructure:"environment"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// OpenFoodFactsConfig holds product database client configuration
type OpenFoodFactsConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	UserAgent         string        `mapstructure:"user_agent"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
	MaxAttempts       int           `mapstructure:"max_attempts"`
	RetryBaseDelay    time.Duration `mapstructure:"retry_base_delay"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type      string        `mapstructure:"type"` // "memory" or "redis"
	RedisURL  string        `mapstructure:"redis_url"`
	KeyPrefix string        `mapstructure:"key_prefix"`
	TTL       time.Duration `mapstructure:"ttl"`
}

// StorageConfig selects where analyses and scan history are kept
type StorageConfig struct {
	Driver string `mapstructure:"driver"` // "memory", "sqlite" or "postgres"
	DSN    string `mapstructure:"dsn"`
}

// RateLimitConfig holds per-client rate limiting configuration
type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// AnalysisConfig tunes the analysis service
type AnalysisConfig struct {
	VocabularyFile      string `mapstructure:"vocabulary_file"`
	HistoryDefaultLimit int    `mapstructure:"history_default_limit"`
	HistoryMaxLimit     int    `mapstructure:"history_max_limit"`
	BatchConcurrency    int    `mapstructure:"batch_concurrency"`
}

// IsDevelopment reports whether the server runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

// Load loads configuration from a .env file, environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/foodanalyzer/")

	// Environment variable settings, e.g. FOODANALYZER_CACHE_REDIS_URL
	v.SetEnvPrefix("FOODANALYZER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads ./.env if present. Variables already set in the
// environment are not overridden.
func loadEnvFile() error {
	if _, err := os.Stat(".env"); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return godotenv.Load(".env")
}

// setDefaults sets default configuration values.
// Every key needs a default so AutomaticEnv can see it during Unmarshal.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"chrome-extension://*", "http://localhost:3000"})
	v.SetDefault("server.shutdown_timeout", "15s")

	// Open Food Facts defaults
	v.SetDefault("openfoodfacts.base_url", "https://world.openfoodfacts.org")
	v.SetDefault("openfoodfacts.user_agent", "FoodAnalyzer/1.0")
	v.SetDefault("openfoodfacts.timeout", "30s")
	v.SetDefault("openfoodfacts.requests_per_minute", 100)
	v.SetDefault("openfoodfacts.max_attempts", 3)
	v.SetDefault("openfoodfacts.retry_base_delay", "500ms")

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.key_prefix", "foodanalyzer:")
	v.SetDefault("cache.ttl", "24h")

	// Storage defaults
	v.SetDefault("storage.driver", "memory")
	v.SetDefault("storage.dsn", "")

	// Rate limit defaults
	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.requests_per_second", 5)
	v.SetDefault("ratelimit.burst", 20)

	// Analysis defaults
	v.SetDefault("analysis.vocabulary_file", "")
	v.SetDefault("analysis.history_default_limit", 50)
	v.SetDefault("analysis.history_max_limit", 500)
	v.SetDefault("analysis.batch_concurrency", 4)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.OpenFoodFacts.BaseURL == "" {
		return fmt.Errorf("Open Food Facts base URL is required (set FOODANALYZER_OPENFOODFACTS_BASE_URL)")
	}

	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when cache type is 'redis'")
	}

	switch config.Storage.Driver {
	case "memory", "sqlite":
	case "postgres":
		if config.Storage.DSN == "" {
			return fmt.Errorf("storage DSN is required when driver is 'postgres'")
		}
	default:
		return fmt.Errorf("storage driver must be 'memory', 'sqlite' or 'postgres', got: %s", config.Storage.Driver)
	}

	if config.RateLimit.Enabled && config.RateLimit.RequestsPerSecond <= 0 {
		return fmt.Errorf("rate limit requests_per_second must be positive, got: %v", config.RateLimit.RequestsPerSecond)
	}

	if config.Analysis.HistoryDefaultLimit <= 0 {
		return fmt.Errorf("history default limit must be positive, got: %d", config.Analysis.HistoryDefaultLimit)
	}
	if config.Analysis.HistoryMaxLimit < config.Analysis.HistoryDefaultLimit {
		return fmt.Errorf("history max limit (%d) must not be below the default limit (%d)",
			config.Analysis.HistoryMaxLimit, config.Analysis.HistoryDefaultLimit)
	}

	return nil
}
