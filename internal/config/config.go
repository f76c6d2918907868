// Package config loads pokedex configuration from a .env file, an optional
// YAML file and the environment, in that order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/Sternrassler/pokedex-client/pkg/catalog"
	"github.com/Sternrassler/pokedex-client/pkg/client"
	"github.com/Sternrassler/pokedex-client/pkg/logging"
	"github.com/Sternrassler/pokedex-client/pkg/pagination"
	"github.com/Sternrassler/pokedex-client/pkg/ratelimit"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultUserAgent identifies the client upstream.
const DefaultUserAgent = "pokedex-client/1.0 (+https://github.com/Sternrassler/pokedex-client)"

// Config holds all configuration for the pokedex client
type Config struct {
	API       APIConfig       `yaml:"api"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Fanout    FanoutConfig    `yaml:"fanout"`
	Cache     CacheConfig     `yaml:"cache"`
	Log       LogConfig       `yaml:"log"`
}

// APIConfig holds upstream configuration
type APIConfig struct {
	BaseURL   string        `yaml:"base_url"`
	UserAgent string        `yaml:"user_agent"`
	Timeout   time.Duration `yaml:"timeout"`
}

// CatalogConfig holds catalog paging configuration
type CatalogConfig struct {
	PageSize int `yaml:"page_size"`
}

// RateLimitConfig holds request ceilings (0 = unlimited)
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
	MaxInFlight       int64   `yaml:"max_in_flight"`
}

// FanoutConfig holds fan-out join configuration
type FanoutConfig struct {
	Concurrency int `yaml:"concurrency"`
	BatchSize   int `yaml:"batch_size"`
}

// CacheConfig holds the optional Redis response cache configuration
type CacheConfig struct {
	Enabled  bool   `yaml:"enabled"`
	RedisURL string `yaml:"redis_url"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	rl := ratelimit.DefaultConfig()
	fan := pagination.DefaultConfig()

	return &Config{
		API: APIConfig{
			BaseURL:   client.DefaultBaseURL,
			UserAgent: DefaultUserAgent,
			Timeout:   15 * time.Second,
		},
		Catalog: CatalogConfig{PageSize: catalog.DefaultPageSize},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: rl.RequestsPerSecond,
			Burst:             rl.Burst,
			MaxInFlight:       rl.MaxInFlight,
		},
		Fanout: FanoutConfig{
			Concurrency: fan.MaxConcurrency,
			BatchSize:   fan.BatchSize,
		},
		Cache: CacheConfig{RedisURL: "redis://localhost:6379/0"},
		Log:   LogConfig{Level: string(logging.LevelInfo)},
	}
}

// Load builds the configuration. The .env file (POKEDEX_ENV_FILE, default
// ".env") is optional and never overrides variables already set. path, or
// POKEDEX_CONFIG when path is empty, names an optional YAML file.
func Load(path string) (*Config, error) {
	envFile := getEnv("POKEDEX_ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load env file %s: %w", envFile, err)
	}

	cfg := Default()

	if path == "" {
		path = os.Getenv("POKEDEX_CONFIG")
	}
	if path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// LoadFile overlays the YAML file at path onto c.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.API.BaseURL = getEnv("POKEAPI_BASE_URL", c.API.BaseURL)
	c.API.UserAgent = getEnv("POKEDEX_USER_AGENT", c.API.UserAgent)
	c.API.Timeout = getEnvAsDuration("POKEDEX_TIMEOUT", c.API.Timeout)
	c.Catalog.PageSize = getEnvAsInt("POKEDEX_PAGE_SIZE", c.Catalog.PageSize)
	c.RateLimit.RequestsPerSecond = getEnvAsFloat("POKEDEX_RATE_LIMIT", c.RateLimit.RequestsPerSecond)
	c.RateLimit.Burst = getEnvAsInt("POKEDEX_RATE_BURST", c.RateLimit.Burst)
	c.RateLimit.MaxInFlight = int64(getEnvAsInt("POKEDEX_MAX_IN_FLIGHT", int(c.RateLimit.MaxInFlight)))
	c.Fanout.Concurrency = getEnvAsInt("POKEDEX_FANOUT_CONCURRENCY", c.Fanout.Concurrency)
	c.Fanout.BatchSize = getEnvAsInt("POKEDEX_FANOUT_BATCH", c.Fanout.BatchSize)
	c.Cache.Enabled = getEnvAsBool("POKEDEX_CACHE", c.Cache.Enabled)
	c.Cache.RedisURL = getEnv("REDIS_URL", c.Cache.RedisURL)
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Pretty = getEnvAsBool("LOG_PRETTY", c.Log.Pretty)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("invalid base url: %q", c.API.BaseURL)
	}
	if c.API.UserAgent == "" {
		return fmt.Errorf("user agent is required")
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive (got %v)", c.API.Timeout)
	}
	if c.Catalog.PageSize <= 0 {
		return fmt.Errorf("page size must be positive (got %d)", c.Catalog.PageSize)
	}
	if err := c.RateLimitConfig().Validate(); err != nil {
		return err
	}
	if c.Fanout.Concurrency < 0 || c.Fanout.BatchSize < 0 {
		return fmt.Errorf("fanout values must be >= 0")
	}
	if c.Cache.Enabled && c.Cache.RedisURL == "" {
		return fmt.Errorf("redis url is required when the cache is enabled")
	}
	switch logging.LogLevel(c.Log.Level) {
	case logging.LevelDebug, logging.LevelInfo, logging.LevelWarn, logging.LevelError:
	default:
		return fmt.Errorf("invalid log level: %q", c.Log.Level)
	}
	return nil
}

// RateLimitConfig converts to the limiter configuration.
func (c *Config) RateLimitConfig() ratelimit.Config {
	return ratelimit.Config{
		RequestsPerSecond: c.RateLimit.RequestsPerSecond,
		Burst:             c.RateLimit.Burst,
		MaxInFlight:       c.RateLimit.MaxInFlight,
	}
}

// FanoutConfig converts to the batch fetcher configuration.
func (c *Config) FanoutConfig() pagination.Config {
	return pagination.Config{
		MaxConcurrency: c.Fanout.Concurrency,
		BatchSize:      c.Fanout.BatchSize,
		Timeout:        c.API.Timeout,
	}
}

// ClientConfig converts to the upstream client configuration. The Redis
// client is attached by the caller when the cache is enabled.
func (c *Config) ClientConfig() client.Config {
	return client.Config{
		BaseURL:      c.API.BaseURL,
		UserAgent:    c.API.UserAgent,
		Timeout:      c.API.Timeout,
		CacheEnabled: c.Cache.Enabled,
		RateLimit:    c.RateLimitConfig(),
	}
}

// LoggingConfig converts to the logger configuration.
func (c *Config) LoggingConfig() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = logging.LogLevel(c.Log.Level)
	cfg.Pretty = c.Log.Pretty
	return cfg
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
