// ABOUTME: Configuration management for the application with environment variable support
// ABOUTME: Defaults are overlaid by an optional YAML file and then by the environment

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Upstream UpstreamConfig `yaml:"upstream"`
	Topics   TopicsConfig   `yaml:"topics"`
	Cache    CacheConfig    `yaml:"cache"`
	Storage  StorageConfig  `yaml:"storage"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	// Port is the HTTP server port
	Port string `yaml:"port"`

	// RateLimit is the number of requests allowed per client IP per minute
	RateLimit int `yaml:"rate_limit"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// UpstreamConfig holds the collaborator endpoints and their limits
type UpstreamConfig struct {
	ScrapeURL string `yaml:"scrape_url"`
	ProxyURL  string `yaml:"proxy_url"`
	ChatURL   string `yaml:"chat_url"`

	// APIKey is sent to every collaborator as a bearer token
	APIKey string `yaml:"api_key"`

	// FetchTimeout bounds one navigation, including scrape retries
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
	ChatTimeout  time.Duration `yaml:"chat_timeout"`

	ScrapeMaxAttempts int           `yaml:"scrape_max_attempts"`
	ScrapeBackoff     time.Duration `yaml:"scrape_backoff"`
}

// TopicsConfig controls topic-link extraction
type TopicsConfig struct {
	// Keywords overrides the built-in topic vocabulary when non-empty
	Keywords     []string `yaml:"keywords"`
	BlockedHosts []string `yaml:"blocked_hosts"`
}

// CacheConfig holds cache backend configuration
type CacheConfig struct {
	// Type specifies the cache backend (redis/memory)
	Type string `yaml:"type"`

	Redis RedisConfig `yaml:"redis"`

	// SessionTTL is how long idle sessions and conversations are kept
	SessionTTL time.Duration `yaml:"session_ttl"`
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	Address   string `yaml:"address"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"key_prefix"`
}

// StorageConfig holds persistent storage configuration
type StorageConfig struct {
	// HighlightDB is the SQLite file path; ":memory:" keeps highlights in memory
	HighlightDB string `yaml:"highlight_db"`
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:      "8000",
			RateLimit: 100,
			LogLevel:  "info",
			LogFormat: "json",
		},
		Upstream: UpstreamConfig{
			FetchTimeout:      45 * time.Second,
			ChatTimeout:       2 * time.Minute,
			ScrapeMaxAttempts: 3,
			ScrapeBackoff:     2 * time.Second,
		},
		Cache: CacheConfig{
			Type:       "memory",
			Redis:      RedisConfig{Address: "localhost:6379", KeyPrefix: "studyflow:"},
			SessionTTL: 24 * time.Hour,
		},
		Storage: StorageConfig{HighlightDB: "highlights.db"},
	}
}

// LoadFromEnv loads configuration from CONFIG_FILE (if set) and environment variables
func LoadFromEnv() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	s := &cfg.Server
	s.Port = getEnvOrDefault("PORT", s.Port)
	s.RateLimit = getEnvAsIntOrDefault("RATE_LIMIT", s.RateLimit)
	s.LogLevel = getEnvOrDefault("LOG_LEVEL", s.LogLevel)
	s.LogFormat = getEnvOrDefault("LOG_FORMAT", s.LogFormat)

	u := &cfg.Upstream
	u.ScrapeURL = getEnvOrDefault("SCRAPE_URL", u.ScrapeURL)
	u.ProxyURL = getEnvOrDefault("PROXY_URL", u.ProxyURL)
	u.ChatURL = getEnvOrDefault("CHAT_URL", u.ChatURL)
	u.APIKey = getEnvOrDefault("UPSTREAM_API_KEY", u.APIKey)
	u.FetchTimeout = getEnvAsDurationOrDefault("FETCH_TIMEOUT", u.FetchTimeout)
	u.ChatTimeout = getEnvAsDurationOrDefault("CHAT_TIMEOUT", u.ChatTimeout)
	u.ScrapeMaxAttempts = getEnvAsIntOrDefault("SCRAPE_MAX_ATTEMPTS", u.ScrapeMaxAttempts)
	u.ScrapeBackoff = getEnvAsDurationOrDefault("SCRAPE_BACKOFF", u.ScrapeBackoff)

	cfg.Topics.Keywords = getEnvAsListOrDefault("TOPIC_KEYWORDS", cfg.Topics.Keywords)
	cfg.Topics.BlockedHosts = getEnvAsListOrDefault("BLOCKED_LINK_HOSTS", cfg.Topics.BlockedHosts)

	c := &cfg.Cache
	c.Type = getEnvOrDefault("CACHE_TYPE", c.Type)
	c.Redis.Address = getEnvOrDefault("REDIS_ADDRESS", c.Redis.Address)
	c.Redis.Password = getEnvOrDefault("REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = getEnvAsIntOrDefault("REDIS_DB", c.Redis.DB)
	c.SessionTTL = getEnvAsDurationOrDefault("SESSION_TTL", c.SessionTTL)

	cfg.Storage.HighlightDB = getEnvOrDefault("HIGHLIGHT_DB", cfg.Storage.HighlightDB)

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// getEnvOrDefault returns the environment variable value or a default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault returns the environment variable as int or a default
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsDurationOrDefault accepts Go durations ("45s") or plain seconds ("45")
func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

// getEnvAsListOrDefault splits a comma-separated variable, dropping blanks
func getEnvAsListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("port cannot be empty")
	}

	if c.Server.RateLimit < 1 {
		return errors.New("rate limit must be at least 1 request per minute")
	}

	if c.Upstream.FetchTimeout <= 0 {
		return errors.New("fetch timeout must be positive")
	}

	if c.Upstream.ScrapeMaxAttempts < 1 {
		return errors.New("scrape max attempts must be at least 1")
	}

	if c.Upstream.ScrapeBackoff < 0 {
		return errors.New("scrape backoff cannot be negative")
	}

	if c.Cache.Type != "redis" && c.Cache.Type != "memory" {
		return errors.New("cache type must be 'redis' or 'memory'")
	}

	if c.Cache.Type == "redis" && c.Cache.Redis.Address == "" {
		return errors.New("redis address cannot be empty when using redis cache")
	}

	if c.Cache.SessionTTL <= 0 {
		return errors.New("session TTL must be positive")
	}

	return nil
}
