package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/vsinha/factoryplan/pkg/domain/entities"
)

// Environment variable names
const (
	EnvLogLevel          = "FACTORYPLAN_LOG_LEVEL"
	EnvLogFormat         = "FACTORYPLAN_LOG_FORMAT"
	EnvReferencePolicy   = "FACTORYPLAN_REFERENCE_POLICY"
	EnvReferenceResource = "FACTORYPLAN_REFERENCE_RESOURCE"
	EnvSelector          = "FACTORYPLAN_SELECTOR"
	EnvCacheSize         = "FACTORYPLAN_CACHE_SIZE"
	EnvThreshold         = "FACTORYPLAN_THRESHOLD"
	EnvMaxPasses         = "FACTORYPLAN_MAX_PASSES"
)

// Recipe selection strategies
const (
	SelectorCatalog  = "catalog"
	SelectorCheapest = "cheapest"
)

// Config holds planner defaults that command flags may override
type Config struct {
	LogLevel          string
	LogFormat         string
	ReferencePolicy   string
	ReferenceResource string
	Selector          string
	CacheSize         int
	Threshold         float64
	MaxPasses         int
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		LogLevel:          "warn",
		LogFormat:         "text",
		ReferencePolicy:   entities.ReferenceDesignated.String(),
		ReferenceResource: "Iron Ore",
		Selector:          SelectorCatalog,
		CacheSize:         16,
		Threshold:         1e-6,
		MaxPasses:         10000,
	}
}

// Load reads configuration from the environment, after loading any .env files.
// With no files it tries ./.env and ignores its absence.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && len(envFiles) > 0 {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	defaults := Default()
	cfg := &Config{
		LogLevel:          getEnv(EnvLogLevel, defaults.LogLevel),
		LogFormat:         getEnv(EnvLogFormat, defaults.LogFormat),
		ReferencePolicy:   getEnv(EnvReferencePolicy, defaults.ReferencePolicy),
		ReferenceResource: getEnv(EnvReferenceResource, defaults.ReferenceResource),
		Selector:          getEnv(EnvSelector, defaults.Selector),
	}

	var err error
	if cfg.CacheSize, err = getEnvAsInt(EnvCacheSize, defaults.CacheSize); err != nil {
		return nil, err
	}
	if cfg.MaxPasses, err = getEnvAsInt(EnvMaxPasses, defaults.MaxPasses); err != nil {
		return nil, err
	}
	if cfg.Threshold, err = getEnvAsFloat(EnvThreshold, defaults.Threshold); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enumerations and numeric ranges
func (c *Config) Validate() error {
	if _, err := entities.ParseReferencePolicy(c.ReferencePolicy); err != nil {
		return err
	}

	switch strings.ToLower(c.Selector) {
	case SelectorCatalog, SelectorCheapest:
	default:
		return fmt.Errorf("invalid selector: %s (expected: %s or %s)", c.Selector, SelectorCatalog, SelectorCheapest)
	}

	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format: %s (expected: text or json)", c.LogFormat)
	}

	if c.CacheSize <= 0 {
		return fmt.Errorf("cache size must be positive, got %d", c.CacheSize)
	}
	if c.Threshold <= 0 {
		return fmt.Errorf("threshold must be positive, got %v", c.Threshold)
	}
	if c.MaxPasses <= 0 {
		return fmt.Errorf("max passes must be positive, got %d", c.MaxPasses)
	}
	return nil
}

// Policy returns the parsed reference policy
func (c *Config) Policy() entities.ReferencePolicy {
	policy, err := entities.ParseReferencePolicy(c.ReferencePolicy)
	if err != nil {
		return entities.ReferenceDesignated
	}
	return policy
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) (int, error) {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return parsed, nil
}

func getEnvAsFloat(key string, defaultValue float64) (float64, error) {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return parsed, nil
}
