// Package config provides centralized configuration management.
//
// Configuration can be loaded from:
//  1. YAML file (config.yaml)
//  2. Environment variables (fallback)
//
// Example usage:
//
//	cfg := config.LoadOrEnv()
//	opts, err := cfg.FeatureOptions()
//	extractor := features.NewExtractor(opts, logger)
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/eshaffer321/recurscan/internal/domain/dates"
	"github.com/eshaffer321/recurscan/internal/domain/features"
	"github.com/eshaffer321/recurscan/internal/domain/vendor"
)

// Config represents the entire application configuration
type Config struct {
	Features      FeaturesConfig      `yaml:"features"`
	Vendors       vendor.Lists        `yaml:"vendors"`
	Storage       StorageConfig       `yaml:"storage"`
	Server        ServerConfig        `yaml:"server"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// FeaturesConfig tunes the extractor. Zero values mean "use the default".
type FeaturesConfig struct {
	DateCacheSize     int     `yaml:"date_cache_size"`
	AbsoluteTolerance float64 `yaml:"absolute_tolerance"`
	RelativeTolerance float64 `yaml:"relative_tolerance"`
	IntervalTolerance int     `yaml:"interval_tolerance"`
	AsOf              string  `yaml:"as_of"` // YYYY-MM-DD
	BatchWorkers      int     `yaml:"batch_workers"`
}

// StorageConfig holds database configuration
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// ServerConfig holds HTTP API settings
type ServerConfig struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "json" or "text"
}

// Load reads and parses the config file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	// Expand environment variables (e.g., ${RECURSCAN_DB_PATH})
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyDefaults()

	return &cfg, nil
}

// Defaults for settings a config file may omit
const (
	DefaultDatabasePath = "recurscan.db"
	DefaultPort         = 8085
	DefaultBatchWorkers = 4
)

func (c *Config) applyDefaults() {
	if c.Storage.DatabasePath == "" {
		c.Storage.DatabasePath = DefaultDatabasePath
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Features.BatchWorkers == 0 {
		c.Features.BatchWorkers = DefaultBatchWorkers
	}
	if c.Observability.Logging.Level == "" {
		c.Observability.Logging.Level = "info"
	}
	if c.Observability.Logging.Format == "" {
		c.Observability.Logging.Format = "text"
	}
}

// LoadFromEnv loads configuration from environment variables only
func LoadFromEnv() *Config {
	return &Config{
		Features: FeaturesConfig{
			DateCacheSize: getEnvInt("RECURSCAN_DATE_CACHE_SIZE", dates.DefaultCacheSize),
			AsOf:          os.Getenv("RECURSCAN_AS_OF"),
			BatchWorkers:  getEnvInt("RECURSCAN_BATCH_WORKERS", DefaultBatchWorkers),
		},
		Storage: StorageConfig{
			DatabasePath: getEnv("RECURSCAN_DB_PATH", DefaultDatabasePath),
		},
		Server: ServerConfig{
			Port:           getEnvInt("RECURSCAN_PORT", DefaultPort),
			AllowedOrigins: splitList(os.Getenv("RECURSCAN_ALLOWED_ORIGINS")),
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", "info"),
				Format: getEnv("LOG_FORMAT", "text"),
			},
		},
	}
}

// LoadOrEnv tries to load from config.yaml, falls back to environment variables
func LoadOrEnv() *Config {
	return LoadOrEnvWithPath("config.yaml")
}

// LoadOrEnvWithPath tries to load from specified path, falls back to environment variables
func LoadOrEnvWithPath(path string) *Config {
	if cfg, err := Load(path); err == nil {
		return cfg
	}
	return LoadFromEnv()
}

// FeatureOptions translates the features and vendors sections into an
// extractor config, filling unset fields from features.DefaultConfig.
func (c *Config) FeatureOptions() (features.Config, error) {
	opts := features.DefaultConfig()
	f := c.Features

	if f.DateCacheSize > 0 {
		opts.DateCacheSize = f.DateCacheSize
	}
	if f.AbsoluteTolerance > 0 {
		opts.AbsoluteTolerance = f.AbsoluteTolerance
	}
	if f.RelativeTolerance > 0 {
		opts.RelativeTolerance = f.RelativeTolerance
	}
	if f.IntervalTolerance > 0 {
		opts.IntervalTolerance = f.IntervalTolerance
	}
	if f.AsOf != "" {
		asOf, err := time.Parse(dates.CanonicalLayout, f.AsOf)
		if err != nil {
			return features.Config{}, fmt.Errorf("features.as_of %q: %w", f.AsOf, err)
		}
		opts.AsOf = asOf
	}
	opts.Vendors = c.VendorLists()

	return opts, nil
}

// VendorLists returns the configured vendor lists; each empty list falls
// back to the built-in default.
func (c *Config) VendorLists() vendor.Lists {
	lists := vendor.DefaultLists()
	if len(c.Vendors.Recurring) > 0 {
		lists.Recurring = c.Vendors.Recurring
	}
	if len(c.Vendors.NonRecurring) > 0 {
		lists.NonRecurring = c.Vendors.NonRecurring
	}
	if len(c.Vendors.AlwaysRecurring) > 0 {
		lists.AlwaysRecurring = c.Vendors.AlwaysRecurring
	}
	return lists
}

// Workers is the batch worker count, at least 1.
func (c *Config) Workers() int {
	if c.Features.BatchWorkers < 1 {
		return 1
	}
	return c.Features.BatchWorkers
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// getEnvInt retrieves an integer environment variable with a fallback default
func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var result int
		if _, err := fmt.Sscanf(val, "%d", &result); err == nil {
			return result
		}
	}
	return fallback
}

func splitList(val string) []string {
	if val == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
