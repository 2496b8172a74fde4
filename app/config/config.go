// Package config loads the server configuration from a YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"

	BackendBadger = "badger"
	BackendRedis  = "redis"
	BackendMemory = "memory"

	defaultAddr         = ":8080"
	defaultDocumentType = "posts"
	defaultCachePath    = "data/badger"
	defaultRedisAddr    = "localhost:6379"
	defaultRevalidate   = time.Hour
	defaultFallbackWait = 2 * time.Second
	defaultTimeout      = 10 * time.Second
	defaultLocale       = "pt-BR"
	defaultLogLevel     = "info"
)

// Config holds runtime configuration.
type Config struct {
	Addr           string          `yaml:"addr" validate:"required"`
	Prismic        PrismicConfig   `yaml:"prismic"`
	Cache          CacheConfig     `yaml:"cache"`
	Revalidate     time.Duration   `yaml:"revalidate" validate:"gt=0"`
	FallbackWait   time.Duration   `yaml:"fallback_wait" validate:"gte=0"`
	Locale         string          `yaml:"locale" validate:"required"`
	Timezone       string          `yaml:"timezone"`
	LogLevel       string          `yaml:"log_level" validate:"oneof=trace debug info warn error"`
	LogFormat      string          `yaml:"log_format" validate:"omitempty,oneof=text json"`
	RateLimit      RateLimitConfig `yaml:"rate_limit"`
	AllowedOrigins []string        `yaml:"allowed_origins"`
}

// PrismicConfig locates the content repository. The access token is only
// needed for private repositories.
type PrismicConfig struct {
	Endpoint     string        `yaml:"endpoint" validate:"required,url"`
	AccessToken  string        `yaml:"access_token"`
	DocumentType string        `yaml:"document_type" validate:"required"`
	PageSize     int           `yaml:"page_size" validate:"gte=0,lte=100"`
	Timeout      time.Duration `yaml:"timeout" validate:"gt=0"`
}

// CacheConfig selects where generated pages are kept.
type CacheConfig struct {
	Backend       string        `yaml:"backend" validate:"oneof=badger redis memory"`
	Path          string        `yaml:"path" validate:"required_if=Backend badger"`
	RedisAddr     string        `yaml:"redis_addr" validate:"required_if=Backend redis"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db" validate:"gte=0"`
	Retention     time.Duration `yaml:"retention" validate:"gte=0"`
}

// RateLimitConfig limits the API routes per client. A zero RPS disables it.
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps" validate:"gte=0"`
	Burst int     `yaml:"burst" validate:"gte=0"`
}

// Default returns the configuration used for missing keys.
func Default() Config {
	return Config{
		Addr: defaultAddr,
		Prismic: PrismicConfig{
			DocumentType: defaultDocumentType,
			Timeout:      defaultTimeout,
		},
		Cache: CacheConfig{
			Backend:   BackendBadger,
			Path:      defaultCachePath,
			RedisAddr: defaultRedisAddr,
			Retention: 7 * 24 * time.Hour,
		},
		Revalidate:   defaultRevalidate,
		FallbackWait: defaultFallbackWait,
		Locale:       defaultLocale,
		LogLevel:     defaultLogLevel,
		LogFormat:    "text",
		RateLimit: RateLimitConfig{
			RPS:   5,
			Burst: 10,
		},
	}
}

// Load reads path on top of the defaults, applies environment overrides and
// validates the result. A missing file is not an error when path is the
// default one.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("error unmarshalling config file %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && path == DefaultConfigPath:
	default:
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every field against its constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("SPACETRAVELING_ADDR"); v != "" {
		c.Addr = v
	}
	if v := os.Getenv("PRISMIC_ENDPOINT"); v != "" {
		c.Prismic.Endpoint = v
	}
	if v := os.Getenv("PRISMIC_ACCESS_TOKEN"); v != "" {
		c.Prismic.AccessToken = v
	}
	if v := os.Getenv("SPACETRAVELING_CACHE"); v != "" {
		c.Cache.Backend = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Cache.RedisPassword = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid REDIS_DB %q: %w", v, err)
		}
		c.Cache.RedisDB = db
	}
	if v := os.Getenv("SPACETRAVELING_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	return nil
}
