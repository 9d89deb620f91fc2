// Package config loads the converter settings from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/Oksentiy/currency-converter/internal/domain/entity"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Cache backends
const (
	BackendMemory = "memory"
	BackendBadger = "badger"
	BackendRedis  = "redis"
)

// DefaultProviderBaseURL is the public Frankfurter API
const DefaultProviderBaseURL = "https://api.frankfurter.dev/v1"

// Config holds every setting of the converter
type Config struct {
	HTTPAddr            string   `env:"HTTP_ADDR" env-default:":8080"`
	LogLevel            string   `env:"LOG_LEVEL" env-default:"INFO"`
	SupportedCurrencies []string `env:"SUPPORTED_CURRENCIES" env-separator:"," env-default:"USD,EUR,GBP,PLN,CAD,AUD"`

	Provider ProviderConfig
	Cache    CacheConfig
}

// ProviderConfig configures the exchange rate API client
type ProviderConfig struct {
	BaseURL string        `env:"CURRENCY_API_BASE" env-default:"https://api.frankfurter.dev/v1"`
	Timeout time.Duration `env:"HTTP_TIMEOUT" env-default:"5s"`
}

// CacheConfig selects and tunes the rate cache backend
type CacheConfig struct {
	Backend         string        `env:"RATE_CACHE_BACKEND" env-default:"memory"`
	TTL             time.Duration `env:"RATE_CACHE_TTL" env-default:"1h"`
	CleanupInterval time.Duration `env:"CACHE_CLEANUP_INTERVAL" env-default:"10m"`
	SingleFlight    bool          `env:"RATE_SINGLEFLIGHT" env-default:"true"`
	BadgerPath      string        `env:"BADGER_PATH" env-default:"./data"`
	RedisAddr       string        `env:"REDIS_ADDR" env-default:"localhost:6379"`
	RedisPassword   string        `env:"REDIS_PASSWORD"`
	RedisDB         int           `env:"REDIS_DB" env-default:"0"`
}

// Default returns the configuration used when no environment is set
func Default() Config {
	return Config{
		HTTPAddr:            ":8080",
		LogLevel:            "INFO",
		SupportedCurrencies: append([]string(nil), entity.DefaultCurrencies...),
		Provider: ProviderConfig{
			BaseURL: DefaultProviderBaseURL,
			Timeout: 5 * time.Second,
		},
		Cache: CacheConfig{
			Backend:         BackendMemory,
			TTL:             time.Hour,
			CleanupInterval: 10 * time.Minute,
			SingleFlight:    true,
			BadgerPath:      "./data",
			RedisAddr:       "localhost:6379",
		},
	}
}

// Load reads optional .env files and then the process environment.
// A missing .env file is not an error.
func Load(envFiles ...string) (*Config, error) {
	_ = godotenv.Load(envFiles...)

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	for i, code := range cfg.SupportedCurrencies {
		cfg.SupportedCurrencies[i] = entity.NormalizeCurrency(code)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks values cleanenv cannot check by itself
func (c *Config) Validate() error {
	var errs []error

	if c.Provider.BaseURL == "" {
		errs = append(errs, errors.New("CURRENCY_API_BASE must not be empty"))
	}
	if c.Provider.Timeout <= 0 {
		errs = append(errs, errors.New("HTTP_TIMEOUT must be positive"))
	}
	if c.Cache.TTL <= 0 {
		errs = append(errs, errors.New("RATE_CACHE_TTL must be positive"))
	}

	switch c.Cache.Backend {
	case BackendMemory, BackendBadger, BackendRedis:
	default:
		errs = append(errs, fmt.Errorf("unknown RATE_CACHE_BACKEND %q", c.Cache.Backend))
	}

	if len(c.SupportedCurrencies) == 0 {
		errs = append(errs, errors.New("SUPPORTED_CURRENCIES must list at least one code"))
	}

	return errors.Join(errs...)
}
