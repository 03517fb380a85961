// Package config holds the service configuration.
//
// Settings start out as Default(), may be overlaid from a YAML file and
// are validated using struct tags.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"tidbyt.dev/bustimes"
)

type Config struct {
	ListenAddress     string        `yaml:"listenAddress" validate:"required,hostname_port"`
	BaseURL           string        `yaml:"baseURL" validate:"required,url"`
	UserAgent         string        `yaml:"userAgent" validate:"required"`
	RateLimitInterval time.Duration `yaml:"rateLimitInterval" validate:"gte=0s"`
	MetadataTTL       time.Duration `yaml:"metadataTTL" validate:"gt=0s"`
	RequestTimeout    time.Duration `yaml:"requestTimeout" validate:"gte=0s"`
	MaxResponseSize   int           `yaml:"maxResponseSize" validate:"gte=0"`
	LogLevel          string        `yaml:"logLevel" validate:"oneof=debug info warn error"`
}

func Default() Config {
	return Config{
		ListenAddress:     ":8787",
		BaseURL:           bustimes.DefaultBaseURL,
		UserAgent:         bustimes.DefaultUserAgent,
		RateLimitInterval: bustimes.DefaultRateLimitInterval,
		MetadataTTL:       bustimes.DefaultMetadataTTL,
		RequestTimeout:    bustimes.DefaultRequestTimeout,
		MaxResponseSize:   bustimes.DefaultMaxSize,
		LogLevel:          "info",
	}
}

// Loads configuration from a YAML file on top of the defaults. Keys
// missing from the file keep their default. An empty path yields the
// defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
