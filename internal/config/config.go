// Package config loads process settings from AUTODIAG_* environment variables.
package config

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/autodiag/internal/logging"
	"github.com/caarlos0/env/v11"
)

// Config holds settings shared by every command.
// Command-line flags override these values when set explicitly.
type Config struct {
	// KnowledgePath points to a YAML/JSON catalog. Empty selects the built-in vehicle catalog.
	KnowledgePath string `env:"AUTODIAG_KNOWLEDGE"`
	Locale        string `env:"AUTODIAG_LOCALE"    envDefault:"es"`
	LogLevel      string `env:"AUTODIAG_LOG_LEVEL" envDefault:"info"`
	HTTPAddr      string `env:"AUTODIAG_HTTP_ADDR" envDefault:":8080"`
	Metrics       bool   `env:"AUTODIAG_METRICS"   envDefault:"true"`
	Watch         bool   `env:"AUTODIAG_WATCH"     envDefault:"false"`
}

// Load parses the process environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, cfg.validate()
}

// LoadFrom parses an explicit environment map instead of the process environment.
func LoadFrom(environ map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("AUTODIAG_LOG_LEVEL: %w", err)
	}
	return nil
}

// SlogLevel returns the configured log level, forced to debug when debug is true.
func (c Config) SlogLevel(debug bool) slog.Level {
	if debug {
		return slog.LevelDebug
	}
	level, _ := logging.ParseLevel(c.LogLevel)
	return level
}
