package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment variable names.
const (
	EnvPrefix     = "TEAMBALANCE_"
	EnvConfigFile = "TEAMBALANCE_CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New)
//  2. YAML file named by TEAMBALANCE_CONFIG
//  3. env (prefix TEAMBALANCE_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// TEAMBALANCE_TRIAL_WORKERS -> trial_workers; underscores are kept to
	// match the flat koanf tags.
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, strings.ToLower(EnvPrefix))
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field ranges and enumerations.
func (c *Config) Validate() error {
	if utf8.RuneCountInString(c.Delimiter) != 1 {
		return fmt.Errorf("%w: delimiter must be a single character, got %q", ErrInvalidConfig, c.Delimiter)
	}
	if c.Trials <= 0 {
		return fmt.Errorf("%w: trials must be positive, got %d", ErrInvalidConfig, c.Trials)
	}
	if c.TrialWorkers <= 0 {
		return fmt.Errorf("%w: trial_workers must be positive, got %d", ErrInvalidConfig, c.TrialWorkers)
	}
	switch c.OutputFormat {
	case "text", "json":
	default:
		return fmt.Errorf("%w: output_format must be text or json, got %q", ErrInvalidConfig, c.OutputFormat)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format must be text or json, got %q", ErrInvalidConfig, c.LogFormat)
	}
	return nil
}
