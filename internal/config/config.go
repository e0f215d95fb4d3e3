package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// Config holds process settings. Later sources win: defaults, the YAML
// file, environment variables, then command line flags (applied by main).
type Config struct {
	Addr        string `yaml:"addr"`
	Debug       bool   `yaml:"debug"`
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
	DatabaseURL string `yaml:"database_url"`

	IdleTTL       time.Duration `yaml:"idle_ttl"`
	SweepInterval time.Duration `yaml:"sweep_interval"`

	KeepStaleDrag  bool `yaml:"keep_stale_drag"`
	OrphanCaptured bool `yaml:"orphan_captured"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Addr:          ":8080",
		LogLevel:      "info",
		LogFormat:     "console",
		IdleTTL:       24 * time.Hour,
		SweepInterval: 5 * time.Minute,
	}
}

// Load builds a Config from defaults, the optional YAML file at path and
// the environment.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if v := strings.TrimSpace(os.Getenv("TINYBOARD_ADDR")); v != "" {
		cfg.Addr = v
	}
	if v := strings.TrimSpace(os.Getenv("TINYBOARD_DEBUG")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Debug = b
		}
	}
	if v := strings.TrimSpace(os.Getenv("LOG_LEVEL")); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv("LOG_FORMAT")); v != "" {
		cfg.LogFormat = v
	}
	if v := strings.TrimSpace(os.Getenv("DATABASE_URL")); v != "" {
		cfg.DatabaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("TINYBOARD_IDLE_TTL")); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.IdleTTL = d
		}
	}
	if v := strings.TrimSpace(os.Getenv("TINYBOARD_SWEEP_INTERVAL")); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.SweepInterval = d
		}
	}
	if v := strings.TrimSpace(os.Getenv("TINYBOARD_KEEP_STALE_DRAG")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.KeepStaleDrag = b
		}
	}
	if v := strings.TrimSpace(os.Getenv("TINYBOARD_ORPHAN_CAPTURED")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.OrphanCaptured = b
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports settings the server cannot start with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return errors.New("addr is required")
	}
	if c.IdleTTL <= 0 {
		return errors.New("idle_ttl must be positive")
	}
	if c.SweepInterval <= 0 {
		return errors.New("sweep_interval must be positive")
	}
	return nil
}
