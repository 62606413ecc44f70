// Package config loads process configuration from an optional YAML file with
// environment variable overrides. Explicit init at startup; nothing here is a
// singleton so tests can build their own Config.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full process configuration.
type Config struct {
	Addr         string
	SQLitePath   string
	SessionTTL   time.Duration
	ScanDebounce time.Duration
}

// fileConfig is the YAML shape. Durations are plain integers so the file
// stays trivially editable.
type fileConfig struct {
	Addr            string `yaml:"addr"`
	SQLitePath      string `yaml:"sqlite_path"`
	SessionTTLHours int    `yaml:"session_ttl_hours"`
	ScanDebounceMS  int    `yaml:"scan_debounce_ms"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Addr:         ":8080",
		SQLitePath:   "dockhand.db",
		SessionTTL:   12 * time.Hour,
		ScanDebounce: 300 * time.Millisecond,
	}
}

// Load reads the YAML file at path (skipped when path is empty or missing),
// then applies environment overrides on top.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Optional file.
		case err != nil:
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		default:
			var fc fileConfig
			if err := yaml.Unmarshal(data, &fc); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
			if fc.Addr != "" {
				cfg.Addr = fc.Addr
			}
			if fc.SQLitePath != "" {
				cfg.SQLitePath = fc.SQLitePath
			}
			if fc.SessionTTLHours > 0 {
				cfg.SessionTTL = time.Duration(fc.SessionTTLHours) * time.Hour
			}
			if fc.ScanDebounceMS > 0 {
				cfg.ScanDebounce = time.Duration(fc.ScanDebounceMS) * time.Millisecond
			}
		}
	}

	applyEnv(&cfg)

	if cfg.SessionTTL <= 0 {
		return cfg, fmt.Errorf("session ttl must be positive")
	}
	if cfg.ScanDebounce <= 0 {
		return cfg, fmt.Errorf("scan debounce must be positive")
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("APP_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.SQLitePath = v
	}
	if v := os.Getenv("SESSION_TTL_HOURS"); v != "" {
		if hours, err := strconv.Atoi(v); err == nil && hours > 0 {
			cfg.SessionTTL = time.Duration(hours) * time.Hour
		}
	}
	if v := os.Getenv("SCAN_DEBOUNCE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			cfg.ScanDebounce = time.Duration(ms) * time.Millisecond
		}
	}
}
