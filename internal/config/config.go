// Package config loads and validates the server configuration.
//
// Configuration comes from an optional YAML file, with environment
// variables overriding individual values. The file is optional so `go run`
// works out of the box with sensible defaults; the env overrides are what
// deployments actually use (PORT, DB_PATH, UPLOAD_DIR, SESSION_SECRET).
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config mirrors the jibi.yaml schema.
type Config struct {
	Port          int    `yaml:"port"`
	DBPath        string `yaml:"db_path"`
	UploadDir     string `yaml:"upload_dir"`
	SessionSecret string `yaml:"session_secret"`
	LogLevel      string `yaml:"log_level"` // debug | info | warn | error
}

// defaults returns the configuration used when nothing else is specified.
// The session secret has no default on purpose — it must be provided.
func defaults() Config {
	return Config{
		Port:      8080,
		DBPath:    "data/jibi.db",
		UploadDir: "data/uploads",
		LogLevel:  "info",
	}
}

// Load reads the YAML file at path (skipped if path is empty or the file
// doesn't exist), applies env overrides, and validates the result.
func Load(path string) (Config, error) {
	cfg := defaults()

	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// Missing file is fine — defaults plus env cover everything.
		case err != nil:
			return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(raw, &cfg); err != nil {
				return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
			}
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// applyEnv overrides individual fields from the environment.
func applyEnv(cfg *Config) error {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: invalid PORT %q: %w", v, err)
		}
		cfg.Port = port
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("UPLOAD_DIR"); v != "" {
		cfg.UploadDir = v
	}
	if v := os.Getenv("SESSION_SECRET"); v != "" {
		cfg.SessionSecret = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	return nil
}

func (c Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: port %d out of range", c.Port)
	}
	if c.SessionSecret == "" {
		return errors.New("config: session_secret is required (set SESSION_SECRET)")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log_level %q", c.LogLevel)
	}
	return nil
}
