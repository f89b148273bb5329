// Package config loads the optional ~/.tempo/config.toml. Every field has
// a default so a missing file is not an error.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config holds user settings.
type Config struct {
	// DatabasePath is the sqlite file location.
	DatabasePath string `toml:"database_path"`
	// LogLevel is a logrus level name (panic..trace).
	LogLevel string `toml:"log_level"`
	// PlanLimit caps the daily plan size.
	PlanLimit int `toml:"plan_limit"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		DatabasePath: "", // resolved lazily against the home dir
		LogLevel:     "warn",
		PlanLimit:    20,
	}
}

// Load reads the config file at path, falling back to defaults when the
// file does not exist. Unset fields keep their defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.PlanLimit <= 0 {
		cfg.PlanLimit = Default().PlanLimit
	}
	return cfg, nil
}

// LoadDefault reads ~/.tempo/config.toml.
func LoadDefault() (Config, error) {
	dir, err := Dir()
	if err != nil {
		return Default(), err
	}
	return Load(filepath.Join(dir, "config.toml"))
}

// Dir returns the tempo data directory (~/.tempo).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".tempo"), nil
}

// ResolveDatabasePath returns the configured database path, defaulting to
// ~/.tempo/tempo.db.
func (c Config) ResolveDatabasePath() (string, error) {
	if c.DatabasePath != "" {
		return c.DatabasePath, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "tempo.db"), nil
}
