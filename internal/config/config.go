// Package config provides configuration management for promptgen.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Environment variables read by promptgen.
const (
	EnvDatabaseURL = "DATABASE_URL"
	EnvGitHubToken = "GITHUB_TOKEN"
	EnvPresets     = "PROMPTGEN_PRESETS"
	EnvStack       = "PROMPTGEN_STACK"
	EnvEnvFile     = "PROMPTGEN_ENV_FILE"
)

// DefaultEnvFile is the dotfile loaded before schema reporting.
const DefaultEnvFile = ".env"

// Config holds all configuration for a promptgen run.
type Config struct {
	// PresetsFile is an optional YAML file of scan presets merged over the
	// built-in ones. Defaults to ~/.config/promptgen/presets.yaml when present.
	PresetsFile string

	// Stack is the language named in prompt role definitions.
	// Empty means the renderer default.
	Stack string

	// GitHubToken authenticates --repo indexing (optional; public repos work without it).
	GitHubToken string

	// EnvFile is the dotfile loaded best-effort at context acquisition time.
	EnvFile string
}

// Load creates a Config from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		PresetsFile: envOr(EnvPresets, defaultPresetsFile()),
		Stack:       os.Getenv(EnvStack),
		GitHubToken: os.Getenv(EnvGitHubToken),
		EnvFile:     envOr(EnvEnvFile, DefaultEnvFile),
	}
	return cfg, nil
}

// Validate checks that explicitly configured files exist.
func (c *Config) Validate() error {
	if c.PresetsFile == "" {
		return nil
	}
	if _, err := os.Stat(c.PresetsFile); err != nil {
		return fmt.Errorf("%s: %w", EnvPresets, err)
	}
	return nil
}

// LoadDotEnv loads path into the process environment without overriding
// variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// defaultPresetsFile returns the per-user presets file if it exists.
func defaultPresetsFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(dir, "promptgen", "presets.yaml")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}
