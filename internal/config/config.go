// Copyright (c) 2025 LegalEagle Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for eagle-tui.
//
// Configuration is TOML with environment variable overrides:
//   - ~/.eagle/config.toml
//   - EAGLE_* environment variables
//   - Built-in defaults
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/legaleagle/eagle-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete eagle-tui configuration.
type Config struct {
	// Backend holds the API endpoint settings.
	Backend BackendConfig `toml:"backend"`

	// Upload holds client-side upload validation limits.
	Upload UploadConfig `toml:"upload"`

	// UI holds presentation settings.
	UI UIConfig `toml:"ui"`
}

// BackendConfig contains backend API settings.
type BackendConfig struct {
	// URL is the base URL of the LegalEagle backend.
	URL string `toml:"url"`
	// TimeoutSecs is the per-request timeout in seconds.
	TimeoutSecs int `toml:"timeout_secs"`
	// MaxRetries is the retry budget for transient failures.
	MaxRetries int `toml:"max_retries"`
}

// UploadConfig contains document upload limits enforced before any
// network call. The backend enforces the same limits authoritatively.
type UploadConfig struct {
	// MaxSizeMB is the maximum document size in mebibytes.
	MaxSizeMB int `toml:"max_size_mb"`
	// AllowedExtension is the single accepted file extension.
	AllowedExtension string `toml:"allowed_extension"`
}

// UIConfig contains presentation settings.
type UIConfig struct {
	// Theme selects the color theme: "auto", "dark", or "light".
	Theme string `toml:"theme"`
	// ShowTimestamps toggles per-message timestamps in the transcript.
	ShowTimestamps bool `toml:"show_timestamps"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Backend: BackendConfig{
			URL:         "http://localhost:8000",
			TimeoutSecs: 120,
			MaxRetries:  3,
		},
		Upload: UploadConfig{
			MaxSizeMB:        50,
			AllowedExtension: ".pdf",
		},
		UI: UIConfig{
			Theme:          "auto",
			ShowTimestamps: true,
		},
	}
}

// Timeout returns the backend timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Backend.TimeoutSecs) * time.Second
}

// MaxUploadBytes returns the upload size ceiling in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.Upload.MaxSizeMB) * 1024 * 1024
}

// =============================================================================
// LOADING
// =============================================================================

// Dir returns the eagle-tui configuration directory (~/.eagle).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".eagle"), nil
}

// Path returns the configuration file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads configuration from disk, applies environment overrides and
// validates the result. A missing file is not an error: defaults apply.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads configuration from an explicit path.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// Defaults only.
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to its default path atomically.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}

	var sb strings.Builder
	if err := toml.NewEncoder(&sb).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return util.AtomicWriteFile(path, []byte(sb.String()), 0644)
}

// applyEnvOverrides applies EAGLE_* environment variables on top of the
// file values.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("EAGLE_BACKEND_URL"); v != "" {
		cfg.Backend.URL = v
	}
	if v := os.Getenv("EAGLE_TIMEOUT_SECS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			cfg.Backend.TimeoutSecs = secs
		}
	}
	if v := os.Getenv("EAGLE_THEME"); v != "" {
		cfg.UI.Theme = v
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks the configuration for inconsistencies.
func (c *Config) Validate() error {
	parsed, err := url.Parse(c.Backend.URL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("invalid backend url %q", c.Backend.URL)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("backend url scheme must be http or https, got %q", parsed.Scheme)
	}

	if c.Backend.TimeoutSecs <= 0 {
		return errors.New("backend timeout must be positive")
	}
	if c.Backend.MaxRetries < 1 {
		return errors.New("backend max_retries must be at least 1")
	}
	if c.Upload.MaxSizeMB <= 0 {
		return errors.New("upload max_size_mb must be positive")
	}
	if !strings.HasPrefix(c.Upload.AllowedExtension, ".") {
		return fmt.Errorf("upload allowed_extension must start with a dot, got %q", c.Upload.AllowedExtension)
	}

	switch c.UI.Theme {
	case "auto", "dark", "light":
	default:
		return fmt.Errorf("unknown theme %q", c.UI.Theme)
	}
	return nil
}
