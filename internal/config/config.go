// Package config holds the viewer client configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds all configuration for the admin helper TUI.
type Config struct {
	// BackendURL points at the archive REST backend.
	BackendURL string `json:"backend_url"`

	// SearchLimit caps how many search results are requested per query.
	SearchLimit int `json:"search_limit"`

	// ExportDir is where HTML transcripts are written.
	ExportDir string `json:"export_dir"`

	// LogFile overrides the default log location.
	LogFile string `json:"log_file"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		BackendURL:  "http://localhost:8000",
		SearchLimit: 100,
		ExportDir:   "",
		LogFile:     "",
	}
}

// DefaultConfigPath returns ~/.config/adminhelper/config.json.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.json"
	}
	return filepath.Join(home, ".config", "adminhelper", "config.json")
}

// LoadConfig reads a JSON config file, filling omitted fields with defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if cfg.BackendURL == "" {
		cfg.BackendURL = DefaultConfig().BackendURL
	}
	if cfg.SearchLimit <= 0 {
		cfg.SearchLimit = DefaultConfig().SearchLimit
	}
	return cfg, nil
}

// Save writes the configuration to path, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}
