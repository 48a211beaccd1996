// Package config handles the JAI workspace configuration file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the flat JAI configuration
type Config struct {
	Version     string `json:"version"`
	Actor       string `json:"actor,omitempty"`        // identity recorded on pilot sessions
	DefaultRepo string `json:"default_repo,omitempty"` // repo name used when --repo is omitted
	DBPath      string `json:"db_path,omitempty"`      // overrides the default database location
}

// LoadConfig reads .jai/config.json from the specified directory.
// Resolution order: cwd only (no home fallback).
// Returns error if no config found - caller should handle accordingly.
func LoadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, ".jai", "config.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}

// SaveConfig writes config.json to directory
func SaveConfig(dir string, cfg *Config) error {
	jaiDir := filepath.Join(dir, ".jai")
	if err := os.MkdirAll(jaiDir, 0755); err != nil {
		return fmt.Errorf("failed to create .jai dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(jaiDir, "config.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
