// Package config provides configuration loading and structs for the screener server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug    bool           `yaml:"debug"`
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	Matching MatchingConfig `yaml:"matching"`
	Watch    WatchConfig    `yaml:"watch"`
}

// WatchConfig holds resume inbox settings.
type WatchConfig struct {
	Directories []string `yaml:"directories"`
	Extensions  []string `yaml:"extensions"`
	Recursive   *bool    `yaml:"recursive"`
	// JobPath points to a YAML job spec that new resumes are screened against.
	JobPath string `yaml:"job_path"`
}

// RecursiveOrDefault returns whether to watch recursively; defaults to true when unset.
func (w *WatchConfig) RecursiveOrDefault() bool {
	if w.Recursive != nil {
		return *w.Recursive
	}
	return true
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig holds paths for the database and the resume library index.
type StorageConfig struct {
	DatabasePath     string `yaml:"database_path"`
	LibraryIndexPath string `yaml:"library_index_path"`
}

// MatchingConfig tunes the matching engine.
type MatchingConfig struct {
	FuzzyThreshold float64 `yaml:"fuzzy_threshold"`
	// VocabularyPath is a YAML skill vocabulary; empty uses the built-in one.
	VocabularyPath string  `yaml:"vocabulary_path"`
	Workers        int     `yaml:"workers"`
	MinScore       float64 `yaml:"min_score"`
	MaxUploadMB    int     `yaml:"max_upload_mb"`
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed, or holds invalid values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	configDir := filepath.Dir(path)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	cfg.Storage.LibraryIndexPath = expandPath(cfg.Storage.LibraryIndexPath, configDir)
	if cfg.Matching.VocabularyPath != "" {
		cfg.Matching.VocabularyPath = expandPath(cfg.Matching.VocabularyPath, configDir)
	}
	if cfg.Watch.JobPath != "" {
		cfg.Watch.JobPath = expandPath(cfg.Watch.JobPath, configDir)
	}
	for i := range cfg.Watch.Directories {
		cfg.Watch.Directories[i] = expandPath(cfg.Watch.Directories[i], configDir)
	}

	return &cfg, nil
}

// Validate rejects values that defaults cannot repair.
func (c *Config) Validate() error {
	if t := c.Matching.FuzzyThreshold; t <= 0 || t > 1 {
		return fmt.Errorf("invalid config: matching.fuzzy_threshold must be in (0, 1], got %v", t)
	}
	if c.Matching.MinScore < 0 || c.Matching.MinScore > 100 {
		return fmt.Errorf("invalid config: matching.min_score must be in [0, 100], got %v", c.Matching.MinScore)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid config: server.port out of range: %d", c.Server.Port)
	}
	return nil
}

// Save writes the config to path. Used for persisting watch directory add/remove.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
