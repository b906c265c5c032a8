// Package config provides configuration loading and management for codegate.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete codegate configuration
type Config struct {
	Repo     RepoConfig     `yaml:"repo"`
	Profiles ProfilesConfig `yaml:"profiles"`
	NATS     NATSConfig     `yaml:"nats"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Watch    WatchConfig    `yaml:"watch"`
}

// RepoConfig configures the repository settings
type RepoConfig struct {
	// Path is the repository root path (auto-detected from git if empty)
	Path string `yaml:"path"`
}

// ProfilesConfig configures constraint profile resolution
type ProfilesConfig struct {
	// Path is the constraint profiles YAML file (relative paths resolve
	// against the repo root)
	Path string `yaml:"path"`
	// Default is the profile applied when none is named on the command line
	Default string `yaml:"default"`
}

// NATSConfig configures optional report publishing
type NATSConfig struct {
	// URL is the NATS server URL (empty = publishing disabled)
	URL string `yaml:"url"`
	// Subject is the subject evaluation reports are published to
	Subject string `yaml:"subject"`
}

// MetricsConfig configures the Prometheus endpoint served in watch mode
type MetricsConfig struct {
	// Addr is the listen address for /metrics (empty = disabled)
	Addr string `yaml:"addr"`
}

// WatchConfig configures watch mode
type WatchConfig struct {
	// Debounce is how long to wait for more changes before re-evaluating
	Debounce time.Duration `yaml:"debounce"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Repo: RepoConfig{
			Path: "", // Auto-detect
		},
		Profiles: ProfilesConfig{
			Path:    "constraints.yaml",
			Default: "standard",
		},
		NATS: NATSConfig{
			URL:     "",
			Subject: "codegate.reports",
		},
		Metrics: MetricsConfig{
			Addr: "",
		},
		Watch: WatchConfig{
			Debounce: 200 * time.Millisecond,
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Profiles.Path == "" {
		return fmt.Errorf("profiles.path is required")
	}
	if c.Profiles.Default == "" {
		return fmt.Errorf("profiles.default is required")
	}
	if c.NATS.URL != "" && c.NATS.Subject == "" {
		return fmt.Errorf("nats.subject is required when nats.url is set")
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Repo
	if other.Repo.Path != "" {
		c.Repo.Path = other.Repo.Path
	}

	// Profiles
	if other.Profiles.Path != "" {
		c.Profiles.Path = other.Profiles.Path
	}
	if other.Profiles.Default != "" {
		c.Profiles.Default = other.Profiles.Default
	}

	// NATS
	if other.NATS.URL != "" {
		c.NATS.URL = other.NATS.URL
	}
	if other.NATS.Subject != "" {
		c.NATS.Subject = other.NATS.Subject
	}

	// Metrics
	if other.Metrics.Addr != "" {
		c.Metrics.Addr = other.Metrics.Addr
	}

	// Watch
	if other.Watch.Debounce != 0 {
		c.Watch.Debounce = other.Watch.Debounce
	}
}
