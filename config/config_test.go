package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Profiles.Path != "constraints.yaml" {
		t.Errorf("expected default profiles path constraints.yaml, got %s", cfg.Profiles.Path)
	}
	if cfg.Profiles.Default != "standard" {
		t.Errorf("expected default profile standard, got %s", cfg.Profiles.Default)
	}
	if cfg.NATS.Subject != "codegate.reports" {
		t.Errorf("expected default subject codegate.reports, got %s", cfg.NATS.Subject)
	}
	if cfg.Watch.Debounce != 200*time.Millisecond {
		t.Errorf("expected default debounce 200ms, got %v", cfg.Watch.Debounce)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing profiles path",
			modify:  func(c *Config) { c.Profiles.Path = "" },
			wantErr: true,
		},
		{
			name:    "missing default profile",
			modify:  func(c *Config) { c.Profiles.Default = "" },
			wantErr: true,
		},
		{
			name: "nats url without subject",
			modify: func(c *Config) {
				c.NATS.URL = "nats://localhost:4222"
				c.NATS.Subject = ""
			},
			wantErr: true,
		},
		{
			name:    "negative debounce",
			modify:  func(c *Config) { c.Watch.Debounce = -time.Second },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	// Create temp file with config
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `
repo:
  path: "/test/path"
profiles:
  path: "rules/gates.yaml"
  default: "strict"
nats:
  url: "nats://test:4222"
  subject: "gates.reports"
metrics:
  addr: ":9102"
watch:
  debounce: 1s
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}

	if cfg.Repo.Path != "/test/path" {
		t.Errorf("expected repo path /test/path, got %s", cfg.Repo.Path)
	}
	if cfg.Profiles.Path != "rules/gates.yaml" {
		t.Errorf("expected profiles path rules/gates.yaml, got %s", cfg.Profiles.Path)
	}
	if cfg.Profiles.Default != "strict" {
		t.Errorf("expected default profile strict, got %s", cfg.Profiles.Default)
	}
	if cfg.NATS.URL != "nats://test:4222" {
		t.Errorf("expected NATS URL nats://test:4222, got %s", cfg.NATS.URL)
	}
	if cfg.Metrics.Addr != ":9102" {
		t.Errorf("expected metrics addr :9102, got %s", cfg.Metrics.Addr)
	}
	if cfg.Watch.Debounce != time.Second {
		t.Errorf("expected debounce 1s, got %v", cfg.Watch.Debounce)
	}
}

func TestConfigMerge(t *testing.T) {
	base := DefaultConfig()
	override := &Config{
		Profiles: ProfilesConfig{
			Default: "strict",
		},
		NATS: NATSConfig{
			URL: "nats://override:4222",
		},
	}

	base.Merge(override)

	if base.Profiles.Default != "strict" {
		t.Errorf("expected default profile strict, got %s", base.Profiles.Default)
	}
	// Path should remain from base since override didn't set it
	if base.Profiles.Path != "constraints.yaml" {
		t.Errorf("expected profiles path to remain default, got %s", base.Profiles.Path)
	}
	if base.NATS.URL != "nats://override:4222" {
		t.Errorf("expected NATS URL nats://override:4222, got %s", base.NATS.URL)
	}
	if base.NATS.Subject != "codegate.reports" {
		t.Errorf("expected subject to remain default, got %s", base.NATS.Subject)
	}
}

func TestConfigSaveToFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "subdir", "config.yaml")

	cfg := DefaultConfig()
	cfg.Profiles.Default = "saved-profile"

	if err := cfg.SaveToFile(configPath); err != nil {
		t.Fatalf("SaveToFile() error = %v", err)
	}

	// Verify file was created
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("config file was not created")
	}

	// Load and verify
	loaded, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("failed to load saved config: %v", err)
	}
	if loaded.Profiles.Default != "saved-profile" {
		t.Errorf("expected profile saved-profile, got %s", loaded.Profiles.Default)
	}
}

func TestEnsureUserConfig(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)

	loader := NewLoader(nil)
	if err := loader.EnsureUserConfig(); err != nil {
		t.Fatalf("EnsureUserConfig() error = %v", err)
	}

	configPath := filepath.Join(tmpDir, UserConfigDir, UserConfigFile)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Fatal("user config file was not created")
	}

	// Existing file is left untouched
	custom := DefaultConfig()
	custom.Profiles.Default = "strict"
	if err := custom.SaveToFile(configPath); err != nil {
		t.Fatalf("SaveToFile() error = %v", err)
	}
	if err := loader.EnsureUserConfig(); err != nil {
		t.Fatalf("EnsureUserConfig() second call error = %v", err)
	}
	loaded, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("failed to load user config: %v", err)
	}
	if loaded.Profiles.Default != "strict" {
		t.Errorf("expected existing config preserved, got profile %s", loaded.Profiles.Default)
	}
}
