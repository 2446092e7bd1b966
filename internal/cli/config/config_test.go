package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.API.BaseURL != "http://localhost:8000" {
		t.Errorf("BaseURL = %q, want %q", cfg.API.BaseURL, "http://localhost:8000")
	}
	if cfg.API.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.API.Timeout)
	}
	if cfg.API.MaxRetries != 2 {
		t.Errorf("MaxRetries = %d, want 2", cfg.API.MaxRetries)
	}
	if cfg.Auth.DeviceName != "hwdesk-cli" {
		t.Errorf("DeviceName = %q", cfg.Auth.DeviceName)
	}
	if cfg.Output.Format != "table" {
		t.Errorf("Output.Format = %q, want table", cfg.Output.Format)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestDefaultConfigPath(t *testing.T) {
	path := DefaultConfigPath()

	if !filepath.IsAbs(path) {
		t.Errorf("Path %q should be absolute", path)
	}
	if !strings.HasSuffix(path, filepath.Join(".hwdesk", "cli.yaml")) {
		t.Errorf("Path = %q, should end with .hwdesk/cli.yaml", path)
	}
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/path/cli.yaml", nil); err == nil {
		t.Error("Load should fail for an explicit file that does not exist")
	}
}

func TestLoad_DefaultsOnly(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	loaded, err := Load("", nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Path != "" {
		t.Errorf("Path = %q, want empty when no file exists", loaded.Path)
	}
	if loaded.API.BaseURL != "http://localhost:8000" {
		t.Errorf("BaseURL = %q", loaded.API.BaseURL)
	}
	if loaded.Auth.MonitorInterval != 5*time.Minute {
		t.Errorf("MonitorInterval = %v", loaded.Auth.MonitorInterval)
	}
}

func TestLoad_Layering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cli.yaml")
	content := `
api:
  base_url: https://hw.school.example
  timeout: 5s
store:
  driver: redis
  redis_addr: cache:6379
output:
  format: json
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("HWDESK_API_MAX_RETRIES", "4")
	t.Setenv("HWDESK_AUTH_DEVICE_NAME", "lab-07")

	loaded, err := Load(path, map[string]any{"output.format": "yaml"})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if loaded.Path != path {
		t.Errorf("Path = %q, want %q", loaded.Path, path)
	}
	if loaded.API.BaseURL != "https://hw.school.example" {
		t.Errorf("BaseURL = %q", loaded.API.BaseURL)
	}
	if loaded.API.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", loaded.API.Timeout)
	}
	if loaded.API.MaxRetries != 4 {
		t.Errorf("MaxRetries = %d, want 4 from env", loaded.API.MaxRetries)
	}
	if loaded.Auth.DeviceName != "lab-07" {
		t.Errorf("DeviceName = %q, want lab-07 from env", loaded.Auth.DeviceName)
	}
	if loaded.Store.Driver != "redis" || loaded.Store.RedisAddr != "cache:6379" {
		t.Errorf("Store = %+v", loaded.Store)
	}
	if loaded.Store.KeyPrefix != "hwdesk:" {
		t.Errorf("KeyPrefix = %q, default should survive", loaded.Store.KeyPrefix)
	}
	if loaded.Output.Format != "yaml" {
		t.Errorf("Output.Format = %q, flag should win", loaded.Output.Format)
	}
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subdir", "cli.yaml")

	cfg := Default()
	cfg.API.BaseURL = "https://saved.example"
	cfg.API.Timeout = 12 * time.Second
	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("file mode = %o, want 600", perm)
	}

	loaded, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.API.BaseURL != "https://saved.example" || loaded.API.Timeout != 12*time.Second {
		t.Errorf("loaded API = %+v", loaded.API)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*CLIConfig)
		wantErr string
	}{
		{"bad url", func(c *CLIConfig) { c.API.BaseURL = "ftp://x" }, "api.base_url"},
		{"no host", func(c *CLIConfig) { c.API.BaseURL = "http://" }, "api.base_url"},
		{"zero timeout", func(c *CLIConfig) { c.API.Timeout = 0 }, "api.timeout"},
		{"negative retries", func(c *CLIConfig) { c.API.MaxRetries = -1 }, "api.max_retries"},
		{"empty device", func(c *CLIConfig) { c.Auth.DeviceName = " " }, "auth.device_name"},
		{"unknown driver", func(c *CLIConfig) { c.Store.Driver = "sqlite" }, "store.driver"},
		{"redis without addr", func(c *CLIConfig) { c.Store.Driver = "redis"; c.Store.RedisAddr = "" }, "store.redis_addr"},
		{"unknown output", func(c *CLIConfig) { c.Output.Format = "xml" }, "output.format"},
		{"unknown level", func(c *CLIConfig) { c.Log.Level = "loud" }, "log.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error mentioning %q", err, tt.wantErr)
			}
		})
	}
}

func TestRedacted(t *testing.T) {
	cfg := Default()
	cfg.Store.RedisPassword = "s3cret"

	r := cfg.Redacted()
	if r.Store.RedisPassword != "***" {
		t.Errorf("RedisPassword = %q, want masked", r.Store.RedisPassword)
	}
	if cfg.Store.RedisPassword != "s3cret" {
		t.Error("Redacted() must not modify the original")
	}
}
