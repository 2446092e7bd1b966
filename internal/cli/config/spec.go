package config

import (
	"os"
	"path/filepath"
	"time"
)

// CLIConfig is the configuration for hwdesk-cli.
type CLIConfig struct {
	API     APIConfig     `koanf:"api" yaml:"api" json:"api"`
	Auth    AuthConfig    `koanf:"auth" yaml:"auth" json:"auth"`
	Store   StoreConfig   `koanf:"store" yaml:"store" json:"store"`
	Output  OutputConfig  `koanf:"output" yaml:"output" json:"output"`
	Log     LogConfig     `koanf:"log" yaml:"log" json:"log"`
	Metrics MetricsConfig `koanf:"metrics" yaml:"metrics" json:"metrics"`
}

// APIConfig configures the transport client.
type APIConfig struct {
	BaseURL    string        `koanf:"base_url" yaml:"base_url" json:"base_url"`
	Timeout    time.Duration `koanf:"timeout" yaml:"timeout" json:"timeout"`
	MaxRetries int           `koanf:"max_retries" yaml:"max_retries" json:"max_retries"`
	RateLimit  float64       `koanf:"rate_limit" yaml:"rate_limit" json:"rate_limit"` // requests/second, 0 = unlimited
	CAFile     string        `koanf:"ca_file" yaml:"ca_file,omitempty" json:"ca_file,omitempty"`
}

// AuthConfig configures login.
type AuthConfig struct {
	DeviceName      string        `koanf:"device_name" yaml:"device_name" json:"device_name"`
	MonitorInterval time.Duration `koanf:"monitor_interval" yaml:"monitor_interval" json:"monitor_interval"` // 0 disables
}

// StoreConfig selects where the token and user record persist.
type StoreConfig struct {
	Driver        string `koanf:"driver" yaml:"driver" json:"driver"`
	Dir           string `koanf:"dir" yaml:"dir" json:"dir"`
	KeyPrefix     string `koanf:"key_prefix" yaml:"key_prefix" json:"key_prefix"`
	RedisAddr     string `koanf:"redis_addr" yaml:"redis_addr,omitempty" json:"redis_addr,omitempty"`
	RedisPassword string `koanf:"redis_password" yaml:"redis_password,omitempty" json:"redis_password,omitempty"`
	RedisDB       int    `koanf:"redis_db" yaml:"redis_db,omitempty" json:"redis_db,omitempty"`
}

// OutputConfig sets the default output format.
type OutputConfig struct {
	Format string `koanf:"format" yaml:"format" json:"format"`
}

// LogConfig configures diagnostics. An empty File logs to stderr.
type LogConfig struct {
	Level  string `koanf:"level" yaml:"level" json:"level"`
	Format string `koanf:"format" yaml:"format" json:"format"`
	File   string `koanf:"file" yaml:"file,omitempty" json:"file,omitempty"`
}

// MetricsConfig enables the Prometheus textfile export when Textfile is set.
type MetricsConfig struct {
	Textfile string `koanf:"textfile" yaml:"textfile,omitempty" json:"textfile,omitempty"`
}

// HomeDir returns ~/.hwdesk.
func HomeDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.TempDir()
	}
	return filepath.Join(homeDir, ".hwdesk")
}

// DefaultConfigPath returns the default CLI config file path.
func DefaultConfigPath() string {
	return filepath.Join(HomeDir(), "cli.yaml")
}

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		API: APIConfig{
			BaseURL:    "http://localhost:8000",
			Timeout:    30 * time.Second,
			MaxRetries: 2,
		},
		Auth: AuthConfig{
			DeviceName:      "hwdesk-cli",
			MonitorInterval: 5 * time.Minute,
		},
		Store: StoreConfig{
			Driver:    "badger",
			Dir:       filepath.Join(HomeDir(), "session"),
			KeyPrefix: "hwdesk:",
			RedisAddr: "localhost:6379",
		},
		Output: OutputConfig{Format: "table"},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// defaults flattens Default() for the loader.
func defaults() map[string]any {
	d := Default()
	return map[string]any{
		"api.base_url":          d.API.BaseURL,
		"api.timeout":           d.API.Timeout,
		"api.max_retries":       d.API.MaxRetries,
		"api.rate_limit":        d.API.RateLimit,
		"api.ca_file":           d.API.CAFile,
		"auth.device_name":      d.Auth.DeviceName,
		"auth.monitor_interval": d.Auth.MonitorInterval,
		"store.driver":          d.Store.Driver,
		"store.dir":             d.Store.Dir,
		"store.key_prefix":      d.Store.KeyPrefix,
		"store.redis_addr":      d.Store.RedisAddr,
		"store.redis_password":  d.Store.RedisPassword,
		"store.redis_db":        d.Store.RedisDB,
		"output.format":         d.Output.Format,
		"log.level":             d.Log.Level,
		"log.format":            d.Log.Format,
		"log.file":              d.Log.File,
		"metrics.textfile":      d.Metrics.Textfile,
	}
}
