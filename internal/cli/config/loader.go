package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yndnr/hwdesk-go/internal/infra/confloader"
)

// Loaded is a configuration plus the file it came from.
type Loaded struct {
	*CLIConfig
	// Path is the file that was read, empty when none existed.
	Path string
}

// Load reads the configuration. An empty path means DefaultConfigPath;
// a missing default file is not an error, a missing explicit one is.
// overrides are dotted keys (for example "api.base_url") from flags.
func Load(path string, overrides map[string]any) (*Loaded, error) {
	opts := []confloader.Option{confloader.WithDefaults(defaults())}
	if path == "" {
		opts = append(opts, confloader.WithConfigFile(DefaultConfigPath()))
	} else {
		opts = append(opts, confloader.WithConfigFile(expandHome(path)), confloader.WithRequiredFile())
	}

	l := confloader.NewLoader(opts...)
	cfg := &CLIConfig{}
	if err := l.Load(cfg, overrides); err != nil {
		return nil, err
	}

	cfg.Store.Dir = expandHome(cfg.Store.Dir)
	cfg.Log.File = expandHome(cfg.Log.File)
	cfg.API.CAFile = expandHome(cfg.API.CAFile)
	cfg.Metrics.Textfile = expandHome(cfg.Metrics.Textfile)

	return &Loaded{CLIConfig: cfg, Path: l.FileUsed()}, nil
}

// Save writes cfg as YAML with owner-only permissions.
func Save(cfg *CLIConfig, path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

// Validate checks the configuration and reports every problem at once.
func (c *CLIConfig) Validate() error {
	var errs []error

	if u, err := url.Parse(c.API.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("api.base_url: %q is not an http(s) URL", c.API.BaseURL))
	}
	if c.API.Timeout <= 0 {
		errs = append(errs, errors.New("api.timeout: must be positive"))
	}
	if c.API.MaxRetries < 0 || c.API.MaxRetries > 10 {
		errs = append(errs, fmt.Errorf("api.max_retries: %d is outside 0..10", c.API.MaxRetries))
	}
	if c.API.RateLimit < 0 {
		errs = append(errs, errors.New("api.rate_limit: must not be negative"))
	}
	if strings.TrimSpace(c.Auth.DeviceName) == "" {
		errs = append(errs, errors.New("auth.device_name: must not be empty"))
	}
	if c.Auth.MonitorInterval < 0 {
		errs = append(errs, errors.New("auth.monitor_interval: must not be negative"))
	}

	switch c.Store.Driver {
	case "badger":
		if c.Store.Dir == "" {
			errs = append(errs, errors.New("store.dir: required for the badger driver"))
		}
	case "redis":
		if c.Store.RedisAddr == "" {
			errs = append(errs, errors.New("store.redis_addr: required for the redis driver"))
		}
	case "memory":
	default:
		errs = append(errs, fmt.Errorf("store.driver: unknown driver %q", c.Store.Driver))
	}

	switch c.Output.Format {
	case "table", "wide", "json", "yaml":
	default:
		errs = append(errs, fmt.Errorf("output.format: unknown format %q", c.Output.Format))
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level: unknown level %q", c.Log.Level))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format: unknown format %q", c.Log.Format))
	}

	return errors.Join(errs...)
}

// Redacted returns a copy safe to print.
func (c *CLIConfig) Redacted() *CLIConfig {
	cp := *c
	if cp.Store.RedisPassword != "" {
		cp.Store.RedisPassword = "***"
	}
	return &cp
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
