package confloader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultEnvPrefix marks the environment variables Load reads.
const DefaultEnvPrefix = "HWDESK_"

// Loader merges configuration layers into one koanf tree.
type Loader struct {
	k            *koanf.Koanf
	envPrefix    string
	filePath     string
	fileRequired bool
	fileUsed     string
	defaults     map[string]any
}

// Option configures a Loader.
type Option func(*Loader)

func WithEnvPrefix(prefix string) Option {
	return func(l *Loader) { l.envPrefix = prefix }
}

// WithConfigFile sets the YAML file. A missing file is skipped unless
// WithRequiredFile is also given.
func WithConfigFile(path string) Option {
	return func(l *Loader) { l.filePath = path }
}

func WithRequiredFile() Option {
	return func(l *Loader) { l.fileRequired = true }
}

// WithDefaults sets the lowest layer, keyed by dotted path.
func WithDefaults(defaults map[string]any) Option {
	return func(l *Loader) { l.defaults = defaults }
}

func NewLoader(opts ...Option) *Loader {
	l := &Loader{k: koanf.New("."), envPrefix: DefaultEnvPrefix}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load merges defaults, the file, the environment and overrides, each
// layer winning over the one before, then unmarshals into target by
// koanf tags. Durations may be written as "30s".
func (l *Loader) Load(target any, overrides map[string]any) error {
	layers := []struct {
		name string
		load func() error
	}{
		{"defaults", func() error { return l.loadMap(l.defaults) }},
		{"file", l.loadConfigFile},
		{"env", l.loadEnv},
		{"overrides", func() error { return l.loadMap(overrides) }},
	}
	for _, layer := range layers {
		if err := layer.load(); err != nil {
			return fmt.Errorf("confloader: %s: %w", layer.name, err)
		}
	}

	if err := l.k.Unmarshal("", target); err != nil {
		return fmt.Errorf("confloader: unmarshal: %w", err)
	}
	return nil
}

// FileUsed returns the file that was read, or "" if none was.
func (l *Loader) FileUsed() string {
	return l.fileUsed
}

func (l *Loader) loadConfigFile() error {
	if l.filePath == "" {
		return nil
	}
	err := l.loadFile(l.filePath)
	switch {
	case err == nil:
		l.fileUsed = l.filePath
		return nil
	case errors.Is(err, fs.ErrNotExist) && !l.fileRequired:
		return nil
	default:
		return err
	}
}

func (l *Loader) loadFile(path string) error {
	// file.Provider reports a missing file only on Read; stat first so
	// the caller can tell it apart from a parse error.
	if _, err := os.Stat(path); err != nil {
		return err
	}
	if err := l.k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func (l *Loader) loadEnv() error {
	return l.k.Load(env.Provider(l.envPrefix, ".", l.envKey), nil)
}

// envKey maps HWDESK_STORE_REDIS_ADDR to store.redis_addr. Only the
// first underscore after the prefix separates section from key.
func (l *Loader) envKey(name string) string {
	s := strings.ToLower(strings.TrimPrefix(name, l.envPrefix))
	section, key, ok := strings.Cut(s, "_")
	if !ok {
		return section
	}
	return section + "." + key
}

func (l *Loader) loadMap(data map[string]any) error {
	if len(data) == 0 {
		return nil
	}
	return l.k.Load(mapProvider(data), nil)
}
