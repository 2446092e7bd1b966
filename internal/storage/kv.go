// Package storage provides the durable key-value store for client session state.
package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Common errors
var (
	ErrKeyNotFound = errors.New("key not found")
	ErrClosed      = errors.New("store closed")
)

// Store is a small string-keyed KV store.
//
// Implementations must be safe for concurrent use and must return
// ErrKeyNotFound for missing keys.
type Store interface {
	// Get retrieves a value by key.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a key-value pair, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the underlying resources.
	Close() error
}

// Engine names.
const (
	EngineBadger = "badger"
	EngineRedis  = "redis"
	EngineMemory = "memory"
)

// Config selects and configures a store engine.
type Config struct {
	// Engine is one of "badger", "redis", "memory". Default: "badger".
	Engine string

	// Dir is the Badger data directory.
	Dir string

	// KeyPrefix namespaces every key (e.g. "hwdesk:default:").
	KeyPrefix string

	// Redis connection settings.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// TTL bounds how long Redis keeps session entries. Zero keeps them forever.
	TTL time.Duration
}

// DefaultConfig returns the default store configuration rooted at dir.
func DefaultConfig(dir string) Config {
	return Config{
		Engine:    EngineBadger,
		Dir:       dir,
		KeyPrefix: "hwdesk:",
		RedisAddr: "localhost:6379",
	}
}

// Open creates the store selected by cfg.Engine.
func Open(cfg Config, logger *slog.Logger) (Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch strings.ToLower(cfg.Engine) {
	case "", EngineBadger:
		return NewBadgerStore(cfg, logger)
	case EngineRedis:
		return NewRedisStore(cfg)
	case EngineMemory:
		return NewMemoryStore(cfg.KeyPrefix), nil
	default:
		return nil, fmt.Errorf("storage: unknown engine %q", cfg.Engine)
	}
}
