package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements Store on a Redis server.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
	cfg    Config
}

// NewRedisStore connects to the Redis server in cfg.
func NewRedisStore(cfg Config) (*RedisStore, error) {
	if cfg.RedisAddr == "" {
		return nil, fmt.Errorf("redis: addr is required")
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	return NewRedisStoreWithClient(rdb, cfg), nil
}

// NewRedisStoreWithClient wraps an existing client. The store takes
// ownership and closes it on Close.
func NewRedisStoreWithClient(rdb *redis.Client, cfg Config) *RedisStore {
	return &RedisStore{
		rdb:    rdb,
		prefix: cfg.KeyPrefix,
		cfg:    cfg,
	}
}

// Get retrieves a value by key.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.rdb.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("redis: get %s: %w", key, err)
	}
	return value, nil
}

// Set stores a key-value pair with the configured TTL.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.rdb.Set(ctx, s.prefix+key, value, s.cfg.TTL).Err(); err != nil {
		return fmt.Errorf("redis: set %s: %w", key, err)
	}
	return nil
}

// Delete removes a key.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis: del %s: %w", key, err)
	}
	return nil
}

// Close closes the Redis client.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
