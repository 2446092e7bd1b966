// Package storage provides the Badger-backed session store.
package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/dgraph-io/badger/v3"
)

// BadgerStore implements Store on an embedded Badger database.
type BadgerStore struct {
	db     *badger.DB
	prefix string
	logger *slog.Logger
	closed atomic.Bool
}

const (
	badgerMemTableSize   = 4 << 20
	badgerValueThreshold = 64 << 10
)

// NewBadgerStore opens (or creates) a Badger database in cfg.Dir.
//
// The options are sized for a handful of small keys: a single small
// memtable and synchronous writes so a saved token survives a crash.
// Badger caps a write batch at 15% of the memtable, and the value
// threshold must fit in one batch.
func NewBadgerStore(cfg Config, logger *slog.Logger) (*BadgerStore, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("badger: dir is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	opts := badger.DefaultOptions(cfg.Dir).
		WithLogger(&badgerLogger{logger: logger}).
		WithSyncWrites(true).
		WithNumVersionsToKeep(1).
		WithNumMemtables(1).
		WithMemTableSize(badgerMemTableSize).
		WithValueThreshold(badgerValueThreshold).
		WithValueLogFileSize(16 << 20).
		WithBlockCacheSize(8 << 20)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger: open %s (is another hwdesk-cli running?): %w", cfg.Dir, err)
	}

	logger.Debug("session store opened", "engine", EngineBadger, "dir", cfg.Dir)

	return &BadgerStore{
		db:     db,
		prefix: cfg.KeyPrefix,
		logger: logger,
	}, nil
}

// Get retrieves a value by key.
func (s *BadgerStore) Get(ctx context.Context, key string) ([]byte, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}

	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(s.prefix + key))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrKeyNotFound
			}
			return err
		}

		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}

	return value, nil
}

// Set stores a key-value pair.
func (s *BadgerStore) Set(ctx context.Context, key string, value []byte) error {
	if s.closed.Load() {
		return ErrClosed
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(s.prefix+key), value)
	})
}

// Delete removes a key.
func (s *BadgerStore) Delete(ctx context.Context, key string) error {
	if s.closed.Load() {
		return ErrClosed
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(s.prefix + key))
	})
}

// Close reclaims value-log space and closes the database.
func (s *BadgerStore) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}

	// RunValueLogGC returns ErrNoRewrite once nothing is left to reclaim.
	for i := 0; i < 4; i++ {
		if err := s.db.RunValueLogGC(0.5); err != nil {
			break
		}
	}

	return s.db.Close()
}

// badgerLogger adapts slog.Logger to Badger's Logger interface.
// Badger is chatty at info level, so info is demoted to debug.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}
