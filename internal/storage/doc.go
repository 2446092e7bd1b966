// Package storage provides the durable key-value store that keeps the
// client's session across process restarts.
//
// The client persists two entries: the bearer token and the serialized
// current user. Engines:
//
//   - badger: embedded on-disk store under the user's config directory (default)
//   - redis: shared store for lab or kiosk machines with many shells
//   - memory: process-local map, used by tests and --ephemeral runs
//
// All engines namespace keys with a configurable prefix so several
// profiles can share one backend.
package storage
