// Package cache provides byte caches for fetched changeset nodes.
//
// # Overview
//
// Node stores can be slow (a network round trip per node), while a node's
// generation and parents never change once written. A [Cache] keeps the
// encoded node under a key derived from the DAG and node identifiers so
// repeated computations over the same history skip the store.
//
// # Implementations
//
//   - [NullCache]: never stores anything (caching disabled)
//   - [MemoryCache]: process-local map, mostly for tests and long-lived callers
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: shared cache on a Redis server
//
// All implementations treat a zero TTL as "never expires".
//
// # Keys
//
// A [Keyer] derives keys; [ScopedKeyer] prefixes them so several tenants or
// environments can share one backend.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys.
type Cache interface {
	// Get returns the value for key and whether it was present.
	// Expired entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero keeps the entry forever.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// NullCache is a no-op cache that never stores anything.
type NullCache struct{}

// NewNullCache creates a null cache.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }

var _ Cache = NullCache{}
