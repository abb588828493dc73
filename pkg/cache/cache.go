// Package cache stores rendered artifacts and computed plans by content key.
//
// # Backends
//
//   - [FileCache]: one file per entry under a directory, for the CLI
//   - [RedisCache]: shared cache for multi-instance servers
//   - [NullCache]: disables caching
//
// # Keys
//
// A [Keyer] derives keys from content hashes, so identical inputs hit the
// same entry regardless of plan IDs or timestamps:
//
//	k := cache.NewDefaultKeyer()
//	key := k.ArtifactKey(p.ContentHash(), cache.ArtifactKeyOpts{Format: "svg"})
//	data, hit, err := c.Get(ctx, key)
package cache

import (
	"context"
	"time"
)

// Default entry lifetimes.
const (
	PlanTTL     = 7 * 24 * time.Hour
	ArtifactTTL = 30 * 24 * time.Hour
)

// Cache is a byte store with per-entry expiration.
//
// Get reports a miss with hit=false and a nil error. A ttl <= 0 in Set
// stores the entry without expiration.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// NullCache stores nothing; every Get misses. The CLI uses it for --no-cache.
type NullCache struct{}

func NewNullCache() *NullCache { return &NullCache{} }

func (*NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (*NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (*NullCache) Delete(context.Context, string) error { return nil }
func (*NullCache) Close() error { return nil }

var _ Cache = (*NullCache)(nil)
