// Package cache stores feed responses between runs.
//
// Three backends implement [Cache]: [FileCache] for the local CLI cache
// directory, [RedisCache] for a shared cache, and [NullCache] when caching
// is disabled. Entries carry a TTL; an expired entry reads as a miss.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
//
// Get reports a miss with ok=false and a nil error. Implementations must be
// safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Options selects and configures a backend for [Open].
type Options struct {
	Disabled  bool   // Use a NullCache
	Dir       string // FileCache directory
	RedisAddr string // Use a RedisCache at this address when set
	Prefix    string // Key prefix for RedisCache
}

// Open returns the backend described by opts: NullCache when disabled,
// RedisCache when an address is given, FileCache otherwise.
func Open(opts Options) (Cache, error) {
	switch {
	case opts.Disabled:
		return NewNullCache(), nil
	case opts.RedisAddr != "":
		c, err := DialRedis(opts.RedisAddr, opts.Prefix)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		c, err := NewFileCache(opts.Dir)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}
