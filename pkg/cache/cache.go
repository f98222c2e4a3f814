// Package cache provides pluggable byte caches used to memoize local-score
// evaluations across search runs.
//
// Scoring a vertex against a candidate parent set is the dominant cost of a
// structure search, and the same (vertex, parent set) pair is evaluated many
// times as phases revisit candidates. The [score.Cached] wrapper keys each
// evaluation by a SHA-256 digest (see [ScoreKey]) and stores the result in
// any backend implementing [Cache]:
//
//   - [FileCache]: per-user on-disk cache for CLI runs
//   - [MemoryCache]: in-process cache for tests and single runs
//   - [RedisCache]: shared cache for server deployments
//   - [MongoCache]: durable document-store cache with TTL expiry
//   - [NullCache]: caching disabled
//
// All backends are safe for concurrent use, which matters because candidate
// evaluation fans out across goroutines within one search iteration.
package cache

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for cache operations.
var (
	// ErrClosed is returned by operations on a cache whose Close method
	// has already been called.
	ErrClosed = errors.New("cache closed")
)

// Cache stores opaque byte values under string keys with optional TTL.
//
// Get returns (data, true, nil) on a hit and (nil, false, nil) on a miss;
// errors are reserved for backend failures. A TTL of 0 means the entry
// never expires.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
