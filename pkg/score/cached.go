package score

import (
	"context"
	"encoding/binary"
	"math"
	"sort"
	"time"

	"github.com/causalab/gies/pkg/cache"
	"github.com/causalab/gies/pkg/observability"
)

// Cached memoizes LocalScore calls of an inner scorer in a [cache.Cache].
//
// Keys are SHA-256 digests of the canonicalized (vertex, parent set) pair
// under a caller-chosen namespace, so distinct data sets sharing a backend
// never collide. Backend failures degrade to computing the score; they are
// never surfaced, since the cache is an optimization with no semantic
// effect on the search.
//
// Nodes, Targets, and ObservationCount pass through uncached - they are
// cheap and must reflect the inner scorer exactly.
type Cached struct {
	inner     LocalScorer
	cache     cache.Cache
	namespace string
	ttl       time.Duration
}

// NewCached wraps inner with memoization in c under the given namespace.
// A ttl of 0 stores entries without expiry.
func NewCached(inner LocalScorer, c cache.Cache, namespace string, ttl time.Duration) *Cached {
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Cached{inner: inner, cache: c, namespace: namespace, ttl: ttl}
}

// Nodes implements LocalScorer.
func (s *Cached) Nodes() []string { return s.inner.Nodes() }

// Targets implements LocalScorer.
func (s *Cached) Targets() [][]int { return s.inner.Targets() }

// ObservationCount implements LocalScorer.
func (s *Cached) ObservationCount(v int) int { return s.inner.ObservationCount(v) }

// LocalScore implements LocalScorer with read-through memoization.
func (s *Cached) LocalScore(v int, parents []int) float64 {
	ctx := context.Background()
	sorted := append([]int(nil), parents...)
	sort.Ints(sorted)
	key := cache.ScoreKey(s.namespace, v, sorted)

	if data, hit, err := s.cache.Get(ctx, key); err == nil && hit && len(data) == 8 {
		observability.Cache().OnCacheHit(ctx, s.namespace)
		return math.Float64frombits(binary.BigEndian.Uint64(data))
	}
	observability.Cache().OnCacheMiss(ctx, s.namespace)

	val := s.inner.LocalScore(v, sorted)

	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], math.Float64bits(val))
	if err := s.cache.Set(ctx, key, buf[:], s.ttl); err == nil {
		observability.Cache().OnCacheSet(ctx, s.namespace, len(buf))
	}
	return val
}

var _ LocalScorer = (*Cached)(nil)
