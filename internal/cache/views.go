package cache

import (
	"sync/atomic"
	"time"

	"maliyye/internal/metrics"
)

type viewKey struct {
	revision int64
	params   string
}

// ViewCache memoizes one derived view of the ledger per snapshot revision and
// request parameters. Seeing a newer revision drops every older entry.
type ViewCache[T any] struct {
	view    string
	lru     *LRUCache[viewKey, T]
	metrics *metrics.Metrics
	latest  atomic.Int64
}

func NewViewCache[T any](view string, size int, ttl time.Duration, m *metrics.Metrics) *ViewCache[T] {
	return &ViewCache[T]{view: view, lru: NewLRUCache[viewKey, T](size, ttl), metrics: m}
}

// Get returns the cached view for revision and params, computing and
// storing it on a miss.
func (c *ViewCache[T]) Get(revision int64, params string, compute func() T) T {
	if prev := c.latest.Load(); revision > prev && c.latest.CompareAndSwap(prev, revision) {
		c.lru.DropWhere(func(k viewKey) bool { return k.revision < revision })
	}

	key := viewKey{revision: revision, params: params}
	if v, ok := c.lru.Get(key); ok {
		c.metrics.CacheHit(c.view)
		return v
	}
	c.metrics.CacheMiss(c.view)
	v := compute()
	c.lru.Set(key, v)
	return v
}

func (c *ViewCache[T]) CleanExpired() int { return c.lru.CleanExpired() }

func (c *ViewCache[T]) Size() int { return c.lru.Size() }
