package cache

import (
	"container/list"
	"sync"
	"time"
)

// LRUCache holds at most capacity entries, evicting the least recently used
// one first. An entry older than ttl reads as absent.
type LRUCache[K comparable, V any] struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	index    map[K]*list.Element
	order    *list.List // front is most recently used
	now      func() time.Time
}

type lruEntry[K comparable, V any] struct {
	key      K
	value    V
	storedAt time.Time
}

func NewLRUCache[K comparable, V any](capacity int, ttl time.Duration) *LRUCache[K, V] {
	if capacity < 1 {
		capacity = 1
	}
	return &LRUCache[K, V]{
		capacity: capacity,
		ttl:      ttl,
		index:    make(map[K]*list.Element, capacity),
		order:    list.New(),
		now:      time.Now,
	}
}

func (c *LRUCache[K, V]) expired(e *lruEntry[K, V], now time.Time) bool {
	return now.Sub(e.storedAt) > c.ttl
}

func (c *LRUCache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.index[key]
	if !ok {
		var zero V
		return zero, false
	}
	e := el.Value.(*lruEntry[K, V])
	if c.expired(e, c.now()) {
		c.unlink(el)
		var zero V
		return zero, false
	}
	c.order.MoveToFront(el)
	return e.value, true
}

// Set inserts or refreshes key, evicting from the back when over capacity.
func (c *LRUCache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if el, ok := c.index[key]; ok {
		e := el.Value.(*lruEntry[K, V])
		e.value, e.storedAt = value, now
		c.order.MoveToFront(el)
		return
	}

	c.index[key] = c.order.PushFront(&lruEntry[K, V]{key: key, value: value, storedAt: now})
	for c.order.Len() > c.capacity {
		c.unlink(c.order.Back())
	}
}

func (c *LRUCache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.index[key]; ok {
		c.unlink(el)
	}
}

// DropWhere removes every entry whose key matches and reports how many went.
func (c *LRUCache[K, V]) DropWhere(match func(K) bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dropLocked(func(e *lruEntry[K, V]) bool { return match(e.key) })
}

// CleanExpired removes entries past their ttl.
func (c *LRUCache[K, V]) CleanExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	return c.dropLocked(func(e *lruEntry[K, V]) bool { return c.expired(e, now) })
}

func (c *LRUCache[K, V]) dropLocked(match func(*lruEntry[K, V]) bool) int {
	n := 0
	for el := c.order.Front(); el != nil; {
		next := el.Next()
		if match(el.Value.(*lruEntry[K, V])) {
			c.unlink(el)
			n++
		}
		el = next
	}
	return n
}

func (c *LRUCache[K, V]) unlink(el *list.Element) {
	delete(c.index, el.Value.(*lruEntry[K, V]).key)
	c.order.Remove(el)
}

func (c *LRUCache[K, V]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
