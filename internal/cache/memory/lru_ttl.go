// Package memory holds in-process caches shared by the gateway stores.
package memory

import (
	"container/list"
	"sync"
	"time"
)

type item[K comparable, V any] struct {
	key     K
	value   V
	size    int
	expires time.Time
}

// LRUTTL bounds entries by count and optional total size, and drops entries
// older than ttl on access.
type LRUTTL[K comparable, V any] struct {
	mu       sync.Mutex
	order    *list.List
	index    map[K]*list.Element
	limit    int
	maxBytes int
	bytes    int
	ttl      time.Duration
	now      func() time.Time
}

func NewLRUTTL[K comparable, V any](maxEntries, maxBytes int, ttl time.Duration) *LRUTTL[K, V] {
	if maxEntries <= 0 {
		maxEntries = 1
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &LRUTTL[K, V]{
		order:    list.New(),
		index:    make(map[K]*list.Element),
		limit:    maxEntries,
		maxBytes: maxBytes,
		ttl:      ttl,
		now:      time.Now,
	}
}

// WithClock replaces the time source; used by tests.
func (c *LRUTTL[K, V]) WithClock(now func() time.Time) *LRUTTL[K, V] {
	c.mu.Lock()
	c.now = now
	c.mu.Unlock()
	return c
}

func (c *LRUTTL[K, V]) Get(key K) (V, bool) {
	var zero V
	if c == nil {
		return zero, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.index[key]
	if !ok {
		return zero, false
	}
	it := el.Value.(*item[K, V])
	if c.now().After(it.expires) {
		c.drop(el)
		return zero, false
	}
	c.order.MoveToFront(el)
	return it.value, true
}

func (c *LRUTTL[K, V]) Set(key K, value V, size int) {
	if c == nil {
		return
	}
	if size < 0 {
		size = 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	expires := c.now().Add(c.ttl)
	if el, ok := c.index[key]; ok {
		it := el.Value.(*item[K, V])
		c.bytes += size - it.size
		it.value, it.size, it.expires = value, size, expires
		c.order.MoveToFront(el)
	} else {
		c.index[key] = c.order.PushFront(&item[K, V]{key: key, value: value, size: size, expires: expires})
		c.bytes += size
	}
	for c.order.Len() > 0 && (c.order.Len() > c.limit || (c.maxBytes > 0 && c.bytes > c.maxBytes)) {
		c.drop(c.order.Back())
	}
}

func (c *LRUTTL[K, V]) Delete(key K) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.index[key]; ok {
		c.drop(el)
	}
}

func (c *LRUTTL[K, V]) Clear() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	c.index = make(map[K]*list.Element)
	c.bytes = 0
}

// Len counts entries, including ones that expired but were not yet touched.
func (c *LRUTTL[K, V]) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *LRUTTL[K, V]) Bytes() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bytes
}

func (c *LRUTTL[K, V]) drop(el *list.Element) {
	it := c.order.Remove(el).(*item[K, V])
	delete(c.index, it.key)
	c.bytes -= it.size
}
