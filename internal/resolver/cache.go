package resolver

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"tota/internal/assets"
)

// Cache memoizes template asset lookups by path. It only ever holds files
// from the asset store, never generated files.
type Cache interface {
	Get(path string) (assets.VirtualFile, bool)
	Add(path string, f assets.VirtualFile)
	Clear()
	Len() int
}

// LRUCache is a bounded, threadsafe Cache.
type LRUCache struct {
	c *lru.Cache[string, assets.VirtualFile]
}

func NewLRUCache(size int) (*LRUCache, error) {
	if size <= 0 {
		size = 256
	}
	c, err := lru.New[string, assets.VirtualFile](size)
	if err != nil {
		return nil, err
	}
	return &LRUCache{c: c}, nil
}

func (c *LRUCache) Get(path string) (assets.VirtualFile, bool) { return c.c.Get(path) }
func (c *LRUCache) Add(path string, f assets.VirtualFile)      { c.c.Add(path, f) }
func (c *LRUCache) Clear()                                     { c.c.Purge() }
func (c *LRUCache) Len() int                                   { return c.c.Len() }

// MapCache is an unbounded mutex-guarded Cache.
type MapCache struct {
	mu sync.RWMutex
	m  map[string]assets.VirtualFile
}

func NewMapCache() *MapCache {
	return &MapCache{m: make(map[string]assets.VirtualFile)}
}

func (c *MapCache) Get(path string) (assets.VirtualFile, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	f, ok := c.m[path]
	return f, ok
}

func (c *MapCache) Add(path string, f assets.VirtualFile) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[path] = f
}

func (c *MapCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m = make(map[string]assets.VirtualFile)
}

func (c *MapCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}
