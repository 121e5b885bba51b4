// Package document wraps a document store with read-through memory caches.
package document

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	memcache "tota/internal/cache/memory"
	docrepo "tota/internal/gateway/repository/document"
)

type Store = docrepo.Store

type CacheConfig struct {
	DocTTL        time.Duration
	DocMaxEntries int
	DocMaxBytes   int

	ListTTL        time.Duration
	ListMaxEntries int

	URLTTL        time.Duration
	URLMaxEntries int
}

func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		DocTTL:         10 * time.Minute,
		DocMaxEntries:  512,
		DocMaxBytes:    32 * 1024 * 1024,
		ListTTL:        30 * time.Second,
		ListMaxEntries: 256,
		URLTTL:         5 * time.Minute,
		URLMaxEntries:  512,
	}
}

func (c CacheConfig) withDefaults() CacheConfig {
	def := DefaultCacheConfig()
	if c.DocTTL <= 0 {
		c.DocTTL = def.DocTTL
	}
	if c.DocMaxEntries <= 0 {
		c.DocMaxEntries = def.DocMaxEntries
	}
	if c.DocMaxBytes < 0 {
		c.DocMaxBytes = def.DocMaxBytes
	}
	if c.ListTTL <= 0 {
		c.ListTTL = def.ListTTL
	}
	if c.ListMaxEntries <= 0 {
		c.ListMaxEntries = def.ListMaxEntries
	}
	if c.URLTTL <= 0 {
		c.URLTTL = def.URLTTL
	}
	if c.URLMaxEntries <= 0 {
		c.URLMaxEntries = def.URLMaxEntries
	}
	return c
}

type MetricsSnapshot struct {
	DocHits        uint64
	DocMisses      uint64
	ListHits       uint64
	ListMisses     uint64
	URLHits        uint64
	URLMisses      uint64
	OriginReads    uint64
	OriginWrites   uint64
	OriginReadErr  uint64
	OriginWriteErr uint64
}

type counters struct {
	docHits, docMisses       atomic.Uint64
	listHits, listMisses     atomic.Uint64
	urlHits, urlMisses       atomic.Uint64
	originReads, originWrite atomic.Uint64
	readErr, writeErr        atomic.Uint64
}

type CachedStore struct {
	origin Store

	docs  *memcache.LRUTTL[string, []byte]
	lists *memcache.LRUTTL[string, []string]
	urls  *memcache.LRUTTL[string, string]
	stats counters
}

func NewCachedStore(origin Store, cfg CacheConfig) *CachedStore {
	cfg = cfg.withDefaults()
	return &CachedStore{
		origin: origin,
		docs:   memcache.NewLRUTTL[string, []byte](cfg.DocMaxEntries, cfg.DocMaxBytes, cfg.DocTTL),
		lists:  memcache.NewLRUTTL[string, []string](cfg.ListMaxEntries, 0, cfg.ListTTL),
		urls:   memcache.NewLRUTTL[string, string](cfg.URLMaxEntries, 0, cfg.URLTTL),
	}
}

func (s *CachedStore) Put(ctx context.Context, projectID, handle string, doc []byte) error {
	s.stats.originWrite.Add(1)
	if err := s.origin.Put(ctx, projectID, handle, doc); err != nil {
		s.stats.writeErr.Add(1)
		return err
	}
	key := cacheKey(projectID, handle)
	copied := append([]byte(nil), doc...)
	s.docs.Set(key, copied, len(copied))
	s.lists.Delete(strings.TrimSpace(projectID))
	s.urls.Delete(key)
	return nil
}

func (s *CachedStore) Get(ctx context.Context, projectID, handle string) ([]byte, error) {
	key := cacheKey(projectID, handle)
	if raw, ok := s.docs.Get(key); ok {
		s.stats.docHits.Add(1)
		return append([]byte(nil), raw...), nil
	}
	s.stats.docMisses.Add(1)
	s.stats.originReads.Add(1)
	raw, err := s.origin.Get(ctx, projectID, handle)
	if err != nil {
		s.stats.readErr.Add(1)
		return nil, err
	}
	copied := append([]byte(nil), raw...)
	s.docs.Set(key, copied, len(copied))
	return append([]byte(nil), copied...), nil
}

func (s *CachedStore) GetURL(ctx context.Context, projectID, handle string) (string, error) {
	key := cacheKey(projectID, handle)
	if u, ok := s.urls.Get(key); ok {
		s.stats.urlHits.Add(1)
		return u, nil
	}
	s.stats.urlMisses.Add(1)
	s.stats.originReads.Add(1)
	u, err := s.origin.GetURL(ctx, projectID, handle)
	if err != nil {
		s.stats.readErr.Add(1)
		return "", err
	}
	if strings.TrimSpace(u) != "" {
		s.urls.Set(key, u, len(u))
	}
	return u, nil
}

func (s *CachedStore) List(ctx context.Context, projectID string) ([]string, error) {
	projectID = strings.TrimSpace(projectID)
	if handles, ok := s.lists.Get(projectID); ok {
		s.stats.listHits.Add(1)
		return append([]string(nil), handles...), nil
	}
	s.stats.listMisses.Add(1)
	s.stats.originReads.Add(1)
	handles, err := s.origin.List(ctx, projectID)
	if err != nil {
		s.stats.readErr.Add(1)
		return nil, err
	}
	copied := append([]string(nil), handles...)
	size := 0
	for _, h := range copied {
		size += len(h)
	}
	s.lists.Set(projectID, copied, size)
	return append([]string(nil), copied...), nil
}

func (s *CachedStore) Delete(ctx context.Context, projectID, handle string) error {
	key := cacheKey(projectID, handle)
	s.docs.Delete(key)
	s.urls.Delete(key)
	s.lists.Delete(strings.TrimSpace(projectID))
	s.stats.originWrite.Add(1)
	if err := s.origin.Delete(ctx, projectID, handle); err != nil {
		s.stats.writeErr.Add(1)
		return err
	}
	return nil
}

func (s *CachedStore) Metrics() MetricsSnapshot {
	if s == nil {
		return MetricsSnapshot{}
	}
	return MetricsSnapshot{
		DocHits:        s.stats.docHits.Load(),
		DocMisses:      s.stats.docMisses.Load(),
		ListHits:       s.stats.listHits.Load(),
		ListMisses:     s.stats.listMisses.Load(),
		URLHits:        s.stats.urlHits.Load(),
		URLMisses:      s.stats.urlMisses.Load(),
		OriginReads:    s.stats.originReads.Load(),
		OriginWrites:   s.stats.originWrite.Load(),
		OriginReadErr:  s.stats.readErr.Load(),
		OriginWriteErr: s.stats.writeErr.Load(),
	}
}

func cacheKey(projectID, handle string) string {
	return strings.TrimSpace(projectID) + "/" + strings.TrimSpace(handle)
}
