// internal/story/trendcache.go
package story

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"seasonal-story-workers/internal/common/logger"
	"seasonal-story-workers/internal/common/metrics"
)

// TrendKeyword is one trending term.
type TrendKeyword struct {
	Text       string    `json:"text"`
	Categories []string  `json:"categories,omitempty"`
	Origin     Origin    `json:"origin"`
	FetchedAt  time.Time `json:"fetchedAt"`
}

// CacheEntry is fresh while now - InsertedAt < TTL. Stale entries are kept so they
// can be served when the upstream is down.
type CacheEntry struct {
	Keywords   []TrendKeyword `json:"keywords"`
	InsertedAt time.Time      `json:"insertedAt"`
	TTL        time.Duration  `json:"ttl"`
}

func (e CacheEntry) Fresh(now time.Time) bool {
	return now.Sub(e.InsertedAt) < e.TTL
}

// CacheStore persists entries. Load reports found=false for a missing key and wraps
// ErrCacheCorruption for an entry it cannot decode.
type CacheStore interface {
	Load(ctx context.Context, key string) (CacheEntry, bool, error)
	Save(ctx context.Context, key string, entry CacheEntry) error
}

// ==========================
// In-process store
// ==========================

// MemoryStore keeps entries for TTL plus retention, like RedisStore. Expired entries
// are swept whenever a newer entry is saved.
type MemoryStore struct {
	mu        sync.RWMutex
	entries   map[string]CacheEntry
	retention time.Duration
	newest    time.Time
}

func NewMemoryStore(retention time.Duration) *MemoryStore {
	if retention <= 0 {
		retention = 24 * time.Hour
	}
	return &MemoryStore{entries: make(map[string]CacheEntry), retention: retention}
}

func (m *MemoryStore) Load(_ context.Context, key string) (CacheEntry, bool, error) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	expired := ok && m.expired(entry, m.newest)
	m.mu.RUnlock()
	if !ok || expired {
		return CacheEntry{}, false, nil
	}
	entry.Keywords = cloneKeywords(entry.Keywords)
	return entry, true, nil
}

func (m *MemoryStore) Save(_ context.Context, key string, entry CacheEntry) error {
	entry.Keywords = cloneKeywords(entry.Keywords)
	m.mu.Lock()
	defer m.mu.Unlock()

	if entry.InsertedAt.After(m.newest) {
		m.newest = entry.InsertedAt
	}
	for k, e := range m.entries {
		if m.expired(e, m.newest) {
			delete(m.entries, k)
		}
	}
	m.entries[key] = entry
	return nil
}

// Len reports how many entries are held.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// expired compares against the newest insert time rather than a wall clock so the
// store follows whatever clock the cache runs on.
func (m *MemoryStore) expired(e CacheEntry, now time.Time) bool {
	return now.Sub(e.InsertedAt) >= e.TTL+m.retention
}

// ==========================
// Redis store
// ==========================

// RedisStore shares the trend cache between worker replicas. Keys outlive the TTL by
// retention so stale values stay available.
type RedisStore struct {
	client    redis.Cmdable
	prefix    string
	retention time.Duration
}

func NewRedisStore(client redis.Cmdable, retention time.Duration) *RedisStore {
	if retention <= 0 {
		retention = 24 * time.Hour
	}
	return &RedisStore{client: client, prefix: "story:", retention: retention}
}

func (r *RedisStore) Load(ctx context.Context, key string) (CacheEntry, bool, error) {
	raw, err := r.client.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return CacheEntry{}, false, nil
	}
	if err != nil {
		return CacheEntry{}, false, fmt.Errorf("redis get %s: %w", key, err)
	}

	var entry CacheEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return CacheEntry{}, false, fmt.Errorf("%w: %s: %v", ErrCacheCorruption, key, err)
	}
	if entry.InsertedAt.IsZero() || entry.TTL <= 0 {
		return CacheEntry{}, false, fmt.Errorf("%w: %s: missing insertedAt or ttl", ErrCacheCorruption, key)
	}
	return entry, true, nil
}

func (r *RedisStore) Save(ctx context.Context, key string, entry CacheEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	return r.client.Set(ctx, r.prefix+key, data, entry.TTL+r.retention).Err()
}

// ==========================
// Cache
// ==========================

// TrendCache is the process-wide trend cache. Refreshes of one key are coalesced so
// concurrent misses cause a single upstream call; other keys are unaffected.
type TrendCache struct {
	store  CacheStore
	ttl    time.Duration
	clock  Clock
	group  singleflight.Group
	logger logger.Logger
}

func NewTrendCache(store CacheStore, ttl time.Duration, clock Clock, log logger.Logger) *TrendCache {
	if store == nil {
		store = NewMemoryStore(0)
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &TrendCache{
		store:  store,
		ttl:    ttl,
		clock:  clock,
		logger: log.WithFields(map[string]interface{}{"component": "trend-cache"}),
	}
}

func (c *TrendCache) TTL() time.Duration { return c.ttl }

// Lookup returns the stored entry, fresh or not. Store errors, corruption included,
// are logged and reported as a miss.
func (c *TrendCache) Lookup(ctx context.Context, key string) (CacheEntry, bool) {
	entry, found, err := c.store.Load(ctx, key)
	if err != nil {
		result := "error"
		if errors.Is(err, ErrCacheCorruption) {
			result = "corrupt"
		}
		metrics.TrendCacheLookups.WithLabelValues(result).Inc()
		c.logger.Warn("trend cache entry unusable, treating as miss", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return CacheEntry{}, false
	}
	return entry, found
}

// Refresh runs fetch at most once per key at a time and stores a successful result.
// A caller whose ctx ends stops waiting; the shared refresh keeps going for the others.
func (c *TrendCache) Refresh(ctx context.Context, key string, fetch func(context.Context) ([]TrendKeyword, error)) ([]TrendKeyword, error) {
	return c.refresh(ctx, key, fetch, func(e CacheEntry) bool { return e.Fresh(c.clock.Now()) })
}

// Renew is Refresh for background warming: it refetches unless the entry was written
// within maxAge, so a warm entry is replaced before it goes stale.
func (c *TrendCache) Renew(ctx context.Context, key string, maxAge time.Duration, fetch func(context.Context) ([]TrendKeyword, error)) error {
	_, err := c.refresh(ctx, key, fetch, func(e CacheEntry) bool {
		return c.clock.Now().Sub(e.InsertedAt) < maxAge
	})
	return err
}

func (c *TrendCache) refresh(ctx context.Context, key string, fetch func(context.Context) ([]TrendKeyword, error), current func(CacheEntry) bool) ([]TrendKeyword, error) {
	flightCtx := context.WithoutCancel(ctx)

	ch := c.group.DoChan(key, func() (interface{}, error) {
		// A refresh that finished just before this one started already did the work.
		if entry, ok := c.Lookup(flightCtx, key); ok && current(entry) {
			return entry.Keywords, nil
		}

		keywords, err := fetch(flightCtx)
		if err != nil {
			return nil, err
		}

		entry := CacheEntry{Keywords: keywords, InsertedAt: c.clock.Now(), TTL: c.ttl}
		if err := c.store.Save(flightCtx, key, entry); err != nil {
			c.logger.Warn("trend cache write failed", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		}
		return keywords, nil
	})

	select {
	case res := <-ch:
		metrics.TrendRefreshes.WithLabelValues(fmt.Sprintf("%t", res.Shared)).Inc()
		if res.Err != nil {
			return nil, res.Err
		}
		return cloneKeywords(res.Val.([]TrendKeyword)), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func cloneKeywords(in []TrendKeyword) []TrendKeyword {
	if in == nil {
		return nil
	}
	out := make([]TrendKeyword, len(in))
	for i, kw := range in {
		kw.Categories = append([]string(nil), kw.Categories...)
		out[i] = kw
	}
	return out
}
