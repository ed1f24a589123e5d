package dataset

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Cache memoizes loaded datasets for the life of the process. Entries are
// keyed by Source.Key and only dropped by Invalidate or Reset.
type Cache struct {
	log   *zap.Logger
	group singleflight.Group

	mu   sync.Mutex
	data map[string]cacheEntry
}

type cacheEntry struct {
	ds       *Dataset
	loadedAt time.Time
}

func NewCache(log *zap.Logger) *Cache {
	if log == nil {
		log = zap.NewNop()
	}
	return &Cache{log: log, data: make(map[string]cacheEntry)}
}

// Get returns the cached dataset for src, loading it on first use.
// Concurrent first calls for the same key share a single load. Failed loads
// are not cached.
func (c *Cache) Get(ctx context.Context, src Source) (*Dataset, error) {
	key := src.Key()
	if ds, ok := c.lookup(key); ok {
		return ds, nil
	}

	v, err, shared := c.group.Do(key, func() (interface{}, error) {
		if ds, ok := c.lookup(key); ok {
			return ds, nil
		}
		start := time.Now()
		ds, err := src.Load(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.data[key] = cacheEntry{ds: ds, loadedAt: time.Now()}
		c.mu.Unlock()

		c.log.Info("dataset loaded",
			zap.String("source", key),
			zap.Int("games", ds.Games.Len()),
			zap.Int("broadcasts", ds.Broadcasts.Len()),
			zap.Int("performances", ds.Performances.Len()),
			zap.Duration("took", time.Since(start)))
		if ds.Corrections > 0 {
			c.log.Warn("recomputed score columns that disagreed with the input",
				zap.String("source", key), zap.Int("rows", ds.Corrections))
		}
		return ds, nil
	})
	if err != nil {
		c.log.Error("dataset load failed", zap.String("source", key), zap.Error(err))
		return nil, err
	}
	if shared {
		c.log.Debug("dataset load shared", zap.String("source", key))
	}
	return v.(*Dataset), nil
}

func (c *Cache) lookup(key string) (*Dataset, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ent, ok := c.data[key]
	return ent.ds, ok
}

// LoadedAt reports when key was last loaded.
func (c *Cache) LoadedAt(key string) (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ent, ok := c.data[key]
	return ent.loadedAt, ok
}

func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.data, key)
	c.mu.Unlock()
}

func (c *Cache) Reset() {
	c.mu.Lock()
	c.data = make(map[string]cacheEntry)
	c.mu.Unlock()
}
