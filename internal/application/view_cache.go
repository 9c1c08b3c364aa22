package application

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// viewCache stores recently computed overview and insight views keyed by the
// schedule snapshot version they were derived from. Because snapshots are
// immutable, a cached view never goes stale; old versions simply age out of
// the LRU.
type viewCache struct {
	cache *lru.Cache[string, any]
}

func newViewCache(size int) *viewCache {
	if size <= 0 {
		size = 256
	}
	cache, err := lru.New[string, any](size)
	if err != nil {
		return &viewCache{}
	}
	return &viewCache{cache: cache}
}

func (c *viewCache) Get(key string) (any, bool) {
	if c == nil || c.cache == nil {
		return nil, false
	}
	return c.cache.Get(key)
}

func (c *viewCache) Store(key string, value any) {
	if c == nil || c.cache == nil {
		return
	}
	c.cache.Add(key, value)
}

func dayViewKey(version uint64, date string) string {
	return fmt.Sprintf("day|%d|%s", version, date)
}

func weekViewKey(version uint64, weekStart string) string {
	return fmt.Sprintf("week|%d|%s", version, weekStart)
}

func insightsViewKey(version uint64, year int, reference string) string {
	return fmt.Sprintf("insights|%d|%d|%s", version, year, reference)
}
