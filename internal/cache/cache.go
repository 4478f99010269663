package cache

import (
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"
)

// ArchiveCache keeps built archives in memory, keyed by project and format.
// A nil *ArchiveCache is valid and never hits.
type ArchiveCache struct {
	cache *ristretto.Cache
	ttl   time.Duration
}

// New creates an archive cache bounded by maxBytes of archive data. Entries
// expire after ttl; a zero ttl keeps them until evicted. A maxBytes of zero
// disables caching and returns nil.
func New(ttl time.Duration, maxBytes int64) (*ArchiveCache, error) {
	if maxBytes <= 0 {
		return nil, nil
	}

	c, err := ristretto.NewCache(&ristretto.Config{
		// ten counters per expected entry, assuming archives of roughly 4 KiB
		NumCounters:        max(maxBytes/4096*10, 1000),
		MaxCost:            maxBytes,
		BufferItems:        64,
		Metrics:            true,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create archive cache: %w", err)
	}

	return &ArchiveCache{cache: c, ttl: ttl}, nil
}

func key(id, format string) string {
	return id + "/" + format
}

// Get returns the cached archive for a project and format.
func (c *ArchiveCache) Get(id, format string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	v, ok := c.cache.Get(key(id, format))
	if !ok {
		return nil, false
	}
	data, ok := v.([]byte)
	return data, ok
}

// Set stores an archive and waits for the write to be applied. It reports
// false when the write was dropped; admission can still refuse an archive
// larger than the whole cache, which then simply misses.
func (c *ArchiveCache) Set(id, format string, data []byte) bool {
	if c == nil {
		return false
	}
	ok := c.cache.SetWithTTL(key(id, format), data, int64(len(data)), c.ttl)
	c.cache.Wait()
	return ok
}

// Delete drops every format cached for a project.
func (c *ArchiveCache) Delete(id string, formats ...string) {
	if c == nil {
		return
	}
	for _, f := range formats {
		c.cache.Del(key(id, f))
	}
}

// Hits and Misses report cache effectiveness since creation.
func (c *ArchiveCache) Hits() uint64 {
	if c == nil {
		return 0
	}
	return c.cache.Metrics.Hits()
}

func (c *ArchiveCache) Misses() uint64 {
	if c == nil {
		return 0
	}
	return c.cache.Metrics.Misses()
}

// Clear removes all items from the cache
func (c *ArchiveCache) Clear() {
	if c == nil {
		return
	}
	c.cache.Clear()
}

// Close stops the cache's background goroutines.
func (c *ArchiveCache) Close() {
	if c == nil {
		return
	}
	c.cache.Close()
}
