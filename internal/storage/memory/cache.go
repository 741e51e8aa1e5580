// Package memory implements the response cache as a mutex-guarded map with
// read-time TTL expiry and least-recently-inserted eviction.
package memory

import (
	"sync"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/locus/internal/interfaces"
)

type entry struct {
	value    []byte
	storedAt time.Time
	seq      uint64
}

// orderRef records an insertion so the oldest live entry can be found in
// amortized O(1). A re-Put invalidates older refs via the sequence number.
type orderRef struct {
	key string
	seq uint64
}

// Cache is an in-process TTL cache. Values are never mutated after Put, so
// Get may hand back the stored slice without copying.
type Cache struct {
	mu         sync.Mutex
	entries    map[string]entry
	order      []orderRef
	ttl        time.Duration
	maxEntries int
	nextSeq    uint64
	logger     arbor.ILogger
}

// NewCache creates a memory cache. maxEntries <= 0 means unbounded.
func NewCache(ttl time.Duration, maxEntries int, logger arbor.ILogger) *Cache {
	return &Cache{
		entries:    make(map[string]entry),
		ttl:        ttl,
		maxEntries: maxEntries,
		logger:     logger,
	}
}

// Get returns the value stored under key. An entry whose age has reached the
// TTL is treated as absent and purged.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if time.Since(e.storedAt) >= c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

// Put stores value under key, overwriting any existing entry and resetting
// its timestamp. When the configured capacity would be exceeded, the
// least-recently-inserted entry is evicted first.
func (c *Cache) Put(key string, value []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextSeq++
	seq := c.nextSeq

	if _, exists := c.entries[key]; !exists && c.maxEntries > 0 {
		for len(c.entries) >= c.maxEntries && len(c.order) > 0 {
			oldest := c.order[0]
			c.order = c.order[1:]
			// Skip refs invalidated by a later Put of the same key
			if cur, ok := c.entries[oldest.key]; ok && cur.seq == oldest.seq {
				delete(c.entries, oldest.key)
				if c.logger != nil {
					c.logger.Debug().Str("key", oldest.key).Msg("Evicted oldest cache entry")
				}
			}
		}
	}

	c.entries[key] = entry{value: value, storedAt: time.Now(), seq: seq}
	c.order = append(c.order, orderRef{key: key, seq: seq})

	// Re-Puts leave invalidated refs behind; compact once they outnumber
	// the live entries so order stays proportional to the entry count
	if len(c.order) > 2*len(c.entries)+4 {
		live := make([]orderRef, 0, len(c.entries))
		for _, ref := range c.order {
			if cur, ok := c.entries[ref.key]; ok && cur.seq == ref.seq {
				live = append(live, ref)
			}
		}
		c.order = live
	}
}

// Size returns a snapshot count of stored entries, including stale entries
// that have not been purged by a Get yet.
func (c *Cache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Close is a no-op for the memory backend.
func (c *Cache) Close() error {
	return nil
}

// Ensure Cache implements the cache interface
var _ interfaces.Cache = (*Cache)(nil)
