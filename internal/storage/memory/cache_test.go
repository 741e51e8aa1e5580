package memory

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

func TestCacheGetPut(t *testing.T) {
	cache := NewCache(time.Minute, 0, arbor.NewLogger())

	_, ok := cache.Get("missing")
	assert.False(t, ok, "unknown key should miss")

	cache.Put("k", []byte("v"))
	got, ok := cache.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("v"), got)
	assert.Equal(t, 1, cache.Size())
}

func TestCacheOverwriteResetsEntry(t *testing.T) {
	cache := NewCache(time.Minute, 0, arbor.NewLogger())

	cache.Put("k", []byte("old"))
	cache.Put("k", []byte("new"))

	got, ok := cache.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("new"), got)
	assert.Equal(t, 1, cache.Size(), "overwrite must not grow the entry count")
}

func TestCacheTTLExpiry(t *testing.T) {
	cache := NewCache(20*time.Millisecond, 0, arbor.NewLogger())

	cache.Put("k", []byte("v"))
	_, ok := cache.Get("k")
	require.True(t, ok, "entry should be fresh immediately after Put")

	time.Sleep(30 * time.Millisecond)

	_, ok = cache.Get("k")
	assert.False(t, ok, "entry should expire after the TTL elapses")
	assert.Equal(t, 0, cache.Size(), "expired entry should be purged on read")
}

func TestCacheEvictsOldestInserted(t *testing.T) {
	cache := NewCache(time.Minute, 3, arbor.NewLogger())

	cache.Put("a", []byte("1"))
	cache.Put("b", []byte("2"))
	cache.Put("c", []byte("3"))
	cache.Put("d", []byte("4"))

	_, ok := cache.Get("a")
	assert.False(t, ok, "oldest entry should be evicted at capacity")

	for _, key := range []string{"b", "c", "d"} {
		_, ok := cache.Get(key)
		assert.True(t, ok, "entry %s should survive eviction", key)
	}
	assert.Equal(t, 3, cache.Size())
}

func TestCacheRePutRefreshesInsertionOrder(t *testing.T) {
	cache := NewCache(time.Minute, 2, arbor.NewLogger())

	cache.Put("a", []byte("1"))
	cache.Put("b", []byte("2"))
	// Re-inserting "a" makes "b" the oldest entry
	cache.Put("a", []byte("1b"))
	cache.Put("c", []byte("3"))

	_, ok := cache.Get("b")
	assert.False(t, ok, "b should be evicted as least recently inserted")

	got, ok := cache.Get("a")
	require.True(t, ok, "re-inserted a should survive")
	assert.Equal(t, []byte("1b"), got)
}

func TestCacheRePutsCompactOrderRefs(t *testing.T) {
	cache := NewCache(time.Minute, 0, arbor.NewLogger())

	cache.Put("pinned", []byte("v"))
	for i := 0; i < 10000; i++ {
		cache.Put("hot", []byte("v"))
	}

	assert.Equal(t, 2, cache.Size())
	assert.LessOrEqual(t, len(cache.order), 2*len(cache.entries)+4,
		"invalidated refs from re-Puts must not accumulate")

	// Insertion order survives compaction: "pinned" is still the oldest
	bounded := NewCache(time.Minute, 2, arbor.NewLogger())
	bounded.Put("pinned", []byte("v"))
	for i := 0; i < 100; i++ {
		bounded.Put("hot", []byte("v"))
	}
	bounded.Put("new", []byte("v"))

	_, ok := bounded.Get("pinned")
	assert.False(t, ok, "oldest entry should still evict first after compaction")
	_, ok = bounded.Get("hot")
	assert.True(t, ok)
}

func TestCacheConcurrentAccess(t *testing.T) {
	cache := NewCache(time.Minute, 100, arbor.NewLogger())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				key := fmt.Sprintf("key-%d", j%50)
				cache.Put(key, []byte{byte(n)})
				cache.Get(key)
			}
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, cache.Size(), 100)
}
