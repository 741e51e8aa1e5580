package badger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/locus/internal/common"
)

func newTestCache(t *testing.T, ttl time.Duration) *Cache {
	t.Helper()

	config := &common.CacheConfig{
		TTL: common.Duration{Duration: ttl},
		Badger: common.CacheBadgerConfig{
			InMemory: true,
		},
	}
	cache, err := NewCache(config, arbor.NewLogger())
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })
	return cache
}

func TestBadgerCacheGetPut(t *testing.T) {
	cache := newTestCache(t, time.Minute)

	_, ok := cache.Get("missing")
	assert.False(t, ok)

	cache.Put("k", []byte("v"))
	got, ok := cache.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("v"), got)
	assert.Equal(t, 1, cache.Size())
}

func TestBadgerCacheTTLExpiry(t *testing.T) {
	cache := newTestCache(t, 50*time.Millisecond)

	cache.Put("k", []byte("v"))
	_, ok := cache.Get("k")
	require.True(t, ok)

	time.Sleep(100 * time.Millisecond)

	_, ok = cache.Get("k")
	assert.False(t, ok, "entry should expire after the TTL elapses")
}

func TestBadgerCacheOverwrite(t *testing.T) {
	cache := newTestCache(t, time.Minute)

	cache.Put("k", []byte("old"))
	cache.Put("k", []byte("new"))

	got, ok := cache.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("new"), got)
	assert.Equal(t, 1, cache.Size())
}
