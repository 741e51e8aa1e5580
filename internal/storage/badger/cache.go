// Package badger implements the response cache on a Badger store, using the
// database's native entry TTL for expiry.
package badger

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/locus/internal/common"
	"github.com/ternarybob/locus/internal/interfaces"
)

// Cache stores response entries in Badger. Capacity bounding is left to
// Badger's own value-log management; expiry uses per-entry TTL.
type Cache struct {
	db     *badgerdb.DB
	ttl    time.Duration
	logger arbor.ILogger
}

// NewCache opens the Badger cache backend. With in_memory enabled (the
// default) the store has no disk footprint and is disposable with the
// process, matching the cache's lifecycle.
func NewCache(config *common.CacheConfig, logger arbor.ILogger) (*Cache, error) {
	var options badgerdb.Options
	if config.Badger.InMemory {
		options = badgerdb.DefaultOptions("").WithInMemory(true)
	} else {
		dir := config.Badger.Path
		if err := os.MkdirAll(filepath.Dir(dir), 0755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
		options = badgerdb.DefaultOptions(dir)
	}
	options.Logger = nil // Disable default badger logger to use arbor

	db, err := badgerdb.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger cache: %w", err)
	}

	logger.Debug().
		Bool("in_memory", config.Badger.InMemory).
		Dur("ttl", config.TTL.Duration).
		Msg("Badger cache initialized")

	return &Cache{
		db:     db,
		ttl:    config.TTL.Duration,
		logger: logger,
	}, nil
}

// Get returns the value stored under key. Badger drops expired entries at
// read time, so a stale key behaves as a miss.
func (c *Cache) Get(key string) ([]byte, bool) {
	var value []byte
	err := c.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if err != badgerdb.ErrKeyNotFound && c.logger != nil {
			c.logger.Warn().Err(err).Msg("Badger cache read failed")
		}
		return nil, false
	}
	return value, true
}

// Put stores value under key with the configured TTL, overwriting any
// existing entry.
func (c *Cache) Put(key string, value []byte) {
	err := c.db.Update(func(txn *badgerdb.Txn) error {
		e := badgerdb.NewEntry([]byte(key), value).WithTTL(c.ttl)
		return txn.SetEntry(e)
	})
	if err != nil && c.logger != nil {
		c.logger.Warn().Err(err).Msg("Badger cache write failed")
	}
}

// Size counts stored entries with a key-only iteration. Entries past their
// TTL but not yet dropped by Badger may be included in the count.
func (c *Cache) Size() int {
	count := 0
	err := c.db.View(func(txn *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	if err != nil && c.logger != nil {
		c.logger.Warn().Err(err).Msg("Badger cache size scan failed")
	}
	return count
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Ensure Cache implements the cache interface
var _ interfaces.Cache = (*Cache)(nil)
