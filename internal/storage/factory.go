// Package storage provides the response cache backends and their factory.
package storage

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/locus/internal/common"
	"github.com/ternarybob/locus/internal/interfaces"
	"github.com/ternarybob/locus/internal/storage/badger"
	"github.com/ternarybob/locus/internal/storage/memory"
)

// NewCache creates a response cache based on config.
// "memory" is the default backend; "badger" keeps entries in a Badger store
// with native TTL handling.
func NewCache(logger arbor.ILogger, config *common.CacheConfig) (interfaces.Cache, error) {
	switch config.Backend {
	case "", "memory":
		return memory.NewCache(config.TTL.Duration, config.MaxEntries, logger), nil
	case "badger":
		return badger.NewCache(config, logger)
	default:
		return nil, fmt.Errorf("unsupported cache backend: %s (use 'memory' or 'badger')", config.Backend)
	}
}
