package interfaces

// Cache is a time-bounded response cache keyed by normalized request.
// Implementations must be safe for concurrent use; a Get after the entry's
// TTL has elapsed behaves as a miss.
type Cache interface {
	// Get returns the stored value and true, or nil and false when the key
	// is unknown or its entry has expired.
	Get(key string) ([]byte, bool)

	// Put stores value under key, overwriting any previous entry and
	// resetting its timestamp. When a capacity bound is configured, the
	// least-recently-inserted entry is evicted first.
	Put(key string, value []byte)

	// Size returns a snapshot count of stored entries, possibly including
	// stale entries not yet purged. Used for health reporting only.
	Size() int

	// Close releases backend resources.
	Close() error
}
