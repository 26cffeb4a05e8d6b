package cache

import "time"

// Cache is an in-memory key/value cache with TTL expiry and bounded
// capacity. All methods are safe for concurrent use by multiple goroutines.
//
// Values are plain strings, so reads and writes are copy-out/copy-in by
// construction: no caller ever holds a reference into cache-owned state.
type Cache interface {
	// Set inserts or updates key→value using the cache's DefaultTTL
	// (if any). When the key is new and the cache is at capacity, one
	// entry chosen by the eviction policy is removed first; expired
	// entries are reclaimed before any live entry is sacrificed.
	// Set fails only on an empty key, a closed cache, or an internal
	// invariant violation — never as a routine outcome.
	Set(key, value string) error

	// SetWithTTL is Set with a per-key TTL overriding DefaultTTL.
	// A non-positive ttl disables expiration for this entry.
	SetWithTTL(key, value string, ttl time.Duration) error

	// Get returns the value for key and a presence flag. Expired entries
	// are treated as absent and removed lazily. A hit refreshes the
	// entry's recency, which affects future eviction ordering.
	Get(key string) (string, bool)

	// Remove deletes key if present and returns true on success.
	Remove(key string) bool

	// Len returns the number of live (non-expired) entries.
	Len() int

	// Stats returns a snapshot of the hit/miss/eviction counters.
	Stats() Stats

	// Close stops the background sweep (if any) and marks the cache
	// closed. Subsequent Sets fail with ErrClosed and Gets miss.
	// Close is idempotent.
	Close() error
}
