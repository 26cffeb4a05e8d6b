package cache

// entry is a single resident key/value pair plus its timing metadata.
// All timestamps are absolute UnixNano values from the cache clock.
// Entries are owned exclusively by the store; values cross the API boundary
// as plain strings, so callers can never alias store-internal state.
type entry struct {
	value string

	// insertedAt is set on insert and refreshed on overwrite.
	insertedAt int64

	// expiresAt is the absolute expiration deadline.
	// Zero means "never expires".
	expiresAt int64

	// lastAccessedAt is refreshed on every hit and feeds LRU ordering.
	lastAccessedAt int64
}

// expired reports whether the entry is past its deadline as of now.
func (e *entry) expired(now int64) bool {
	return e.expiresAt != 0 && now > e.expiresAt
}
