// Package policy defines the eviction policy contract used by the cache.
package policy

import "errors"

// ErrNoCandidates is returned by SelectVictim when the candidate set is
// empty. The store only asks for a victim while it is over capacity, so an
// empty set indicates an internal invariant violation, not a routine miss.
var ErrNoCandidates = errors.New("policy: no eviction candidates")

// Candidate is the eviction-relevant metadata snapshot of one resident
// entry. Timestamps are absolute UnixNano values taken from the cache clock.
type Candidate struct {
	Key            string
	LastAccessedAt int64
	InsertedAt     int64
}

// Policy selects which entry to remove when the store must free a slot.
//
// SelectVictim receives a snapshot of all resident, non-expired entries and
// returns the key to evict. Implementations must be deterministic: given the
// same candidate set (in any order) they return the same key. The store
// calls SelectVictim while holding its lock, so implementations must not
// block or call back into the cache.
type Policy interface {
	SelectVictim(candidates []Candidate) (string, error)
}
