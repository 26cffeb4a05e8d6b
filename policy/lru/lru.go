// Package lru implements the least-recently-used eviction policy.
package lru

import "github.com/ttlcached/ttlcached/policy"

// lru evicts the entry with the oldest last access. Ties are broken by the
// oldest insertion time and finally by key order, so victim selection is a
// pure function of the candidate set. That keeps eviction reproducible in
// tests that freeze the clock.
type lru struct{}

// New returns the LRU policy.
func New() policy.Policy { return lru{} }

// SelectVictim scans the candidates and returns the least-recently-used key.
func (lru) SelectVictim(candidates []policy.Candidate) (string, error) {
	if len(candidates) == 0 {
		return "", policy.ErrNoCandidates
	}
	victim := candidates[0]
	for _, c := range candidates[1:] {
		if older(c, victim) {
			victim = c
		}
	}
	return victim.Key, nil
}

// older reports whether a should be evicted before b.
func older(a, b policy.Candidate) bool {
	if a.LastAccessedAt != b.LastAccessedAt {
		return a.LastAccessedAt < b.LastAccessedAt
	}
	if a.InsertedAt != b.InsertedAt {
		return a.InsertedAt < b.InsertedAt
	}
	return a.Key < b.Key
}
