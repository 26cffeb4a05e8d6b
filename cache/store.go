package cache

import (
	"sync"

	"github.com/ttlcached/ttlcached/internal/util"
	"github.com/ttlcached/ttlcached/policy"
)

// store holds the key→entry mapping behind a single lock and owns all
// capacity accounting. Insertion under capacity pressure (purge expired,
// pick a victim, insert) runs inside one critical section, so the capacity
// bound is never violated even transiently from an observer's perspective.
//
// A single coarse lock is the right tradeoff at the scale this serves;
// nothing in the exported contract depends on it, so the store could later
// be partitioned without touching callers.
type store struct {
	// ---- guarded by mu ----
	mu  sync.RWMutex
	m   map[string]*entry
	cap int // >0 bounded, 0 unbounded, <0 admit nothing

	pol     policy.Policy
	metrics Metrics
	onEvict func(key, value string, reason EvictReason)

	// ---- hot counters (separate cache lines to avoid false sharing) ----
	_      util.CacheLinePad
	hits   util.PaddedAtomicInt64
	misses util.PaddedAtomicInt64
	evicts util.PaddedAtomicUint64
}

func newStore(opt Options) *store {
	hint := 0
	if opt.Capacity > 0 {
		hint = opt.Capacity
	}
	return &store{
		m:       make(map[string]*entry, hint),
		cap:     opt.Capacity,
		pol:     opt.Policy,
		metrics: opt.Metrics,
		onEvict: opt.OnEvict,
	}
}

// set inserts or replaces the entry for key. now is the insertion
// timestamp; expiresAt is the absolute deadline (0 = never).
//
// Overwrites replace the value and all timestamps in place and never
// interact with capacity. New keys first reclaim expired entries, then, if
// the store is still full, evict exactly one policy victim.
func (s *store) set(key, value string, now, expiresAt int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.m[key]; ok {
		e.value = value
		e.insertedAt = now
		e.expiresAt = expiresAt
		e.lastAccessedAt = now
		return nil
	}

	switch {
	case s.cap < 0:
		// Admit-nothing configuration: Set is a no-store no-op.
		return nil
	case s.cap > 0 && len(s.m) >= s.cap:
		// Prefer reclaiming expired entries over evicting a live one.
		s.purgeExpiredLocked(now)
		if len(s.m) >= s.cap {
			victim, err := s.pol.SelectVictim(s.candidatesLocked())
			if err != nil {
				// Unreachable in correct operation: the store is over
				// capacity, so at least one candidate exists. Leave the
				// store untouched and surface the violation.
				return err
			}
			if e, ok := s.m[victim]; ok {
				s.evictLocked(victim, e, EvictPolicy)
			}
		}
	}

	s.m[key] = &entry{
		value:          value,
		insertedAt:     now,
		expiresAt:      expiresAt,
		lastAccessedAt: now,
	}
	s.metrics.Size(len(s.m))
	return nil
}

// get returns the value for key if present and unexpired as of now.
// A hit refreshes the entry's recency; an expired entry is removed and
// reported as a miss.
func (s *store) get(key string, now int64) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.m[key]
	if !ok {
		s.misses.Add(1)
		s.metrics.Miss()
		return "", false
	}
	if e.expired(now) {
		s.evictLocked(key, e, EvictTTL)
		s.misses.Add(1)
		s.metrics.Miss()
		return "", false
	}

	e.lastAccessedAt = now
	s.hits.Add(1)
	s.metrics.Hit()
	return e.value, true
}

// remove deletes key if present. Explicit removal is not an eviction and is
// not reported to OnEvict or the eviction counters.
func (s *store) remove(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.m[key]; !ok {
		return false
	}
	delete(s.m, key)
	s.metrics.Size(len(s.m))
	return true
}

// lenLive counts entries not expired as of now.
func (s *store) lenLive(now int64) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, e := range s.m {
		if !e.expired(now) {
			n++
		}
	}
	return n
}

// evictExpired removes expired entries by sampling, in the style of the
// Redis EXPIRE cycle: examine up to sample entries, drop the expired ones,
// and repeat while more than ratio of the examined entries were expired.
// Map iteration order supplies the random sample. Returns the number of
// entries removed.
func (s *store) evictExpired(now int64, sample int, ratio float64) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for {
		examined, removed := 0, 0
		for key, e := range s.m {
			if examined >= sample {
				break
			}
			examined++
			if e.expired(now) {
				s.evictLocked(key, e, EvictTTL)
				removed++
			}
		}
		total += removed
		if examined == 0 || float64(removed) <= ratio*float64(examined) {
			return total
		}
	}
}

// stats snapshots the hot counters.
func (s *store) stats() Stats {
	return Stats{
		Hits:      s.hits.Load(),
		Misses:    s.misses.Load(),
		Evictions: s.evicts.Load(),
	}
}

// -------------------- internals (mu held) --------------------

// candidatesLocked snapshots eviction metadata for all resident entries.
// Expired entries have been purged by the caller already; including a
// straggler is harmless since evicting it frees a slot all the same.
func (s *store) candidatesLocked() []policy.Candidate {
	cands := make([]policy.Candidate, 0, len(s.m))
	for key, e := range s.m {
		cands = append(cands, policy.Candidate{
			Key:            key,
			LastAccessedAt: e.lastAccessedAt,
			InsertedAt:     e.insertedAt,
		})
	}
	return cands
}

// purgeExpiredLocked removes every expired entry. O(n), used on the insert
// path only when the store is at capacity.
func (s *store) purgeExpiredLocked(now int64) {
	for key, e := range s.m {
		if e.expired(now) {
			s.evictLocked(key, e, EvictTTL)
		}
	}
}

// evictLocked removes the entry, updates counters, and calls OnEvict.
func (s *store) evictLocked(key string, e *entry, reason EvictReason) {
	delete(s.m, key)
	s.evicts.Add(1)
	s.metrics.Evict(reason)
	s.metrics.Size(len(s.m))
	if s.onEvict != nil {
		s.onEvict(key, e.value, reason)
	}
}
