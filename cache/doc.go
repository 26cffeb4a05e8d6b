// Package cache provides a concurrent in-memory key/value cache with
// per-entry TTL, bounded capacity with pluggable eviction, lightweight
// metrics hooks, and an optional background expiry sweep.
//
// # Design
//
//   - Storage: a single map guarded by a mutex. Every entry carries its
//     insertion, expiration, and last-access timestamps (UnixNano). All
//     capacity decisions happen inside one critical section, so the
//     configured bound holds at every observable instant.
//
//   - Eviction: the policy package defines SelectVictim over a snapshot of
//     entry metadata. The default LRU policy breaks ties by insertion time
//     and then key order, so eviction is fully deterministic — with a
//     frozen clock, the victim is a pure function of the access history.
//
//   - TTL: deadlines are absolute UnixNano values (0 = never). Expiration
//     is lazy on access; the insert path reclaims expired entries before
//     evicting a live one; an optional background sweep samples entries
//     on a fixed cadence to bound memory for write-once keys.
//
//   - Clock: the time source is injectable via Options.Clock, which keeps
//     every TTL test free of real sleeps.
//
//   - Metrics: Options.Metrics receives Hit/Miss/Evict/Size signals.
//     NoopMetrics is the default; metrics/prom adapts them to Prometheus.
//
//   - Callbacks: Options.OnEvict(key, value, reason) fires for every
//     eviction (EvictPolicy or EvictTTL), under the store lock.
//
// # Basic usage
//
//	c := cache.New(cache.Options{Capacity: 1024, DefaultTTL: 30 * time.Minute})
//	defer c.Close()
//
//	_ = c.Set("a", "1")
//	if v, ok := c.Get("a"); ok {
//	    _ = v
//	}
//
// All methods on Cache are safe for concurrent use. Lookups are O(1);
// inserting into a full cache is O(n) in the resident entry count (one
// metadata scan to pick the victim), which is the deliberate price for
// deterministic eviction at this scale.
package cache
