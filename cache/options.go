package cache

import (
	"time"

	"github.com/ttlcached/ttlcached/policy"
)

// EvictReason explains why an entry was removed.
type EvictReason int

const (
	// EvictPolicy — removed by the eviction policy to free a slot.
	EvictPolicy EvictReason = iota
	// EvictTTL — expired by TTL (lazily on access, or by the sweep).
	EvictTTL
)

// Clock provides time in UnixNano; useful for deterministic tests.
type Clock interface{ NowUnixNano() int64 }

// Options configures the cache behavior. Zero values are safe;
// defaults are applied in New():
//   - nil Policy     => LRU
//   - nil Metrics    => NoopMetrics
//   - nil Clock      => time.Now
//   - Capacity == 0  => unbounded
type Options struct {
	// Capacity is the entry count limit.
	// Zero means unbounded. CapacityZero stores nothing: every Set is a
	// no-op and every Get misses.
	Capacity int

	// Policy selects eviction victims under capacity pressure; nil => LRU.
	Policy policy.Policy

	// DefaultTTL applies to Set when a per-key TTL is not provided
	// (0 = entries never expire).
	DefaultTTL time.Duration

	// Background sweep of expired entries. SweepInterval <= 0 disables the
	// sweep; lazy expiration on access still applies. Sample and ratio
	// bound each sweep round: up to SweepSample entries are examined, and
	// rounds repeat while more than SweepRatio of them turn out expired.
	SweepInterval time.Duration
	SweepSample   int     // entries examined per round (default 20)
	SweepRatio    float64 // continue threshold (default 0.25)

	// OnEvict is called for every eviction under the store lock;
	// keep callbacks lightweight.
	OnEvict func(key, value string, reason EvictReason)

	// Metrics receives hit/miss/evict/size signals; nil => NoopMetrics.
	Metrics Metrics

	// Clock overrides the time source (tests). Nil => time.Now().
	Clock Clock
}

// CapacityZero configures a cache that admits nothing. It exists so that an
// explicitly configured zero capacity stays distinguishable from the
// "unbounded" zero value of Options.Capacity.
const CapacityZero = -1

const (
	defaultSweepSample = 20
	defaultSweepRatio  = 0.25
)
