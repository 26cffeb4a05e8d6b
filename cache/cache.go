package cache

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ttlcached/ttlcached/policy/lru"
)

// ErrEmptyKey is returned by Set for an empty key.
var ErrEmptyKey = errors.New("cache: empty key")

// ErrClosed is returned by Set after Close.
var ErrClosed = errors.New("cache: closed")

// cache composes the clock, the entry store, and the eviction policy into
// the public Cache operations.
type cache struct {
	st     *store
	clock  Clock
	defTTL time.Duration
	closed atomic.Bool

	// Background sweep ownership.
	stop chan struct{}
	wg   sync.WaitGroup
}

// systemClock is the default wall-clock time source.
type systemClock struct{}

func (systemClock) NowUnixNano() int64 { return time.Now().UnixNano() }

// New constructs a cache with the provided Options.
// Defaults:
//   - nil Policy   -> LRU
//   - nil Metrics  -> NoopMetrics
//   - nil Clock    -> time.Now
//   - Capacity 0   -> unbounded (use CapacityZero to admit nothing)
func New(opt Options) Cache {
	if opt.Policy == nil {
		opt.Policy = lru.New()
	}
	if opt.Metrics == nil {
		opt.Metrics = NoopMetrics{}
	}
	if opt.Clock == nil {
		opt.Clock = systemClock{}
	}
	if opt.SweepSample <= 0 {
		opt.SweepSample = defaultSweepSample
	}
	if opt.SweepRatio <= 0 {
		opt.SweepRatio = defaultSweepRatio
	}

	c := &cache{
		st:     newStore(opt),
		clock:  opt.Clock,
		defTTL: opt.DefaultTTL,
		stop:   make(chan struct{}),
	}

	if opt.SweepInterval > 0 {
		c.wg.Add(1)
		go c.sweepLoop(opt.SweepInterval, opt.SweepSample, opt.SweepRatio)
	}
	return c
}

// Set inserts or updates key→value using DefaultTTL if set.
func (c *cache) Set(key, value string) error {
	return c.SetWithTTL(key, value, c.defTTL)
}

// SetWithTTL inserts or updates key→value with a per-key TTL.
// A non-positive ttl disables expiration for this entry.
func (c *cache) SetWithTTL(key, value string, ttl time.Duration) error {
	if key == "" {
		return ErrEmptyKey
	}
	if c.closed.Load() {
		return ErrClosed
	}
	now := c.clock.NowUnixNano()
	return c.st.set(key, value, now, deadline(now, ttl))
}

// Get returns the value for key and a presence flag.
func (c *cache) Get(key string) (string, bool) {
	if c.closed.Load() {
		return "", false
	}
	return c.st.get(key, c.clock.NowUnixNano())
}

// Remove deletes key if present and returns true on success.
func (c *cache) Remove(key string) bool {
	if c.closed.Load() {
		return false
	}
	return c.st.remove(key)
}

// Len returns the number of live (non-expired) entries.
func (c *cache) Len() int {
	return c.st.lenLive(c.clock.NowUnixNano())
}

// Stats returns a snapshot of the hit/miss/eviction counters.
func (c *cache) Stats() Stats { return c.st.stats() }

// Close stops the background sweep and marks the cache closed.
func (c *cache) Close() error {
	if c.closed.CompareAndSwap(false, true) {
		close(c.stop)
		c.wg.Wait()
	}
	return nil
}

// deadline converts a relative TTL into an absolute UnixNano deadline.
// A non-positive ttl returns 0 (no expiration).
func deadline(now int64, ttl time.Duration) int64 {
	if ttl <= 0 {
		return 0
	}
	return now + int64(ttl)
}
