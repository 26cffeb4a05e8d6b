package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/ttlcached/ttlcached/policy"
)

type fakeClock struct{ t int64 }

func (f *fakeClock) NowUnixNano() int64  { return f.t }
func (f *fakeClock) add(d time.Duration) { f.t += int64(d) }

func newTestCache(t *testing.T, opt Options) Cache {
	t.Helper()
	c := New(opt)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

// Set followed by Get returns the stored value; Remove deletes it.
func TestCache_SetGetRemove(t *testing.T) {
	t.Parallel()

	c := newTestCache(t, Options{})

	if err := c.Set("k", "v"); err != nil {
		t.Fatal(err)
	}
	if v, ok := c.Get("k"); !ok || v != "v" {
		t.Fatalf("Get k = %q ok=%v, want v", v, ok)
	}
	if c.Len() != 1 {
		t.Fatalf("Len = %d, want 1", c.Len())
	}

	if !c.Remove("k") {
		t.Fatal("Remove k must be true")
	}
	if _, ok := c.Get("k"); ok {
		t.Fatal("k must be absent after Remove")
	}
	if c.Remove("k") {
		t.Fatal("Remove of absent key must be false")
	}
}

// Uses a fake clock to avoid timing flakiness.
// An entry with a 10s TTL is visible at T+9s and absent at T+11s.
func TestCache_TTL_FakeClock(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{}
	c := newTestCache(t, Options{DefaultTTL: 10 * time.Second, Clock: clk})

	if err := c.Set("k", "v"); err != nil {
		t.Fatal(err)
	}

	clk.add(9 * time.Second)
	if v, ok := c.Get("k"); !ok || v != "v" {
		t.Fatalf("at T+9s: got %q ok=%v, want hit", v, ok)
	}

	clk.add(2 * time.Second)
	if _, ok := c.Get("k"); ok {
		t.Fatal("at T+11s: expired entry must be absent")
	}
	if c.Len() != 0 {
		t.Fatalf("Len after expiry = %d, want 0", c.Len())
	}
}

// Per-key TTL overrides DefaultTTL; a non-positive ttl never expires.
func TestCache_SetWithTTL_Override(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{}
	c := newTestCache(t, Options{DefaultTTL: time.Second, Clock: clk})

	if err := c.SetWithTTL("long", "v", time.Hour); err != nil {
		t.Fatal(err)
	}
	if err := c.SetWithTTL("forever", "v", 0); err != nil {
		t.Fatal(err)
	}

	clk.add(time.Minute)
	if _, ok := c.Get("long"); !ok {
		t.Fatal("long must outlive the default TTL")
	}
	clk.add(24 * time.Hour)
	if _, ok := c.Get("long"); ok {
		t.Fatal("long must expire after its own TTL")
	}
	if _, ok := c.Get("forever"); !ok {
		t.Fatal("forever must never expire")
	}
}

// Deterministic LRU eviction: a,b inserted, a touched, c inserted into a
// full cache of two => b (the least recently used) is evicted.
func TestCache_EvictionLRU(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{}
	c := newTestCache(t, Options{Capacity: 2, Clock: clk})

	_ = c.Set("a", "1")
	clk.add(time.Second)
	_ = c.Set("b", "2")
	clk.add(time.Second)

	if _, ok := c.Get("a"); !ok { // refresh a's recency
		t.Fatal("expect hit for a")
	}
	clk.add(time.Second)
	_ = c.Set("c", "3")

	if c.Len() != 2 {
		t.Fatalf("Len = %d, want 2", c.Len())
	}
	if _, ok := c.Get("b"); ok {
		t.Fatal("b must be evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatal("a must survive (recently used)")
	}
	if v, ok := c.Get("c"); !ok || v != "3" {
		t.Fatal("c must be present")
	}
}

// With a frozen clock all timestamps tie, so the victim falls back to key
// order: the smallest key goes first.
func TestCache_EvictionTieBreak(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{}
	c := newTestCache(t, Options{Capacity: 3, Clock: clk})

	_ = c.Set("b", "2")
	_ = c.Set("a", "1")
	_ = c.Set("c", "3")
	_ = c.Set("d", "4") // full tie => evict "a"

	if _, ok := c.Get("a"); ok {
		t.Fatal("a must be evicted on a full tie")
	}
	for _, k := range []string{"b", "c", "d"} {
		if _, ok := c.Get(k); !ok {
			t.Fatalf("%s must be present", k)
		}
	}
}

// Expired entries are reclaimed before any live entry is evicted.
func TestCache_ExpiredPurgedBeforeEviction(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{}
	c := newTestCache(t, Options{Capacity: 2, Clock: clk})

	if err := c.SetWithTTL("dead", "x", time.Second); err != nil {
		t.Fatal(err)
	}
	_ = c.Set("live", "y")

	clk.add(2 * time.Second) // "dead" expires
	_ = c.Set("new", "z")    // capacity pressure reclaims "dead" only

	if _, ok := c.Get("live"); !ok {
		t.Fatal("live must not be evicted while an expired entry exists")
	}
	if _, ok := c.Get("new"); !ok {
		t.Fatal("new must be present")
	}
}

// Overwriting an existing key replaces the value without changing the count.
func TestCache_OverwriteKeepsCount(t *testing.T) {
	t.Parallel()

	c := newTestCache(t, Options{Capacity: 1})

	_ = c.Set("a", "1")
	_ = c.Set("a", "2")

	if c.Len() != 1 {
		t.Fatalf("Len = %d, want 1", c.Len())
	}
	if v, ok := c.Get("a"); !ok || v != "2" {
		t.Fatalf("Get a = %q ok=%v, want 2", v, ok)
	}
}

// A never-set key misses, any number of times.
func TestCache_MissIsIdempotent(t *testing.T) {
	t.Parallel()

	c := newTestCache(t, Options{})
	for i := 0; i < 3; i++ {
		if _, ok := c.Get("nope"); ok {
			t.Fatal("never-set key must miss")
		}
	}
	if st := c.Stats(); st.Misses != 3 || st.Hits != 0 {
		t.Fatalf("stats = %+v, want 3 misses", st)
	}
}

// CapacityZero admits nothing: Set succeeds as a no-op, Get misses.
func TestCache_CapacityZeroStoresNothing(t *testing.T) {
	t.Parallel()

	c := newTestCache(t, Options{Capacity: CapacityZero})

	if err := c.Set("a", "1"); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Get("a"); ok {
		t.Fatal("capacity-zero cache must not retain entries")
	}
	if c.Len() != 0 {
		t.Fatalf("Len = %d, want 0", c.Len())
	}
}

// The zero Capacity value means unbounded.
func TestCache_UnboundedByDefault(t *testing.T) {
	t.Parallel()

	c := newTestCache(t, Options{})
	for _, k := range []string{"a", "b", "c", "d", "e"} {
		_ = c.Set(k, k)
	}
	if c.Len() != 5 {
		t.Fatalf("Len = %d, want 5", c.Len())
	}
}

// OnEvict reports the key, value, and reason for every eviction.
func TestCache_OnEvict(t *testing.T) {
	t.Parallel()

	type evicted struct {
		key, value string
		reason     EvictReason
	}
	var got []evicted

	clk := &fakeClock{}
	c := newTestCache(t, Options{
		Capacity: 1,
		Clock:    clk,
		OnEvict: func(k, v string, r EvictReason) {
			got = append(got, evicted{k, v, r})
		},
	})

	if err := c.SetWithTTL("t", "1", time.Second); err != nil {
		t.Fatal(err)
	}
	clk.add(2 * time.Second)
	if _, ok := c.Get("t"); ok { // lazy TTL eviction
		t.Fatal("t must be expired")
	}

	_ = c.Set("a", "2")
	clk.add(time.Second)
	_ = c.Set("b", "3") // capacity eviction of a

	want := []evicted{
		{"t", "1", EvictTTL},
		{"a", "2", EvictPolicy},
	}
	if len(got) != len(want) {
		t.Fatalf("evictions = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("eviction[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}

	if st := c.Stats(); st.Evictions != 2 {
		t.Fatalf("eviction counter = %d, want 2", st.Evictions)
	}
}

// Empty keys are rejected; a closed cache rejects writes and misses reads.
func TestCache_SetErrors(t *testing.T) {
	t.Parallel()

	c := New(Options{})
	if err := c.Set("", "v"); !errors.Is(err, ErrEmptyKey) {
		t.Fatalf("err = %v, want ErrEmptyKey", err)
	}

	_ = c.Set("k", "v")
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
	if err := c.Close(); err != nil { // idempotent
		t.Fatal(err)
	}
	if err := c.Set("k", "v2"); !errors.Is(err, ErrClosed) {
		t.Fatalf("err = %v, want ErrClosed", err)
	}
	if _, ok := c.Get("k"); ok {
		t.Fatal("closed cache must miss")
	}
}

// A failing victim selection leaves the store untouched.
func TestCache_PolicyFailureLeavesStoreIntact(t *testing.T) {
	t.Parallel()

	c := newTestCache(t, Options{Capacity: 1, Policy: brokenPolicy{}})

	_ = c.Set("a", "1")
	err := c.Set("b", "2")
	if !errors.Is(err, policy.ErrNoCandidates) {
		t.Fatalf("err = %v, want ErrNoCandidates", err)
	}
	if v, ok := c.Get("a"); !ok || v != "1" {
		t.Fatal("a must be untouched after a failed insert")
	}
	if _, ok := c.Get("b"); ok {
		t.Fatal("b must not be partially inserted")
	}
}

// brokenPolicy simulates an invariant violation in victim selection.
type brokenPolicy struct{}

func (brokenPolicy) SelectVictim([]policy.Candidate) (string, error) {
	return "", policy.ErrNoCandidates
}
