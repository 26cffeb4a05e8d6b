package cache

import "time"

// sweepLoop periodically reclaims expired entries in the background.
//
// The sweep is a memory-bound optimization, not a correctness mechanism:
// lazy expiration on access already keeps expired entries unobservable.
// Without the sweep, keys written once and never read again would linger
// until capacity pressure purges them.
//
// Each tick runs the sampled eviction cycle (see store.evictExpired), which
// bounds the work per tick instead of scanning the whole map.
func (c *cache) sweepLoop(every time.Duration, sample int, ratio float64) {
	defer c.wg.Done()

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.st.evictExpired(c.clock.NowUnixNano(), sample, ratio)
		}
	}
}
