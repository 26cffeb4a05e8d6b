// Package config loads the process configuration from the environment.
// Configuration is read once at startup and never mutated afterwards.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/ttlcached/ttlcached/cache"
)

// Config holds the service settings.
type Config struct {
	// Addr is the listen address for the HTTP server.
	Addr string

	// Capacity is the maximum number of live entries.
	// cache.CapacityZero admits nothing; 0 means unbounded.
	Capacity int

	// TTL is the default time-to-live for entries (0 = never expire).
	TTL time.Duration

	// Background expiry sweep tuning.
	SweepInterval time.Duration
	SweepSample   int
	SweepRatio    float64
}

// Defaults mirror the service's historical configuration: a 30 minute TTL,
// unbounded capacity, and a 250ms sweep examining 20 entries per round.
const (
	defaultAddr          = "127.0.0.1:8080"
	defaultTTL           = 30 * time.Minute
	defaultSweepInterval = 250 * time.Millisecond
	defaultSweepSample   = 20
	defaultSweepRatio    = 0.25
)

// Load reads the configuration from TTLCACHED_* environment variables,
// applying defaults for anything unset.
func Load() (Config, error) {
	cfg := Config{
		Addr:          defaultAddr,
		Capacity:      0, // unbounded
		TTL:           defaultTTL,
		SweepInterval: defaultSweepInterval,
		SweepSample:   defaultSweepSample,
		SweepRatio:    defaultSweepRatio,
	}

	if v := os.Getenv("TTLCACHED_ADDR"); v != "" {
		cfg.Addr = v
	}

	if v := os.Getenv("TTLCACHED_CAPACITY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return Config{}, fmt.Errorf("config: TTLCACHED_CAPACITY %q: must be a non-negative integer", v)
		}
		if n == 0 {
			// An explicit zero capacity admits nothing.
			cfg.Capacity = cache.CapacityZero
		} else {
			cfg.Capacity = n
		}
	}

	if v := os.Getenv("TTLCACHED_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return Config{}, fmt.Errorf("config: TTLCACHED_TTL %q: must be a non-negative duration", v)
		}
		cfg.TTL = d
	}

	if v := os.Getenv("TTLCACHED_SWEEP_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("config: TTLCACHED_SWEEP_INTERVAL %q: %w", v, err)
		}
		cfg.SweepInterval = d // non-positive disables the sweep
	}

	if v := os.Getenv("TTLCACHED_SWEEP_SAMPLE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("config: TTLCACHED_SWEEP_SAMPLE %q: must be a positive integer", v)
		}
		cfg.SweepSample = n
	}

	if v := os.Getenv("TTLCACHED_SWEEP_RATIO"); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil || r <= 0 || r >= 1 {
			return Config{}, fmt.Errorf("config: TTLCACHED_SWEEP_RATIO %q: must be in (0, 1)", v)
		}
		cfg.SweepRatio = r
	}

	return cfg, nil
}
