// Command ttlcached runs the cache HTTP service.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/ttlcached/ttlcached/cache"
	"github.com/ttlcached/ttlcached/internal/config"
	"github.com/ttlcached/ttlcached/internal/httpapi"
	"github.com/ttlcached/ttlcached/metrics/prom"
)

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("load config", zap.Error(err))
	}

	// SIGINT/SIGTERM cancels ctx and initiates a graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := prom.New(nil, "ttlcached", "cache", nil)

	c := cache.New(cache.Options{
		Capacity:      cfg.Capacity,
		DefaultTTL:    cfg.TTL,
		Metrics:       m,
		SweepInterval: cfg.SweepInterval,
		SweepSample:   cfg.SweepSample,
		SweepRatio:    cfg.SweepRatio,
	})
	defer func() { _ = c.Close() }()

	srv := httpapi.New(c, log, cfg.Addr)

	log.Info("listening",
		zap.String("addr", cfg.Addr),
		zap.Int("capacity", cfg.Capacity),
		zap.Duration("ttl", cfg.TTL),
		zap.Duration("sweep_interval", cfg.SweepInterval),
	)

	if err := srv.Run(ctx); err != nil {
		log.Fatal("server", zap.Error(err))
	}

	st := c.Stats()
	log.Info("shut down",
		zap.Int64("hits", st.Hits),
		zap.Int64("misses", st.Misses),
		zap.Uint64("evictions", st.Evictions),
	)
}
