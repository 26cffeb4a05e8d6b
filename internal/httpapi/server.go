// Package httpapi exposes the cache over HTTP.
//
// The surface is deliberately small:
//
//	GET  /health-check  -> 200 "Ok"
//	POST /set/<key>     -> raw body stored verbatim; 400 on invalid UTF-8
//	GET  /get/<key>     -> 200 with the value, or 404 "Not found"
//	GET  /metrics       -> Prometheus exposition
//
// The transport is thin glue: it decodes requests, calls the cache engine,
// and maps results to status codes. All cache semantics live in the cache
// package.
package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ttlcached/ttlcached/cache"
)

const shutdownTimeout = 5 * time.Second

// Server serves the cache HTTP API.
type Server struct {
	cache  cache.Cache
	log    *zap.Logger
	router *gin.Engine
	srv    *http.Server
}

// New builds a Server around the given cache engine.
func New(c cache.Cache, log *zap.Logger, addr string) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{cache: c, log: log}

	r := gin.New()
	r.Use(requestLogger(log), gin.Recovery())

	r.GET("/health-check", s.handleHealthCheck)
	r.POST("/set/:key", s.handleSet)
	r.GET("/get/:key", s.handleGet)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.router = r
	s.srv = &http.Server{Addr: addr, Handler: r}
	return s
}

// Handler returns the underlying HTTP handler (used by tests).
func (s *Server) Handler() http.Handler { return s.router }

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := s.srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.srv.Shutdown(shCtx)
	})

	return g.Wait()
}

func (s *Server) handleHealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "Ok")
}

func (s *Server) handleSet(c *gin.Context) {
	key := c.Param("key")

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.String(http.StatusBadRequest, "could not read body: %v", err)
		return
	}
	if !utf8.Valid(body) {
		// The cache stores text; reject undecodable payloads before they
		// touch the engine.
		c.String(http.StatusBadRequest, "could not decode utf-8")
		return
	}

	if err := s.cache.Set(key, string(body)); err != nil {
		// Invariant violations are contained to the failing request.
		s.log.Error("set failed", zap.String("key", key), zap.Error(err))
		c.String(http.StatusInternalServerError, "internal error")
		return
	}
	c.String(http.StatusOK, "")
}

func (s *Server) handleGet(c *gin.Context) {
	key := c.Param("key")

	v, ok := s.cache.Get(key)
	if !ok {
		c.String(http.StatusNotFound, "Not found")
		return
	}
	c.String(http.StatusOK, v)
}

// requestLogger logs one structured line per request.
func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", time.Since(start)),
		)
	}
}
