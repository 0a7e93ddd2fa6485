// Package server exposes the scan cycle over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/farewatch/farewatch/internal/contract"
	"github.com/farewatch/farewatch/internal/metrics"
	"github.com/farewatch/farewatch/schema"
	"github.com/gin-gonic/gin"
)

// ScanFunc runs one scan cycle.
type ScanFunc func(ctx context.Context) ([]schema.TripReport, error)

// shutdownTimeout bounds how long in-flight requests may finish on shutdown.
const shutdownTimeout = 10 * time.Second

// Server serves the scan trigger, a health probe and Prometheus metrics.
// Only one scan cycle runs at a time.
type Server struct {
	scan    ScanFunc
	metrics *metrics.Registry
	running sync.Mutex
	engine  *gin.Engine
}

// New builds a server around scan. A nil registry disables /metrics.
func New(scan ScanFunc, reg *metrics.Registry) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{scan: scan, metrics: reg, engine: gin.New()}
	s.engine.Use(gin.Recovery())

	s.engine.POST("/check-flights", s.checkFlights)
	s.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if reg != nil {
		s.engine.GET("/metrics", gin.WrapH(reg.Handler()))
	}
	s.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"status": "NOT_FOUND"})
	})
	return s
}

// Handler returns the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		contract.LogInfo("Listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// checkFlights runs one scan cycle and answers with the per-trip reports.
func (s *Server) checkFlights(c *gin.Context) {
	if !s.running.TryLock() {
		c.JSON(http.StatusConflict, gin.H{"status": "BUSY", "error": "a scan is already running"})
		return
	}
	defer s.running.Unlock()

	reports, err := s.scan(c.Request.Context())
	if err != nil {
		contract.LogWarn("scan trigger failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "ERROR", "error": err.Error()})
		return
	}
	if reports == nil {
		reports = []schema.TripReport{}
	}
	c.JSON(http.StatusOK, gin.H{"status": "OK", "trips": reports})
}
