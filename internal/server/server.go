// Package server exposes a PlanStore over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/woolly-dev/woolly/pkg/types"
)

// Server is the woolly HTTP API.
type Server struct {
	store   types.PlanStore
	router  *gin.Engine
	metrics *Metrics
	logger  *slog.Logger
}

// Options configures a Server.
type Options struct {
	Logger *slog.Logger
	// Registry receives the server's collectors; /metrics serves it. A
	// fresh registry is used when nil.
	Registry *prometheus.Registry
}

// New creates a Server that delegates to store.
func New(store types.PlanStore, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	s := &Server{
		store:   store,
		router:  router,
		metrics: NewMetrics(opts.Registry),
		logger:  opts.Logger,
	}

	router.Use(gin.Recovery(), s.observe())

	router.GET("/healthz", s.handleHealth)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{})))

	api := router.Group("/api")
	{
		api.GET("/projects/:mode", s.handleListProjects)
		api.GET("/projects/:mode/:name/plan", s.handleGetPlan)
		api.PUT("/projects/:mode/:name/plan", s.handlePutPlan)
	}

	return s
}

// Handler returns the server's http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// observe records request counts and latency per route template.
func (s *Server) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		s.metrics.Requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		s.metrics.RequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
		s.logger.Debug("request", "method", c.Request.Method, "path", c.Request.URL.Path, "status", status)
	}
}
