// Package api exposes the bootstrap engine over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"gomediate/app"
	"gomediate/domain/bootstrap"
	"gomediate/internal/config"
	"gomediate/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server is the HTTP surface of the bootstrap service
type Server struct {
	router   *gin.Engine
	service  *app.BootstrapService
	gatherer prometheus.Gatherer
	defaults bootstrap.Config
	cfg      config.ServerConfig
	log      *logger.Logger
}

// NewServer creates a server. defaults fill any bootstrap setting a request
// leaves out; gatherer backs /metrics and may be nil to disable it.
func NewServer(cfg config.ServerConfig, defaults bootstrap.Config, service *app.BootstrapService, gatherer prometheus.Gatherer, log *logger.Logger) *Server {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}
	if log == nil {
		log = logger.NewNop()
	}

	s := &Server{
		router:   gin.New(),
		service:  service,
		gatherer: gatherer,
		defaults: defaults,
		cfg:      cfg,
		log:      log,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Handler returns the router for use with httptest or a custom http.Server
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debugw("request served",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"elapsed", time.Since(start))
	})
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)
	if s.gatherer != nil {
		s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	}

	v1 := s.router.Group("/api/v1")
	v1.POST("/bootstrap", s.handleBootstrap)
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infow("http server listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		s.log.Infow("http server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
