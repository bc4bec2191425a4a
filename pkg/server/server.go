// Package server exposes the scoring service over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/toyinlola/housingrisk/pkg/metrics"
	"github.com/toyinlola/housingrisk/pkg/pipeline"
)

// ShutdownTimeout bounds how long in-flight requests may take after a stop signal.
const ShutdownTimeout = 5 * time.Second

// Options configures the HTTP surface.
type Options struct {
	AllowedOrigins []string
}

// Server routes requests to the scoring service.
type Server struct {
	service *pipeline.Service
	metrics *metrics.Recorder
	router  *gin.Engine
}

// New builds the router. metrics may be nil, in which case /metrics is not served.
func New(service *pipeline.Service, rec *metrics.Recorder, opts Options) *Server {
	registerTagNames()

	s := &Server{service: service, metrics: rec, router: gin.New()}

	s.router.Use(gin.Recovery())
	s.router.Use(RequestID())
	s.router.Use(Logger())
	if c, ok := corsConfig(opts.AllowedOrigins); ok {
		s.router.Use(cors.New(c))
	}

	s.router.GET("/health", s.health)
	s.router.POST("/predict", s.predict)
	s.router.POST("/assess", s.assess)
	if rec != nil {
		s.router.GET("/metrics", gin.WrapH(rec.Handler()))
	}
	return s
}

// Handler returns the router as an http.Handler.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr, "model_version", s.service.Version())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		slog.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// corsConfig returns the CORS policy for the configured origins. "*" allows
// every origin without credentials; no origins disables CORS entirely.
func corsConfig(origins []string) (cors.Config, bool) {
	if len(origins) == 0 {
		return cors.Config{}, false
	}
	c := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", RequestIDHeader},
		ExposeHeaders: []string{RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if slices.Contains(origins, "*") {
		c.AllowAllOrigins = true
		return c, true
	}
	c.AllowOrigins = origins
	c.AllowCredentials = true
	return c, true
}
