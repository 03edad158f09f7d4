package server

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/guided-traffic/http-ingest/internal/config"
	"github.com/guided-traffic/http-ingest/internal/ingest"
	"github.com/guided-traffic/http-ingest/internal/ingest/decode"
	"github.com/guided-traffic/http-ingest/internal/monitoring"
	"github.com/guided-traffic/http-ingest/internal/server/middleware"
)

// Build information, set from main at startup.
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// SetBuildInfo records build information served by the /version endpoint.
func SetBuildInfo(v, c, bt string) {
	version, commit, buildTime = v, c, bt
}

// Server represents the HTTP ingestion server
type Server struct {
	httpServer     *http.Server
	router         *mux.Router
	config         *config.Config
	logger         *logrus.Entry
	activeRequests int64

	requestTracker *middleware.RequestTracker
	httpLogger     *middleware.Logger
	corsHandler    *middleware.CORS
	bodyLimit      *middleware.BodyLimit
	ingestStage    *ingest.PipelineStage
}

// NewServer creates a new ingestion server instance
func NewServer(cfg *config.Config) (*Server, error) {
	logger := logrus.WithField("component", "ingest-server")

	router := mux.NewRouter()
	server := &Server{
		router: router,
		config: cfg,
		logger: logger,
	}

	server.setupMiddleware()
	server.setupRoutes()

	server.httpServer = &http.Server{
		Addr:         cfg.BindAddress,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return server, nil
}

// setupMiddleware initializes the middleware chain
func (s *Server) setupMiddleware() {
	s.requestTracker = middleware.NewRequestTracker(s.logger)
	s.requestTracker.SetHandlers(
		func() { atomic.AddInt64(&s.activeRequests, 1) },
		func() { atomic.AddInt64(&s.activeRequests, -1) },
	)

	s.httpLogger = middleware.NewLogger(s.logger, s.config.LogHealthRequests)
	s.corsHandler = middleware.NewCORS(s.logger)
	s.bodyLimit = middleware.NewBodyLimit(s.logger, s.config.Ingest.MaxBodySize)

	decoders := decode.NewSet(s.config.Ingest.MultipartMaxParts)
	s.ingestStage = ingest.NewPipelineStage(
		logrus.WithField("component", "body-ingest"),
		decoders,
		s.config.Ingest.ReadBufferSize,
	)
}

// setupRoutes configures the HTTP routes
func (s *Server) setupRoutes() {
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
	s.router.HandleFunc("/version", s.handleVersion).Methods("GET")
	s.router.HandleFunc("/inspect", s.handleInspect).Methods("POST", "PUT")
	s.router.HandleFunc("/echo", s.handleEcho).Methods("POST", "PUT")

	// The ingestion stage runs last so the body limit is already in place
	// when it starts draining.
	s.router.Use(s.requestTracker.Middleware)
	s.router.Use(s.httpLogger.Middleware)
	s.router.Use(s.corsHandler.Middleware)
	s.router.Use(monitoring.HTTPMiddleware)
	s.router.Use(s.bodyLimit.Middleware)
	s.router.Use(s.ingestStage.Middleware)
}

// Handler returns the root HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the server and blocks until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	serverErrChan := make(chan error, 1)
	go func() {
		if s.config.TLS.Enabled {
			s.logger.WithFields(logrus.Fields{
				"address":   s.config.BindAddress,
				"cert_file": s.config.TLS.CertFile,
				"key_file":  s.config.TLS.KeyFile,
			}).Info("Starting HTTPS server")

			if err := s.httpServer.ListenAndServeTLS(s.config.TLS.CertFile, s.config.TLS.KeyFile); err != nil && err != http.ErrServerClosed {
				serverErrChan <- fmt.Errorf("HTTPS server failed: %w", err)
			}
		} else {
			s.logger.WithField("address", s.config.BindAddress).Info("Starting HTTP server")
			if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				serverErrChan <- fmt.Errorf("HTTP server failed: %w", err)
			}
		}
	}()

	select {
	case err := <-serverErrChan:
		return err
	case <-ctx.Done():
		s.logger.WithField("active_requests", atomic.LoadInt64(&s.activeRequests)).Info("Shutting down server")

		timeout := time.Duration(s.config.ShutdownTimeout) * time.Second
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.WithError(err).Error("Failed to gracefully shutdown server")
			return err
		}

		s.logger.Info("Server stopped")
		return nil
	}
}
