// Package api provides the HTTP surface of sitrepc2: post ingestion,
// DOM projection, and manual snapshot advance, plus a health endpoint.
package api

import (
	"context"
	"net"
	"net/http"

	echo "github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"

	"github.com/nuclearfall/sitrepc2-core/pkg/database"
	"github.com/nuclearfall/sitrepc2-core/pkg/queue"
	"github.com/nuclearfall/sitrepc2-core/pkg/services"
)

// Server is the HTTP API server.
type Server struct {
	echo          *echo.Echo
	httpServer    *http.Server
	dbClient      *database.Client
	ingestService *services.IngestService
	domService    *services.DomService
	workerPool    *queue.WorkerPool
}

// NewServer creates a new API server with Echo v5 and registers routes.
func NewServer(
	dbClient *database.Client,
	ingestService *services.IngestService,
	domService *services.DomService,
	workerPool *queue.WorkerPool,
) *Server {
	e := echo.New()

	s := &Server{
		echo:          e,
		dbClient:      dbClient,
		ingestService: ingestService,
		domService:    domService,
		workerPool:    workerPool,
	}

	s.setupRoutes()
	return s
}

// setupRoutes registers all API routes.
func (s *Server) setupRoutes() {
	s.echo.Use(middleware.BodyLimit(2 * 1024 * 1024))
	s.echo.Use(securityHeaders())

	s.echo.GET("/health", s.healthHandler)

	v1 := s.echo.Group("/v1")
	v1.POST("/posts", s.submitPostHandler)
	v1.GET("/posts/:id/dom", s.getPostDomHandler)
	v1.POST("/posts/:id/snapshot/advance", s.advanceSnapshotHandler)
}

// Start starts the HTTP server on the given address (blocking).
func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.echo,
	}
	return s.httpServer.ListenAndServe()
}

// StartWithListener starts the HTTP server on a pre-created listener.
// Used by test infrastructure to serve on a random OS-assigned port.
func (s *Server) StartWithListener(ln net.Listener) error {
	s.httpServer = &http.Server{Handler: s.echo}
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
