// Package api exposes the engine over HTTP with gin.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guestwise/guestflow/pkg/database"
	"github.com/guestwise/guestflow/pkg/engine"
	"github.com/guestwise/guestflow/pkg/events"
)

// Server routes HTTP requests to the engine. db is nil when persistence
// is disabled; bus is nil when event streaming is disabled.
type Server struct {
	engine *engine.Engine
	bus    *events.Bus
	db     *database.Client
	store  *database.Store

	httpSrv *http.Server
}

// NewServer creates the HTTP server around an engine.
func NewServer(eng *engine.Engine, bus *events.Bus, db *database.Client) *Server {
	s := &Server{
		engine: eng,
		bus:    bus,
		db:     db,
	}
	if db != nil {
		s.store = database.NewStore(db)
	}
	return s
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(), securityHeaders())

	r.GET("/healthz", s.healthHandler)

	v1 := r.Group("/api/v1")
	{
		v1.POST("/sessions/:id/messages", s.postMessageHandler)
		v1.GET("/sessions/:id/summary", s.summaryHandler)
		v1.GET("/sessions/:id/state", s.stateHandler)
		v1.DELETE("/sessions/:id", s.deleteSessionHandler)
		v1.GET("/sessions/:id/events", s.eventsHandler)
	}
	return r
}

// Start listens on host:port and blocks until the listener fails or
// Shutdown is called.
func (s *Server) Start(host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("HTTP server listening", "addr", addr)
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}
