package api

import (
	"context"
	"net/http"
	"time"

	"github.com/ignite/gametrade/internal/auth"
)

// Server wraps the router in an http.Server with sane timeouts and
// graceful shutdown.
type Server struct {
	handler http.Handler
	server  *http.Server
}

// NewServer builds the full HTTP surface from the wired handlers.
func NewServer(h *Handlers, tokens *auth.Manager) *Server {
	return &Server{handler: SetupRoutes(h, tokens)}
}

// ListenAndServe starts the HTTP server on addr and blocks until it stops.
func (s *Server) ListenAndServe(addr string) error {
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s.server.ListenAndServe()
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}
