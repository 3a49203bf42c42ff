package api

import (
	"context"
	"net/http"
	"time"

	"github.com/redforge/a2aeval/src/orchestrator"
)

// Server wraps the task-protocol router in an http.Server with
// sensible timeouts and graceful shutdown.
type Server struct {
	httpServer *http.Server
}

// NewServer constructs a Server listening on addr. An empty resultsDir
// disables the optional write-only persisted result file per evaluation.
func NewServer(addr string, orch *orchestrator.Orchestrator, resultsDir string) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      NewRouter(orch, resultsDir),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// ListenAndServe blocks serving requests until the server is shut down.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains in-flight requests within ctx's deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
