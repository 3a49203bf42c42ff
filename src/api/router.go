package api

import (
	"github.com/gorilla/mux"
	"github.com/redforge/a2aeval/src/orchestrator"
)

// NewRouter builds the task-protocol HTTP API. There is no
// authentication layer: an evaluation subject endpoint is caller-
// supplied data, not a credential, and multi-tenant access control is
// out of scope for this single-operator tool.
func NewRouter(orch *orchestrator.Orchestrator, resultsDir string) *mux.Router {
	store := NewStore()
	h := NewHandlers(store, orch, resultsDir)

	r := mux.NewRouter()
	r.Use(loggingMiddleware)

	r.HandleFunc("/health", h.Health).Methods("GET")
	r.HandleFunc("/tasks", h.CreateTask).Methods("POST")
	r.HandleFunc("/tasks/{id}", h.GetTask).Methods("GET")

	return r
}
