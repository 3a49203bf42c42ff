package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/redforge/a2aeval/src/orchestrator"
	"github.com/redforge/a2aeval/src/reporting"
	"github.com/rs/zerolog/log"
)

// Handlers wires the task store and orchestrator into HTTP endpoints.
type Handlers struct {
	store      *Store
	orch       *orchestrator.Orchestrator
	resultsDir string
}

// NewHandlers constructs a Handlers. An empty resultsDir disables the
// optional write-only persisted result file on task completion.
func NewHandlers(store *Store, orch *orchestrator.Orchestrator, resultsDir string) *Handlers {
	return &Handlers{store: store, orch: orch, resultsDir: resultsDir}
}

// CreateTask handles POST /tasks: validates the request, enqueues it,
// and runs the evaluation in the background. The response is the
// pending task, not the result — callers poll GetTask.
func (h *Handlers) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req orchestrator.EvaluationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	task := h.store.Create(req)
	go h.run(task.ID, req)

	writeSuccess(w, http.StatusAccepted, task)
}

func (h *Handlers) run(taskID string, req orchestrator.EvaluationRequest) {
	h.store.SetRunning(taskID)
	result, err := h.orch.Evaluate(context.Background(), req)
	if err != nil {
		log.Error().Err(err).Str("task_id", taskID).Msg("evaluation task failed")
		h.store.Fail(taskID, err)
		return
	}
	h.store.Complete(taskID, result)

	if h.resultsDir != "" {
		path, err := reporting.NewWriter(false, nil).WritePersisted(result, h.resultsDir, taskID)
		if err != nil {
			log.Error().Err(err).Str("task_id", taskID).Msg("persisting evaluation result failed")
			return
		}
		log.Info().Str("task_id", taskID).Str("path", path).Msg("persisted evaluation result")
	}
}

// GetTask handles GET /tasks/{id}.
func (h *Handlers) GetTask(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	task, ok := h.store.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "task_not_found", "no task with that id")
		return
	}
	writeSuccess(w, http.StatusOK, task)
}

// Health handles GET /health.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeSuccess(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, Response{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, Response{Success: false, Error: &APIError{Code: code, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, body Response) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("api: failed to encode JSON response")
	}
}
