// Package api exposes the evaluation orchestrator over HTTP as an
// async task protocol: POST /tasks enqueues an evaluation, GET
// /tasks/{id} polls its status and, once complete, its result.
package api

import (
	"time"

	"github.com/redforge/a2aeval/src/orchestrator"
)

// TaskStatus is the lifecycle state of a submitted evaluation task.
type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskRunning   TaskStatus = "running"
	TaskCompleted TaskStatus = "completed"
	TaskFailed    TaskStatus = "failed"
)

// Task is one submitted evaluation and its current state.
type Task struct {
	ID        string                         `json:"id"`
	Status    TaskStatus                     `json:"status"`
	Request   orchestrator.EvaluationRequest `json:"request"`
	Result    *orchestrator.EvaluationResult `json:"result,omitempty"`
	Error     string                         `json:"error,omitempty"`
	CreatedAt time.Time                      `json:"created_at"`
	UpdatedAt time.Time                      `json:"updated_at"`
}

// Response is the envelope every endpoint in this package returns.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError is a machine-readable error code plus a human message.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
