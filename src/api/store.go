package api

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redforge/a2aeval/src/orchestrator"
)

// Store is an in-memory task store. An evaluation run's output is
// already a single JSON-shaped result, so tasks live only as long as
// the server process — no persistence layer beyond the optional
// report file the reporting package writes on completion.
type Store struct {
	mu    sync.RWMutex
	tasks map[string]*Task
}

// NewStore constructs an empty Store.
func NewStore() *Store {
	return &Store{tasks: make(map[string]*Task)}
}

// Create registers a new pending task and returns it.
func (s *Store) Create(req orchestrator.EvaluationRequest) *Task {
	now := time.Now()
	t := &Task{
		ID:        uuid.NewString(),
		Status:    TaskPending,
		Request:   req,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.mu.Lock()
	s.tasks[t.ID] = t
	s.mu.Unlock()
	return t
}

// Get returns the task with id, or false if it doesn't exist.
func (s *Store) Get(id string) (Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[id]
	if !ok {
		return Task{}, false
	}
	return *t, true
}

// SetRunning transitions a task to TaskRunning.
func (s *Store) SetRunning(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.tasks[id]; ok {
		t.Status = TaskRunning
		t.UpdatedAt = time.Now()
	}
}

// Complete records a successful evaluation result.
func (s *Store) Complete(id string, result orchestrator.EvaluationResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.tasks[id]; ok {
		t.Status = TaskCompleted
		t.Result = &result
		t.UpdatedAt = time.Now()
	}
}

// Fail records an evaluation failure.
func (s *Store) Fail(id string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.tasks[id]; ok {
		t.Status = TaskFailed
		t.Error = err.Error()
		t.UpdatedAt = time.Now()
	}
}
