// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/mdtodo/internal/domain/model"
	"github.com/okian/mdtodo/pkg/metrics"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// CreateTodo validates the fields and persists a new todo.
	CreateTodo(ctx context.Context, title, content string) (model.Todo, error)

	// ListTodos returns all todos, newest first.
	ListTodos(ctx context.Context) ([]model.Todo, error)

	// GetTodo returns a single todo by id.
	GetTodo(ctx context.Context, id uuid.UUID) (model.Todo, error)

	// UpdateTodo applies a partial patch and returns the updated todo.
	UpdateTodo(ctx context.Context, id uuid.UUID, patch model.Patch) (model.Todo, error)

	// DeleteTodo removes a todo by id.
	DeleteTodo(ctx context.Context, id uuid.UUID) error
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	todosHandler  *TodosHandler
	todoHandler   *TodoHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(statsProvider),
		todosHandler:  NewTodosHandler(deps),
		todoHandler:   NewTodoHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/health", MetricsMiddleware(s.healthHandler.HandleHealth, "health"))
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/todos", MetricsMiddleware(s.todosHandler.HandleTodos, "todos"))
	mux.HandleFunc("/api/todos/", MetricsMiddleware(s.todoHandler.HandleTodo, "todo"))
}

// createTodoRequest mirrors the JSON schema for POST /api/todos.
type createTodoRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (c createTodoRequest) validate() error {
	if err := model.ValidateTitle(c.Title); err != nil {
		return err
	}
	return model.ValidateContent(c.Content)
}

// updateTodoRequest mirrors the JSON schema for PUT/PATCH /api/todos/{id}.
// Absent fields are left untouched.
type updateTodoRequest struct {
	Title     *string `json:"title"`
	Content   *string `json:"content"`
	Completed *bool   `json:"completed"`
}

func (u updateTodoRequest) patch() model.Patch {
	return model.Patch{
		Title:     u.Title,
		Content:   u.Content,
		Completed: u.Completed,
	}
}

// response is the uniform success/error envelope wrapping every API
// payload. Both fields are always present, mirroring the wire format
// clients already depend on.
type response struct {
	Success bool    `json:"success"`
	Data    any     `json:"data"`
	Error   *string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSuccess(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, response{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, response{Success: false, Error: &msg})
}
