// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/okian/mdtodo/internal/domain/model"
	"github.com/okian/mdtodo/pkg/metrics"
)

// TodosHandler handles collection-level requests on /api/todos.
type TodosHandler struct {
	deps Dependencies
}

// NewTodosHandler creates a new collection handler.
func NewTodosHandler(deps Dependencies) *TodosHandler {
	return &TodosHandler{deps: deps}
}

// HandleTodos dispatches GET (list) and POST (create) on /api/todos.
func (h *TodosHandler) HandleTodos(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleList(w, r)
	case http.MethodPost:
		h.handleCreate(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *TodosHandler) handleList(w http.ResponseWriter, r *http.Request) {
	todos, err := h.deps.ListTodos(r.Context())
	if err != nil {
		metrics.RecordStoreError()
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if todos == nil {
		todos = []model.Todo{}
	}
	writeSuccess(w, http.StatusOK, todos)
}

func (h *TodosHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_todo"

	var req createTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, wrapKind(op, ErrInvalidBody, err))
		return
	}
	if err := req.validate(); err != nil {
		metrics.RecordValidationError()
		writeError(w, http.StatusBadRequest, err)
		return
	}

	todo, err := h.deps.CreateTodo(r.Context(), req.Title, req.Content)
	if err != nil {
		if model.IsValidation(err) {
			metrics.RecordValidationError()
			writeError(w, http.StatusBadRequest, err)
			return
		}
		metrics.RecordStoreError()
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	metrics.RecordTodoCreated()
	writeSuccess(w, http.StatusOK, todo)
}
