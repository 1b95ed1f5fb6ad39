// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	repository "github.com/okian/mdtodo/internal/adapters/repository"
	"github.com/okian/mdtodo/internal/domain/model"
	"github.com/okian/mdtodo/pkg/metrics"
)

// TodoHandler handles item-level requests on /api/todos/{id}.
type TodoHandler struct {
	deps Dependencies
}

// NewTodoHandler creates a new item handler.
func NewTodoHandler(deps Dependencies) *TodoHandler {
	return &TodoHandler{deps: deps}
}

// HandleTodo dispatches GET, PUT, PATCH and DELETE on /api/todos/{id}.
// PUT and PATCH are treated identically: both apply a partial update.
func (h *TodoHandler) HandleTodo(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleGet(w, r, id)
	case http.MethodPut, http.MethodPatch:
		h.handleUpdate(w, r, id)
	case http.MethodDelete:
		h.handleDelete(w, r, id)
	default:
		http.NotFound(w, r)
	}
}

// parseID extracts the path parameter after /api/todos/.
func (h *TodoHandler) parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	path := strings.TrimPrefix(r.URL.Path, "/api/todos/")
	if path == "" || strings.Contains(path, "/") {
		writeError(w, http.StatusBadRequest, ErrInvalidID)
		return uuid.Nil, false
	}
	id, err := uuid.Parse(path)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrInvalidID)
		return uuid.Nil, false
	}
	return id, true
}

func (h *TodoHandler) handleGet(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	todo, err := h.deps.GetTodo(r.Context(), id)
	if err != nil {
		h.writeLookupError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, todo)
}

func (h *TodoHandler) handleUpdate(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	const op = "api.update_todo"

	var req updateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, wrapKind(op, ErrInvalidBody, err))
		return
	}

	todo, err := h.deps.UpdateTodo(r.Context(), id, req.patch())
	if err != nil {
		if model.IsValidation(err) {
			metrics.RecordValidationError()
			writeError(w, http.StatusBadRequest, err)
			return
		}
		h.writeLookupError(w, err)
		return
	}

	metrics.RecordTodoUpdated()
	if req.Completed != nil && *req.Completed {
		metrics.RecordTodoCompleted()
	}
	writeSuccess(w, http.StatusOK, todo)
}

func (h *TodoHandler) handleDelete(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if err := h.deps.DeleteTodo(r.Context(), id); err != nil {
		h.writeLookupError(w, err)
		return
	}
	metrics.RecordTodoDeleted()
	w.WriteHeader(http.StatusNoContent)
}

// writeLookupError translates store errors: unknown ids map to 404,
// anything else is a backend failure.
func (h *TodoHandler) writeLookupError(w http.ResponseWriter, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	metrics.RecordStoreError()
	writeError(w, http.StatusInternalServerError, err)
}
