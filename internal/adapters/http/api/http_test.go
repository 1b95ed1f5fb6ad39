package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/mdtodo/internal/adapters/http/api"
	repository "github.com/okian/mdtodo/internal/adapters/repository"
	"github.com/okian/mdtodo/internal/domain/model"
)

// mockDeps implements api.Dependencies over an in-memory map, with an
// optional forced failure for error-path tests.
type mockDeps struct {
	todos   map[uuid.UUID]model.Todo
	failErr error
}

func newMockDeps() *mockDeps {
	return &mockDeps{todos: make(map[uuid.UUID]model.Todo)}
}

func (m *mockDeps) CreateTodo(ctx context.Context, title, content string) (model.Todo, error) {
	if m.failErr != nil {
		return model.Todo{}, m.failErr
	}
	todo, err := model.New(title, content)
	if err != nil {
		return model.Todo{}, err
	}
	m.todos[todo.ID] = *todo
	return *todo, nil
}

func (m *mockDeps) ListTodos(ctx context.Context) ([]model.Todo, error) {
	if m.failErr != nil {
		return nil, m.failErr
	}
	out := make([]model.Todo, 0, len(m.todos))
	for _, todo := range m.todos {
		out = append(out, todo)
	}
	return out, nil
}

func (m *mockDeps) GetTodo(ctx context.Context, id uuid.UUID) (model.Todo, error) {
	if m.failErr != nil {
		return model.Todo{}, m.failErr
	}
	todo, ok := m.todos[id]
	if !ok {
		return model.Todo{}, repository.ErrNotFound
	}
	return todo, nil
}

func (m *mockDeps) UpdateTodo(ctx context.Context, id uuid.UUID, patch model.Patch) (model.Todo, error) {
	if m.failErr != nil {
		return model.Todo{}, m.failErr
	}
	todo, ok := m.todos[id]
	if !ok {
		return model.Todo{}, repository.ErrNotFound
	}
	if err := todo.Apply(patch); err != nil {
		return model.Todo{}, err
	}
	m.todos[id] = todo
	return todo, nil
}

func (m *mockDeps) DeleteTodo(ctx context.Context, id uuid.UUID) error {
	if m.failErr != nil {
		return m.failErr
	}
	if _, ok := m.todos[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.todos, id)
	return nil
}

func (m *mockDeps) GetStats() map[string]interface{} {
	return map[string]interface{}{"backend": "mock", "totalTodos": len(m.todos)}
}

// envelope mirrors the wire format for assertions.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *string         `json:"error"`
}

func newTestMux(deps *mockDeps) *http.ServeMux {
	server := api.NewServer(deps, deps)
	mux := http.NewServeMux()
	server.Register(context.Background(), mux)
	return mux
}

func doJSON(mux *http.ServeMux, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (body %q)", err, w.Body.String())
	}
	return env
}

func decodeTodo(t *testing.T, env envelope) model.Todo {
	t.Helper()
	var todo model.Todo
	if err := json.Unmarshal(env.Data, &todo); err != nil {
		t.Fatalf("decode todo: %v", err)
	}
	return todo
}

func TestHealthHandler(t *testing.T) {
	convey.Convey("Given the API routes", t, func() {
		mux := newTestMux(newMockDeps())

		convey.Convey("When requesting GET /health", func() {
			w := doJSON(mux, http.MethodGet, "/health", nil)

			convey.Convey("Then it should answer OK in plain text", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(w.Body.String(), convey.ShouldEqual, "OK")
			})
		})

		convey.Convey("When requesting GET /metrics", func() {
			w := doJSON(mux, http.MethodGet, "/metrics", nil)

			convey.Convey("Then the Prometheus registry should be served", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			})
		})

		convey.Convey("When requesting GET /stats", func() {
			w := doJSON(mux, http.MethodGet, "/stats", nil)

			convey.Convey("Then service stats should be returned in the envelope", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				env := decodeEnvelope(t, w)
				convey.So(env.Success, convey.ShouldBeTrue)
				convey.So(env.Error, convey.ShouldBeNil)
				convey.So(string(env.Data), convey.ShouldContainSubstring, "backend")
				convey.So(string(env.Data), convey.ShouldContainSubstring, "totalTodos")
			})
		})
	})
}

func TestTodosHandler_List(t *testing.T) {
	convey.Convey("Given an empty service", t, func() {
		deps := newMockDeps()
		mux := newTestMux(deps)

		convey.Convey("When listing todos", func() {
			w := doJSON(mux, http.MethodGet, "/api/todos", nil)

			convey.Convey("Then the envelope should carry an empty list", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				env := decodeEnvelope(t, w)
				convey.So(env.Success, convey.ShouldBeTrue)
				convey.So(env.Error, convey.ShouldBeNil)
				var todos []model.Todo
				convey.So(json.Unmarshal(env.Data, &todos), convey.ShouldBeNil)
				convey.So(todos, convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When the store fails", func() {
			deps.failErr = errors.New("disk on fire")
			w := doJSON(mux, http.MethodGet, "/api/todos", nil)

			convey.Convey("Then a 500 envelope error should be returned", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusInternalServerError)
				env := decodeEnvelope(t, w)
				convey.So(env.Success, convey.ShouldBeFalse)
				convey.So(env.Error, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestTodosHandler_Create(t *testing.T) {
	convey.Convey("Given the todos collection endpoint", t, func() {
		deps := newMockDeps()
		mux := newTestMux(deps)

		convey.Convey("When creating a valid todo", func() {
			w := doJSON(mux, http.MethodPost, "/api/todos", map[string]string{
				"title":   "Test Todo",
				"content": "Test content",
			})

			convey.Convey("Then the created todo should be returned", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				env := decodeEnvelope(t, w)
				convey.So(env.Success, convey.ShouldBeTrue)
				todo := decodeTodo(t, env)
				convey.So(todo.Title, convey.ShouldEqual, "Test Todo")
				convey.So(todo.Content, convey.ShouldEqual, "Test content")
				convey.So(todo.Completed, convey.ShouldBeFalse)
				convey.So(todo.ID, convey.ShouldNotEqual, uuid.Nil)
			})
		})

		convey.Convey("When creating with an empty title", func() {
			w := doJSON(mux, http.MethodPost, "/api/todos", map[string]string{
				"title":   "",
				"content": "Valid content",
			})

			convey.Convey("Then validation should reject it", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusBadRequest)
				env := decodeEnvelope(t, w)
				convey.So(env.Success, convey.ShouldBeFalse)
				convey.So(*env.Error, convey.ShouldEqual, "title cannot be empty")
			})
		})

		convey.Convey("When creating with a too-long title", func() {
			w := doJSON(mux, http.MethodPost, "/api/todos", map[string]string{
				"title":   strings.Repeat("a", 256),
				"content": "Valid content",
			})

			convey.Convey("Then validation should reject it", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusBadRequest)
				env := decodeEnvelope(t, w)
				convey.So(*env.Error, convey.ShouldEqual, "title cannot exceed 255 characters")
			})
		})

		convey.Convey("When creating with too-long content", func() {
			w := doJSON(mux, http.MethodPost, "/api/todos", map[string]string{
				"title":   "Valid title",
				"content": strings.Repeat("a", 10001),
			})

			convey.Convey("Then validation should reject it", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusBadRequest)
				env := decodeEnvelope(t, w)
				convey.So(*env.Error, convey.ShouldEqual, "content cannot exceed 10000 characters")
			})
		})

		convey.Convey("When the body is not JSON", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/todos", strings.NewReader("not json"))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			convey.Convey("Then it should answer 400", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusBadRequest)
				env := decodeEnvelope(t, w)
				convey.So(env.Success, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When using an unsupported method", func() {
			w := doJSON(mux, http.MethodDelete, "/api/todos", nil)

			convey.Convey("Then it should answer 404", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestTodoHandler_CRUD(t *testing.T) {
	convey.Convey("Given a created todo", t, func() {
		deps := newMockDeps()
		mux := newTestMux(deps)

		w := doJSON(mux, http.MethodPost, "/api/todos", map[string]string{
			"title":   "CRUD Test",
			"content": "Testing CRUD operations",
		})
		convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
		created := decodeTodo(t, decodeEnvelope(t, w))

		convey.Convey("When fetching it by id", func() {
			w := doJSON(mux, http.MethodGet, "/api/todos/"+created.ID.String(), nil)

			convey.Convey("Then the todo should be returned", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				todo := decodeTodo(t, decodeEnvelope(t, w))
				convey.So(todo.ID, convey.ShouldEqual, created.ID)
				convey.So(todo.Title, convey.ShouldEqual, "CRUD Test")
			})
		})

		convey.Convey("When patching title and completed", func() {
			w := doJSON(mux, http.MethodPatch, "/api/todos/"+created.ID.String(), map[string]any{
				"title":     "Updated CRUD Test",
				"completed": true,
			})

			convey.Convey("Then the update should apply partially", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				todo := decodeTodo(t, decodeEnvelope(t, w))
				convey.So(todo.Title, convey.ShouldEqual, "Updated CRUD Test")
				convey.So(todo.Content, convey.ShouldEqual, "Testing CRUD operations")
				convey.So(todo.Completed, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When updating via PUT", func() {
			w := doJSON(mux, http.MethodPut, "/api/todos/"+created.ID.String(), map[string]any{
				"content": "Replaced content",
			})

			convey.Convey("Then PUT should behave like PATCH", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				todo := decodeTodo(t, decodeEnvelope(t, w))
				convey.So(todo.Content, convey.ShouldEqual, "Replaced content")
				convey.So(todo.Title, convey.ShouldEqual, "CRUD Test")
			})
		})

		convey.Convey("When patching with an invalid title", func() {
			w := doJSON(mux, http.MethodPatch, "/api/todos/"+created.ID.String(), map[string]any{
				"title": "bad\ntitle",
			})

			convey.Convey("Then validation should reject it and keep the todo", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusBadRequest)
				env := decodeEnvelope(t, w)
				convey.So(*env.Error, convey.ShouldEqual, "title cannot contain newlines")

				get := doJSON(mux, http.MethodGet, "/api/todos/"+created.ID.String(), nil)
				todo := decodeTodo(t, decodeEnvelope(t, get))
				convey.So(todo.Title, convey.ShouldEqual, "CRUD Test")
			})
		})

		convey.Convey("When deleting it", func() {
			w := doJSON(mux, http.MethodDelete, "/api/todos/"+created.ID.String(), nil)

			convey.Convey("Then 204 should be returned and the todo gone", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusNoContent)
				convey.So(w.Body.Len(), convey.ShouldEqual, 0)

				get := doJSON(mux, http.MethodGet, "/api/todos/"+created.ID.String(), nil)
				convey.So(get.Code, convey.ShouldEqual, http.StatusNotFound)

				del := doJSON(mux, http.MethodDelete, "/api/todos/"+created.ID.String(), nil)
				convey.So(del.Code, convey.ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestTodoHandler_BadIDs(t *testing.T) {
	convey.Convey("Given the item endpoint", t, func() {
		mux := newTestMux(newMockDeps())

		convey.Convey("When the id is not a uuid", func() {
			w := doJSON(mux, http.MethodGet, "/api/todos/not-a-uuid", nil)

			convey.Convey("Then it should answer 400", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusBadRequest)
				env := decodeEnvelope(t, w)
				convey.So(env.Success, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When the id has a trailing path segment", func() {
			w := doJSON(mux, http.MethodGet, fmt.Sprintf("/api/todos/%s/extra", uuid.New()), nil)

			convey.Convey("Then it should answer 400", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusBadRequest)
			})
		})

		convey.Convey("When the id is unknown", func() {
			w := doJSON(mux, http.MethodGet, "/api/todos/018c8f3e-7c4b-7f2a-9b1d-3e4f5a6b7c8d", nil)

			convey.Convey("Then it should answer 404 with an envelope error", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusNotFound)
				env := decodeEnvelope(t, w)
				convey.So(env.Success, convey.ShouldBeFalse)
				convey.So(*env.Error, convey.ShouldEqual, "todo not found")
			})
		})
	})
}

func TestTodoHandler_StoreFailure(t *testing.T) {
	convey.Convey("Given a failing backend", t, func() {
		deps := newMockDeps()
		mux := newTestMux(deps)
		deps.failErr = errors.New("connection reset")

		convey.Convey("When fetching a todo", func() {
			w := doJSON(mux, http.MethodGet, "/api/todos/"+uuid.New().String(), nil)

			convey.Convey("Then it should answer 500", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusInternalServerError)
				env := decodeEnvelope(t, w)
				convey.So(env.Success, convey.ShouldBeFalse)
			})
		})
	})
}
