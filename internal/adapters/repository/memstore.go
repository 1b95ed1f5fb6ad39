package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/mdtodo/internal/domain/model"
	"github.com/okian/mdtodo/pkg/metrics"
)

// MemStore is an in-memory Store implementation backed by a hash map
// guarded by a single read/write lock. Reads take the read lock; every
// mutation takes the write lock, so patches apply atomically.
type MemStore struct {
	mu    sync.RWMutex
	todos map[uuid.UUID]model.Todo
	now   func() time.Time
}

var _ Store = (*MemStore)(nil)

// NewMemStore creates an empty in-memory store.
func NewMemStore(opts ...Option) *MemStore {
	s := &MemStore{
		todos: make(map[uuid.UUID]model.Todo),
		now:   func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create persists a new todo.
func (s *MemStore) Create(ctx context.Context, todo *model.Todo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.todos[todo.ID] = *todo
	metrics.UpdateTodosTotal(len(s.todos))
	return nil
}

// Get returns the todo with the given id.
func (s *MemStore) Get(ctx context.Context, id uuid.UUID) (model.Todo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	todo, ok := s.todos[id]
	if !ok {
		return model.Todo{}, ErrNotFound
	}
	return todo, nil
}

// List returns all todos, newest first.
func (s *MemStore) List(ctx context.Context) ([]model.Todo, error) {
	s.mu.RLock()
	out := make([]model.Todo, 0, len(s.todos))
	for _, todo := range s.todos {
		out = append(out, todo)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() > out[j].ID.String()
	})
	return out, nil
}

// Update applies a patch under the write lock. The stored row is only
// replaced when the patch validates.
func (s *MemStore) Update(ctx context.Context, id uuid.UUID, patch model.Patch) (model.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	todo, ok := s.todos[id]
	if !ok {
		return model.Todo{}, ErrNotFound
	}
	if err := todo.Apply(patch); err != nil {
		return model.Todo{}, err
	}
	todo.UpdatedAt = s.now()
	s.todos[id] = todo
	return todo, nil
}

// Delete removes the todo with the given id.
func (s *MemStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.todos[id]; !ok {
		return ErrNotFound
	}
	delete(s.todos, id)
	metrics.UpdateTodosTotal(len(s.todos))
	return nil
}

// Count returns the number of stored todos.
func (s *MemStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.todos)
}
