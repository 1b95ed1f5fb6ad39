// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"

	"github.com/google/uuid"

	repository "github.com/okian/mdtodo/internal/adapters/repository"
	"github.com/okian/mdtodo/internal/domain/model"
	"github.com/okian/mdtodo/pkg/logger"
	"github.com/okian/mdtodo/pkg/metrics"
)

// Service implements the API dependencies for the todo system. It owns
// the storage backend and routes every operation through the domain
// model's validation rules.
type Service struct {
	store   repository.Store
	backend string
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the repository backend.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithBackendName records the backend name reported by GetStats.
func WithBackendName(name string) Option {
	return func(s *Service) {
		if name != "" {
			s.backend = name
		}
	}
}

// WithLogger sets the logger used by the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a Service. The default backend is an in-memory store;
// pass WithStore to override and WithLogger to enable logging.
func New(opts ...Option) *Service {
	s := &Service{
		store:   repository.NewMemStore(),
		backend: "memory",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateTodo validates the fields and persists a new todo.
func (s *Service) CreateTodo(ctx context.Context, title, content string) (model.Todo, error) {
	todo, err := model.New(title, content)
	if err != nil {
		return model.Todo{}, err
	}
	if err := s.store.Create(ctx, todo); err != nil {
		s.logError(ctx, "create todo failed", err)
		return model.Todo{}, err
	}
	s.logDebug(ctx, "todo created", logger.String("id", todo.ID.String()))
	return *todo, nil
}

// ListTodos returns all todos, newest first.
func (s *Service) ListTodos(ctx context.Context) ([]model.Todo, error) {
	todos, err := s.store.List(ctx)
	if err != nil {
		s.logError(ctx, "list todos failed", err)
		return nil, err
	}
	return todos, nil
}

// GetTodo returns a single todo by id.
func (s *Service) GetTodo(ctx context.Context, id uuid.UUID) (model.Todo, error) {
	return s.store.Get(ctx, id)
}

// UpdateTodo applies a partial patch and returns the updated todo.
func (s *Service) UpdateTodo(ctx context.Context, id uuid.UUID, patch model.Patch) (model.Todo, error) {
	todo, err := s.store.Update(ctx, id, patch)
	if err != nil {
		return model.Todo{}, err
	}
	s.logDebug(ctx, "todo updated", logger.String("id", id.String()))
	return todo, nil
}

// DeleteTodo removes a todo by id.
func (s *Service) DeleteTodo(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logDebug(ctx, "todo deleted", logger.String("id", id.String()))
	return nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	ctx := context.Background()
	count := s.store.Count(ctx)
	metrics.UpdateTodosTotal(count)

	return map[string]interface{}{
		"backend":    s.backend,
		"totalTodos": count,
	}
}

func (s *Service) logDebug(ctx context.Context, msg string, fields ...logger.Field) {
	if s.logger != nil {
		s.logger.Debug(ctx, msg, fields...)
	}
}

func (s *Service) logError(ctx context.Context, msg string, err error) {
	if s.logger != nil {
		s.logger.Error(ctx, msg, logger.Error(err))
	}
}
