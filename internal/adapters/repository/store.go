// Package repository defines the todo store interface and errors.
package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/okian/mdtodo/internal/domain/model"
)

// Store provides read/write access to persisted todos. Implementations
// must be safe for concurrent use.
type Store interface {
	// Create persists a new todo. The todo is stored as-is; callers are
	// expected to construct it through model.New.
	Create(ctx context.Context, todo *model.Todo) error

	// Get returns the todo with the given id.
	// Returns ErrNotFound if the id is unknown.
	Get(ctx context.Context, id uuid.UUID) (model.Todo, error)

	// List returns all todos ordered by creation time, newest first.
	// Ties are broken by id descending so the order is deterministic.
	List(ctx context.Context) ([]model.Todo, error)

	// Update applies a partial patch to the todo with the given id and
	// returns the updated row. The patch is validated through the domain
	// model; on validation failure nothing is persisted.
	// Returns ErrNotFound if the id is unknown.
	Update(ctx context.Context, id uuid.UUID, patch model.Patch) (model.Todo, error)

	// Delete removes the todo with the given id.
	// Returns ErrNotFound if the id is unknown.
	Delete(ctx context.Context, id uuid.UUID) error

	// Count returns the number of stored todos.
	Count(ctx context.Context) int
}
