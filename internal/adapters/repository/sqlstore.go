package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/okian/mdtodo/internal/domain/model"
	"github.com/okian/mdtodo/pkg/metrics"
)

// SQLStore is a Store implementation backed by a SQLite table. All
// statements are parameterized; Update runs as a single-row transaction
// so a failed validation leaves the row untouched.
type SQLStore struct {
	db *sql.DB
}

// timeLayout is fixed-width (zero-padded fractional seconds) so that
// lexicographic order on the stored column matches chronological order.
const timeLayout = "2006-01-02 15:04:05.000000000"

var _ Store = (*SQLStore)(nil)

// NewSQLStore opens (or creates) the SQLite database at path and
// ensures the todos table exists.
func NewSQLStore(path string) (*SQLStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	s := &SQLStore{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate todos schema: %w", err)
	}
	return s, nil
}

// migrate creates the todos table and its listing index.
func (s *SQLStore) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS todos (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			completed INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_todos_created_at ON todos(created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the underlying database handle.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// Create persists a new todo.
func (s *SQLStore) Create(ctx context.Context, todo *model.Todo) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO todos (id, title, content, completed, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, todo.ID.String(), todo.Title, todo.Content, todo.Completed,
		todo.CreatedAt.UTC().Format(timeLayout), todo.UpdatedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("insert todo: %w", err)
	}
	metrics.UpdateTodosTotal(s.Count(ctx))
	return nil
}

// Get returns the todo with the given id.
func (s *SQLStore) Get(ctx context.Context, id uuid.UUID) (model.Todo, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, content, completed, created_at, updated_at
		FROM todos WHERE id = ?
	`, id.String())
	return scanTodo(row)
}

// List returns all todos, newest first.
func (s *SQLStore) List(ctx context.Context) ([]model.Todo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, content, completed, created_at, updated_at
		FROM todos
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	defer rows.Close()

	var todos []model.Todo
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, todo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return todos, nil
}

// Update applies a patch inside a transaction: the row is read, the
// patch is validated and merged through the domain model, and the row
// is written back. Any error rolls the transaction back.
func (s *SQLStore) Update(ctx context.Context, id uuid.UUID, patch model.Patch) (model.Todo, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Todo{}, fmt.Errorf("begin update: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx, `
		SELECT id, title, content, completed, created_at, updated_at
		FROM todos WHERE id = ?
	`, id.String())
	todo, err := scanTodo(row)
	if err != nil {
		return model.Todo{}, err
	}

	if err := todo.Apply(patch); err != nil {
		return model.Todo{}, err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE todos SET title = ?, content = ?, completed = ?, updated_at = ?
		WHERE id = ?
	`, todo.Title, todo.Content, todo.Completed,
		todo.UpdatedAt.UTC().Format(timeLayout), id.String())
	if err != nil {
		return model.Todo{}, fmt.Errorf("update todo: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return model.Todo{}, fmt.Errorf("commit update: %w", err)
	}
	return todo, nil
}

// Delete removes the todo with the given id.
func (s *SQLStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM todos WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	metrics.UpdateTodosTotal(s.Count(ctx))
	return nil
}

// Count returns the number of stored todos.
func (s *SQLStore) Count(ctx context.Context) int {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM todos`).Scan(&n); err != nil {
		return 0
	}
	return n
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanTodo(row scanner) (model.Todo, error) {
	var (
		todo               model.Todo
		idStr              string
		createdAt, updated string
	)
	err := row.Scan(&idStr, &todo.Title, &todo.Content, &todo.Completed, &createdAt, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Todo{}, ErrNotFound
		}
		return model.Todo{}, fmt.Errorf("scan todo: %w", err)
	}

	todo.ID, err = uuid.Parse(idStr)
	if err != nil {
		return model.Todo{}, fmt.Errorf("parse todo id: %w", err)
	}
	if todo.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return model.Todo{}, fmt.Errorf("parse created_at: %w", err)
	}
	if todo.UpdatedAt, err = time.Parse(timeLayout, updated); err != nil {
		return model.Todo{}, fmt.Errorf("parse updated_at: %w", err)
	}
	return todo, nil
}
