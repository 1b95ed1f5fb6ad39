// Package model contains domain models passed between layers.
package model

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Field limits enforced on every write path.
const (
	MaxTitleLen   = 255
	MaxContentLen = 10000
)

// Todo represents a single todo item with markdown content.
// Fields mirror the JSON schema for /api/todos.
type Todo struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"` // markdown body
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Patch describes a partial update. Nil fields are left untouched.
type Patch struct {
	Title     *string
	Content   *string
	Completed *bool
}

// New validates the given fields and builds a Todo with a time-ordered
// V7 id. CreatedAt and UpdatedAt start out equal.
func New(title, content string) (*Todo, error) {
	if err := ValidateTitle(title); err != nil {
		return nil, err
	}
	if err := ValidateContent(content); err != nil {
		return nil, err
	}
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Todo{
		ID:        id,
		Title:     title,
		Content:   content,
		Completed: false,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ValidateTitle enforces the title rules: non-empty after trimming,
// at most MaxTitleLen runes, no newline characters.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrTitleEmpty
	}
	if utf8.RuneCountInString(title) > MaxTitleLen {
		return ErrTitleTooLong
	}
	if strings.ContainsAny(title, "\n\r") {
		return ErrTitleNewlines
	}
	return nil
}

// ValidateContent enforces the content rules: at most MaxContentLen runes.
// Empty content is valid.
func ValidateContent(content string) error {
	if utf8.RuneCountInString(content) > MaxContentLen {
		return ErrContentTooLong
	}
	return nil
}

// Validate checks the todo's current field values.
func (t *Todo) Validate() error {
	if err := ValidateTitle(t.Title); err != nil {
		return err
	}
	return ValidateContent(t.Content)
}

// Apply merges a patch into the todo. All provided fields are validated
// before anything is mutated; on error the todo is unchanged. On success
// UpdatedAt is bumped. CreatedAt never changes.
func (t *Todo) Apply(p Patch) error {
	if p.Title != nil {
		if err := ValidateTitle(*p.Title); err != nil {
			return err
		}
	}
	if p.Content != nil {
		if err := ValidateContent(*p.Content); err != nil {
			return err
		}
	}
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Content != nil {
		t.Content = *p.Content
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	t.UpdatedAt = time.Now().UTC()
	return nil
}

// ToggleCompleted flips the completed flag and bumps UpdatedAt.
func (t *Todo) ToggleCompleted() {
	t.Completed = !t.Completed
	t.UpdatedAt = time.Now().UTC()
}
