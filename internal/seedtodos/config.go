package seedtodos

import "time"

// Config holds configuration for a seeding run.
type Config struct {
	BaseURL  string        // Base URL of the service
	NumTodos int           // Number of todos to generate
	Workers  int           // Number of concurrent workers
	Timeout  time.Duration // HTTP request timeout
	Verify   bool          // Exercise a full CRUD cycle after seeding
	Verbose  bool          // Enable verbose logging
}

// Todo mirrors the API wire representation.
type Todo struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Completed bool   `json:"completed"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// CreateRequest mirrors the POST /api/todos body.
type CreateRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Envelope mirrors the uniform API response wrapper.
type Envelope struct {
	Success bool    `json:"success"`
	Error   *string `json:"error"`
}

// TodoEnvelope carries a single todo payload.
type TodoEnvelope struct {
	Envelope
	Data Todo `json:"data"`
}

// ListEnvelope carries a todo list payload.
type ListEnvelope struct {
	Envelope
	Data []Todo `json:"data"`
}

// Stats holds seeding run statistics.
type Stats struct {
	TodosGenerated  int
	TodosSubmitted  int
	TodosSuccessful int
	TodosFailed     int
	ListedTotal     int
	StartTime       time.Time
	EndTime         time.Time
	Duration        time.Duration
}
