// Package devserver serves the todos REST API for local development and tests.
package devserver

import (
	"context"
	"errors"
	"time"

	"todo/internal/service"
)

// ErrTodoNotFound is returned by repositories for unknown IDs.
var ErrTodoNotFound = errors.New("todo not found")

// Record is a stored todo with server-side metadata.
type Record struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Todo returns the client view of r.
func (r Record) Todo() service.Todo {
	return service.Todo{ID: r.ID, Title: r.Title, Description: r.Description, Completed: r.Completed}
}

// Repository stores todos. Implementations must be safe for concurrent use.
type Repository interface {
	// List returns all todos in creation order.
	List(ctx context.Context) ([]Record, error)

	// Get returns a todo by ID.
	Get(ctx context.Context, id int) (Record, error)

	// Create stores a new todo and assigns its ID.
	Create(ctx context.Context, todo service.NewTodo) (Record, error)

	// Update applies a partial update and bumps UpdatedAt.
	Update(ctx context.Context, id int, updates service.TodoUpdate) (Record, error)

	// Delete removes a todo by ID.
	Delete(ctx context.Context, id int) error

	// Close releases resources held by the repository.
	Close() error
}

// Stats summarises the stored todos.
type Stats struct {
	Total          int     `json:"total"`
	Completed      int     `json:"completed"`
	Pending        int     `json:"pending"`
	CompletionRate float64 `json:"completion_rate"`
}

// ComputeStats counts records. CompletionRate is a percentage rounded to
// two decimal places, 0 when there are no todos.
func ComputeStats(records []Record) Stats {
	s := Stats{Total: len(records)}
	for _, r := range records {
		if r.Completed {
			s.Completed++
		}
	}
	s.Pending = s.Total - s.Completed
	if s.Total > 0 {
		rate := float64(s.Completed) / float64(s.Total) * 100
		s.CompletionRate = float64(int64(rate*100+0.5)) / 100
	}
	return s
}
