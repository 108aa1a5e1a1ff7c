// Package service defines the backend-agnostic interface for todo operations.
package service

import "context"

// Service defines the interface for todo backend operations.
// Every REST call goes through this interface; the store never
// talks HTTP directly.
type Service interface {
	// ListTodos returns all todos in server order.
	ListTodos(ctx context.Context) ([]Todo, error)

	// CreateTodo creates a todo and returns it with its server-assigned ID.
	CreateTodo(ctx context.Context, todo NewTodo) (Todo, error)

	// UpdateTodo applies a partial update and returns the full updated todo.
	UpdateTodo(ctx context.Context, id int, updates TodoUpdate) (Todo, error)

	// DeleteTodo deletes a todo by ID.
	DeleteTodo(ctx context.Context, id int) error
}
