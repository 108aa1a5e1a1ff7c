// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"sync"

	"todo/internal/service"
)

// Call records one request made to the FakeService.
type Call struct {
	Op      string
	ID      int
	NewTodo service.NewTodo
	Updates service.TodoUpdate
}

// notFoundError reads like the REST client's 404 and matches
// service.ErrNotFound.
type notFoundError struct{}

func (notFoundError) Error() string        { return "request failed with status code 404" }
func (notFoundError) Is(target error) bool { return target == service.ErrNotFound }

// FakeService is an in-memory implementation of service.Service for testing.
// IDs are assigned sequentially starting at 1.
type FakeService struct {
	mu     sync.RWMutex
	todos  []service.Todo
	nextID int
	calls  []Call

	// Error injection for testing
	ListTodosErr  error
	CreateTodoErr error
	UpdateTodoErr error
	DeleteTodoErr error
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{nextID: 1}
}

// AddTodo seeds a todo with the given fields, bypassing ID assignment.
func (f *FakeService) AddTodo(todo service.Todo) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.todos = append(f.todos, todo)
	if todo.ID >= f.nextID {
		f.nextID = todo.ID + 1
	}
}

// Todos returns a copy of the server-side todos.
func (f *FakeService) Todos() []service.Todo {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]service.Todo, len(f.todos))
	copy(out, f.todos)
	return out
}

// Calls returns the requests made so far, in order.
func (f *FakeService) Calls() []Call {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

func (f *FakeService) record(c Call) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
}

// ListTodos implements service.Service.
func (f *FakeService) ListTodos(ctx context.Context) ([]service.Todo, error) {
	f.record(Call{Op: "list"})
	if f.ListTodosErr != nil {
		return nil, f.ListTodosErr
	}
	return f.Todos(), nil
}

// CreateTodo implements service.Service.
func (f *FakeService) CreateTodo(ctx context.Context, todo service.NewTodo) (service.Todo, error) {
	f.record(Call{Op: "create", NewTodo: todo})
	if f.CreateTodoErr != nil {
		return service.Todo{}, f.CreateTodoErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	created := service.Todo{
		ID:          f.nextID,
		Title:       todo.Title,
		Description: todo.Description,
		Completed:   todo.Completed,
	}
	f.nextID++
	f.todos = append(f.todos, created)
	return created, nil
}

// UpdateTodo implements service.Service.
func (f *FakeService) UpdateTodo(ctx context.Context, id int, updates service.TodoUpdate) (service.Todo, error) {
	f.record(Call{Op: "update", ID: id, Updates: updates})
	if f.UpdateTodoErr != nil {
		return service.Todo{}, f.UpdateTodoErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, t := range f.todos {
		if t.ID == id {
			f.todos[i] = updates.Apply(t)
			return f.todos[i], nil
		}
	}
	return service.Todo{}, notFoundError{}
}

// DeleteTodo implements service.Service.
func (f *FakeService) DeleteTodo(ctx context.Context, id int) error {
	f.record(Call{Op: "delete", ID: id})
	if f.DeleteTodoErr != nil {
		return f.DeleteTodoErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, t := range f.todos {
		if t.ID == id {
			f.todos = append(f.todos[:i], f.todos[i+1:]...)
			return nil
		}
	}
	return notFoundError{}
}
