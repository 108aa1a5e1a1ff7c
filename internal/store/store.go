// Package store mirrors the remote todo list in observable containers.
//
// A Store holds three reactive values (the todo list, a loading flag and
// the last error message) and five operations that call the backend and
// update those values from the response. Local state only changes after
// the server confirms a request. Failures are never returned: each
// operation writes the failure message to Error, logs it and returns.
package store

import (
	"context"
	"errors"
	"sync"

	"github.com/charmbracelet/log"

	"todo/internal/reactive"
	"todo/internal/service"
)

// Store is the client-side mirror of the todos resource.
type Store struct {
	// Todos is the list in server order, with created todos appended.
	Todos *reactive.Value[[]service.Todo]

	// Loading is true only while FetchTodos is waiting on the server.
	Loading *reactive.Value[bool]

	// Error is the message of the last failed request. Empty means none.
	Error *reactive.Value[string]

	svc    service.Service
	logger *log.Logger

	mu   sync.Mutex
	last Failure
}

// Failure describes the most recent failed operation. Message is the value
// written to Error.
type Failure struct {
	Op      string
	Message string

	// Detail is the backend's explanation, if it gave one.
	Detail string

	// NotFound is true when the backend reported the todo missing.
	NotFound bool
}

// New creates a Store with an empty list, Loading false and no error.
func New(svc service.Service, logger *log.Logger) *Store {
	return &Store{
		Todos:   reactive.New([]service.Todo{}),
		Loading: reactive.New(false),
		Error:   reactive.New(""),
		svc:     svc,
		logger:  logger,
	}
}

// FetchTodos replaces Todos with the server's list.
// Loading is true for the duration of the request.
func (s *Store) FetchTodos(ctx context.Context) {
	s.Loading.Set(true)
	s.Error.Set("")
	s.setLast(Failure{})
	defer s.Loading.Set(false)

	todos, err := s.svc.ListTodos(ctx)
	if err != nil {
		s.fail("Error fetching todos", "fetchTodos", err)
		return
	}
	s.Todos.Set(todos)
}

// AddTodo creates a todo and appends the server's copy to Todos.
// It reports false if the request failed.
func (s *Store) AddTodo(ctx context.Context, title, description string) (service.Todo, bool) {
	created, err := s.svc.CreateTodo(ctx, service.NewTodo{
		Title:       title,
		Description: description,
		Completed:   false,
	})
	if err != nil {
		s.fail("Error adding todo", "addTodo", err)
		return service.Todo{}, false
	}

	s.Todos.Update(func(todos []service.Todo) []service.Todo {
		next := make([]service.Todo, 0, len(todos)+1)
		next = append(next, todos...)
		return append(next, created)
	})
	return created, true
}

// UpdateTodo sends updates for id and replaces the matching entry in Todos
// with the server's copy. Other entries keep their position.
// It reports false if the request failed.
func (s *Store) UpdateTodo(ctx context.Context, id int, updates service.TodoUpdate) (service.Todo, bool) {
	updated, err := s.svc.UpdateTodo(ctx, id, updates)
	if err != nil {
		s.fail("Error updating todo", "updateTodo", err, "id", id)
		return service.Todo{}, false
	}

	s.Todos.Update(func(todos []service.Todo) []service.Todo {
		next := make([]service.Todo, len(todos))
		for i, t := range todos {
			if t.ID == id {
				next[i] = updated
			} else {
				next[i] = t
			}
		}
		return next
	})
	return updated, true
}

// DeleteTodo deletes id on the server and removes it from Todos.
// An id missing from Todos leaves the list unchanged.
// It reports false if the request failed.
func (s *Store) DeleteTodo(ctx context.Context, id int) bool {
	if err := s.svc.DeleteTodo(ctx, id); err != nil {
		s.fail("Error deleting todo", "deleteTodo", err, "id", id)
		return false
	}

	s.Todos.Update(func(todos []service.Todo) []service.Todo {
		next := make([]service.Todo, 0, len(todos))
		for _, t := range todos {
			if t.ID != id {
				next = append(next, t)
			}
		}
		return next
	})
	return true
}

// ToggleTodo flips completion: it sends completed = !completed.
func (s *Store) ToggleTodo(ctx context.Context, id int, completed bool) (service.Todo, bool) {
	return s.UpdateTodo(ctx, id, service.TodoUpdate{}.SetCompleted(!completed))
}

// Find returns the todo with id from the current list.
func (s *Store) Find(id int) (service.Todo, bool) {
	for _, t := range s.Todos.Get() {
		if t.ID == id {
			return t, true
		}
	}
	return service.Todo{}, false
}

// LastFailure returns the most recent failure. It is cleared with Error
// when a fetch starts.
func (s *Store) LastFailure() Failure {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func (s *Store) setLast(f Failure) {
	s.mu.Lock()
	s.last = f
	s.mu.Unlock()
}

func (s *Store) fail(msg, op string, err error, keyvals ...any) {
	f := Failure{
		Op:       op,
		Message:  err.Error(),
		Detail:   service.ErrorDetail(err),
		NotFound: errors.Is(err, service.ErrNotFound),
	}
	s.setLast(f)
	s.Error.Set(f.Message)

	kv := []any{"op", op, "err", err}
	if f.Detail != "" {
		kv = append(kv, "detail", f.Detail)
	}
	s.logger.Error(msg, append(kv, keyvals...)...)
}
