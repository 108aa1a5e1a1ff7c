// Package service defines the backend-agnostic interface for todo operations.
package service

import "errors"

// ErrNotFound is returned when a todo does not exist on the backend.
var ErrNotFound = errors.New("not found")

// DetailedError is implemented by errors that carry the backend's own
// explanation of a failure, such as a validation message.
type DetailedError interface {
	error
	ErrorDetail() string
}

// ErrorDetail returns the backend's explanation carried by err, or "".
func ErrorDetail(err error) string {
	var de DetailedError
	if errors.As(err, &de) {
		return de.ErrorDetail()
	}
	return ""
}

// Todo represents a single todo item as returned by the API.
// ID is assigned by the server; the client never generates one.
// Extra server fields such as timestamps are ignored.
type Todo struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// NewTodo is the body sent when creating a todo.
type NewTodo struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// TodoUpdate is a partial todo. Nil fields are left out of the request body.
type TodoUpdate struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

// SetTitle returns a copy of u with Title set.
func (u TodoUpdate) SetTitle(title string) TodoUpdate {
	u.Title = &title
	return u
}

// SetDescription returns a copy of u with Description set.
func (u TodoUpdate) SetDescription(desc string) TodoUpdate {
	u.Description = &desc
	return u
}

// SetCompleted returns a copy of u with Completed set.
func (u TodoUpdate) SetCompleted(completed bool) TodoUpdate {
	u.Completed = &completed
	return u
}

// IsEmpty reports whether no field is set.
func (u TodoUpdate) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.Completed == nil
}

// Apply returns t with the set fields of u applied.
func (u TodoUpdate) Apply(t Todo) Todo {
	if u.Title != nil {
		t.Title = *u.Title
	}
	if u.Description != nil {
		t.Description = *u.Description
	}
	if u.Completed != nil {
		t.Completed = *u.Completed
	}
	return t
}
