// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"todo/internal/service"
)

// Filter selects which todos FormatTodos prints.
type Filter int

const (
	All Filter = iota
	Open
	Done
)

// Match reports whether t passes the filter.
func (f Filter) Match(t service.Todo) bool {
	switch f {
	case Open:
		return !t.Completed
	case Done:
		return t.Completed
	default:
		return true
	}
}

// FormatTodo formats a single todo.
// Format: "{ID:>4}  [x] {TITLE}\n", followed by the description indented
// under the title when present.
func FormatTodo(w io.Writer, todo service.Todo) {
	box := "[ ]"
	if todo.Completed {
		box = "[x]"
	}
	fmt.Fprintf(w, "%4d  %s %s\n", todo.ID, box, normalizeTitle(todo.Title))
	if desc := normalizeLine(todo.Description); desc != "" {
		fmt.Fprintf(w, "          %s\n", desc)
	}
}

// FormatTodos prints the todos matching f and returns how many were printed.
func FormatTodos(w io.Writer, todos []service.Todo, f Filter) int {
	n := 0
	for _, t := range todos {
		if !f.Match(t) {
			continue
		}
		FormatTodo(w, t)
		n++
	}
	return n
}

// FormatSummary prints "{done}/{total} done".
func FormatSummary(w io.Writer, todos []service.Todo) {
	done := 0
	for _, t := range todos {
		if t.Completed {
			done++
		}
	}
	fmt.Fprintf(w, "%d/%d done\n", done, len(todos))
}

// normalizeTitle normalizes a todo title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = normalizeLine(title)
	if title == "" {
		return "(untitled)"
	}
	return title
}

func normalizeLine(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}
