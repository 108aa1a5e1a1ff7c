package devserver

import (
	"errors"
	"strings"
	"unicode/utf8"

	"todo/internal/service"
)

const (
	maxTitleLength       = 255
	maxDescriptionLength = 500
)

var (
	errInvalidTitle       = errors.New("Invalid title. Must be 1-255 characters")
	errInvalidDescription = errors.New("Invalid description. Max 500 characters")
)

// normalizeNew trims and validates a create request.
func normalizeNew(todo service.NewTodo) (service.NewTodo, error) {
	title, err := normalizeTitle(todo.Title)
	if err != nil {
		return service.NewTodo{}, err
	}
	desc, err := normalizeDescription(todo.Description)
	if err != nil {
		return service.NewTodo{}, err
	}
	return service.NewTodo{Title: title, Description: desc, Completed: todo.Completed}, nil
}

// normalizeUpdate trims and validates the set fields of an update.
func normalizeUpdate(u service.TodoUpdate) (service.TodoUpdate, error) {
	if u.Title != nil {
		title, err := normalizeTitle(*u.Title)
		if err != nil {
			return service.TodoUpdate{}, err
		}
		u = u.SetTitle(title)
	}
	if u.Description != nil {
		desc, err := normalizeDescription(*u.Description)
		if err != nil {
			return service.TodoUpdate{}, err
		}
		u = u.SetDescription(desc)
	}
	return u, nil
}

func normalizeTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if n := utf8.RuneCountInString(title); n < 1 || n > maxTitleLength {
		return "", errInvalidTitle
	}
	return title, nil
}

func normalizeDescription(desc string) (string, error) {
	desc = strings.TrimSpace(desc)
	if utf8.RuneCountInString(desc) > maxDescriptionLength {
		return "", errInvalidDescription
	}
	return desc, nil
}
