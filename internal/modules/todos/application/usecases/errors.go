package usecases

import "errors"

// Validation and lookup errors surfaced to the presentation layer.
var (
	ErrEmptyContent   = errors.New("todo content is empty")
	ErrContentTooLong = errors.New("todo content is too long")
	ErrTooManyTodos   = errors.New("todo limit reached")
	ErrTodoNotFound   = errors.New("todo not found")
)
