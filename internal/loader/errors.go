package loader

import (
	"errors"
	"fmt"
)

// ErrNoAnswers is returned by LoadAnswers when the answers file does not exist.
var ErrNoAnswers = errors.New("setup answers file not found")

// ParseError represents an invalid content or answers file.
type ParseError struct {
	File    string
	Message string
}

func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s: %s", e.File, e.Message)
	}
	return e.Message
}

// UnknownFieldError represents an unexpected top-level key in a dataset file.
type UnknownFieldError struct {
	File  string
	Field string
}

func (e *UnknownFieldError) Error() string {
	msg := fmt.Sprintf("unknown field %q in dataset, expected \"models\", \"objects\" or \"files\"", e.Field)
	if e.File != "" {
		return fmt.Sprintf("%s: %s", e.File, msg)
	}
	return msg
}
