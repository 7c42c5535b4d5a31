package service

import (
	"errors"
	"fmt"
)

var (
	// ErrConversationNotFound is returned when no conversation exists for an id.
	ErrConversationNotFound = errors.New("conversation not found")
	// ErrPersonaNotFound is returned when a persona id matches no configured persona.
	ErrPersonaNotFound = errors.New("persona not found")
)

// ValidationError represents a validation error with a field name.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}
