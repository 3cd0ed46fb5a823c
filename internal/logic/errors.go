package logic

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is matched by every *InputError via errors.Is
var ErrInvalidInput = errors.New("invalid input")

// ErrVerdictReversed is returned when a later verdict contradicts a settled one
var ErrVerdictReversed = errors.New("verdict reversed")

// InputError describes a malformed snapshot or request
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
}

func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}

func invalid(field, format string, args ...any) error {
	return &InputError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
