// Package apperr defines the error kinds surfaced by catalog writes and reads.
// Callers match them with errors.Is; the concrete error carries the detail.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrUniqueness    = errors.New("uniqueness violation")
	ErrReferential   = errors.New("referential violation")
	ErrValidation    = errors.New("validation failure")
	ErrCycleDetected = errors.New("cycle detected")
	ErrConstraint    = errors.New("constraint violation")
)

// Wrap attaches a formatted message to one of the error kinds.
func Wrap(kind error, format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), kind)
}

func NotFound(entity, id string) error {
	return Wrap(ErrNotFound, "%s %q", entity, id)
}
