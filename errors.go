package dbscan

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is matched by every *InvalidInputError via errors.Is.
	ErrInvalidInput = errors.New("dbscan: invalid input")

	// ErrNotFitted is returned when predictions or labels are requested
	// before a successful Fit.
	ErrNotFitted = errors.New("dbscan: engine is not fitted")
)

// InvalidInputError describes a dataset or hyperparameter rejected before
// any computation starts.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("dbscan: invalid %s: %s", e.Field, e.Reason)
}

// Is lets callers test with errors.Is(err, ErrInvalidInput).
func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

func invalidInput(field, format string, args ...any) error {
	return &InvalidInputError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
