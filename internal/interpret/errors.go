package interpret

import (
	"errors"
	"fmt"
)

// ErrInvalidAmount is matched by validation failures on a requested total.
var ErrInvalidAmount = errors.New("invalid amount")

// ValidationError reports a caller contract violation.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s=%q: %s", e.Field, e.Value, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
