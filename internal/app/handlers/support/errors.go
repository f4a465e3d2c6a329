package support

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks caller mistakes that a handler rejects before doing
// any work.
var ErrInvalidInput = errors.New("invalid input")

// Invalid wraps a formatted message with ErrInvalidInput.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
