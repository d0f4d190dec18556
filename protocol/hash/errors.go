package hash

import (
	"errors"
	"fmt"
)

// ErrMalformedHash is returned when raw bytes or hex text cannot be turned into a Hash.
// This error should only be used with errors.Is() for comparison, not for type assertions.
var ErrMalformedHash = errors.New("malformed hash")

// MalformedHashError provides structured information about rejected hash input.
type MalformedHashError struct {
	Input  string
	Reason string
	Err    error
}

func (e *MalformedHashError) Error() string {
	return fmt.Sprintf("malformed hash %q: %s", e.Input, e.Reason)
}

func (e *MalformedHashError) Unwrap() error {
	return e.Err
}

func newMalformedHashError(input, reason string) *MalformedHashError {
	return &MalformedHashError{
		Input:  input,
		Reason: reason,
		Err:    ErrMalformedHash,
	}
}
