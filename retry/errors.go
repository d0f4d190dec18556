package retry

import (
	"context"
	"errors"
	"fmt"
	"syscall"
)

// ErrTemporary marks a failure that may succeed when attempted again.
var ErrTemporary = errors.New("temporary failure")

// TemporaryError wraps an error so that it matches ErrTemporary.
type TemporaryError struct {
	Err error
}

func (e *TemporaryError) Error() string {
	return fmt.Sprintf("%v: %v", ErrTemporary, e.Err)
}

func (e *TemporaryError) Unwrap() []error {
	return []error{ErrTemporary, e.Err}
}

// NewTemporaryError marks err as retryable.
func NewTemporaryError(err error) *TemporaryError {
	return &TemporaryError{Err: err}
}

// PermanentError stops Do immediately. Do returns the wrapped error, not the wrapper.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string {
	return e.Err.Error()
}

func (e *PermanentError) Unwrap() error {
	return e.Err
}

// Permanent marks err as final. It returns nil for a nil error.
func Permanent(err error) error {
	if err == nil {
		return nil
	}

	return &PermanentError{Err: err}
}

type timeout interface {
	Timeout() bool
}

// IsTransient reports whether err may go away on its own: errors marked
// with ErrTemporary, timeouts, and the errnos a busy or interrupted
// filesystem returns. Cancellation is never transient.
func IsTransient(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	case errors.Is(err, ErrTemporary):
		return true
	case errors.Is(err, syscall.EAGAIN), errors.Is(err, syscall.EBUSY), errors.Is(err, syscall.EINTR):
		return true
	}

	var t timeout
	return errors.As(err, &t) && t.Timeout()
}
