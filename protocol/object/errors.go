package object

import (
	"errors"
	"fmt"
	"io"
)

var (
	// ErrInvalidSignatureType is returned when a signature role is not author, committer or tagger.
	ErrInvalidSignatureType = errors.New("invalid signature type")

	// ErrInvalidTreeItem is returned when a tree entry mode is not one of the recognized modes.
	ErrInvalidTreeItem = errors.New("invalid tree item mode")

	// ErrMalformedEncoding is returned when an encoded object is missing a delimiter,
	// is truncated, or carries a field that cannot be parsed.
	ErrMalformedEncoding = errors.New("malformed object encoding")
)

// InvalidSignatureTypeError provides structured information about an unknown signature role.
// It supports errors.Is/As for the underlying ErrInvalidSignatureType.
type InvalidSignatureTypeError struct {
	Role string
	Err  error
}

func (e *InvalidSignatureTypeError) Error() string {
	return fmt.Sprintf("signature type %q: %v", e.Role, e.Err)
}

func (e *InvalidSignatureTypeError) Unwrap() error {
	return e.Err
}

// NewInvalidSignatureTypeError creates a new InvalidSignatureTypeError for the given role text.
func NewInvalidSignatureTypeError(role string) *InvalidSignatureTypeError {
	return &InvalidSignatureTypeError{
		Role: role,
		Err:  ErrInvalidSignatureType,
	}
}

// InvalidTreeItemError provides structured information about an unknown tree entry mode.
// It supports errors.Is/As for the underlying ErrInvalidTreeItem.
type InvalidTreeItemError struct {
	Mode string
	Err  error
}

func (e *InvalidTreeItemError) Error() string {
	return fmt.Sprintf("tree item mode %q: %v", e.Mode, e.Err)
}

func (e *InvalidTreeItemError) Unwrap() error {
	return e.Err
}

// NewInvalidTreeItemError creates a new InvalidTreeItemError for the given mode text.
func NewInvalidTreeItemError(mode string) *InvalidTreeItemError {
	return &InvalidTreeItemError{
		Mode: mode,
		Err:  ErrInvalidTreeItem,
	}
}

// MalformedEncodingError describes where and why decoding failed.
// It supports errors.Is for ErrMalformedEncoding and for the cause, if any.
type MalformedEncodingError struct {
	// Subject is what was being decoded, e.g. "signature" or "tree entry".
	Subject string
	Reason  string
	Cause   error
}

func (e *MalformedEncodingError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed %s: %s: %v", e.Subject, e.Reason, e.Cause)
	}
	return fmt.Sprintf("malformed %s: %s", e.Subject, e.Reason)
}

func (e *MalformedEncodingError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrMalformedEncoding, e.Cause}
	}
	return []error{ErrMalformedEncoding}
}

// NewMalformedEncodingError creates a MalformedEncodingError without an underlying cause.
func NewMalformedEncodingError(subject, reason string) *MalformedEncodingError {
	return &MalformedEncodingError{Subject: subject, Reason: reason}
}

// WrapMalformedEncodingError creates a MalformedEncodingError around a lower level error.
func WrapMalformedEncodingError(subject, reason string, cause error) *MalformedEncodingError {
	return &MalformedEncodingError{Subject: subject, Reason: reason, Cause: cause}
}

// NewTruncatedError reports that input ended before a complete value was read.
// The result matches both ErrMalformedEncoding and io.ErrUnexpectedEOF.
func NewTruncatedError(subject, reason string) *MalformedEncodingError {
	return WrapMalformedEncodingError(subject, reason, io.ErrUnexpectedEOF)
}
