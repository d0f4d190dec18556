package storage

import (
	"errors"
	"fmt"

	"github.com/grafana/gitobject/protocol/hash"
)

var (
	// ErrObjectNotFound is returned when a key is not present in a store.
	ErrObjectNotFound = errors.New("object not found")

	// ErrObjectAlreadyExists is returned when different bytes are written under a key that is already taken.
	ErrObjectAlreadyExists = errors.New("object already exists")
)

// ObjectNotFoundError provides structured information about a missing object.
// It implements the error interface and supports errors.Is/As for the underlying ErrObjectNotFound.
type ObjectNotFoundError struct {
	ObjectID hash.Hash
	Err      error
}

func (e *ObjectNotFoundError) Error() string {
	return fmt.Sprintf("object %s not found: %v", e.ObjectID, e.Err)
}

func (e *ObjectNotFoundError) Unwrap() error {
	return e.Err
}

// NewObjectNotFoundError creates a new ObjectNotFoundError with the specified object ID.
func NewObjectNotFoundError(id hash.Hash) *ObjectNotFoundError {
	return &ObjectNotFoundError{
		ObjectID: id,
		Err:      ErrObjectNotFound,
	}
}

// ObjectAlreadyExistsError provides structured information about a conflicting write.
// It implements the error interface and supports errors.Is/As for the underlying ErrObjectAlreadyExists.
type ObjectAlreadyExistsError struct {
	ObjectID hash.Hash
	Err      error
}

func (e *ObjectAlreadyExistsError) Error() string {
	return fmt.Sprintf("object %s already exists with different content: %v", e.ObjectID, e.Err)
}

func (e *ObjectAlreadyExistsError) Unwrap() error {
	return e.Err
}

// NewObjectAlreadyExistsError creates a new ObjectAlreadyExistsError with the specified object ID.
func NewObjectAlreadyExistsError(id hash.Hash) *ObjectAlreadyExistsError {
	return &ObjectAlreadyExistsError{
		ObjectID: id,
		Err:      ErrObjectAlreadyExists,
	}
}
