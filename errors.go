package gitobject

import (
	"errors"
	"fmt"

	"github.com/grafana/gitobject/protocol/hash"
	"github.com/grafana/gitobject/protocol/object"
	"github.com/grafana/gitobject/storage"
)

var (
	// ErrEmptyTreeItems is returned when a tree is built from zero entries.
	ErrEmptyTreeItems = errors.New("tree has no entries")

	// ErrHashMismatch is returned when the id computed from decoded bytes
	// differs from the id the caller expected.
	ErrHashMismatch = errors.New("object hash mismatch")

	// ErrUnexpectedObjectType is returned when a requested object is not of the expected type.
	ErrUnexpectedObjectType = errors.New("unexpected object type")

	// ErrInvalidPath is returned when a path cannot address a tree entry.
	ErrInvalidPath = errors.New("invalid path")

	// ErrObjectNotFound is returned when a requested object does not exist in the store.
	ErrObjectNotFound = storage.ErrObjectNotFound

	// ErrObjectAlreadyExists is returned when different bytes are written under an existing id.
	ErrObjectAlreadyExists = storage.ErrObjectAlreadyExists

	// ErrMalformedHash is returned when a hash is built from input of the wrong width or alphabet.
	ErrMalformedHash = hash.ErrMalformedHash

	// ErrInvalidSignatureType is returned for a signature role other than author, committer or tagger.
	ErrInvalidSignatureType = object.ErrInvalidSignatureType

	// ErrInvalidTreeItem is returned for an unrecognized tree entry mode.
	ErrInvalidTreeItem = object.ErrInvalidTreeItem

	// ErrMalformedEncoding is returned when encoded bytes cannot be decoded.
	ErrMalformedEncoding = object.ErrMalformedEncoding
)

// HashMismatchError provides structured information about an integrity failure.
// It implements the error interface and supports errors.Is/As for the underlying ErrHashMismatch.
type HashMismatchError struct {
	Expected hash.Hash
	Actual   hash.Hash
	Err      error
}

func (e *HashMismatchError) Error() string {
	return fmt.Sprintf("expected %s but content hashes to %s: %v", e.Expected, e.Actual, e.Err)
}

func (e *HashMismatchError) Unwrap() error {
	return e.Err
}

// NewHashMismatchError creates a new HashMismatchError.
func NewHashMismatchError(expected, actual hash.Hash) *HashMismatchError {
	return &HashMismatchError{
		Expected: expected,
		Actual:   actual,
		Err:      ErrHashMismatch,
	}
}

// UnexpectedObjectTypeError provides structured information about an object with an unexpected type.
// It implements the error interface and supports errors.Is/As for the underlying ErrUnexpectedObjectType.
type UnexpectedObjectTypeError struct {
	ObjectID     hash.Hash
	ExpectedType object.Type
	ActualType   object.Type
	Err          error
}

func (e *UnexpectedObjectTypeError) Error() string {
	return fmt.Sprintf("object %s has unexpected type %s (expected %s): %v",
		e.ObjectID, e.ActualType, e.ExpectedType, e.Err)
}

func (e *UnexpectedObjectTypeError) Unwrap() error {
	return e.Err
}

// NewUnexpectedObjectTypeError creates a new UnexpectedObjectTypeError with the specified details.
func NewUnexpectedObjectTypeError(id hash.Hash, expectedType, actualType object.Type) *UnexpectedObjectTypeError {
	return &UnexpectedObjectTypeError{
		ObjectID:     id,
		ExpectedType: expectedType,
		ActualType:   actualType,
		Err:          ErrUnexpectedObjectType,
	}
}

// InvalidPathError provides structured information about a rejected path.
// It implements the error interface and supports errors.Is/As for the underlying ErrInvalidPath.
type InvalidPathError struct {
	Path   string
	Reason string
	Err    error
}

func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("path %q: %s: %v", e.Path, e.Reason, e.Err)
}

func (e *InvalidPathError) Unwrap() error {
	return e.Err
}

// NewInvalidPathError creates a new InvalidPathError.
func NewInvalidPathError(path, reason string) *InvalidPathError {
	return &InvalidPathError{
		Path:   path,
		Reason: reason,
		Err:    ErrInvalidPath,
	}
}

// ErrPathNotFound is returned when a path does not resolve to an entry of a tree.
var ErrPathNotFound = errors.New("path not found")

// PathNotFoundError provides structured information about a path missing from a tree.
// It implements the error interface and supports errors.Is/As for the underlying ErrPathNotFound.
type PathNotFoundError struct {
	Path string
	Err  error
}

func (e *PathNotFoundError) Error() string {
	return fmt.Sprintf("path %q: %v", e.Path, e.Err)
}

func (e *PathNotFoundError) Unwrap() error {
	return e.Err
}

// NewPathNotFoundError creates a new PathNotFoundError.
func NewPathNotFoundError(path string) *PathNotFoundError {
	return &PathNotFoundError{
		Path: path,
		Err:  ErrPathNotFound,
	}
}
