// Package object holds the leaf codecs of the object model: the four object
// kinds, attribution signatures and tree entry modes. None of them depend on
// hashing or storage.
package object

import (
	"bytes"
	"fmt"
)

// Type represents an object kind. The values match the 3-bit type field git
// uses in pack files so they can be stored compactly by external layers.
type Type uint8

const (
	TypeInvalid Type = iota
	TypeCommit
	TypeTree
	TypeBlob
	TypeTag
)

// String is used in logs and error messages.
func (t Type) String() string {
	switch t {
	case TypeInvalid:
		return "OBJ_INVALID"
	case TypeCommit:
		return "OBJ_COMMIT"
	case TypeTree:
		return "OBJ_TREE"
	case TypeBlob:
		return "OBJ_BLOB"
	case TypeTag:
		return "OBJ_TAG"
	default:
		return fmt.Sprintf("object.Type(%d)", uint8(t))
	}
}

// Bytes returns the name of the type as it appears in object headers and in
// the "type" line of a tag, e.g. "commit", "tree", "blob".
func (t Type) Bytes() []byte {
	switch t {
	case TypeCommit:
		return []byte("commit")
	case TypeTree:
		return []byte("tree")
	case TypeBlob:
		return []byte("blob")
	case TypeTag:
		return []byte("tag")
	}
	return []byte("unknown")
}

// IsValid reports whether t is one of the four object kinds.
func (t Type) IsValid() bool {
	switch t {
	case TypeCommit, TypeTree, TypeBlob, TypeTag:
		return true
	default:
		return false
	}
}

// ParseType is the inverse of Type.Bytes.
func ParseType(b []byte) (Type, error) {
	for _, t := range []Type{TypeCommit, TypeTree, TypeBlob, TypeTag} {
		if bytes.Equal(b, t.Bytes()) {
			return t, nil
		}
	}

	return TypeInvalid, NewMalformedEncodingError("object type", fmt.Sprintf("unknown object type %q", b))
}
