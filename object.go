package gitobject

import (
	"fmt"

	"github.com/grafana/gitobject/protocol/hash"
	"github.com/grafana/gitobject/protocol/object"
)

// Object is the contract shared by blobs, trees, commits and tags.
//
// Bytes returns the canonical encoding, with no type or size header. Two
// objects with equal encodings are the same object.
type Object interface {
	Type() object.Type
	Bytes() []byte
	Size() int
}

var (
	_ Object = (*Blob)(nil)
	_ Object = (*Tree)(nil)
	_ Object = (*Commit)(nil)
	_ Object = (*Tag)(nil)
)

// validator is implemented by objects whose fields can be set to values
// that would not survive an encode and decode cycle.
type validator interface {
	Validate() error
}

// ComputeID returns the id under which obj is stored: the hash of its encoding.
func ComputeID(obj Object) hash.Hash {
	return hash.Sum(obj.Bytes())
}

// GitID returns the id git itself would assign to obj, which hashes a
// "<type> <size>\x00" header in front of the encoding.
func GitID(obj Object) hash.Hash {
	return hash.Object(obj.Type(), obj.Bytes())
}

// DecodeObject decodes data as an object of kind t without checking its id.
func DecodeObject(t object.Type, data []byte) (Object, error) {
	switch t {
	case object.TypeBlob:
		return DecodeBlob(data)
	case object.TypeTree:
		return DecodeTree(data)
	case object.TypeCommit:
		return DecodeCommit(data)
	case object.TypeTag:
		return DecodeTag(data)
	default:
		return nil, object.NewMalformedEncodingError("object", fmt.Sprintf("cannot decode object of type %s", t))
	}
}

// DecodeObjectVerified decodes data and checks that it hashes to expected.
func DecodeObjectVerified(t object.Type, expected hash.Hash, data []byte) (Object, error) {
	if t == object.TypeTree {
		return DecodeTreeVerified(expected, data)
	}

	if actual := hash.Sum(data); !actual.Is(expected) {
		return nil, NewHashMismatchError(expected, actual)
	}

	return DecodeObject(t, data)
}
