package hash

import (
	//nolint:gosec
	"crypto/sha1"
	"hash"
	"strconv"

	"github.com/grafana/gitobject/protocol/object"
)

// Hasher is a running SHA-1 over a git object envelope.
type Hasher struct {
	hash.Hash
}

// Object computes the git-compatible identifier of an object. Git hashes a
// header followed by the content. The header format is "<type> <size>\0" where:
//   - <type> is the object type (commit, tree, blob, or tag)
//   - <size> is the size of the content in bytes
//   - \0 is a null byte
//
// For example, a blob containing "test" is hashed as:
//
//	"blob 4\0test"
//
// This is not the store-facing identity of an object, which is the plain Sum of
// its canonical encoding. It exists so objects can be matched against ids
// produced by git itself.
//
// For more details about Git's object format and internals, see:
// https://git-scm.com/book/en/v2/Git-Internals-Git-Objects
func Object(t object.Type, data []byte) Hash {
	h := NewHasher(t, int64(len(data)))
	_, _ = h.Write(data)
	return h.Digest()
}

// NewHasher creates a hasher with the object header already written, so the
// caller only needs to write the object content.
func NewHasher(t object.Type, size int64) Hasher {
	//nolint:gosec
	h := Hasher{Hash: sha1.New()}

	chunks := [][]byte{
		t.Bytes(),
		[]byte(" "),
		[]byte(strconv.FormatInt(size, 10)),
		{0},
	}

	// hash.Hash.Write never returns an error.
	for _, chunk := range chunks {
		_, _ = h.Hash.Write(chunk)
	}

	return h
}

// Digest returns the Hash of everything written so far.
func (h Hasher) Digest() Hash {
	var out Hash
	copy(out[:], h.Hash.Sum(nil))
	return out
}
