// Package hash implements the identifier every object is addressed by: a
// fixed-width SHA-1 digest of the object's canonical encoding.
//
// Hash is an array, not a slice, so it is comparable and can be used directly
// as a map key by object stores.
package hash

import (
	"bytes"
	//nolint:gosec // the object model is defined over SHA-1.
	"crypto/sha1"
	"encoding/hex"
)

const (
	// Size is the width of a Hash in bytes.
	Size = sha1.Size
	// HexSize is the width of a Hash rendered as hexadecimal text.
	HexSize = Size * 2
)

// Hash is a SHA-1 object identifier.
type Hash [Size]byte

// Zero is the all-zero hash. Decoded objects whose identity has not been
// established carry it.
var Zero Hash

// Sum computes the identifier of data.
func Sum(data []byte) Hash {
	//nolint:gosec
	return Hash(sha1.Sum(data))
}

// FromBytes reinterprets exactly Size raw bytes as a Hash.
func FromBytes(b []byte) (Hash, error) {
	if len(b) != Size {
		return Zero, newMalformedHashError(hex.EncodeToString(b), "expected 20 raw bytes")
	}

	var h Hash
	copy(h[:], b)
	return h, nil
}

// FromHex parses a 40 character hexadecimal string. Upper and lower case
// digits are accepted.
func FromHex(hs string) (Hash, error) {
	if len(hs) != HexSize {
		return Zero, newMalformedHashError(hs, "expected 40 hex characters")
	}

	var h Hash
	if _, err := hex.Decode(h[:], []byte(hs)); err != nil {
		return Zero, newMalformedHashError(hs, err.Error())
	}
	return h, nil
}

// MustFromHex is like FromHex but panics on malformed input. Only use it for
// constants and tests.
func MustFromHex(hs string) Hash {
	h, err := FromHex(hs)
	if err != nil {
		panic(err)
	}
	return h
}

// String returns the lowercase hexadecimal form of the hash.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// Bytes returns a copy of the raw digest.
func (h Hash) Bytes() []byte {
	b := make([]byte, Size)
	copy(b, h[:])
	return b
}

func (h Hash) Is(other Hash) bool {
	return h == other
}

func (h Hash) IsZero() bool {
	return h == Zero
}

// Compare orders hashes byte-wise. It returns -1, 0 or +1.
func (h Hash) Compare(other Hash) int {
	return bytes.Compare(h[:], other[:])
}

// MarshalText implements encoding.TextMarshaler.
func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (h *Hash) UnmarshalText(text []byte) error {
	parsed, err := FromHex(string(text))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}
