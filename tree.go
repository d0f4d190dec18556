package gitobject

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"github.com/grafana/gitobject/protocol/hash"
	"github.com/grafana/gitobject/protocol/object"
)

// TreeEntry is one named child of a tree: a mode, a name and the id of the
// object it points at.
//
// Its encoding is the octal mode, a space, the name, a NUL byte and the 20
// raw bytes of the id:
//
//	100644 hello-world\x00<20 bytes>
type TreeEntry struct {
	Mode object.Mode
	Name string
	ID   hash.Hash
}

// NewTreeEntry validates and returns a tree entry.
func NewTreeEntry(mode object.Mode, name string, id hash.Hash) (TreeEntry, error) {
	if !mode.IsValid() {
		return TreeEntry{}, object.NewInvalidTreeItemError(mode.String())
	}
	if err := validateEntryName(name); err != nil {
		return TreeEntry{}, err
	}

	return TreeEntry{Mode: mode, Name: name, ID: id}, nil
}

// validateEntryName rejects names that cannot round-trip through the entry encoding.
func validateEntryName(name string) error {
	switch {
	case name == "":
		return NewInvalidPathError(name, "tree entry name cannot be empty")
	case name == "." || name == "..":
		return NewInvalidPathError(name, "tree entry name cannot be a relative reference")
	case strings.ContainsRune(name, '/'):
		return NewInvalidPathError(name, "tree entry name cannot contain a slash")
	case strings.ContainsRune(name, 0):
		return NewInvalidPathError(name, "tree entry name cannot contain a NUL byte")
	}

	return nil
}

// Type is the kind of object the entry points at, derived from its mode.
func (e TreeEntry) Type() object.Type {
	return e.Mode.Type()
}

// IsTree reports whether the entry is a subdirectory.
func (e TreeEntry) IsTree() bool {
	return e.Mode == object.ModeTree
}

// Bytes returns the canonical encoding of the entry.
func (e TreeEntry) Bytes() []byte {
	buf := make([]byte, 0, e.size())
	return e.appendTo(buf)
}

func (e TreeEntry) appendTo(buf []byte) []byte {
	buf = append(buf, e.Mode.Bytes()...)
	buf = append(buf, ' ')
	buf = append(buf, e.Name...)
	buf = append(buf, 0)
	return append(buf, e.ID[:]...)
}

func (e TreeEntry) size() int {
	return len(e.Mode.Bytes()) + 1 + len(e.Name) + 1 + hash.Size
}

// String formats the entry the way ls-tree does: "<mode> <type> <id>\t<name>".
func (e TreeEntry) String() string {
	return fmt.Sprintf("%06o %s %s\t%s", uint32(e.Mode), e.Type().Bytes(), e.ID, e.Name)
}

// DecodeTreeEntry decodes one entry starting at buf[offset]. It returns the
// entry and the offset just past it.
func DecodeTreeEntry(buf []byte, offset int) (TreeEntry, int, error) {
	if offset < 0 || offset >= len(buf) {
		return TreeEntry{}, offset, object.NewTruncatedError("tree entry", fmt.Sprintf("offset %d outside of %d bytes", offset, len(buf)))
	}
	rest := buf[offset:]

	space := bytes.IndexByte(rest, ' ')
	if space < 0 {
		return TreeEntry{}, offset, object.NewMalformedEncodingError("tree entry", "missing space after mode")
	}

	mode, err := object.ParseMode(rest[:space])
	if err != nil {
		return TreeEntry{}, offset, err
	}

	nameStart := space + 1
	nul := bytes.IndexByte(rest[nameStart:], 0)
	if nul < 0 {
		return TreeEntry{}, offset, object.NewTruncatedError("tree entry", "missing NUL after name")
	}

	name := string(rest[nameStart : nameStart+nul])
	if err := validateEntryName(name); err != nil {
		return TreeEntry{}, offset, object.WrapMalformedEncodingError("tree entry", "invalid name", err)
	}

	idStart := nameStart + nul + 1
	if len(rest)-idStart < hash.Size {
		return TreeEntry{}, offset, object.NewTruncatedError("tree entry", fmt.Sprintf("need %d id bytes, have %d", hash.Size, len(rest)-idStart))
	}

	id, err := hash.FromBytes(rest[idStart : idStart+hash.Size])
	if err != nil {
		return TreeEntry{}, offset, object.WrapMalformedEncodingError("tree entry", "invalid id", err)
	}

	return TreeEntry{Mode: mode, Name: name, ID: id}, offset + idStart + hash.Size, nil
}

// Tree is an ordered list of entries. Its id is the hash of its encoding.
//
// Trees built with NewTree or decoded with DecodeTreeVerified know their id.
// Trees decoded with DecodeTree do not: ID returns the zero hash for them, and
// callers that need the id compute it with ComputeID.
type Tree struct {
	id      hash.Hash
	entries []TreeEntry
}

// NewTree builds a tree from entries, in the order given, and computes its id.
// Use SortEntries first to produce git's canonical order.
func NewTree(entries []TreeEntry) (*Tree, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyTreeItems
	}

	owned := make([]TreeEntry, len(entries))
	for i, entry := range entries {
		checked, err := NewTreeEntry(entry.Mode, entry.Name, entry.ID)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		owned[i] = checked
	}

	tree := &Tree{entries: owned}
	tree.id = hash.Sum(tree.Bytes())

	return tree, nil
}

// DecodeTree decodes a concatenation of tree entries. Empty input is a valid,
// empty tree. The returned tree carries no id.
func DecodeTree(data []byte) (*Tree, error) {
	entries := make([]TreeEntry, 0)
	for offset := 0; offset < len(data); {
		entry, next, err := DecodeTreeEntry(data, offset)
		if err != nil {
			return nil, fmt.Errorf("tree entry %d: %w", len(entries), err)
		}
		entries = append(entries, entry)
		offset = next
	}

	return &Tree{entries: entries}, nil
}

// DecodeTreeVerified decodes data and checks that it hashes to expected. On
// success the tree carries expected as its id.
func DecodeTreeVerified(expected hash.Hash, data []byte) (*Tree, error) {
	if actual := hash.Sum(data); !actual.Is(expected) {
		return nil, NewHashMismatchError(expected, actual)
	}

	tree, err := DecodeTree(data)
	if err != nil {
		return nil, err
	}
	tree.id = expected

	return tree, nil
}

// ID returns the id of the tree, or the zero hash for an unverified decode.
func (t *Tree) ID() hash.Hash {
	return t.id
}

// Entries returns a copy of the entries in encoding order.
func (t *Tree) Entries() []TreeEntry {
	return slices.Clone(t.entries)
}

// Len returns the number of entries.
func (t *Tree) Len() int {
	return len(t.entries)
}

// Entry returns the i-th entry.
func (t *Tree) Entry(i int) TreeEntry {
	return t.entries[i]
}

// Find returns the entry with the given name.
func (t *Tree) Find(name string) (TreeEntry, bool) {
	for _, entry := range t.entries {
		if entry.Name == name {
			return entry, true
		}
	}

	return TreeEntry{}, false
}

func (t *Tree) Type() object.Type {
	return object.TypeTree
}

// Bytes returns the concatenated entry encodings.
func (t *Tree) Bytes() []byte {
	buf := make([]byte, 0, t.Size())
	for _, entry := range t.entries {
		buf = entry.appendTo(buf)
	}

	return buf
}

func (t *Tree) Size() int {
	size := 0
	for _, entry := range t.entries {
		size += entry.size()
	}

	return size
}

// SortEntries orders entries the way git does: by name, comparing
// subdirectory names as if they ended with a slash.
func SortEntries(entries []TreeEntry) {
	slices.SortStableFunc(entries, func(a, b TreeEntry) int {
		return strings.Compare(sortKey(a), sortKey(b))
	})
}

// IsSorted reports whether entries are in the order SortEntries produces.
func IsSorted(entries []TreeEntry) bool {
	return slices.IsSortedFunc(entries, func(a, b TreeEntry) int {
		return strings.Compare(sortKey(a), sortKey(b))
	})
}

func sortKey(e TreeEntry) string {
	if e.IsTree() {
		return e.Name + "/"
	}

	return e.Name
}
