package output

import (
	"io"

	"github.com/grafana/gitobject"
	"github.com/grafana/gitobject/protocol/hash"
	"github.com/grafana/gitobject/protocol/object"
)

// Formatter defines the interface for different output formats
type Formatter interface {
	// FormatInit reports a store created or reused at path
	FormatInit(path string, created bool) error

	// FormatHash reports the ids computed for an object
	FormatHash(result HashResult) error

	// FormatObjectInfo outputs the kind and size of an object
	FormatObjectInfo(id hash.Hash, kind object.Type, size int) error

	// FormatObject outputs a decoded object
	FormatObject(id hash.Hash, obj gitobject.Object) error

	// FormatTreeEntries outputs tree entries (files and directories)
	FormatTreeEntries(entries []gitobject.FlatTreeEntry) error

	// FormatVerify outputs the outcome of a verification walk
	FormatVerify(result VerifyResult) error

	// FormatCID outputs the content identifier of an object
	FormatCID(id, gitID hash.Hash, cid string) error

	// FormatSignature outputs the key that signed an object
	FormatSignature(id hash.Hash, keyType, fingerprint string) error
}

// HashResult describes the outcome of hash-object.
type HashResult struct {
	ID      hash.Hash
	GitID   hash.Hash
	Type    object.Type
	Size    int
	Written bool
	// ShowGitID prints the git id instead of the store id in human output
	ShowGitID bool
}

// VerifyResult describes the outcome of verify.
type VerifyResult struct {
	Objects int
	Errors  []error
}

// Get returns the appropriate formatter based on format type
func Get(format string, w io.Writer) Formatter {
	switch format {
	case "json":
		return NewJSONFormatter(w)
	default:
		return NewHumanFormatter(w)
	}
}
