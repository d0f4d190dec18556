package object

import (
	"fmt"
	"strconv"
)

// Mode is the permission and type field of a tree entry. Only five values
// are valid; their numeric value is the octal mode git records.
//
//	|0100000000000000| (040000)| Directory|
//	|1000000110100100| (100644)| Regular non-executable file|
//	|1000000110110100| (100664)| Regular non-executable group-writeable file|
//	|1000000111101101| (100755)| Regular executable file|
//	|1010000000000000| (120000)| Symbolic link|
//	|1110000000000000| (160000)| Gitlink|
//
// A gitlink records a commit of another repository (a submodule) at a fixed
// revision.
type Mode uint32

const (
	ModeBlob       Mode = 0o100644
	ModeExecutable Mode = 0o100755
	ModeTree       Mode = 0o40000
	ModeCommit     Mode = 0o160000
	ModeLink       Mode = 0o120000
)

// ParseMode matches the textual mode of a tree entry. The legacy modes
// 100664 and 100640 are accepted and normalized to ModeBlob, so re-encoding
// such an entry is not byte-identical to its input.
func ParseMode(b []byte) (Mode, error) {
	switch string(b) {
	case "40000":
		return ModeTree, nil
	case "100644", "100664", "100640":
		return ModeBlob, nil
	case "100755":
		return ModeExecutable, nil
	case "120000":
		return ModeLink, nil
	case "160000":
		return ModeCommit, nil
	default:
		return 0, NewInvalidTreeItemError(string(b))
	}
}

// Bytes returns the canonical textual mode. Invalid modes are rendered in
// octal so they remain visible in error messages; they never reach an
// encoded tree because entries are validated on construction.
func (m Mode) Bytes() []byte {
	switch m {
	case ModeBlob:
		return []byte("100644")
	case ModeExecutable:
		return []byte("100755")
	case ModeLink:
		return []byte("120000")
	case ModeTree:
		return []byte("40000")
	case ModeCommit:
		return []byte("160000")
	default:
		return []byte(strconv.FormatUint(uint64(m), 8))
	}
}

func (m Mode) IsValid() bool {
	switch m {
	case ModeBlob, ModeExecutable, ModeTree, ModeCommit, ModeLink:
		return true
	default:
		return false
	}
}

// Type returns the kind of object an entry with this mode points at.
func (m Mode) Type() Type {
	switch m {
	case ModeTree:
		return TypeTree
	case ModeCommit:
		return TypeCommit
	case ModeBlob, ModeExecutable, ModeLink:
		return TypeBlob
	default:
		return TypeInvalid
	}
}

func (m Mode) String() string {
	switch m {
	case ModeBlob:
		return "blob"
	case ModeExecutable:
		return "blob executable"
	case ModeTree:
		return "tree"
	case ModeCommit:
		return "commit"
	case ModeLink:
		return "link"
	default:
		return fmt.Sprintf("object.Mode(%o)", uint32(m))
	}
}
