package gitobject

import (
	"fmt"

	"github.com/grafana/gitobject/protocol/hash"
	gocid "github.com/ipfs/go-cid"
	"github.com/multiformats/go-multibase"
	"github.com/multiformats/go-multihash"
)

// GitCID returns the content identifier of obj as used by IPLD: a CIDv1 with
// the git-raw codec over the SHA-1 multihash of GitID(obj).
func GitCID(obj Object) (gocid.Cid, error) {
	return CIDFromID(GitID(obj))
}

// CIDFromID wraps a git-compatible id in a git-raw CIDv1.
func CIDFromID(id hash.Hash) (gocid.Cid, error) {
	mh, err := multihash.Encode(id[:], multihash.SHA1)
	if err != nil {
		return gocid.Undef, fmt.Errorf("multihash: %w", err)
	}

	return gocid.NewCidV1(gocid.GitRaw, mh), nil
}

// IDFromCID recovers the git-compatible id carried by a git-raw CID.
func IDFromCID(c gocid.Cid) (hash.Hash, error) {
	if !c.Defined() {
		return hash.Zero, fmt.Errorf("undefined cid")
	}
	if c.Type() != gocid.GitRaw {
		return hash.Zero, fmt.Errorf("cid %s: codec 0x%x is not git-raw", c, c.Type())
	}

	decoded, err := multihash.Decode(c.Hash())
	if err != nil {
		return hash.Zero, fmt.Errorf("cid %s: %w", c, err)
	}
	if decoded.Code != multihash.SHA1 {
		return hash.Zero, fmt.Errorf("cid %s: multihash %s is not sha1", c, decoded.Name)
	}

	return hash.FromBytes(decoded.Digest)
}

// FormatCID renders c in base32, the default text form of a CIDv1.
func FormatCID(c gocid.Cid) (string, error) {
	return c.StringOfBase(multibase.Base32)
}

// ParseCID parses a CID in any multibase encoding.
func ParseCID(s string) (gocid.Cid, error) {
	return gocid.Decode(s)
}
