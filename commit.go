package gitobject

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/grafana/gitobject/protocol/hash"
	"github.com/grafana/gitobject/protocol/object"
)

// SignatureHeader is the header that carries a detached signature of a commit.
const SignatureHeader = "gpgsig"

// Commit records a snapshot: the root tree, the commits it descends from,
// who wrote and who committed it, and a message.
//
// Its encoding is git's:
//
//	tree <hex>
//	parent <hex>        (zero or more)
//	author <signature>
//	committer <signature>
//	<extra headers>
//
//	<message>
type Commit struct {
	Tree         hash.Hash
	Parents      []hash.Hash
	Author       object.Signature
	Committer    object.Signature
	ExtraHeaders []Header
	Message      string
}

// Validate reports whether the commit can be encoded and decoded back
// without loss.
func (c *Commit) Validate() error {
	if c.Author.Role != object.RoleAuthor {
		return fmt.Errorf("author: %w", object.NewInvalidSignatureTypeError(c.Author.Role.String()))
	}
	if err := c.Author.Validate(); err != nil {
		return fmt.Errorf("author: %w", err)
	}
	if c.Committer.Role != object.RoleCommitter {
		return fmt.Errorf("committer: %w", object.NewInvalidSignatureTypeError(c.Committer.Role.String()))
	}
	if err := c.Committer.Validate(); err != nil {
		return fmt.Errorf("committer: %w", err)
	}
	for _, h := range c.ExtraHeaders {
		if err := h.Validate(); err != nil {
			return err
		}
		switch h.Key {
		case "tree", "parent", "author", "committer":
			return object.NewMalformedEncodingError("commit", fmt.Sprintf("extra header reuses reserved key %q", h.Key))
		}
	}

	return nil
}

func (c *Commit) Type() object.Type {
	return object.TypeCommit
}

func (c *Commit) Bytes() []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "tree %s\n", c.Tree)
	for _, parent := range c.Parents {
		fmt.Fprintf(&buf, "parent %s\n", parent)
	}
	buf.Write(c.Author.Bytes())
	buf.WriteByte('\n')
	buf.Write(c.Committer.Bytes())
	buf.WriteByte('\n')
	appendHeaders(&buf, c.ExtraHeaders)
	buf.WriteByte('\n')
	buf.WriteString(c.Message)

	return buf.Bytes()
}

func (c *Commit) Size() int {
	return len(c.Bytes())
}

// Header returns the value of the first extra header with the given key.
func (c *Commit) Header(key string) (string, bool) {
	return findHeader(c.ExtraHeaders, key)
}

// PGPSignature returns the armored signature carried in the gpgsig header,
// or the empty string for an unsigned commit.
func (c *Commit) PGPSignature() string {
	sig, _ := c.Header(SignatureHeader)
	return sig
}

// IsSigned reports whether the commit carries a gpgsig header.
func (c *Commit) IsSigned() bool {
	_, ok := c.Header(SignatureHeader)
	return ok
}

// SigningPayload returns the encoding of the commit without its gpgsig
// header. This is the byte sequence a commit signature covers.
func (c *Commit) SigningPayload() []byte {
	unsigned := c.clone()
	unsigned.ExtraHeaders = slices.DeleteFunc(unsigned.ExtraHeaders, func(h Header) bool {
		return h.Key == SignatureHeader
	})

	return unsigned.Bytes()
}

// WithHeader returns a copy of the commit where key is set to value. An
// existing header with that key is replaced in place; otherwise the header
// is appended.
func (c *Commit) WithHeader(key, value string) *Commit {
	out := c.clone()
	for i := range out.ExtraHeaders {
		if out.ExtraHeaders[i].Key == key {
			out.ExtraHeaders[i].Value = value
			return out
		}
	}
	out.ExtraHeaders = append(out.ExtraHeaders, Header{Key: key, Value: value})

	return out
}

func (c *Commit) clone() *Commit {
	out := *c
	out.Parents = slices.Clone(c.Parents)
	out.ExtraHeaders = slices.Clone(c.ExtraHeaders)
	return &out
}

// DecodeCommit parses a commit. Headers must appear in encoding order so
// that re-encoding the result reproduces data exactly.
func DecodeCommit(data []byte) (*Commit, error) {
	block, message, err := splitMessage("commit", data)
	if err != nil {
		return nil, err
	}

	headers, err := parseHeaders("commit", block)
	if err != nil {
		return nil, err
	}
	r := &headerReader{subject: "commit", headers: headers}

	commit := &Commit{Message: message}

	treeHex, err := r.single("tree")
	if err != nil {
		return nil, err
	}
	if commit.Tree, err = parseHeaderID("commit", "tree", treeHex); err != nil {
		return nil, err
	}

	for r.peek("parent") {
		parentHex, err := r.single("parent")
		if err != nil {
			return nil, err
		}
		parent, err := parseHeaderID("commit", "parent", parentHex)
		if err != nil {
			return nil, err
		}
		commit.Parents = append(commit.Parents, parent)
	}

	if commit.Author, err = readSignature(r, object.RoleAuthor); err != nil {
		return nil, err
	}
	if commit.Committer, err = readSignature(r, object.RoleCommitter); err != nil {
		return nil, err
	}

	if commit.ExtraHeaders, err = r.rest("tree", "parent", "author", "committer"); err != nil {
		return nil, err
	}

	return commit, nil
}

func readSignature(r *headerReader, role object.Role) (object.Signature, error) {
	key := role.String()
	value, err := r.single(key)
	if err != nil {
		return object.Signature{}, err
	}

	sig, err := object.ParseSignature([]byte(key + " " + value))
	if err != nil {
		return object.Signature{}, fmt.Errorf("%s: %w", key, err)
	}

	return sig, nil
}
