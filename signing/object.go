package signing

import (
	"strings"

	"github.com/grafana/gitobject"
	"golang.org/x/crypto/ssh"
)

// SignCommit returns a copy of commit carrying an SSH signature in its
// gpgsig header. An existing signature is replaced.
func SignCommit(commit *gitobject.Commit, signer ssh.Signer) (*gitobject.Commit, error) {
	if err := commit.Validate(); err != nil {
		return nil, err
	}

	armored, err := Sign(signer, Namespace, commit.SigningPayload())
	if err != nil {
		return nil, err
	}

	return commit.WithHeader(gitobject.SignatureHeader, armored), nil
}

// VerifyCommit checks the SSH signature in the gpgsig header of commit and
// returns the key that made it.
func VerifyCommit(commit *gitobject.Commit) (ssh.PublicKey, error) {
	armored, ok := commit.Header(gitobject.SignatureHeader)
	if !ok {
		return nil, ErrUnsigned
	}

	return Verify(armored, Namespace, commit.SigningPayload())
}

// SignTag returns a copy of tag with an SSH signature appended to its
// message, where git keeps tag signatures.
func SignTag(tag *gitobject.Tag, signer ssh.Signer) (*gitobject.Tag, error) {
	unsigned, _ := splitTagSignature(tag)
	if err := unsigned.Validate(); err != nil {
		return nil, err
	}

	armored, err := Sign(signer, Namespace, unsigned.Bytes())
	if err != nil {
		return nil, err
	}

	signed := *unsigned
	signed.Message = unsigned.Message + armored + "\n"

	return &signed, nil
}

// VerifyTag checks the SSH signature at the end of the message of tag and
// returns the key that made it.
func VerifyTag(tag *gitobject.Tag) (ssh.PublicKey, error) {
	unsigned, armored := splitTagSignature(tag)
	if armored == "" {
		return nil, ErrUnsigned
	}

	return Verify(armored, Namespace, unsigned.Bytes())
}

// splitTagSignature returns tag without a trailing signature block, and
// that block.
func splitTagSignature(tag *gitobject.Tag) (*gitobject.Tag, string) {
	unsigned := *tag

	idx := strings.LastIndex(tag.Message, armorBegin)
	if idx < 0 || (idx > 0 && tag.Message[idx-1] != '\n') {
		return &unsigned, ""
	}

	unsigned.Message = tag.Message[:idx]
	return &unsigned, tag.Message[idx:]
}
