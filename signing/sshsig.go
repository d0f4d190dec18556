// Package signing creates and checks SSH signatures over commits and tags
// in the format git uses when gpg.format is "ssh".
package signing

import (
	"bytes"
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"errors"
	"fmt"
	"hash"
	"strings"

	"golang.org/x/crypto/ssh"
)

// Namespace is the signature namespace git uses for commits and tags.
const Namespace = "git"

const (
	armorBegin = "-----BEGIN SSH SIGNATURE-----"
	armorEnd   = "-----END SSH SIGNATURE-----"
	armorWidth = 70

	sigVersion = 1
	hashSHA256 = "sha256"
	hashSHA512 = "sha512"
)

var magic = [6]byte{'S', 'S', 'H', 'S', 'I', 'G'}

var (
	// ErrUnsigned is returned when verifying an object without a signature.
	ErrUnsigned = errors.New("object is not signed")
	// ErrInvalidSignature is returned when a signature is malformed or does
	// not match the signed data.
	ErrInvalidSignature = errors.New("invalid signature")
)

// InvalidSignatureError gives the reason a signature was rejected.
type InvalidSignatureError struct {
	Reason string
	Err    error
}

func (e *InvalidSignatureError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ErrInvalidSignature, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", ErrInvalidSignature, e.Reason)
}

func (e *InvalidSignatureError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrInvalidSignature, e.Err}
	}
	return []error{ErrInvalidSignature}
}

func NewInvalidSignatureError(reason string, err error) *InvalidSignatureError {
	return &InvalidSignatureError{Reason: reason, Err: err}
}

// signedData is the structure the key actually signs.
type signedData struct {
	Magic         [6]byte
	Namespace     string
	Reserved      string
	HashAlgorithm string
	Hash          []byte
}

// sigBlob is the binary form of an SSH signature before armoring.
type sigBlob struct {
	Magic         [6]byte
	Version       uint32
	PublicKey     []byte
	Namespace     string
	Reserved      string
	HashAlgorithm string
	Signature     []byte
}

func newHash(algorithm string) (hash.Hash, error) {
	switch algorithm {
	case hashSHA512:
		return sha512.New(), nil
	case hashSHA256:
		return sha256.New(), nil
	default:
		return nil, NewInvalidSignatureError(fmt.Sprintf("unsupported hash algorithm %q", algorithm), nil)
	}
}

func digest(algorithm string, message []byte) ([]byte, error) {
	h, err := newHash(algorithm)
	if err != nil {
		return nil, err
	}
	h.Write(message)
	return h.Sum(nil), nil
}

// Sign signs message for namespace and returns the armored signature.
func Sign(signer ssh.Signer, namespace string, message []byte) (string, error) {
	if namespace == "" {
		return "", errors.New("namespace is required")
	}

	sum, err := digest(hashSHA512, message)
	if err != nil {
		return "", err
	}
	toSign := ssh.Marshal(signedData{
		Magic:         magic,
		Namespace:     namespace,
		HashAlgorithm: hashSHA512,
		Hash:          sum,
	})

	var sig *ssh.Signature
	if algSigner, ok := signer.(ssh.AlgorithmSigner); ok && signer.PublicKey().Type() == ssh.KeyAlgoRSA {
		// ssh-rsa signatures use SHA-1, which OpenSSH no longer accepts.
		sig, err = algSigner.SignWithAlgorithm(rand.Reader, toSign, ssh.KeyAlgoRSASHA512)
	} else {
		sig, err = signer.Sign(rand.Reader, toSign)
	}
	if err != nil {
		return "", fmt.Errorf("sign: %w", err)
	}

	blob := ssh.Marshal(sigBlob{
		Magic:         magic,
		Version:       sigVersion,
		PublicKey:     signer.PublicKey().Marshal(),
		Namespace:     namespace,
		HashAlgorithm: hashSHA512,
		Signature:     ssh.Marshal(sig),
	})

	return armor(blob), nil
}

// Verify checks an armored signature over message for namespace and
// returns the key that made it.
func Verify(armored string, namespace string, message []byte) (ssh.PublicKey, error) {
	raw, err := dearmor(armored)
	if err != nil {
		return nil, err
	}

	var blob sigBlob
	if err := ssh.Unmarshal(raw, &blob); err != nil {
		return nil, NewInvalidSignatureError("malformed signature blob", err)
	}
	if blob.Magic != magic {
		return nil, NewInvalidSignatureError("missing SSHSIG preamble", nil)
	}
	if blob.Version != sigVersion {
		return nil, NewInvalidSignatureError(fmt.Sprintf("unsupported version %d", blob.Version), nil)
	}
	if blob.Namespace != namespace {
		return nil, NewInvalidSignatureError(fmt.Sprintf("namespace %q does not match %q", blob.Namespace, namespace), nil)
	}

	pub, err := ssh.ParsePublicKey(blob.PublicKey)
	if err != nil {
		return nil, NewInvalidSignatureError("malformed public key", err)
	}

	var sig ssh.Signature
	if err := ssh.Unmarshal(blob.Signature, &sig); err != nil {
		return nil, NewInvalidSignatureError("malformed signature", err)
	}

	sum, err := digest(blob.HashAlgorithm, message)
	if err != nil {
		return nil, err
	}
	signed := ssh.Marshal(signedData{
		Magic:         magic,
		Namespace:     blob.Namespace,
		Reserved:      blob.Reserved,
		HashAlgorithm: blob.HashAlgorithm,
		Hash:          sum,
	})

	if err := pub.Verify(signed, &sig); err != nil {
		return nil, NewInvalidSignatureError("signature does not match", err)
	}

	return pub, nil
}

// armor wraps blob in the SSH SIGNATURE block, without a trailing newline.
func armor(blob []byte) string {
	encoded := base64.StdEncoding.EncodeToString(blob)

	var b strings.Builder
	b.WriteString(armorBegin)
	for len(encoded) > 0 {
		n := min(armorWidth, len(encoded))
		b.WriteByte('\n')
		b.WriteString(encoded[:n])
		encoded = encoded[n:]
	}
	b.WriteByte('\n')
	b.WriteString(armorEnd)

	return b.String()
}

func dearmor(armored string) ([]byte, error) {
	body := strings.TrimSpace(armored)
	if !strings.HasPrefix(body, armorBegin) || !strings.HasSuffix(body, armorEnd) {
		return nil, NewInvalidSignatureError("not an SSH signature block", nil)
	}
	body = strings.TrimSuffix(strings.TrimPrefix(body, armorBegin), armorEnd)

	var compact bytes.Buffer
	for _, line := range strings.Split(body, "\n") {
		compact.WriteString(strings.TrimSpace(line))
	}

	raw, err := base64.StdEncoding.DecodeString(compact.String())
	if err != nil {
		return nil, NewInvalidSignatureError("malformed base64", err)
	}

	return raw, nil
}
