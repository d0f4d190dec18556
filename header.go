package gitobject

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/grafana/gitobject/protocol/hash"
	"github.com/grafana/gitobject/protocol/object"
)

// Header is an extra "key value" line carried by a commit or tag after its
// fixed fields, such as "gpgsig" or "encoding". Values may span several
// lines; each continuation line is written with a leading space.
type Header struct {
	Key   string
	Value string
}

// Validate checks that the header can be encoded unambiguously.
func (h Header) Validate() error {
	if h.Key == "" {
		return object.NewMalformedEncodingError("header", "empty key")
	}
	if strings.ContainsAny(h.Key, " \n\x00") {
		return object.NewMalformedEncodingError("header", fmt.Sprintf("key %q contains a space, newline or NUL", h.Key))
	}

	return nil
}

func appendHeaders(buf *bytes.Buffer, headers []Header) {
	for _, h := range headers {
		buf.WriteString(h.Key)
		buf.WriteByte(' ')
		buf.WriteString(strings.ReplaceAll(h.Value, "\n", "\n "))
		buf.WriteByte('\n')
	}
}

// splitMessage separates the header block from the message at the first
// blank line.
func splitMessage(subject string, data []byte) ([]byte, string, error) {
	block, message, ok := bytes.Cut(data, []byte("\n\n"))
	if !ok {
		return nil, "", object.NewTruncatedError(subject, "missing blank line before message")
	}

	return block, string(message), nil
}

// parseHeaders splits a header block into key/value pairs, folding
// continuation lines into the value of the header they follow.
func parseHeaders(subject string, block []byte) ([]Header, error) {
	var headers []Header
	for _, line := range strings.Split(string(block), "\n") {
		if strings.HasPrefix(line, " ") {
			if len(headers) == 0 {
				return nil, object.NewMalformedEncodingError(subject, "continuation line before any header")
			}
			last := &headers[len(headers)-1]
			last.Value += "\n" + line[1:]
			continue
		}

		key, value, ok := strings.Cut(line, " ")
		if !ok || key == "" {
			return nil, object.NewMalformedEncodingError(subject, fmt.Sprintf("header line %q has no key", line))
		}
		headers = append(headers, Header{Key: key, Value: value})
	}

	return headers, nil
}

// headerReader walks parsed headers in order, enforcing the fixed prefix of
// a commit or tag.
type headerReader struct {
	subject string
	headers []Header
	pos     int
}

func (r *headerReader) peek(key string) bool {
	return r.pos < len(r.headers) && r.headers[r.pos].Key == key
}

// single consumes the next header, which must have the given key and a
// single-line value.
func (r *headerReader) single(key string) (string, error) {
	if !r.peek(key) {
		return "", object.NewMalformedEncodingError(r.subject, fmt.Sprintf("missing %s header", key))
	}
	value := r.headers[r.pos].Value
	if strings.ContainsRune(value, '\n') {
		return "", object.NewMalformedEncodingError(r.subject, fmt.Sprintf("%s header spans several lines", key))
	}
	r.pos++

	return value, nil
}

// rest returns the remaining headers, rejecting any that reuse a reserved key.
func (r *headerReader) rest(reserved ...string) ([]Header, error) {
	remaining := r.headers[r.pos:]
	for _, h := range remaining {
		for _, key := range reserved {
			if h.Key == key {
				return nil, object.NewMalformedEncodingError(r.subject, fmt.Sprintf("unexpected %s header", key))
			}
		}
	}
	if len(remaining) == 0 {
		return nil, nil
	}

	out := make([]Header, len(remaining))
	copy(out, remaining)
	return out, nil
}

func findHeader(headers []Header, key string) (string, bool) {
	for _, h := range headers {
		if h.Key == key {
			return h.Value, true
		}
	}

	return "", false
}

// parseHeaderID decodes the id held by a header. Only the lowercase form
// written by the encoder is accepted, so decoding never alters the bytes.
func parseHeaderID(subject, key, value string) (hash.Hash, error) {
	id, err := hash.FromHex(value)
	if err != nil {
		return hash.Zero, object.WrapMalformedEncodingError(subject, "invalid "+key+" id", err)
	}
	if id.String() != value {
		return hash.Zero, object.NewMalformedEncodingError(subject, fmt.Sprintf("%s id %q is not lowercase hex", key, value))
	}

	return id, nil
}
