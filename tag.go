package gitobject

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/grafana/gitobject/protocol/hash"
	"github.com/grafana/gitobject/protocol/object"
)

// Tag is an annotated name for another object, usually a commit.
//
// Its encoding is git's:
//
//	object <hex>
//	type <commit|tree|blob|tag>
//	tag <name>
//	tagger <signature>
//	<extra headers>
//
//	<message>
type Tag struct {
	Object       hash.Hash
	ObjectType   object.Type
	Name         string
	Tagger       object.Signature
	ExtraHeaders []Header
	Message      string
}

// Validate reports whether the tag can be encoded and decoded back without loss.
func (t *Tag) Validate() error {
	if !t.ObjectType.IsValid() {
		return object.NewMalformedEncodingError("tag", fmt.Sprintf("invalid target type %s", t.ObjectType))
	}
	if t.Name == "" || strings.ContainsAny(t.Name, "\n\x00") {
		return object.NewMalformedEncodingError("tag", fmt.Sprintf("invalid tag name %q", t.Name))
	}
	if t.Tagger.Role != object.RoleTagger {
		return fmt.Errorf("tagger: %w", object.NewInvalidSignatureTypeError(t.Tagger.Role.String()))
	}
	if err := t.Tagger.Validate(); err != nil {
		return fmt.Errorf("tagger: %w", err)
	}
	for _, h := range t.ExtraHeaders {
		if err := h.Validate(); err != nil {
			return err
		}
		switch h.Key {
		case "object", "type", "tag", "tagger":
			return object.NewMalformedEncodingError("tag", fmt.Sprintf("extra header reuses reserved key %q", h.Key))
		}
	}

	return nil
}

func (t *Tag) Type() object.Type {
	return object.TypeTag
}

func (t *Tag) Bytes() []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "object %s\n", t.Object)
	fmt.Fprintf(&buf, "type %s\n", t.ObjectType.Bytes())
	fmt.Fprintf(&buf, "tag %s\n", t.Name)
	buf.Write(t.Tagger.Bytes())
	buf.WriteByte('\n')
	appendHeaders(&buf, t.ExtraHeaders)
	buf.WriteByte('\n')
	buf.WriteString(t.Message)

	return buf.Bytes()
}

func (t *Tag) Size() int {
	return len(t.Bytes())
}

// Header returns the value of the first extra header with the given key.
func (t *Tag) Header(key string) (string, bool) {
	return findHeader(t.ExtraHeaders, key)
}

// DecodeTag parses a tag. Headers must appear in encoding order.
func DecodeTag(data []byte) (*Tag, error) {
	block, message, err := splitMessage("tag", data)
	if err != nil {
		return nil, err
	}

	headers, err := parseHeaders("tag", block)
	if err != nil {
		return nil, err
	}
	r := &headerReader{subject: "tag", headers: headers}

	tag := &Tag{Message: message}

	objectHex, err := r.single("object")
	if err != nil {
		return nil, err
	}
	if tag.Object, err = parseHeaderID("tag", "object", objectHex); err != nil {
		return nil, err
	}

	typeName, err := r.single("type")
	if err != nil {
		return nil, err
	}
	if tag.ObjectType, err = object.ParseType([]byte(typeName)); err != nil {
		return nil, err
	}

	if tag.Name, err = r.single("tag"); err != nil {
		return nil, err
	}

	if tag.Tagger, err = readSignature(r, object.RoleTagger); err != nil {
		return nil, err
	}

	if tag.ExtraHeaders, err = r.rest("object", "type", "tag", "tagger"); err != nil {
		return nil, err
	}

	return tag, nil
}
