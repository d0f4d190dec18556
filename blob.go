package gitobject

import (
	"bytes"

	"github.com/grafana/gitobject/protocol/object"
)

// Blob holds the contents of a file. Its encoding is the contents unchanged.
type Blob struct {
	data []byte
}

// NewBlob returns a blob holding a copy of data.
func NewBlob(data []byte) *Blob {
	return &Blob{data: bytes.Clone(data)}
}

// DecodeBlob never fails: any byte sequence is a valid blob.
func DecodeBlob(data []byte) (*Blob, error) {
	return NewBlob(data), nil
}

// Content returns a copy of the file contents.
func (b *Blob) Content() []byte {
	return bytes.Clone(b.data)
}

func (b *Blob) Type() object.Type {
	return object.TypeBlob
}

func (b *Blob) Bytes() []byte {
	if b.data == nil {
		return []byte{}
	}

	return bytes.Clone(b.data)
}

func (b *Blob) Size() int {
	return len(b.data)
}
