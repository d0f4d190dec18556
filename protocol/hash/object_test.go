package hash

import (
	"strings"
	"testing"

	"github.com/grafana/gitobject/protocol/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Well-known ids produced by git hash-object.
func TestObject(t *testing.T) {
	cases := []struct {
		kind object.Type
		body string
		want string
	}{
		{object.TypeBlob, "", "e69de29bb2d1d6434b8b29ae775ad8c2e48c5391"},
		{object.TypeBlob, "test content\n", "d670460b4b4aece5915caf5c68d12f560a9fe3e4"},
		{object.TypeBlob, "what is up, doc?", "bd9dbf5aae1a3862dd1526723246b20206e5fc37"},
		{object.TypeTree, "", "4b825dc642cb6eb9a060e54bf8d69288fbee4904"},
	}

	for _, c := range cases {
		got := Object(c.kind, []byte(c.body))
		assert.Equal(t, c.want, got.String(), "%s %q", c.kind, c.body)
	}
}

func TestHasher(t *testing.T) {
	body := "test content\n"

	h := NewHasher(object.TypeBlob, int64(len(body)))
	for _, chunk := range strings.SplitAfter(body, " ") {
		n, err := h.Write([]byte(chunk))
		require.NoError(t, err)
		require.Equal(t, len(chunk), n)
	}
	require.Equal(t, Object(object.TypeBlob, []byte(body)), h.Digest())

	empty := NewHasher(object.TypeTree, 0)
	require.Equal(t, "4b825dc642cb6eb9a060e54bf8d69288fbee4904", empty.Digest().String())

	// The envelope is part of the id.
	require.NotEqual(t, Sum([]byte(body)), h.Digest())
	require.NotEqual(t, Object(object.TypeTree, []byte(body)), h.Digest())
}
