package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/grafana/gitobject"
	"github.com/grafana/gitobject/protocol/hash"
	"github.com/grafana/gitobject/protocol/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeJSON(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	return out
}

func TestJSONFormatter_FormatTreeEntries(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter(&buf).FormatTreeEntries(testFlatEntries()))

	out := decodeJSON(t, &buf)
	entries, ok := out["entries"].([]any)
	require.True(t, ok)
	require.Len(t, entries, 2)

	first := entries[0].(map[string]any)
	assert.Equal(t, "blob", first["type"])
	assert.Equal(t, "100644", first["mode"])
	assert.Equal(t, fileID.String(), first["hash"])
	assert.Equal(t, "README.md", first["path"])

	second := entries[1].(map[string]any)
	assert.Equal(t, "040000", second["mode"])
	assert.Equal(t, "tree", second["type"])
}

func TestJSONFormatter_FormatObject(t *testing.T) {
	t.Run("blob", func(t *testing.T) {
		var buf bytes.Buffer
		blob := gitobject.NewBlob([]byte("Hello"))
		require.NoError(t, NewJSONFormatter(&buf).FormatObject(fileID, blob))

		out := decodeJSON(t, &buf)
		assert.Equal(t, "blob", out["type"])
		assert.Equal(t, "Hello", out["content"])
		assert.EqualValues(t, 5, out["size"])
	})

	t.Run("commit", func(t *testing.T) {
		sig := object.Signature{Name: "A", Email: "a@example.com", Timestamp: 1, Timezone: "+0000"}
		author, committer := sig, sig
		author.Role = object.RoleAuthor
		committer.Role = object.RoleCommitter
		commit := &gitobject.Commit{
			Tree:         dirID,
			Parents:      []hash.Hash{fileID},
			Author:       author,
			Committer:    committer,
			ExtraHeaders: []gitobject.Header{{Key: "encoding", Value: "UTF-8"}},
			Message:      "msg\n",
		}

		var buf bytes.Buffer
		require.NoError(t, NewJSONFormatter(&buf).FormatObject(fileID, commit))

		out := decodeJSON(t, &buf)
		assert.Equal(t, "commit", out["type"])
		assert.Equal(t, dirID.String(), out["tree"])
		assert.Equal(t, []any{fileID.String()}, out["parents"])
		assert.Equal(t, "msg\n", out["message"])
		author0 := out["author"].(map[string]any)
		assert.Equal(t, "a@example.com", author0["email"])
		headers := out["headers"].([]any)
		assert.Equal(t, "encoding", headers[0].(map[string]any)["key"])
		assert.NotContains(t, out, "content")
	})
}

func TestJSONFormatter_FormatHash(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter(&buf).FormatHash(HashResult{
		ID: fileID, GitID: dirID, Type: object.TypeBlob, Size: 4, Written: true,
	}))

	out := decodeJSON(t, &buf)
	assert.Equal(t, fileID.String(), out["id"])
	assert.Equal(t, dirID.String(), out["git_id"])
	assert.Equal(t, "blob", out["type"])
	assert.Equal(t, true, out["written"])
}

func TestJSONFormatter_FormatVerify(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter(&buf).FormatVerify(VerifyResult{
		Objects: 2,
		Errors:  []error{errors.New("missing")},
	}))

	out := decodeJSON(t, &buf)
	assert.Equal(t, false, out["ok"])
	assert.EqualValues(t, 2, out["objects"])
	assert.Equal(t, []any{"missing"}, out["errors"])
}

func TestJSONFormatter_FormatObjectInfoAndCID(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter(&buf).FormatObjectInfo(fileID, object.TypeTree, 42))
	out := decodeJSON(t, &buf)
	assert.Equal(t, "tree", out["type"])
	assert.EqualValues(t, 42, out["size"])

	buf.Reset()
	require.NoError(t, NewJSONFormatter(&buf).FormatCID(fileID, dirID, "bafy"))
	out = decodeJSON(t, &buf)
	assert.Equal(t, "bafy", out["cid"])
	assert.Equal(t, dirID.String(), out["git_id"])
}
