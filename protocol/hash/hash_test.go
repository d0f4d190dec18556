package hash

import (
	"encoding/json"
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSum(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{name: "empty", data: nil, want: "da39a3ee5e6b4b0d3255bfef95601890afd80709"},
		{name: "abc", data: []byte("abc"), want: "a9993e364706816aba3e25717850c26c9cd0d89d"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sum(tt.data)
			require.Equal(t, tt.want, got.String())
			require.Equal(t, got, Sum(tt.data), "sum must be deterministic")
		})
	}
}

func TestFromHex(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "lowercase", input: "8ab686eafeb1f44702738c8b0f24f2567c36da6d", want: "8ab686eafeb1f44702738c8b0f24f2567c36da6d"},
		{name: "uppercase is normalized", input: "8AB686EAFEB1F44702738C8B0F24F2567C36DA6D", want: "8ab686eafeb1f44702738c8b0f24f2567c36da6d"},
		{name: "empty", input: "", wantErr: true},
		{name: "too short", input: "8ab686eafeb1f44702738c8b0f24f2567c36da6", wantErr: true},
		{name: "too long", input: "8ab686eafeb1f44702738c8b0f24f2567c36da6d00", wantErr: true},
		{name: "not hex", input: "zab686eafeb1f44702738c8b0f24f2567c36da6d", wantErr: true},
		{name: "sha256 width", input: "18f2769ec74fa8256f4b1f8b9fa46ae0b98af0efcb658e7e95e80090f66c338a", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromHex(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				require.True(t, errors.Is(err, ErrMalformedHash))
				var malformed *MalformedHashError
				require.ErrorAs(t, err, &malformed)
				require.Equal(t, tt.input, malformed.Input)
				require.True(t, got.IsZero())
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got.String())
		})
	}
}

func TestMustFromHex(t *testing.T) {
	require.NotPanics(t, func() { MustFromHex("8ab686eafeb1f44702738c8b0f24f2567c36da6d") })
	require.Panics(t, func() { MustFromHex("nope") })
}

func TestFromBytes(t *testing.T) {
	t.Run("exact width", func(t *testing.T) {
		want := MustFromHex("8ab686eafeb1f44702738c8b0f24f2567c36da6d")
		got, err := FromBytes(want.Bytes())
		require.NoError(t, err)
		require.Equal(t, want, got)
	})

	t.Run("short", func(t *testing.T) {
		_, err := FromBytes(make([]byte, 19))
		require.ErrorIs(t, err, ErrMalformedHash)
	})

	t.Run("long", func(t *testing.T) {
		_, err := FromBytes(make([]byte, 21))
		require.ErrorIs(t, err, ErrMalformedHash)
	})

	t.Run("copies input", func(t *testing.T) {
		raw := make([]byte, Size)
		got, err := FromBytes(raw)
		require.NoError(t, err)
		raw[0] = 0xff
		require.True(t, got.IsZero())
	})
}

func TestHash_Compare(t *testing.T) {
	a := MustFromHex("0000000000000000000000000000000000000001")
	b := MustFromHex("0000000000000000000000000000000000000002")
	c := MustFromHex("1000000000000000000000000000000000000000")

	require.Equal(t, -1, a.Compare(b))
	require.Equal(t, 1, c.Compare(b))
	require.Equal(t, 0, a.Compare(a))
	require.True(t, a.Is(a))
	require.False(t, a.Is(b))

	hashes := []Hash{c, a, b}
	sort.Slice(hashes, func(i, j int) bool { return hashes[i].Compare(hashes[j]) < 0 })
	require.Equal(t, []Hash{a, b, c}, hashes)
}

func TestHash_MapKey(t *testing.T) {
	seen := map[Hash]int{}
	seen[Sum([]byte("one"))]++
	seen[Sum([]byte("one"))]++
	seen[Sum([]byte("two"))]++
	require.Len(t, seen, 2)
	require.Equal(t, 2, seen[Sum([]byte("one"))])
}

func TestHash_Text(t *testing.T) {
	type doc struct {
		ID Hash `json:"id"`
	}

	in := doc{ID: MustFromHex("8ab686eafeb1f44702738c8b0f24f2567c36da6d")}
	data, err := json.Marshal(in)
	require.NoError(t, err)
	require.JSONEq(t, `{"id":"8ab686eafeb1f44702738c8b0f24f2567c36da6d"}`, string(data))

	var out doc
	require.NoError(t, json.Unmarshal(data, &out))
	require.Equal(t, in, out)

	require.Error(t, json.Unmarshal([]byte(`{"id":"xyz"}`), &out))
}
