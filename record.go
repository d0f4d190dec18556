package gitobject

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/grafana/gitobject/protocol/object"
)

// encodeRecord prefixes an encoding with "<type> <size>\x00" so that a store
// record is self-describing.
func encodeRecord(t object.Type, body []byte) []byte {
	size := strconv.Itoa(len(body))

	record := make([]byte, 0, len(t.Bytes())+1+len(size)+1+len(body))
	record = append(record, t.Bytes()...)
	record = append(record, ' ')
	record = append(record, size...)
	record = append(record, 0)
	return append(record, body...)
}

// decodeRecord splits a store record into its kind and encoding.
func decodeRecord(record []byte) (object.Type, []byte, error) {
	nul := bytes.IndexByte(record, 0)
	if nul < 0 {
		return object.TypeInvalid, nil, object.NewTruncatedError("record", "missing NUL after header")
	}

	kind, size, ok := bytes.Cut(record[:nul], []byte{' '})
	if !ok {
		return object.TypeInvalid, nil, object.NewMalformedEncodingError("record", fmt.Sprintf("invalid header %q", record[:nul]))
	}

	t, err := object.ParseType(kind)
	if err != nil {
		return object.TypeInvalid, nil, err
	}

	length, err := strconv.ParseUint(string(size), 10, 63)
	if err != nil {
		return object.TypeInvalid, nil, object.WrapMalformedEncodingError("record", "invalid size", err)
	}

	body := record[nul+1:]
	if uint64(len(body)) != length {
		return object.TypeInvalid, nil, object.NewMalformedEncodingError("record", fmt.Sprintf("size mismatch: header says %d, body has %d", length, len(body)))
	}

	return t, body, nil
}
