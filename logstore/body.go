package logstore

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Body is a request or response body.
//
// A non-empty body is serialized as a JSON array of byte values. An empty body
// is serialized as null, so that it reads back as absent rather than as an
// empty array.
type Body []byte

// MarshalJSON encodes the body as an array of numbers, or null.
func (b Body) MarshalJSON() ([]byte, error) {
	if len(b) == 0 {
		return []byte("null"), nil
	}

	var buf bytes.Buffer
	buf.Grow(len(b)*4 + 2)
	buf.WriteByte('[')

	for i, c := range b {
		if i != 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Itoa(int(c)))
	}

	buf.WriteByte(']')

	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an array of numbers, or null.
func (b *Body) UnmarshalJSON(data []byte) error {
	// A plain []byte would be decoded from a base64 string.
	var numbers []int
	if err := json.Unmarshal(data, &numbers); err != nil {
		return err
	}

	if len(numbers) == 0 {
		*b = nil
		return nil
	}

	o := make(Body, len(numbers))
	for i, n := range numbers {
		if n < 0 || n > 255 {
			return fmt.Errorf("body contains %d, which is not a byte value", n)
		}
		o[i] = byte(n)
	}

	*b = o
	return nil
}
