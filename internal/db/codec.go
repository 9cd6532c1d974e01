package db

import (
	"encoding/binary"
	"fmt"
)

// Cell payloads are stored as little-endian fixed-size blobs, the layout the
// register uploads use.

func encodeBlob(v any) ([]byte, error) {
	return binary.Append(nil, binary.LittleEndian, v)
}

// optionalBlob returns a NULL column value when present is false.
func optionalBlob(v any, present bool) (any, error) {
	if !present {
		return nil, nil
	}
	return encodeBlob(v)
}

// decodeBlob fills v from b. An empty blob leaves v untouched.
func decodeBlob(b []byte, v any) error {
	if len(b) == 0 {
		return nil
	}
	n, err := binary.Decode(b, binary.LittleEndian, v)
	if err != nil {
		return err
	}
	if n != len(b) {
		return fmt.Errorf("blob has %d trailing bytes", len(b)-n)
	}
	return nil
}
