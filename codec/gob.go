package codec

import (
	"bytes"
	"encoding/gob"
)

// Gob implements Codec using encoding/gob.
//
// Each message is encoded with a fresh encoder, so every frame is
// self-contained and can be decoded in isolation.
type Gob struct{}

// Marshal encodes v.
func (Gob) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes data into v.
func (Gob) Unmarshal(data []byte, v any) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}

// Name returns the stable codec name.
func (Gob) Name() string { return "gob" }
