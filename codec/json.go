package codec

import "encoding/json"

// JSON implements Codec using encoding/json.
//
// Mainly useful for debugging transports with readable frames; gob is
// the default on the wire.
type JSON struct{}

// Marshal encodes v.
func (JSON) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Unmarshal decodes data into v.
func (JSON) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// Name returns the stable codec name.
func (JSON) Name() string { return "json" }
