package templates

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Marshal encodes a template to its CBOR wire form.
func Marshal(t *Template) ([]byte, error) {
	data, err := cbor.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("failed to encode template: %w", err)
	}
	return data, nil
}

// Unmarshal decodes a CBOR template and validates its header fields.
func Unmarshal(data []byte) (*Template, error) {
	var t Template
	if err := cbor.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to decode template: %w", err)
	}
	if t.Version != Version {
		return nil, ErrVersion
	}
	if t.Width <= 0 || t.Height <= 0 || t.NumDirections <= 0 {
		return nil, ErrFormat
	}
	return &t, nil
}
