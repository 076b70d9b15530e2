package loader

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"
)

// glbMagic starts every binary glTF file.
var glbMagic = []byte("glTF")

// DecodePayload decodes a base64 model payload.
// Decoding is forgiving in the way browsers are: ASCII whitespace is ignored
// and trailing padding is optional. Only the standard alphabet is accepted.
func DecodePayload(payload string) ([]byte, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\f', '\r':
			return -1
		}
		return r
	}, payload)

	if len(cleaned)%4 == 0 {
		cleaned = strings.TrimSuffix(cleaned, "=")
		cleaned = strings.TrimSuffix(cleaned, "=")
	}
	if len(cleaned)%4 == 1 {
		return nil, fmt.Errorf("%w: truncated base64 input", ErrInvalidPayload)
	}

	data, err := base64.RawStdEncoding.DecodeString(cleaned)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return data, nil
}

// EncodePayload encodes model bytes as a padded standard base64 payload.
func EncodePayload(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// PayloadFromFile turns the contents of a model file into a payload.
// Binary GLB files are encoded; anything else is taken as base64 text.
func PayloadFromFile(data []byte) string {
	if bytes.HasPrefix(data, glbMagic) {
		return EncodePayload(data)
	}
	return strings.TrimSpace(string(data))
}
