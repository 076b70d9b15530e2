package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePayload(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    []byte
		wantErr bool
	}{
		{name: "padded", payload: "Z2xURg==", want: []byte("glTF")},
		{name: "unpadded", payload: "Z2xURg", want: []byte("glTF")},
		{name: "whitespace", payload: " Z2x\nURg==\t", want: []byte("glTF")},
		{name: "no padding needed", payload: "YWJj", want: []byte("abc")},
		{name: "bad characters", payload: "Z2x*Rg==", wantErr: true},
		{name: "url alphabet", payload: "-_-_", wantErr: true},
		{name: "truncated", payload: "Z2xUR", wantErr: true},
		{name: "excess padding", payload: "YQ===", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodePayload(tt.payload)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPayload)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodePayloadRoundTrip(t *testing.T) {
	data := []byte{0x67, 0x6C, 0x54, 0x46, 0x02, 0x00, 0x00, 0x00, 0xFF}
	got, err := DecodePayload(EncodePayload(data))
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestBlobStore(t *testing.T) {
	s := NewBlobStore()
	a := s.CreateURL([]byte("a"), MimeGLB)
	b := s.CreateURL([]byte("b"), MimeGLB)
	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, s.Len())

	blob, err := s.Open(a)
	require.NoError(t, err)
	assert.Equal(t, []byte("a"), blob.Data)
	assert.Equal(t, MimeGLB, blob.MimeType)

	assert.True(t, s.Revoke(a))
	assert.False(t, s.Revoke(a), "second revoke is a no-op")
	_, err = s.Open(a)
	assert.ErrorIs(t, err, ErrBlobNotFound)
	assert.Equal(t, 1, s.Len())
}

func TestPayloadFromFile(t *testing.T) {
	glb := append([]byte("glTF"), 2, 0, 0, 0)
	assert.Equal(t, EncodePayload(glb), PayloadFromFile(glb))
	assert.Equal(t, "Z2xURg==", PayloadFromFile([]byte("\n Z2xURg==\r\n")))
	assert.Empty(t, PayloadFromFile(nil))
}
