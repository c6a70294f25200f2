package charset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_UTF8PassesThroughUnchanged(t *testing.T) {
	body := []byte(`{"value":"héllo"}`)
	out, err := Decode(body, "application/json; charset=utf-8")
	require.NoError(t, err)
	assert.Equal(t, body, out)
}

func TestDecode_NoCharsetDefaultsToUTF8PassThrough(t *testing.T) {
	body := []byte(`{"value":1}`)
	out, err := Decode(body, "application/json")
	require.NoError(t, err)
	assert.Equal(t, body, out)
}

func TestDecode_Latin1Transcodes(t *testing.T) {
	// 0xE9 is 'é' in ISO-8859-1/windows-1252.
	body := []byte{'"', 0xE9, '"'}
	out, err := Decode(body, "text/plain; charset=iso-8859-1")
	require.NoError(t, err)
	assert.Equal(t, "\"é\"", string(out))
}

func TestDecode_UnknownCharsetErrors(t *testing.T) {
	_, err := Decode([]byte("x"), "text/plain; charset=bogus-charset-xyz")
	require.Error(t, err)
}

func TestIsBinary(t *testing.T) {
	assert.True(t, IsBinary("application/octet-stream"))
	assert.True(t, IsBinary("image/png"))
	assert.False(t, IsBinary("application/json"))
	assert.False(t, IsBinary("application/json; charset=utf-8"))
}

func TestDecode_BinaryBypassesDecoding(t *testing.T) {
	body := []byte{0xFF, 0xFE, 0x00}
	out, err := Decode(body, "application/octet-stream")
	require.NoError(t, err)
	assert.Equal(t, body, out)
}
