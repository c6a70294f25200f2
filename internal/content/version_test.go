package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectVersion_V4ByValueArray(t *testing.T) {
	root, err := ParseRoot([]byte(`{"value":[{"Id":1}],"@odata.context":"$metadata#People"}`))
	require.NoError(t, err)
	assert.Equal(t, VersionV4, DetectVersion(root))
}

func TestDetectVersion_V2ByDArray(t *testing.T) {
	root, err := ParseRoot([]byte(`{"d":[{"Id":1}]}`))
	require.NoError(t, err)
	assert.Equal(t, VersionV2, DetectVersion(root))
}

func TestDetectVersion_V2ByDResults(t *testing.T) {
	root, err := ParseRoot([]byte(`{"d":{"results":[{"Id":1}],"__count":"1"}}`))
	require.NoError(t, err)
	assert.Equal(t, VersionV2, DetectVersion(root))
}

func TestDetectVersion_V2ByMetadataObject(t *testing.T) {
	root, err := ParseRoot([]byte(`{"d":{"__metadata":{"uri":"x"},"Id":1}}`))
	require.NoError(t, err)
	assert.Equal(t, VersionV2, DetectVersion(root))
}

func TestDetectVersion_V4ByContext(t *testing.T) {
	root, err := ParseRoot([]byte(`{"@odata.context":"$metadata#Entity"}`))
	require.NoError(t, err)
	assert.Equal(t, VersionV4, DetectVersion(root))
}

func TestDetectVersion_DefaultsToV4(t *testing.T) {
	root, err := ParseRoot([]byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, VersionV4, DetectVersion(root))
}
