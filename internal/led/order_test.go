package led

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrder(t *testing.T) {
	o, err := ParseOrder("")
	require.NoError(t, err)
	assert.Equal(t, Order("GRB"), o)

	o, err = ParseOrder("grbw")
	require.NoError(t, err)
	assert.Equal(t, Order("GRBW"), o)
	assert.True(t, o.HasWhite())
	assert.Equal(t, 4, o.Channels())

	for _, bad := range []string{"RG", "RGBWX", "RRB", "RGX", "RGW"} {
		_, err := ParseOrder(bad)
		assert.Error(t, err, bad)
	}
}

func TestEncodeWireOrder(t *testing.T) {
	dst := make([]byte, 4)
	Order("GRBW").Encode(1, 2, 3, 4, dst)
	assert.Equal(t, []byte{2, 1, 3, 4}, dst)
}

func TestEncodeFoldsWhiteWithoutEmitter(t *testing.T) {
	dst := make([]byte, 3)
	Order("GRB").Encode(10, 250, 0, 20, dst)
	assert.Equal(t, []byte{255, 30, 20}, dst)
}

func TestReorderFrame(t *testing.T) {
	frame := []byte{1, 2, 3, 0, 4, 5, 6, 0}
	assert.Equal(t, []byte{3, 2, 1, 6, 5, 4}, Order("BGR").Reorder(frame))
}
