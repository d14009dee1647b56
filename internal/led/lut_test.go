package led

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNRZLUTPatterns(t *testing.T) {
	lut := buildNRZLUT()
	// all zero bits: 100 100 100 100 100 100 100 100
	assert.Equal(t, [3]byte{0x92, 0x49, 0x24}, lut[0x00])
	// all one bits: 110 110 110 110 110 110 110 110
	assert.Equal(t, [3]byte{0xDB, 0x6D, 0xB6}, lut[0xFF])
}

func TestNRZEncodeExpandsThreeToOne(t *testing.T) {
	lut := buildNRZLUT()
	src := []byte{0x00, 0xFF}
	dst := make([]byte, 6)
	lut.encode(src, dst)
	assert.Equal(t, []byte{0x92, 0x49, 0x24, 0xDB, 0x6D, 0xB6}, dst)
}
