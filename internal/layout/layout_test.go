package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndexRowMajor(t *testing.T) {
	l := Layout{Rows: 3, Cols: 4}
	assert.Equal(t, 12, l.Count())
	assert.Equal(t, 0, l.Index(0, 0))
	assert.Equal(t, 3, l.Index(3, 0))
	assert.Equal(t, 4, l.Index(0, 1))
	assert.Equal(t, 11, l.Index(3, 2))
}

func TestIndexSerpentine(t *testing.T) {
	l := Layout{Rows: 3, Cols: 4, Serpentine: true}
	assert.Equal(t, 0, l.Index(0, 0))
	assert.Equal(t, 7, l.Index(0, 1))
	assert.Equal(t, 4, l.Index(3, 1))
	assert.Equal(t, 8, l.Index(0, 2))

	seen := map[int]bool{}
	for y := 0; y < l.Rows; y++ {
		for x := 0; x < l.Cols; x++ {
			i := l.Index(x, y)
			assert.False(t, seen[i], "index %d mapped twice", i)
			seen[i] = true
		}
	}
	assert.Len(t, seen, l.Count())
}

func TestIndexOutOfRange(t *testing.T) {
	l := Layout{Rows: 2, Cols: 2}
	assert.Equal(t, -1, l.Index(-1, 0))
	assert.Equal(t, -1, l.Index(2, 0))
	assert.Equal(t, -1, l.Index(0, 2))
	assert.Equal(t, 0, Layout{}.Count())
}
