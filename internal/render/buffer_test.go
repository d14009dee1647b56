package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/lightbox/internal/display"
	"github.com/coreman2200/lightbox/internal/pixel"
)

func TestBufferUniformColorIsReproduced(t *testing.T) {
	b := NewBuffer(3, 3, DefaultFilter)
	c := Color{200, 100, 50, 25}
	Grid{Density: 8}.Points(3, 3, func(p Vec2) { b.AddSample(p, c) })

	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			n := b.At(x, y).Normalized()
			for i := range c {
				assert.InDelta(t, c[i], n[i], 1e-9)
			}
		}
	}

	d, err := display.NewGrid(3, 3)
	require.NoError(t, err)
	b.Resolve(d)
	assert.Equal(t, pixel.New(200, 100, 50, 25), d.Get(1, 1))
	assert.Equal(t, pixel.New(200, 100, 50, 25), d.Get(0, 2))
}

func TestBufferZeroWeightIsBlack(t *testing.T) {
	b := NewBuffer(2, 2, DefaultFilter)
	assert.Equal(t, Color{}, b.At(0, 0).Normalized())

	// a sample far away from the grid touches nothing
	b.AddSample(Vec2{10, 10}, Color{255, 255, 255, 255})
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			assert.Equal(t, Cell{}, b.At(x, y))
		}
	}

	d, _ := display.NewGrid(2, 2)
	display.Fill(d, pixel.New(9, 9, 9, 9))
	b.Resolve(d)
	assert.Equal(t, pixel.Black, d.Get(1, 1))
}

func TestBufferSampleStaysInSupport(t *testing.T) {
	b := NewBuffer(5, 5, DefaultFilter)
	b.AddSample(Center(2, 2), Color{255, 0, 0, 0})

	assert.Greater(t, b.At(2, 2).Weight, 0.0)
	// neighbors one cell away sit exactly on the radius
	assert.Equal(t, 0.0, b.At(1, 2).Weight)
	assert.Equal(t, 0.0, b.At(2, 3).Weight)
	assert.Equal(t, 0.0, b.At(4, 4).Weight)

	b.AddSample(Vec2{2, 2}, Color{255, 0, 0, 0}) // shared corner of four cells
	for _, xy := range [][2]int{{1, 1}, {2, 1}, {1, 2}, {2, 2}} {
		assert.Greater(t, b.At(xy[0], xy[1]).Weight, 0.0)
	}
	assert.Equal(t, 0.0, b.At(3, 3).Weight)
}

func TestBufferClearAndClamp(t *testing.T) {
	b := NewBuffer(1, 1, DefaultFilter)
	b.AddSample(Center(0, 0), Color{400, -20, 254.6, 0})
	d, _ := display.NewGrid(1, 1)
	b.Resolve(d)
	assert.Equal(t, pixel.New(255, 0, 255, 0), d.Get(0, 0))

	b.Clear()
	assert.Equal(t, Cell{}, b.At(0, 0))
	assert.Equal(t, Cell{}, b.At(-1, 0))
}
