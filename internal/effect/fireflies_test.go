package effect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCycle(t *testing.T) {
	assert.Equal(t, 0.0, cycle(0, 0.3, 1))
	assert.InDelta(t, 0, cycle(255, 0, 255), 1e-9)
	assert.InDelta(t, 255, cycle(255, 0.5, 255), 1e-9)
	assert.InDelta(t, 0, cycle(255, 1, 255), 1e-9)
	for r := 0.0; r <= 1; r += 0.05 {
		v := cycle(6, r, 2)
		assert.True(t, v >= 0 && v <= 6, "%v", v)
	}
}

func TestFirefliesLifecycle(t *testing.T) {
	e, err := New(Spec{Kind: "fireflies", Seed: 42})
	require.NoError(t, err)
	f := e.(*Fireflies)
	d := grid(t)
	f.Setup(d)

	for i := 1; i <= 12; i++ {
		f.Update(d, 0, 0)
		assert.Equal(t, min(i, maxFireflies), f.Count())
	}
	// every ttl is under 60s
	f.Update(d, 100, 100)
	assert.Equal(t, 0, f.Count())

	f.Setup(d)
	assert.Equal(t, 0, f.Count())
}

func TestFirefliesAreSeeded(t *testing.T) {
	run := func() []uint32 {
		e, _ := New(Spec{Kind: "fireflies", Seed: 7})
		d := grid(t)
		e.Setup(d)
		for i := 0; i < 40; i++ {
			e.Update(d, 0.25, float64(i)*0.25)
		}
		out := make([]uint32, 0, 49)
		for _, p := range d.Pixels() {
			out = append(out, uint32(p))
		}
		return out
	}
	assert.Equal(t, run(), run())
}
