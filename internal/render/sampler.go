package render

import "math/bits"

// Pattern yields the sample positions for one frame over a rows x cols grid.
type Pattern interface {
	Points(rows, cols int, fn func(p Vec2))
}

// Grid is a regular density x density pattern per cell, samples at the
// sub-cell centers.
type Grid struct{ Density int }

func (g Grid) Points(rows, cols int, fn func(Vec2)) {
	d := g.Density
	if d < 1 {
		d = 1
	}
	step := 1 / float64(d)
	for y := 0; y < rows*d; y++ {
		for x := 0; x < cols*d; x++ {
			fn(Vec2{(float64(x) + 0.5) * step, (float64(y) + 0.5) * step})
		}
	}
}

// Hammersley is the 2D Hammersley set, (i/n, radicalInverse(i)), scaled to
// the grid. PerCell sets the average sample count per cell.
type Hammersley struct{ PerCell int }

func (h Hammersley) Points(rows, cols int, fn func(Vec2)) {
	per := h.PerCell
	if per < 1 {
		per = 1
	}
	n := per * rows * cols
	for i := 0; i < n; i++ {
		fn(Vec2{
			X: float64(i) / float64(n) * float64(cols),
			Y: radicalInverse(uint32(i)) * float64(rows),
		})
	}
}

// radicalInverse mirrors the bits of i around the binary point, 0b1011 ->
// 0.1101.
func radicalInverse(i uint32) float64 {
	return float64(bits.Reverse32(i)) / (1 << 32)
}

// ParsePattern maps a config name to a pattern; empty or unknown names fall
// back to a 6x6 grid.
func ParsePattern(name string, samples int) Pattern {
	switch name {
	case "hammersley":
		if samples <= 0 {
			samples = 36
		}
		return Hammersley{PerCell: samples}
	default:
		if samples <= 0 {
			samples = 6
		}
		return Grid{Density: samples}
	}
}
