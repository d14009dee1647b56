package render

import (
	"math"

	"github.com/coreman2200/lightbox/internal/display"
	"github.com/coreman2200/lightbox/internal/pixel"
)

// Cell accumulates weighted color for one pixel.
type Cell struct {
	Color  Color
	Weight float64
}

// Normalized returns Color/Weight, or the raw accumulation when nothing
// with positive weight landed in the cell.
func (c Cell) Normalized() Color {
	if c.Weight > 0 {
		return c.Color.Mul(1 / c.Weight)
	}
	return c.Color
}

// Buffer is a rows x cols accumulation grid. It is owned by a single effect
// and is not safe for concurrent use.
type Buffer struct {
	rows, cols int
	filter     Filter
	cells      []Cell
}

func NewBuffer(rows, cols int, f Filter) *Buffer {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	return &Buffer{rows: rows, cols: cols, filter: f, cells: make([]Cell, rows*cols)}
}

func (b *Buffer) Rows() int { return b.rows }
func (b *Buffer) Cols() int { return b.cols }

func (b *Buffer) Clear() {
	for i := range b.cells {
		b.cells[i] = Cell{}
	}
}

// AddSample splats c into every cell whose center lies inside the filter
// support around p. Cells outside the grid are skipped.
func (b *Buffer) AddSample(p Vec2, c Color) {
	r := b.filter.Radius
	y0 := int(math.Ceil(p.Y - 0.5 - r.Y))
	y1 := int(math.Floor(p.Y - 0.5 + r.Y))
	x0 := int(math.Ceil(p.X - 0.5 - r.X))
	x1 := int(math.Floor(p.X - 0.5 + r.X))
	if y0 < 0 {
		y0 = 0
	}
	if x0 < 0 {
		x0 = 0
	}
	if y1 >= b.rows {
		y1 = b.rows - 1
	}
	if x1 >= b.cols {
		x1 = b.cols - 1
	}
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			w := b.filter.Weight(p.Sub(Center(x, y)))
			if w <= 0 {
				continue
			}
			cell := &b.cells[y*b.cols+x]
			cell.Color = cell.Color.Add(c.Mul(w))
			cell.Weight += w
		}
	}
}

// At returns the cell at x, y; out of range yields an empty cell.
func (b *Buffer) At(x, y int) Cell {
	if x < 0 || y < 0 || x >= b.cols || y >= b.rows {
		return Cell{}
	}
	return b.cells[y*b.cols+x]
}

// Resolve normalizes every cell and writes it to d.
func (b *Buffer) Resolve(d display.Display) {
	for y := 0; y < b.rows; y++ {
		for x := 0; x < b.cols; x++ {
			c := b.cells[y*b.cols+x].Normalized()
			d.Set(x, y, toPixel(c))
		}
	}
}

func toPixel(c Color) pixel.Pixel {
	return pixel.New(channel(c[0]), channel(c[1]), channel(c[2]), channel(c[3]))
}

func channel(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.Round(v))
}
