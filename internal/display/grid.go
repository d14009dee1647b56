package display

import (
	"errors"

	"github.com/coreman2200/lightbox/internal/pixel"
)

// ErrZeroGrid is returned when a display would have no pixels.
var ErrZeroGrid = errors.New("display: grid must have at least one row and one column")

// Grid is an in-memory Display. Render only counts calls, which makes it the
// sink of choice for tests and headless runs.
type Grid struct {
	rows, cols int
	px         []pixel.Pixel
	renders    int
}

func NewGrid(rows, cols int) (*Grid, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrZeroGrid
	}
	return &Grid{rows: rows, cols: cols, px: make([]pixel.Pixel, rows*cols)}, nil
}

func (g *Grid) Rows() int { return g.rows }
func (g *Grid) Cols() int { return g.cols }

func (g *Grid) in(x, y int) bool { return x >= 0 && y >= 0 && x < g.cols && y < g.rows }

func (g *Grid) Set(x, y int, p pixel.Pixel) {
	if g.in(x, y) {
		g.px[y*g.cols+x] = p
	}
}

func (g *Grid) Get(x, y int) pixel.Pixel {
	if !g.in(x, y) {
		return pixel.Black
	}
	return g.px[y*g.cols+x]
}

func (g *Grid) Render() error {
	g.renders++
	return nil
}

func (g *Grid) Clear() {
	for i := range g.px {
		g.px[i] = pixel.Black
	}
}

// Renders returns how many times Render was called.
func (g *Grid) Renders() int { return g.renders }

// Pixels returns the raster-ordered pixel slice (row-major). Callers must
// not keep it across frames.
func (g *Grid) Pixels() []pixel.Pixel { return g.px }
