package render

import "github.com/coreman2200/lightbox/internal/display"

// Compositor rasterizes a Samplable into a display by supersampling
// through an accumulation buffer.
type Compositor struct {
	Buffer  *Buffer
	Pattern Pattern
	// Background deposits a zero-color sample wherever the shape has no
	// coverage, pulling anti-aliased edges toward black.
	Background bool
}

// NewCompositor sizes a buffer for d with the default filter and a 6x6
// grid pattern.
func NewCompositor(d display.Display) *Compositor {
	return &Compositor{
		Buffer:     NewBuffer(d.Rows(), d.Cols(), DefaultFilter),
		Pattern:    Grid{Density: 6},
		Background: true,
	}
}

// Draw resamples s at time t and writes the result to d.
func (c *Compositor) Draw(d display.Display, s Samplable, t float64) {
	b := c.Buffer
	if b == nil || b.rows != d.Rows() || b.cols != d.Cols() {
		f := DefaultFilter
		if b != nil {
			f = b.filter
		}
		b = NewBuffer(d.Rows(), d.Cols(), f)
		c.Buffer = b
	}
	p := c.Pattern
	if p == nil {
		p = Grid{Density: 6}
	}
	b.Clear()
	p.Points(b.rows, b.cols, func(pt Vec2) {
		col, ok := s.Sample(pt, t)
		switch {
		case ok:
			b.AddSample(pt, col)
		case c.Background:
			b.AddSample(pt, Color{})
		}
	})
	b.Resolve(d)
}
