package effect

import (
	"math"

	"github.com/coreman2200/lightbox/internal/display"
	"github.com/coreman2200/lightbox/internal/render"
)

var (
	circleRim    = render.RGBW(1, 0.5, 0.25, 1)
	circleCenter = render.RGBW(1, 1, 1, 1)
)

// Circle is a disc breathing out from the middle of the grid, white at the
// center and warm at the rim.
type Circle struct {
	base
	pattern render.Pattern
	comp    *render.Compositor

	origin render.Vec2
	r2     float64
}

func (c *Circle) Setup(d display.Display) {
	c.comp = render.NewCompositor(d)
	c.comp.Pattern = c.pattern
	c.origin = render.Vec2{X: float64(d.Cols()) / 2, Y: float64(d.Rows()) / 2}
	c.r2 = 0
}

// circleReach is the peak radius per cell of the longer side: 5.5 on a
// 7x7 panel.
const circleReach = 5.5 / 7

// Radius is the disc radius at elapsed seconds on a rows x cols grid.
func Radius(elapsed float64, rows, cols int) float64 {
	rmax := circleReach * float64(max(rows, cols))
	return (0.5 - math.Cos(elapsed)/2) * rmax
}

func (c *Circle) Update(d display.Display, _, elapsed float64) {
	if degenerate(d) {
		return
	}
	if c.comp == nil {
		c.Setup(d)
	}
	r := Radius(elapsed, d.Rows(), d.Cols())
	c.r2 = r * r
	c.comp.Draw(d, c, elapsed)
}

func (c *Circle) Sample(p render.Vec2, _ float64) (render.Color, bool) {
	d2 := p.Sub(c.origin).Len2()
	if !(d2 < c.r2) {
		return render.Color{}, false
	}
	f := d2 / c.r2
	return circleCenter.Lerp(circleRim, f), true
}
