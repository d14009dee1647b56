package effect

import (
	"math"

	"github.com/coreman2200/lightbox/internal/display"
	"github.com/coreman2200/lightbox/internal/render"
)

var stripeColors = [4]render.Color{
	render.RGBW(1, 0, 1, 1), // magenta
	render.RGBW(0, 1, 1, 1), // cyan
	render.RGBW(1, 1, 0, 1), // yellow
	render.RGBW(1, 1, 1, 1),
}

// Stripe is a field of unit-wide colored bands rotating about the grid
// center with a lurching angular speed.
type Stripe struct {
	base
	pattern render.Pattern
	comp    *render.Compositor

	xf render.Affine
}

func (s *Stripe) Setup(d display.Display) {
	s.comp = render.NewCompositor(d)
	s.comp.Pattern = s.pattern
	s.xf = render.Identity()
}

// StripeAngle is the band rotation in radians at elapsed seconds.
func StripeAngle(elapsed float64) float64 {
	y := elapsed * 0.7 * 20 / math.Pi
	return (math.Sin(y) + y) / 4
}

func (s *Stripe) Update(d display.Display, _, elapsed float64) {
	if degenerate(d) {
		return
	}
	if s.comp == nil {
		s.Setup(d)
	}
	c := render.Vec2{X: float64(d.Cols()) / 2, Y: float64(d.Rows()) / 2}
	s.xf = render.RotateAbout(c, StripeAngle(elapsed))
	s.comp.Draw(d, s, elapsed)
}

func (s *Stripe) Sample(p render.Vec2, _ float64) (render.Color, bool) {
	q := s.xf.Apply(p)
	band := math.Floor(q.X / 2)
	if q.X-2*band >= 1 || math.IsNaN(band) {
		return render.Color{}, false
	}
	i := int(band) % len(stripeColors)
	if i < 0 {
		i += len(stripeColors)
	}
	return stripeColors[i], true
}
