package effect

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/coreman2200/lightbox/internal/display"
	"github.com/coreman2200/lightbox/internal/pixel"
)

// Sweep lights the grid cell by cell in raster order, twenty cells a
// second, wrapping when it runs out.
type Sweep struct {
	base
	color pixel.Pixel
}

func (*Sweep) Setup(display.Display) {}

func (s *Sweep) Update(d display.Display, _, elapsed float64) {
	n := d.Rows() * d.Cols()
	if n <= 0 {
		return
	}
	lit := 0.0
	if v := math.Floor(elapsed * 20); !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0 {
		lit = math.Mod(v, float64(n))
	}
	for y := 0; y < d.Rows(); y++ {
		for x := 0; x < d.Cols(); x++ {
			p := pixel.Black
			if float64(y*d.Cols()+x) < lit {
				p = s.color
			}
			d.Set(x, y, p)
		}
	}
}

// Solid fills the grid with one color.
type Solid struct {
	base
	color pixel.Pixel
}

func (*Solid) Setup(display.Display) {}

func (s *Solid) Update(d display.Display, _, _ float64) { display.Fill(d, s.color) }

// Rainbow is a diagonal hue gradient that rotates one full turn every six
// seconds.
type Rainbow struct {
	base
}

func (*Rainbow) Setup(display.Display) {}

func (r *Rainbow) Update(d display.Display, _, elapsed float64) {
	span := float64(d.Rows() + d.Cols())
	if span <= 0 {
		return
	}
	if math.IsNaN(elapsed) || math.IsInf(elapsed, 0) {
		elapsed = 0
	}
	for y := 0; y < d.Rows(); y++ {
		for x := 0; x < d.Cols(); x++ {
			h := math.Mod(float64(x+y)/span*360+elapsed*60, 360)
			if h < 0 {
				h += 360
			}
			d.Set(x, y, pixel.FromColorful(colorful.Hsv(h, 1, 1), 0))
		}
	}
}

var channelPixels = [4]pixel.Pixel{
	pixel.New(255, 0, 0, 0),
	pixel.New(0, 255, 0, 0),
	pixel.New(0, 0, 255, 0),
	pixel.New(0, 0, 0, 255),
}

// Channels drives every LED red, green, blue, then white, one second each.
// Used to check wiring and color order.
type Channels struct {
	base
}

func (*Channels) Setup(display.Display) {}

func (c *Channels) Update(d display.Display, _, elapsed float64) {
	i := 0
	if v := math.Floor(elapsed); v > 0 && !math.IsInf(v, 0) {
		i = int(math.Mod(v, 4))
	}
	display.Fill(d, channelPixels[i])
}
