// Package pixel holds the packed RGBW color value written to the LED grid.
package pixel

import (
	"fmt"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Channel offsets inside the packed word. The layout matches ws2811_led_t
// (0xWWRRGGBB) so hardware buffers can take a Pixel unchanged.
const (
	WhiteOffset uint32 = 0x18
	RedOffset   uint32 = 0x10
	GreenOffset uint32 = 0x08
	BlueOffset  uint32 = 0x00
)

// Pixel is a 4-channel 8-bit color packed into one 32-bit word.
// The zero value is black.
type Pixel uint32

// Black is the zero pixel.
const Black Pixel = 0

// New packs r, g, b, w into a Pixel.
func New(r, g, b, w uint8) Pixel {
	return Pixel(uint32(w)<<WhiteOffset | uint32(r)<<RedOffset | uint32(g)<<GreenOffset | uint32(b)<<BlueOffset)
}

func channel(v Pixel, off uint32) uint8 {
	return uint8((uint32(v) >> off) & 0xFF)
}

func (p Pixel) R() uint8 { return channel(p, RedOffset) }
func (p Pixel) G() uint8 { return channel(p, GreenOffset) }
func (p Pixel) B() uint8 { return channel(p, BlueOffset) }
func (p Pixel) W() uint8 { return channel(p, WhiteOffset) }

// Scale multiplies every channel by s and truncates. s is clamped to [0,1].
func (p Pixel) Scale(s float64) Pixel {
	if s >= 1 {
		return p
	}
	if s <= 0 || math.IsNaN(s) {
		return Black
	}
	return New(
		uint8(float64(p.R())*s),
		uint8(float64(p.G())*s),
		uint8(float64(p.B())*s),
		uint8(float64(p.W())*s),
	)
}

// AtBrightness scales the pixel by b/255.
func (p Pixel) AtBrightness(b uint8) Pixel {
	return p.Scale(float64(b) / 255.0)
}

// FromFloat converts linear 0..1 channels into a Pixel, clamping and
// rounding each channel to the nearest 8-bit value.
func FromFloat(r, g, b, w float64) Pixel {
	return New(to8(r), to8(g), to8(b), to8(w))
}

func to8(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(math.Round(v * 255.0))
}

// FromColorful converts a go-colorful color (clamped to gamut) plus a white
// level into a Pixel.
func FromColorful(c colorful.Color, w float64) Pixel {
	c = c.Clamped()
	return FromFloat(c.R, c.G, c.B, w)
}

// Colorful returns the RGB part of the pixel as a go-colorful color.
func (p Pixel) Colorful() colorful.Color {
	return colorful.Color{
		R: float64(p.R()) / 255.0,
		G: float64(p.G()) / 255.0,
		B: float64(p.B()) / 255.0,
	}
}

// RGBA folds the white channel into RGB, for previews that have no white
// emitter.
func (p Pixel) RGBA() color.RGBA {
	w := uint16(p.W())
	add := func(c uint8) uint8 {
		v := uint16(c) + w
		if v > 255 {
			return 255
		}
		return uint8(v)
	}
	return color.RGBA{R: add(p.R()), G: add(p.G()), B: add(p.B()), A: 255}
}

func (p Pixel) String() string {
	if p.W() == 0 {
		return fmt.Sprintf("(%d, %d, %d)", p.R(), p.G(), p.B())
	}
	return fmt.Sprintf("(%d, %d, %d / %d)", p.R(), p.G(), p.B(), p.W())
}
