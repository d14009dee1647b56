// Package display defines the pixel sink effects draw into, plus the
// in-memory grid and the LED strip implementations.
package display

import "github.com/coreman2200/lightbox/internal/pixel"

// Display is a rows x cols pixel sink. Coordinates are x = column, y = row.
type Display interface {
	Rows() int
	Cols() int
	// Set writes a pixel; out-of-range writes are ignored.
	Set(x, y int, p pixel.Pixel)
	// Get reads back the last written pixel; out of range yields black.
	Get(x, y int) pixel.Pixel
	// Render flushes the pixel state to its visible form.
	Render() error
	// Clear sets every pixel to black. It does not render.
	Clear()
}

// Dimmer is implemented by displays with a global brightness control.
type Dimmer interface {
	SetBrightness(b float64)
	Brightness() float64
}

// Fill sets every pixel of d to p.
func Fill(d Display, p pixel.Pixel) {
	for y := 0; y < d.Rows(); y++ {
		for x := 0; x < d.Cols(); x++ {
			d.Set(x, y, p)
		}
	}
}

// Fade scales every pixel of d by s (read-modify-write).
func Fade(d Display, s float64) {
	for y := 0; y < d.Rows(); y++ {
		for x := 0; x < d.Cols(); x++ {
			d.Set(x, y, d.Get(x, y).Scale(s))
		}
	}
}
