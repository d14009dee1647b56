package effect

import (
	"image"
	"image/color"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/coreman2200/lightbox/internal/display"
	"github.com/coreman2200/lightbox/internal/pixel"
)

// Letters shows A through Z, one letter per second.
type Letters struct {
	base
	color pixel.Pixel

	shown rune
	glyph *image.RGBA // glyph scaled to the grid
}

func (l *Letters) Setup(display.Display) {
	l.shown = 0
	l.glyph = nil
}

// Letter returns the letter on screen at elapsed seconds.
func Letter(elapsed float64) rune {
	if math.IsNaN(elapsed) || math.IsInf(elapsed, 0) || elapsed < 0 {
		return 'A'
	}
	return 'A' + rune(math.Mod(math.Floor(elapsed), 26))
}

func (l *Letters) Update(d display.Display, _, elapsed float64) {
	if degenerate(d) {
		return
	}
	r := Letter(elapsed)
	if r != l.shown || l.glyph == nil || l.glyph.Bounds().Dx() != d.Cols() || l.glyph.Bounds().Dy() != d.Rows() {
		l.glyph = rasterize(r, d.Rows(), d.Cols())
		l.shown = r
	}
	for y := 0; y < d.Rows(); y++ {
		for x := 0; x < d.Cols(); x++ {
			a := l.glyph.RGBAAt(x, y).A
			d.Set(x, y, l.color.AtBrightness(a))
		}
	}
}

// rasterize draws r into its 7x13 bitmap cell and scales the cell onto a
// rows x cols image whose alpha is the coverage.
func rasterize(r rune, rows, cols int) *image.RGBA {
	face := basicfont.Face7x13
	s := string(r)
	bounds, _ := font.BoundString(face, s)
	w := (bounds.Max.X - bounds.Min.X).Ceil()
	h := (bounds.Max.Y - bounds.Min.Y).Ceil()
	if w <= 0 || h <= 0 {
		return image.NewRGBA(image.Rect(0, 0, cols, rows))
	}
	src := image.NewRGBA(image.Rect(0, 0, w, h))
	dr := &font.Drawer{
		Dst:  src,
		Src:  image.NewUniform(color.White),
		Face: face,
		Dot:  fixed.Point26_6{X: -bounds.Min.X, Y: -bounds.Min.Y},
	}
	dr.DrawString(s)

	dst := image.NewRGBA(image.Rect(0, 0, cols, rows))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}
