package render

import "math"

// Vec2 is a point or offset in grid space. Cell (x, y) covers
// [x, x+1) x [y, y+1) and has its center at (x+0.5, y+0.5).
type Vec2 struct{ X, Y float64 }

func (v Vec2) Add(o Vec2) Vec2    { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2    { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Mul(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }
func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }
func (v Vec2) Len() float64       { return math.Hypot(v.X, v.Y) }
func (v Vec2) Len2() float64      { return v.Dot(v) }

// Center returns the center of cell x, y.
func Center(x, y int) Vec2 { return Vec2{float64(x) + 0.5, float64(y) + 0.5} }

// Color is an RGBW color on the 8-bit scale (0..255 per channel) before
// clamping. Values outside the range are legal during accumulation.
type Color [4]float64

// RGBW builds a Color from unit-range channels.
func RGBW(r, g, b, w float64) Color { return Color{r * 255, g * 255, b * 255, w * 255} }

func (c Color) Mul(s float64) Color { return Color{c[0] * s, c[1] * s, c[2] * s, c[3] * s} }
func (c Color) Add(o Color) Color   { return Color{c[0] + o[0], c[1] + o[1], c[2] + o[2], c[3] + o[3]} }

// Lerp returns c*(1-t) + o*t.
func (c Color) Lerp(o Color, t float64) Color { return c.Mul(1 - t).Add(o.Mul(t)) }

// Samplable is a continuous shape. ok is false where the shape has no
// coverage at p.
type Samplable interface {
	Sample(p Vec2, t float64) (c Color, ok bool)
}

// SamplableFunc adapts a function to Samplable.
type SamplableFunc func(p Vec2, t float64) (Color, bool)

func (f SamplableFunc) Sample(p Vec2, t float64) (Color, bool) { return f(p, t) }
