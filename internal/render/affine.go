package render

import "math"

// Affine is a 2x3 row-major transform:
//
//	x' = A*x + B*y + C
//	y' = D*x + E*y + F
type Affine struct {
	A, B, C float64
	D, E, F float64
}

func Identity() Affine { return Affine{A: 1, E: 1} }

func Translate(x, y float64) Affine { return Affine{A: 1, C: x, E: 1, F: y} }

func Rotate(angle float64) Affine {
	s, c := math.Sincos(angle)
	return Affine{A: c, B: -s, D: s, E: c}
}

// RotateAbout rotates by angle around center: T(c) * R(a) * T(-c).
func RotateAbout(c Vec2, angle float64) Affine {
	return Translate(c.X, c.Y).Mul(Rotate(angle)).Mul(Translate(-c.X, -c.Y))
}

// Mul returns m * o; o is applied first.
func (m Affine) Mul(o Affine) Affine {
	return Affine{
		A: m.A*o.A + m.B*o.D,
		B: m.A*o.B + m.B*o.E,
		C: m.A*o.C + m.B*o.F + m.C,
		D: m.D*o.A + m.E*o.D,
		E: m.D*o.B + m.E*o.E,
		F: m.D*o.C + m.E*o.F + m.F,
	}
}

func (m Affine) Apply(p Vec2) Vec2 {
	return Vec2{m.A*p.X + m.B*p.Y + m.C, m.D*p.X + m.E*p.Y + m.F}
}
