package render

import "math"

// Filter is a separable truncated Gaussian: each axis contributes
// max(0, exp(-alpha*d^2) - exp(-alpha*r^2)), so the weight falls to zero at
// the radius and stays non-negative.
type Filter struct {
	Radius Vec2
	Alpha  float64
	edge   Vec2
}

// DefaultFilter is the reconstruction filter effects use unless they ask
// for another one.
var DefaultFilter = NewGaussian(Vec2{1, 1}, 1)

func NewGaussian(radius Vec2, alpha float64) Filter {
	return Filter{
		Radius: radius,
		Alpha:  alpha,
		edge: Vec2{
			math.Exp(-alpha * radius.X * radius.X),
			math.Exp(-alpha * radius.Y * radius.Y),
		},
	}
}

// Weight evaluates the filter at offset d from a cell center.
func (f Filter) Weight(d Vec2) float64 {
	if math.Abs(d.X) >= f.Radius.X || math.Abs(d.Y) >= f.Radius.Y {
		return 0
	}
	return f.gauss(d.X, f.edge.X) * f.gauss(d.Y, f.edge.Y)
}

func (f Filter) gauss(d, e float64) float64 {
	return math.Max(0, math.Exp(-f.Alpha*d*d)-e)
}
