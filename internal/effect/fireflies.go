package effect

import (
	"math"
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/coreman2200/lightbox/internal/display"
	"github.com/coreman2200/lightbox/internal/pixel"
)

const (
	maxFireflies = 10
	fireflyFade  = 0.90
)

type firefly struct {
	x0, y0   int
	color    pixel.Pixel
	age, ttl float64
}

// Fireflies spawns short-lived points of light that pulse and wander while
// the rest of the grid fades behind them.
type Fireflies struct {
	base
	seed  int64
	rng   *rand.Rand
	flies []firefly
}

func (f *Fireflies) Setup(display.Display) {
	f.rng = rand.New(rand.NewSource(f.seed))
	f.flies = f.flies[:0]
}

// Count returns the number of live fireflies.
func (f *Fireflies) Count() int { return len(f.flies) }

// cycle is a sine wave over one period of ratio, swinging in [0, a] with a
// phase picked by start.
func cycle(a, ratio, start float64) float64 {
	if a == 0 {
		return 0
	}
	p := start/a*math.Pi - math.Pi/2
	return (a*math.Sin(2*math.Pi*ratio-p) + a) / 2
}

func (f *Fireflies) spawn(rows, cols int) firefly {
	return firefly{
		x0:    f.rng.Intn(cols),
		y0:    f.rng.Intn(rows),
		color: pixel.FromColorful(colorful.Hsv(f.rng.Float64()*360, 1, 1), 0),
		ttl:   1 + f.rng.Float64()*59,
	}
}

func (f *Fireflies) Update(d display.Display, delta, _ float64) {
	if degenerate(d) {
		return
	}
	if f.rng == nil {
		f.Setup(d)
	}
	rows, cols := d.Rows(), d.Cols()
	if len(f.flies) < maxFireflies {
		f.flies = append(f.flies, f.spawn(rows, cols))
	}

	display.Fade(d, fireflyFade)

	if delta < 0 || math.IsNaN(delta) {
		delta = 0
	}
	live := f.flies[:0]
	for _, b := range f.flies {
		b.age += delta
		ratio := math.Min(1, b.age/b.ttl)
		bright := uint8(cycle(255, ratio, 255))
		x := clampInt(int(cycle(float64(cols-1), ratio, float64(b.x0))), cols)
		y := clampInt(int(cycle(float64(rows-1), ratio, float64(b.y0))), rows)
		d.Set(x, y, b.color.AtBrightness(bright))
		if b.age <= b.ttl {
			live = append(live, b)
		}
	}
	f.flies = live
}

func clampInt(v, n int) int {
	if v < 0 {
		return 0
	}
	if v >= n {
		return n - 1
	}
	return v
}
