// Package effect holds the animations a playlist can run. The set of
// effects is closed: every variant is built by New and nothing outside the
// package can implement Effect.
package effect

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/coreman2200/lightbox/internal/display"
	"github.com/coreman2200/lightbox/internal/pixel"
	"github.com/coreman2200/lightbox/internal/render"
)

var (
	ErrUnknownEffect = errors.New("effect: unknown kind")
	ErrBadColor      = errors.New("effect: bad color")
)

// Effect is one playlist animation. Setup runs once each time the effect
// becomes active, Update once per frame, and Finished after every frame.
type Effect interface {
	Name() string
	Setup(d display.Display)
	Update(d display.Display, delta, elapsed float64)
	Finished(d display.Display, elapsed float64) bool

	effect()
}

// Spec describes an effect as configured in a playlist entry.
type Spec struct {
	Kind string
	// Duration overrides the effect's own run time in seconds; 0 keeps it.
	Duration float64
	// Seed for effects with randomness; 0 picks one from the clock.
	Seed int64
	// Color as #rrggbb or #rrggbbww.
	Color string
	// Samples and Pattern select the supersampling pattern, see
	// render.ParsePattern.
	Samples int
	Pattern string
}

// Kinds lists the names New accepts.
func Kinds() []string {
	return []string{"circle", "stripe", "fireflies", "letters", "sweep", "solid", "rainbow", "channels"}
}

// New builds the effect s names.
func New(s Spec) (Effect, error) {
	kind := strings.ToLower(strings.TrimSpace(s.Kind))
	b := base{name: kind, duration: s.Duration}
	switch kind {
	case "circle":
		b.orDuration(5)
		return &Circle{base: b, pattern: render.ParsePattern(s.Pattern, s.Samples)}, nil
	case "stripe":
		b.orDuration(10)
		return &Stripe{base: b, pattern: render.ParsePattern(s.Pattern, s.Samples)}, nil
	case "fireflies":
		b.orDuration(30)
		seed := s.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		return &Fireflies{base: b, seed: seed}, nil
	case "letters":
		b.orDuration(26)
		return &Letters{base: b, color: pixel.New(255, 255, 255, 255)}, nil
	case "sweep":
		b.orDuration(4.9)
		return &Sweep{base: b, color: pixel.New(255, 0, 127, 255)}, nil
	case "solid":
		b.orDuration(5)
		c := pixel.New(255, 255, 255, 0)
		if s.Color != "" {
			var err error
			if c, err = ParseColor(s.Color); err != nil {
				return nil, err
			}
		}
		return &Solid{base: b, color: c}, nil
	case "rainbow":
		b.orDuration(10)
		return &Rainbow{base: b}, nil
	case "channels":
		b.orDuration(4)
		return &Channels{base: b}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEffect, s.Kind)
}

// base carries what every effect shares: its name and run time.
type base struct {
	name     string
	duration float64
}

func (b *base) orDuration(d float64) {
	if b.duration <= 0 {
		b.duration = d
	}
}

func (b *base) Name() string { return b.name }

func (b *base) Finished(_ display.Display, elapsed float64) bool { return elapsed > b.duration }

func (*base) effect() {}

// ParseColor reads #rrggbb or #rrggbbww.
func ParseColor(s string) (pixel.Pixel, error) {
	s = strings.TrimSpace(s)
	var w uint64
	if len(s) == 9 {
		var err error
		if w, err = strconv.ParseUint(s[7:], 16, 8); err != nil {
			return pixel.Black, fmt.Errorf("%w: %q", ErrBadColor, s)
		}
		s = s[:7]
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return pixel.Black, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	return pixel.FromColorful(c, float64(w)/255), nil
}

func degenerate(d display.Display) bool { return d.Rows() <= 0 || d.Cols() <= 0 }
