package display

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/coreman2200/lightbox/internal/layout"
	"github.com/coreman2200/lightbox/internal/led"
	"github.com/coreman2200/lightbox/internal/pixel"
)

// Strip is a Display backed by a chain of LEDs. Pixels are kept in a Grid;
// Render maps them through the layout, applies brightness and the power
// limiter, and writes one RGBW frame to the driver.
type Strip struct {
	*Grid

	layout layout.Layout
	drv    led.Driver
	power  led.Power

	brightness atomic.Uint64 // float64 bits
	frames     atomic.Uint64

	// Tap, when set, receives a raster-ordered copy of every rendered frame
	// after brightness. It runs on the render goroutine.
	Tap func(frame []pixel.Pixel)

	buf []byte
}

func NewStrip(l layout.Layout, drv led.Driver, power led.Power) (*Strip, error) {
	g, err := NewGrid(l.Rows, l.Cols)
	if err != nil {
		return nil, err
	}
	if drv == nil {
		return nil, fmt.Errorf("display: strip needs a driver")
	}
	s := &Strip{
		Grid:   g,
		layout: l,
		drv:    drv,
		power:  power,
		buf:    make([]byte, l.Count()*led.Channels),
	}
	s.SetBrightness(1)
	return s, nil
}

// SetBrightness sets the global brightness, clamped to [0,1]. Safe to call
// from any goroutine.
func (s *Strip) SetBrightness(b float64) {
	if math.IsNaN(b) || b < 0 {
		b = 0
	}
	if b > 1 {
		b = 1
	}
	s.brightness.Store(math.Float64bits(b))
}

func (s *Strip) Brightness() float64 {
	return math.Float64frombits(s.brightness.Load())
}

// Frames returns the number of frames written to the driver.
func (s *Strip) Frames() uint64 { return s.frames.Load() }

func (s *Strip) Render() error {
	b := s.Brightness()
	var tap []pixel.Pixel
	if s.Tap != nil {
		tap = make([]pixel.Pixel, len(s.px))
	}
	for y := 0; y < s.rows; y++ {
		for x := 0; x < s.cols; x++ {
			p := s.px[y*s.cols+x].Scale(b)
			if tap != nil {
				tap[y*s.cols+x] = p
			}
			i := s.layout.Index(x, y) * led.Channels
			s.buf[i+0], s.buf[i+1], s.buf[i+2], s.buf[i+3] = p.R(), p.G(), p.B(), p.W()
		}
	}
	led.Limit(s.buf, s.power)
	if err := s.drv.Write(s.buf); err != nil {
		return fmt.Errorf("strip render: %w", err)
	}
	s.frames.Add(1)
	if tap != nil {
		s.Tap(tap)
	}
	return nil
}

// Close releases the driver.
func (s *Strip) Close() error { return s.drv.Close() }
