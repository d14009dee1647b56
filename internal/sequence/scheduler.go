// Package sequence plays a playlist of effects on a display, one frame per
// tick, moving to the next entry whenever the active one finishes.
package sequence

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/coreman2200/lightbox/internal/display"
)

// Scheduler owns the playback state. It is driven from a single goroutine:
// Tick, Reset and Run must not be called concurrently, and the display
// belongs to the scheduler while Run is going.
type Scheduler struct {
	d     display.Display
	list  Playlist
	clock Clock
	pacer Pacer
	hooks Hooks
	log   zerolog.Logger

	state      State
	index      int
	elapsed    float64
	last       time.Time
	needsSetup bool
}

type Option func(*Scheduler)

func WithFrameInterval(d time.Duration) Option { return func(s *Scheduler) { s.pacer.Interval = d } }
func WithClock(c Clock) Option                 { return func(s *Scheduler) { s.clock = c } }
func WithHooks(h Hooks) Option                 { return func(s *Scheduler) { s.hooks = h } }
func WithLogger(l zerolog.Logger) Option       { return func(s *Scheduler) { s.log = l } }

// New checks the configuration and returns an uninitialized scheduler.
func New(d display.Display, list Playlist, opts ...Option) (*Scheduler, error) {
	if d == nil {
		return nil, ErrNoDisplay
	}
	if len(list) == 0 {
		return nil, ErrEmptyPlaylist
	}
	for i, e := range list {
		if e.Effect == nil {
			return nil, fmt.Errorf("sequence: entry %d has no effect", i)
		}
	}
	if d.Rows() <= 0 || d.Cols() <= 0 {
		return nil, ErrZeroGrid
	}
	s := &Scheduler{
		d:     d,
		list:  list,
		clock: SystemClock{},
		pacer: Pacer{Interval: DefaultInterval},
		log:   zerolog.Nop(),
		state: Uninitialized,
	}
	for _, o := range opts {
		o(s)
	}
	if s.pacer.Interval <= 0 {
		return nil, ErrBadInterval
	}
	if s.clock == nil {
		s.clock = SystemClock{}
	}
	return s, nil
}

func (s *Scheduler) State() State     { return s.state }
func (s *Scheduler) Index() int       { return s.index }
func (s *Scheduler) Elapsed() float64 { return s.elapsed }
func (s *Scheduler) Len() int         { return len(s.list) }
func (s *Scheduler) Current() Effect  { return s.list[s.index].Effect }

// Interval returns the frame budget.
func (s *Scheduler) Interval() time.Duration { return s.pacer.Interval }

// Reset rewinds to the first entry; its Setup runs on the next tick.
func (s *Scheduler) Reset() {
	s.index = 0
	s.elapsed = 0
	s.last = s.clock.Now()
	s.needsSetup = true
	s.state = Active
}

// Tick runs one frame. The only error it returns comes from rendering the
// display; the scheduler does not retry.
func (s *Scheduler) Tick() error {
	if s.state != Active {
		s.Reset()
	}
	start := s.clock.Now()
	delta := start.Sub(s.last).Seconds()
	if delta < 0 {
		delta = 0
	}
	s.last = start

	e := s.list[s.index].Effect
	ok := true
	if s.needsSetup {
		s.needsSetup = false
		ok = s.guard(e, "setup", func() { e.Setup(s.d) })
		if s.hooks.OnActivate != nil {
			s.hooks.OnActivate(s.index, e.Name())
		}
		s.log.Debug().Int("index", s.index).Str("effect", e.Name()).Msg("effect active")
	}
	if ok {
		ok = s.guard(e, "update", func() { e.Update(s.d, delta, s.elapsed) })
	}
	s.elapsed += delta

	if env := s.list[s.index].Brightness; env != nil {
		if dm, isDimmer := s.d.(display.Dimmer); isDimmer {
			dm.SetBrightness(env.Eval(s.elapsed))
		}
	}
	if err := s.d.Render(); err != nil {
		return fmt.Errorf("render frame: %w", err)
	}

	s.pacer.Wait(s.clock, start)

	finished := !ok
	if ok && !s.guard(e, "finished", func() { finished = e.Finished(s.d, s.elapsed) }) {
		finished = true
	}
	if finished {
		s.advance()
	}
	return nil
}

func (s *Scheduler) advance() {
	from := s.index
	s.index = (s.index + 1) % len(s.list)
	s.elapsed = 0
	s.last = s.clock.Now()
	s.needsSetup = true
	if s.hooks.OnFinish != nil {
		s.hooks.OnFinish(from, s.index)
	}
}

// guard runs fn and turns a panic into false so one broken effect cannot
// take the loop down.
func (s *Scheduler) guard(e Effect, stage string, fn func()) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().
				Int("index", s.index).
				Str("effect", e.Name()).
				Str("stage", stage).
				Interface("panic", r).
				Msg("effect panicked, skipping")
			ok = false
		}
	}()
	fn()
	return true
}

// Run resets and ticks until ctx is done or rendering fails. Cancellation
// is checked before every tick, so the tick in flight always completes.
// However Run exits, the display is cleared and rendered exactly once.
// Cancellation is not an error.
func (s *Scheduler) Run(ctx context.Context) (err error) {
	s.Reset()
	defer func() {
		s.d.Clear()
		if rerr := s.d.Render(); rerr != nil && err == nil {
			err = fmt.Errorf("teardown: %w", rerr)
		}
		s.state = Stopped
		s.log.Debug().Msg("playback stopped")
	}()
	for {
		if ctx.Err() != nil {
			return nil
		}
		if err := s.Tick(); err != nil {
			return err
		}
	}
}
