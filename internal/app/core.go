// Package app assembles a running lightbox from configuration: driver,
// strip, playlist and scheduler, plus start/stop control of the loop.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/coreman2200/lightbox/internal/config"
	diag "github.com/coreman2200/lightbox/internal/diagnostics"
	"github.com/coreman2200/lightbox/internal/display"
	"github.com/coreman2200/lightbox/internal/effect"
	"github.com/coreman2200/lightbox/internal/led"
	"github.com/coreman2200/lightbox/internal/pixel"
	"github.com/coreman2200/lightbox/internal/sequence"
)

var ErrRunning = errors.New("app: playback already running")

// Status is a snapshot of the loop for health reporting.
type Status struct {
	Running    bool    `json:"running"`
	Index      int     `json:"index"`
	Effect     string  `json:"effect"`
	Frames     uint64  `json:"frame_id"`
	UptimeS    float64 `json:"uptime_s"`
	Rows       int     `json:"rows"`
	Cols       int     `json:"cols"`
	FPS        float64 `json:"fps"`
	Brightness float64 `json:"brightness"`
	Driver     string  `json:"driver"`
}

// Core owns the strip and the playback goroutine. Its methods are safe
// for concurrent use.
type Core struct {
	Config *config.Config
	Strip  *display.Strip

	log      zerolog.Logger
	drv      led.Driver
	clock    sequence.Clock
	playlist sequence.Playlist
	started  time.Time

	mu      sync.Mutex
	cancel  context.CancelFunc
	loop    *loop
	running bool
	index   int
	current string

	lmu     sync.RWMutex
	onFrame []func([]pixel.Pixel)
	onDiag  []func(diag.Diagnostic)
}

// loop is one run of the playback goroutine. done is closed once err is
// set, so any number of Stop callers can wait on it.
type loop struct {
	done chan struct{}
	err  error
}

type Option func(*Core)

// WithDriver uses d instead of opening the configured driver.
func WithDriver(d led.Driver) Option { return func(c *Core) { c.drv = d } }

// WithClock replaces the wall clock, for headless simulation.
func WithClock(clk sequence.Clock) Option { return func(c *Core) { c.clock = clk } }

func WithLogger(l zerolog.Logger) Option { return func(c *Core) { c.log = l } }

// NewCore validates cfg, opens the LED driver and builds the playlist.
// Playback does not start until Start.
func NewCore(cfg *config.Config, opts ...Option) (*Core, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Core{Config: cfg, log: zerolog.Nop(), clock: sequence.SystemClock{}, started: time.Now(), index: -1}
	for _, o := range opts {
		o(c)
	}

	l := cfg.Layout()
	if c.drv == nil {
		order, err := led.ParseOrder(cfg.ColorOrder)
		if err != nil {
			return nil, err
		}
		c.drv, err = led.Open(led.Options{
			Driver:     cfg.Driver,
			Count:      l.Count(),
			Order:      order,
			SPIDev:     cfg.SPI.Dev,
			SPISpeed:   cfg.SPI.SpeedHz,
			ResetUs:    cfg.SPI.ResetUs,
			GPIO:       cfg.PWM.GPIO,
			DMA:        cfg.PWM.DMA,
			FreqHz:     cfg.PWM.Freq,
			OPCAddr:    cfg.OPC.Addr,
			OPCChannel: cfg.OPC.Channel,
			Log:        c.log,
		})
		if err != nil {
			return nil, err
		}
	}

	strip, err := display.NewStrip(l, c.drv, cfg.LEDPower())
	if err != nil {
		_ = c.drv.Close()
		return nil, err
	}
	strip.SetBrightness(cfg.Brightness)
	strip.Tap = c.tap
	c.Strip = strip

	if c.playlist, err = BuildPlaylist(cfg.Playlist); err != nil {
		_ = c.drv.Close()
		return nil, err
	}
	return c, nil
}

// BuildPlaylist turns configured entries into scheduler entries.
func BuildPlaylist(entries []config.Entry) (sequence.Playlist, error) {
	pl := make(sequence.Playlist, 0, len(entries))
	for i, e := range entries {
		eff, err := effect.New(e.Spec())
		if err != nil {
			return nil, fmt.Errorf("playlist[%d]: %w", i, err)
		}
		entry := sequence.Entry{Effect: eff}
		if len(e.Brightness) > 0 {
			entry.Brightness = sequence.NewEnvelope(e.Brightness...)
		}
		pl = append(pl, entry)
	}
	return pl, nil
}

// OnFrame registers fn to receive every rendered frame. fn runs on the
// loop goroutine and must not keep the slice.
func (c *Core) OnFrame(fn func([]pixel.Pixel)) {
	c.lmu.Lock()
	c.onFrame = append(c.onFrame, fn)
	c.lmu.Unlock()
}

// OnDiagnostic registers fn to receive loop events.
func (c *Core) OnDiagnostic(fn func(diag.Diagnostic)) {
	c.lmu.Lock()
	c.onDiag = append(c.onDiag, fn)
	c.lmu.Unlock()
}

func (c *Core) tap(frame []pixel.Pixel) {
	c.lmu.RLock()
	defer c.lmu.RUnlock()
	for _, fn := range c.onFrame {
		fn(frame)
	}
}

func (c *Core) emit(d diag.Diagnostic) {
	c.lmu.RLock()
	defer c.lmu.RUnlock()
	for _, fn := range c.onDiag {
		fn(d)
	}
}

// Start launches the playback loop from the first entry of the configured
// playlist.
func (c *Core) Start(ctx context.Context) error {
	return c.start(ctx, c.playlist)
}

// Play runs only the given effects until the next Reset or Start. Used for
// wiring checks.
func (c *Core) Play(ctx context.Context, specs ...effect.Spec) error {
	pl := make(sequence.Playlist, 0, len(specs))
	for _, s := range specs {
		e, err := effect.New(s)
		if err != nil {
			return err
		}
		pl = append(pl, sequence.Entry{Effect: e})
	}
	if err := c.Stop(); err != nil {
		c.log.Warn().Err(err).Msg("previous playback ended with error")
	}
	c.emit(diag.New(diag.Info, "TEST.RUNNING", "Running test").With("effects", len(pl)))
	return c.start(ctx, pl)
}

func (c *Core) start(ctx context.Context, pl sequence.Playlist) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return ErrRunning
	}
	if c.cancel != nil {
		// the previous loop already exited on its own
		c.cancel()
	}
	s, err := sequence.New(c.Strip, pl,
		sequence.WithFrameInterval(c.Config.Interval()),
		sequence.WithClock(c.clock),
		sequence.WithLogger(c.log),
		sequence.WithHooks(sequence.Hooks{
			OnActivate: c.activated,
			OnFinish: func(from, to int) {
				c.emit(diag.New(diag.Info, "EFFECT.FINISHED", "Effect finished").With("from", from).With("to", to))
			},
		}),
	)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	l := &loop{done: make(chan struct{})}
	c.cancel, c.loop, c.running = cancel, l, true
	go func() {
		err := s.Run(ctx)
		if err != nil {
			c.log.Error().Err(err).Msg("playback stopped")
			c.emit(diag.New(diag.Err, "PLAYBACK.ERROR", "Playback stopped").With("error", err.Error()))
		}
		c.mu.Lock()
		c.running, c.index, c.current = false, -1, ""
		l.err = err
		c.mu.Unlock()
		close(l.done)
	}()
	c.log.Info().Int("entries", len(pl)).Dur("interval", c.Config.Interval()).Msg("playback started")
	return nil
}

func (c *Core) activated(i int, name string) {
	c.mu.Lock()
	c.index, c.current = i, name
	c.mu.Unlock()
	c.log.Info().Int("index", i).Str("effect", name).Msg("effect active")
	c.emit(diag.New(diag.Info, "EFFECT.ACTIVE", "Effect active").With("index", i).With("effect", name))
}

// Stop cancels the loop and waits for it to clear the strip. It returns
// the loop's error, if any. Stopping an idle core is a no-op.
func (c *Core) Stop() error {
	c.mu.Lock()
	cancel, l := c.cancel, c.loop
	c.mu.Unlock()
	if cancel == nil {
		return nil
	}
	cancel()
	<-l.done

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loop == l {
		c.cancel, c.loop = nil, nil
	}
	return l.err
}

// Reset restarts the configured playlist from its first entry.
func (c *Core) Reset(ctx context.Context) error {
	if err := c.Stop(); err != nil {
		c.log.Warn().Err(err).Msg("previous playback ended with error")
	}
	return c.Start(ctx)
}

// Running reports whether the loop goroutine is alive.
func (c *Core) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// SetBrightness sets the strip brightness from a percentage.
func (c *Core) SetBrightness(percent float64) {
	c.Strip.SetBrightness(percent / 100)
}

// Brightness returns the strip brightness as a percentage.
func (c *Core) Brightness() float64 { return c.Strip.Brightness() * 100 }

func (c *Core) Status() Status {
	c.mu.Lock()
	idx, name := c.index, c.current
	c.mu.Unlock()
	iv := c.Config.Interval()
	return Status{
		Running:    c.Running(),
		Index:      idx,
		Effect:     name,
		Frames:     c.Strip.Frames(),
		UptimeS:    time.Since(c.started).Seconds(),
		Rows:       c.Strip.Rows(),
		Cols:       c.Strip.Cols(),
		FPS:        float64(time.Second) / float64(iv),
		Brightness: c.Brightness(),
		Driver:     c.Config.Driver,
	}
}

// Close stops playback and releases the driver.
func (c *Core) Close() error {
	err := c.Stop()
	if cerr := c.Strip.Close(); err == nil {
		err = cerr
	}
	return err
}
