package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/coreman2200/lightbox/internal/effect"
	"github.com/coreman2200/lightbox/internal/layout"
	"github.com/coreman2200/lightbox/internal/led"
	"github.com/coreman2200/lightbox/internal/sequence"
)

var (
	ErrZeroGrid      = errors.New("config: grid needs rows and cols")
	ErrEmptyPlaylist = errors.New("config: playlist is empty")
)

type Grid struct {
	Rows       int  `yaml:"rows"`
	Cols       int  `yaml:"cols"`
	Serpentine bool `yaml:"serpentine"`
}

type Power struct {
	LimitAmps float64 `yaml:"limit_amps"`
	WhiteCap  float64 `yaml:"white_cap"`
	ChanmA    float64 `yaml:"chan_ma,omitempty"`
}

type SPI struct {
	Dev     string `yaml:"dev"`      // e.g. /dev/spidev0.0
	SpeedHz int    `yaml:"speed_hz"` // e.g. 2400000
	ResetUs int    `yaml:"reset_us"` // e.g. 300
}

type PWM struct {
	GPIO int `yaml:"gpio"` // BCM pin, 18 on most boards
	DMA  int `yaml:"dma"`
	Freq int `yaml:"freq"`
}

type OPC struct {
	Addr    string `yaml:"addr"` // host:port of the fcserver
	Channel uint8  `yaml:"channel"`
}

type HTTP struct {
	Addr string `yaml:"addr"`
}

// Entry is one playlist slot.
type Entry struct {
	Effect     string              `yaml:"effect"`
	DurationS  float64             `yaml:"duration_s,omitempty"`
	Seed       int64               `yaml:"seed,omitempty"`
	Color      string              `yaml:"color,omitempty"`
	Samples    int                 `yaml:"samples,omitempty"`
	Pattern    string              `yaml:"pattern,omitempty"`
	Brightness []sequence.Keyframe `yaml:"brightness,omitempty"`
}

type Config struct {
	Driver     string  `yaml:"driver"` // sim | spi | pwm | nrz | opc | console
	ColorOrder string  `yaml:"color_order"`
	Brightness float64 `yaml:"brightness"`
	FPS        int     `yaml:"fps"`

	Grid  Grid  `yaml:"grid"`
	Power Power `yaml:"power"`
	SPI   SPI   `yaml:"spi,omitempty"`
	PWM   PWM   `yaml:"pwm,omitempty"`
	OPC   OPC   `yaml:"opc,omitempty"`
	HTTP  HTTP  `yaml:"http"`

	Playlist []Entry `yaml:"playlist"`
}

// Default is a 7x7 serpentine panel on the simulator running the stock
// playlist.
func Default() *Config {
	return &Config{
		Driver:     "sim",
		ColorOrder: "GRB",
		Brightness: 1,
		FPS:        30,
		Grid:       Grid{Rows: 7, Cols: 7, Serpentine: true},
		Power:      Power{LimitAmps: 3, WhiteCap: 3.0, ChanmA: 20},
		SPI:        SPI{Dev: "/dev/spidev0.0", SpeedHz: 2400000, ResetUs: 300},
		PWM:        PWM{GPIO: 18, DMA: 10, Freq: 800000},
		OPC:        OPC{Addr: "localhost:7890"},
		HTTP:       HTTP{Addr: ":8080"},
		Playlist: []Entry{
			{Effect: "sweep"},
			{Effect: "circle"},
			{Effect: "stripe"},
			{Effect: "fireflies"},
			{Effect: "letters"},
		},
	}
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// Validate reports the first problem that would keep playback from
// starting.
func (c *Config) Validate() error {
	if c.Grid.Rows <= 0 || c.Grid.Cols <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrZeroGrid, c.Grid.Rows, c.Grid.Cols)
	}
	if len(c.Playlist) == 0 {
		return ErrEmptyPlaylist
	}
	if c.FPS < 0 {
		return fmt.Errorf("config: fps %d is negative", c.FPS)
	}
	if c.Brightness < 0 || c.Brightness > 1 {
		return fmt.Errorf("config: brightness %v outside 0..1", c.Brightness)
	}
	if _, err := led.ParseOrder(c.ColorOrder); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	for i, e := range c.Playlist {
		if _, err := effect.New(e.Spec()); err != nil {
			return fmt.Errorf("config: playlist[%d]: %w", i, err)
		}
	}
	return nil
}

// Spec converts the entry into an effect spec.
func (e Entry) Spec() effect.Spec {
	return effect.Spec{
		Kind:     strings.TrimSpace(e.Effect),
		Duration: e.DurationS,
		Seed:     e.Seed,
		Color:    e.Color,
		Samples:  e.Samples,
		Pattern:  e.Pattern,
	}
}

// Layout returns the LED chain layout of the grid.
func (c *Config) Layout() layout.Layout {
	return layout.Layout{Rows: c.Grid.Rows, Cols: c.Grid.Cols, Serpentine: c.Grid.Serpentine}
}

// Interval is the frame budget for FPS, or the default when FPS is unset.
func (c *Config) Interval() time.Duration {
	if c.FPS <= 0 {
		return sequence.DefaultInterval
	}
	return time.Second / time.Duration(c.FPS)
}

// LEDPower converts the power section into limiter settings. A zero
// budget disables the global limit.
func (c *Config) LEDPower() led.Power {
	return led.Power{
		WhiteCap: c.Power.WhiteCap,
		ChanmA:   c.Power.ChanmA,
		BudgetmA: c.Power.LimitAmps * 1000,
	}
}
