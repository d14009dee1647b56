// Command seqsim plays the configured playlist headless on a manual clock
// and prints what the scheduler did. Useful for checking a config.yaml
// without hardware or waiting in real time.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/coreman2200/lightbox/internal/app"
	"github.com/coreman2200/lightbox/internal/config"
	"github.com/coreman2200/lightbox/internal/display"
	"github.com/coreman2200/lightbox/internal/led"
	"github.com/coreman2200/lightbox/internal/sequence"
)

func main() {
	var (
		configPath string
		frames     int
		fps        int
		verbose    bool
	)
	flag.StringVar(&configPath, "config", "", "config.yaml to simulate (defaults if empty)")
	flag.IntVar(&frames, "frames", 1800, "frames to simulate")
	flag.IntVar(&fps, "fps", 0, "override the configured fps")
	flag.BoolVar(&verbose, "v", false, "log every sim frame summary")
	flag.Parse()

	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).Level(level).With().Timestamp().Logger()

	cfg := config.Default()
	if configPath != "" {
		c, err := config.Load(configPath)
		if err != nil {
			log.Fatal().Err(err).Msg("load config")
		}
		cfg = c
	}
	if fps > 0 {
		cfg.FPS = fps
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	if err := run(cfg, frames, log); err != nil {
		log.Fatal().Err(err).Msg("simulation failed")
	}
}

func run(cfg *config.Config, frames int, log zerolog.Logger) error {
	sim := led.NewSim(log)
	if cfg.FPS > 0 {
		sim.LogEvery = cfg.FPS
	}
	strip, err := display.NewStrip(cfg.Layout(), sim, cfg.LEDPower())
	if err != nil {
		return err
	}
	defer strip.Close()
	strip.SetBrightness(cfg.Brightness)

	list, err := app.BuildPlaylist(cfg.Playlist)
	if err != nil {
		return err
	}

	clk := sequence.NewManualClock()
	var s *sequence.Scheduler
	hooks := sequence.Hooks{
		OnActivate: func(i int, name string) {
			fmt.Printf("%8.3fs  [%d] %s\n", clk.T.Sub(time.Unix(0, 0)).Seconds(), i, name)
		},
		OnFinish: func(from, to int) {
			fmt.Printf("%8.3fs  [%d] finished after %.2fs -> [%d]\n",
				clk.T.Sub(time.Unix(0, 0)).Seconds(), from, s.Elapsed(), to)
		},
	}
	s, err = sequence.New(strip, list,
		sequence.WithFrameInterval(cfg.Interval()),
		sequence.WithClock(clk),
		sequence.WithHooks(hooks),
		sequence.WithLogger(log),
	)
	if err != nil {
		return err
	}

	for i := 0; i < frames; i++ {
		if err := s.Tick(); err != nil {
			return err
		}
	}
	fmt.Printf("%d frames, %d written, %.1fs simulated\n",
		frames, sim.Frames(), clk.T.Sub(time.Unix(0, 0)).Seconds())
	return nil
}
