package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/lightbox/internal/app"
	"github.com/coreman2200/lightbox/internal/config"
	"github.com/coreman2200/lightbox/internal/control"
)

func main() {
	// ---- Flags (config.yaml overrides anything it sets) ----
	var (
		rows       = flag.Int("rows", 7, "grid rows")
		cols       = flag.Int("cols", 7, "grid columns")
		serpentine = flag.Bool("serpentine", true, "odd rows are wired right to left")
		fps        = flag.Int("fps", 30, "target frames per second")
		brightness = flag.Float64("brightness", 1, "global brightness 0..1")
		driver     = flag.String("driver", "sim", "driver: sim | spi | pwm | nrz | opc | console")
		gpio       = flag.Int("gpio", 18, "PWM data pin (BCM number) for rpi_ws281x")
		colorOrder = flag.String("color", "GRB", "LED color order (e.g. GRB, GRBW)")
		spiDev     = flag.String("spi-dev", "/dev/spidev0.0", "spidev device for spi and nrz drivers")
		opcAddr    = flag.String("opc-addr", "localhost:7890", "Open Pixel Control server")
		addr       = flag.String("addr", ":8080", "HTTP listen address, empty to disable")
		configPath = flag.String("config", "config.yaml", "path to config.yaml")
		writeCfg   = flag.Bool("write-config", false, "write the effective config to -config and exit")
		logLevel   = flag.String("log-level", "info", "zerolog level")
		simOnly    = flag.Bool("sim-only", false, "force simulation (no hardware output)")
	)
	flag.Parse()

	// ---- Logging ----
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})
	if lvl, err := zerolog.ParseLevel(*logLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	} else {
		log.Warn().Str("level", *logLevel).Msg("unknown log level; using info")
	}

	// ---- Effective config: defaults, then flags, then config.yaml ----
	cfg := config.Default()
	cfg.Grid = config.Grid{Rows: *rows, Cols: *cols, Serpentine: *serpentine}
	cfg.FPS = *fps
	cfg.Brightness = *brightness
	cfg.Driver = *driver
	cfg.ColorOrder = *colorOrder
	cfg.PWM.GPIO = *gpio
	cfg.SPI.Dev = *spiDev
	cfg.OPC.Addr = *opcAddr
	cfg.HTTP.Addr = *addr

	if fileCfg, err := config.Load(*configPath); err != nil {
		log.Warn().Err(err).Str("path", *configPath).Msg("config load failed; proceeding with flags")
	} else {
		merge(cfg, fileCfg)
	}
	if *simOnly {
		cfg.Driver = "sim"
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if *writeCfg {
		if err := config.Save(*configPath, cfg); err != nil {
			log.Fatal().Err(err).Str("path", *configPath).Msg("write config")
		}
		log.Info().Str("path", *configPath).Msg("config written")
		return
	}

	// ---- Core ----
	core, err := app.NewCore(cfg, app.WithLogger(log.Logger))
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Driver).Msg("startup failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ---- HTTP routes ----
	var srv *http.Server
	if cfg.HTTP.Addr != "" {
		srv = &http.Server{
			Addr:         cfg.HTTP.Addr,
			Handler:      control.New(ctx, core, log.Logger).Handler(),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		}
		go func() {
			log.Info().Str("addr", cfg.HTTP.Addr).Str("driver", cfg.Driver).Msg("HTTP server starting")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal().Err(err).Msg("http server crashed")
			}
		}()
	}

	// ---- Run playback ----
	if err := core.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("start playback")
	}

	// ---- Graceful shutdown ----
	<-ctx.Done()
	log.Info().Msg("shutting down")
	if srv != nil {
		_ = srv.Close()
	}
	if err := core.Close(); err != nil {
		log.Error().Err(err).Msg("shutdown")
		os.Exit(1)
	}
}

// merge copies every field the file sets over the flag values.
func merge(dst, src *config.Config) {
	if src.Grid.Rows > 0 && src.Grid.Cols > 0 {
		dst.Grid = src.Grid
	}
	if src.FPS > 0 {
		dst.FPS = src.FPS
	}
	if src.Brightness > 0 {
		dst.Brightness = src.Brightness
	}
	if src.Driver != "" {
		dst.Driver = src.Driver
	}
	if src.ColorOrder != "" {
		dst.ColorOrder = src.ColorOrder
	}
	if src.Power != (config.Power{}) {
		dst.Power = src.Power
	}
	dst.SPI.Dev = firstNonEmpty(src.SPI.Dev, dst.SPI.Dev)
	dst.SPI.SpeedHz = firstNonZero(src.SPI.SpeedHz, dst.SPI.SpeedHz)
	dst.SPI.ResetUs = firstNonZero(src.SPI.ResetUs, dst.SPI.ResetUs)
	dst.PWM.GPIO = firstNonZero(src.PWM.GPIO, dst.PWM.GPIO)
	dst.PWM.DMA = firstNonZero(src.PWM.DMA, dst.PWM.DMA)
	dst.PWM.Freq = firstNonZero(src.PWM.Freq, dst.PWM.Freq)
	dst.OPC.Addr = firstNonEmpty(src.OPC.Addr, dst.OPC.Addr)
	if src.OPC.Channel != 0 {
		dst.OPC.Channel = src.OPC.Channel
	}
	dst.HTTP.Addr = firstNonEmpty(src.HTTP.Addr, dst.HTTP.Addr)
	if len(src.Playlist) > 0 {
		dst.Playlist = src.Playlist
	}
}

func firstNonZero(v, fallback int) int {
	if v != 0 {
		return v
	}
	return fallback
}

func firstNonEmpty(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
