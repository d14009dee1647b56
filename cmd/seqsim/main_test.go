package main

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/lightbox/internal/config"
)

func TestRunDefaultPlaylist(t *testing.T) {
	cfg := config.Default()
	cfg.FPS = 10
	require.NoError(t, run(cfg, 50, zerolog.Nop()))
}

func TestRunRejectsUnknownEffect(t *testing.T) {
	cfg := config.Default()
	cfg.Playlist = []config.Entry{{Effect: "plasma"}}
	require.Error(t, run(cfg, 1, zerolog.Nop()))
}
