package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coreman2200/lightbox/internal/config"
)

func TestMergeKeepsFlagsForUnsetFields(t *testing.T) {
	dst := config.Default()
	dst.Driver = "spi"
	dst.SPI.Dev = "/dev/spidev1.0"

	src := &config.Config{
		FPS:      60,
		Grid:     config.Grid{Rows: 8, Cols: 8},
		OPC:      config.OPC{Channel: 2},
		Playlist: []config.Entry{{Effect: "rainbow"}},
	}
	merge(dst, src)

	assert.Equal(t, "spi", dst.Driver)
	assert.Equal(t, "/dev/spidev1.0", dst.SPI.Dev)
	assert.Equal(t, 60, dst.FPS)
	assert.Equal(t, config.Grid{Rows: 8, Cols: 8}, dst.Grid)
	assert.Equal(t, uint8(2), dst.OPC.Channel)
	assert.Equal(t, "localhost:7890", dst.OPC.Addr)
	assert.Equal(t, []config.Entry{{Effect: "rainbow"}}, dst.Playlist)
	assert.NoError(t, dst.Validate())
}
