package led

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Options selects and configures a driver by name.
type Options struct {
	Driver string // sim | spi | pwm | nrz | opc | console
	Count  int
	Order  Order

	SPIDev   string
	SPISpeed int
	ResetUs  int

	GPIO   int
	DMA    int
	FreqHz int

	OPCAddr    string
	OPCChannel uint8

	Log zerolog.Logger
}

// Open builds the named driver.
func Open(o Options) (Driver, error) {
	var (
		d   Driver
		err error
	)
	switch o.Driver {
	case "", "sim":
		return NewSim(o.Log), nil
	case "spi":
		var s *SPI
		if s, err = NewSPI(o.SPIDev, o.Count, o.Order, o.SPISpeed, o.ResetUs); err == nil {
			d = s
		}
	case "pwm":
		var p *PWM
		if p, err = NewPWM(o.GPIO, o.DMA, o.FreqHz, o.Count, o.Order); err == nil {
			d = p
		}
	case "nrz":
		var n *NRZ
		if n, err = NewNRZ(o.SPIDev, o.Count, o.Order.HasWhite(), o.SPISpeed); err == nil {
			d = n
		}
	case "opc":
		var c *OPC
		if c, err = NewOPC(o.OPCAddr, o.OPCChannel, o.Count); err == nil {
			d = c
		}
	case "console":
		var c *Console
		if c, err = NewConsole(o.Count); err == nil {
			d = c
		}
	default:
		return nil, fmt.Errorf("unknown driver %q", o.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("%s driver: %w", o.Driver, err)
	}
	return d, nil
}
