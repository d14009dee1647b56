package led

import (
	"fmt"
	"sync"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/host/v3"
)

// NRZ drives WS281x/SK6812 strips through periph.io's nrzled encoder.
type NRZ struct {
	mu     sync.Mutex
	dev    *nrzled.Dev
	closer interface{ Close() error }
	count  int
	white  bool
}

// NewNRZ initialises the host, opens the named SPI port ("" = first
// available) and wraps it in an nrzled device.
func NewNRZ(port string, count int, white bool, speedHz int) (*NRZ, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	p, err := spireg.Open(port)
	if err != nil {
		return nil, fmt.Errorf("open spi port %q: %w", port, err)
	}
	n, err := newNRZ(p, count, white, speedHz)
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	n.closer = p
	return n, nil
}

func newNRZ(p spi.Port, count int, white bool, speedHz int) (*NRZ, error) {
	if count <= 0 {
		return nil, fmt.Errorf("invalid LED count: %d", count)
	}
	if speedHz <= 0 {
		speedHz = 2500000
	}
	ch := 3
	if white {
		ch = 4
	}
	d, err := nrzled.NewSPI(p, &nrzled.Opts{
		NumPixels: count,
		Channels:  ch,
		Freq:      physic.Frequency(speedHz) * physic.Hertz,
	})
	if err != nil {
		return nil, fmt.Errorf("nrzled: %w", err)
	}
	return &NRZ{dev: d, count: count, white: white}, nil
}

// Write sends the frame; nrzled takes RGB(W) and handles the GRB wire order.
func (n *NRZ) Write(rgbw []byte) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.dev == nil {
		return fmt.Errorf("nrz closed")
	}
	order := Order("RGB")
	if n.white {
		order = "RGBW"
	}
	if _, err := n.dev.Write(order.Reorder(rgbw)); err != nil {
		return fmt.Errorf("nrz write: %w", err)
	}
	return nil
}

func (n *NRZ) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.dev == nil {
		return nil
	}
	err := n.dev.Halt()
	n.dev = nil
	if n.closer != nil {
		if cerr := n.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
