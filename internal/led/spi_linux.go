//go:build linux

package led

import (
	"fmt"
	"os"
	"sync"
	"syscall"
	"unsafe"
)

/*
Minimal spidev ioctl bindings. The periph.io path lives in nrz.go; this one
has no host initialisation and works on any spidev node.
*/

const (
	spiIOCWriteMode        = 0x40016b01
	spiIOCWriteBitsPerWord = 0x40016b03
	spiIOCWriteMaxSpeedHz  = 0x40046b04
)

type SPI struct {
	mu      sync.Mutex
	f       *os.File
	count   int
	order   Order
	resetUs int
	lut     *nrzLUT
}

// NewSPI opens spidev (e.g. "/dev/spidev0.0") and prepares an encoder for WS281x-over-SPI.
// speedHz in the 2_400_000–3_200_000 range works well with this 3x expand scheme.
// resetUs is the latch (usually >= 280µs; 300–400 is safe).
func NewSPI(spiDev string, count int, order Order, speedHz int, resetUs int) (*SPI, error) {
	if count <= 0 {
		return nil, fmt.Errorf("invalid LED count: %d", count)
	}
	if speedHz <= 0 {
		speedHz = 2400000
	}
	if resetUs <= 0 {
		resetUs = 300
	}
	if order == "" {
		order = "GRB"
	}
	f, err := os.OpenFile(spiDev, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("open spidev: %w", err)
	}
	mode, bpw, speed := byte(0), byte(8), uint32(speedHz)
	for _, set := range []struct {
		name string
		req  uintptr
		arg  unsafe.Pointer
	}{
		{"mode", spiIOCWriteMode, unsafe.Pointer(&mode)},
		{"bits-per-word", spiIOCWriteBitsPerWord, unsafe.Pointer(&bpw)},
		{"speed", spiIOCWriteMaxSpeedHz, unsafe.Pointer(&speed)},
	} {
		if _, _, e := syscall.Syscall(syscall.SYS_IOCTL, f.Fd(), set.req, uintptr(set.arg)); e != 0 {
			_ = f.Close()
			return nil, fmt.Errorf("spidev %s: set %s: %v", spiDev, set.name, e)
		}
	}

	return &SPI{
		f:       f,
		count:   count,
		order:   order,
		resetUs: resetUs,
		lut:     buildNRZLUT(),
	}, nil
}

func (s *SPI) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.f != nil {
		err := s.f.Close()
		s.f = nil
		return err
	}
	return nil
}

// Write takes len(rgbw)==4*count, reorders to wire order and expands every
// byte to 3 SPI bytes, followed by a zero tail that latches the strip.
func (s *SPI) Write(rgbw []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.f == nil {
		return fmt.Errorf("SPI closed")
	}
	if len(rgbw) != s.count*Channels {
		return fmt.Errorf("rgbw length %d does not match count %d", len(rgbw), s.count)
	}

	wire := s.order.Reorder(rgbw)
	enc := make([]byte, len(wire)*3)
	s.lut.encode(wire, enc)
	if _, err := s.f.Write(enc); err != nil {
		return fmt.Errorf("spi write: %w", err)
	}

	// At 2.4MHz one byte is ~3.33us; send at least 128 zero bytes.
	resetBytes := (s.resetUs + 2) / 3
	if resetBytes < 128 {
		resetBytes = 128
	}
	if _, err := s.f.Write(make([]byte, resetBytes)); err != nil {
		return fmt.Errorf("spi latch: %w", err)
	}
	return nil
}
