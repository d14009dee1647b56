//go:build linux && ws2811

package led

/*
#cgo LDFLAGS: -lws2811
#include <stdlib.h>
#include <stdint.h>
#include <ws2811/ws2811.h>
*/
import "C"
import (
	"fmt"
	"sync"
	"unsafe"
)

// PWM drives the strip through the rpi_ws281x library (DMA + PWM on a GPIO).
// Build with -tags ws2811 on a host that has libws2811 installed.
type PWM struct {
	gpio  int
	count int
	order Order

	mu  sync.Mutex
	dev *C.ws2811_t
	buf unsafe.Pointer
}

func stripType(o Order) C.int {
	switch o {
	case "RGB":
		return C.WS2811_STRIP_RGB
	case "RBG":
		return C.WS2811_STRIP_RBG
	case "BRG":
		return C.WS2811_STRIP_BRG
	case "BGR":
		return C.WS2811_STRIP_BGR
	case "GBR":
		return C.WS2811_STRIP_GBR
	case "RGBW":
		return C.SK6812_STRIP_RGBW
	case "GRBW":
		return C.SK6812_STRIP_GRBW
	case "BRGW":
		return C.SK6812_STRIP_BRGW
	default:
		return C.WS2811_STRIP_GRB
	}
}

func NewPWM(gpio int, dma int, freq int, count int, order Order) (*PWM, error) {
	if count <= 0 {
		return nil, fmt.Errorf("invalid LED count: %d", count)
	}
	if dma <= 0 {
		dma = 10
	}
	if freq <= 0 {
		freq = 800000
	}
	p := &PWM{gpio: gpio, count: count, order: order}

	p.dev = (*C.ws2811_t)(C.calloc(1, C.size_t(unsafe.Sizeof(*p.dev))))
	if p.dev == nil {
		return nil, fmt.Errorf("calloc ws2811_t failed")
	}
	p.dev.freq = C.uint32_t(freq)
	p.dev.dmanum = C.int(dma)
	ch := &p.dev.channel[0]
	ch.gpionum = C.int(gpio)
	ch.count = C.int(count)
	ch.invert = 0
	ch.strip_type = stripType(order)
	ch.brightness = 255

	if st := C.ws2811_init(p.dev); st != C.WS2811_SUCCESS {
		C.free(unsafe.Pointer(p.dev))
		p.dev = nil
		return nil, fmt.Errorf("ws2811_init failed: %d", int(st))
	}
	p.buf = unsafe.Pointer(ch.leds)
	return p, nil
}

// Write packs each RGBW pixel as 0xWWRRGGBB; the strip type handles wire order.
func (p *PWM) Write(rgbw []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.dev == nil {
		return fmt.Errorf("pwm not initialized")
	}
	leds := (*[1 << 26]C.ws2811_led_t)(p.buf)[:p.count:p.count]
	for i := 0; i < p.count && i*Channels+3 < len(rgbw); i++ {
		r := uint32(rgbw[i*Channels+0])
		g := uint32(rgbw[i*Channels+1])
		b := uint32(rgbw[i*Channels+2])
		w := uint32(rgbw[i*Channels+3])
		if !p.order.HasWhite() {
			r, g, b, w = uint32(addSat(byte(r), byte(w))), uint32(addSat(byte(g), byte(w))), uint32(addSat(byte(b), byte(w))), 0
		}
		leds[i] = C.ws2811_led_t(w<<24 | r<<16 | g<<8 | b)
	}
	if st := C.ws2811_render(p.dev); st != C.WS2811_SUCCESS {
		return fmt.Errorf("ws2811_render failed: %d", int(st))
	}
	return nil
}

func (p *PWM) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.dev != nil {
		C.ws2811_fini(p.dev)
		C.free(unsafe.Pointer(p.dev))
		p.dev = nil
	}
	return nil
}
