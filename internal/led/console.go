package led

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"periph.io/x/extra/devices/screen"
)

// Console prints each frame as a row of colored blocks on the terminal using
// periph's ANSI screen device. Handy on a desk without a panel attached.
type Console struct {
	mu    sync.Mutex
	dev   *screen.Dev
	count int
	img   *image.NRGBA
}

func NewConsole(count int) (*Console, error) {
	if count <= 0 {
		return nil, fmt.Errorf("invalid LED count: %d", count)
	}
	return &Console{
		dev:   screen.New(count),
		count: count,
		img:   image.NewNRGBA(image.Rect(0, 0, count, 1)),
	}, nil
}

func (c *Console) Write(rgbw []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	rgb := Order("RGB").Reorder(rgbw)
	for i := 0; i < c.count && i*3+2 < len(rgb); i++ {
		c.img.SetNRGBA(i, 0, color.NRGBA{R: rgb[i*3], G: rgb[i*3+1], B: rgb[i*3+2], A: 255})
	}
	return c.dev.Draw(c.dev.Bounds(), c.img, image.Point{})
}

func (c *Console) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dev.Halt()
}
