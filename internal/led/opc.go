package led

import (
	"fmt"
	"sync"

	"github.com/kellydunn/go-opc"
)

// OPC streams frames to an Open Pixel Control server such as fcserver
// (Fadecandy). OPC carries RGB only, so W is folded into the color channels.
type OPC struct {
	mu      sync.Mutex
	client  *opc.Client
	channel uint8
	count   int
}

func NewOPC(addr string, channel uint8, count int) (*OPC, error) {
	if count <= 0 {
		return nil, fmt.Errorf("invalid LED count: %d", count)
	}
	c := opc.NewClient()
	if err := c.Connect("tcp", addr); err != nil {
		return nil, fmt.Errorf("opc connect %s: %w", addr, err)
	}
	return &OPC{client: c, channel: channel, count: count}, nil
}

func (o *OPC) Write(rgbw []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.client == nil {
		return fmt.Errorf("opc closed")
	}
	rgb := Order("RGB").Reorder(rgbw)
	m := opc.NewMessage(o.channel)
	m.SetLength(uint16(o.count * 3))
	for i := 0; i < o.count && i*3+2 < len(rgb); i++ {
		m.SetPixelColor(i, rgb[i*3], rgb[i*3+1], rgb[i*3+2])
	}
	if err := o.client.Send(m); err != nil {
		return fmt.Errorf("opc send: %w", err)
	}
	return nil
}

// Close drops the client; fcserver keeps the last frame on its own.
func (o *OPC) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.client = nil
	return nil
}
