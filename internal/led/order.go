package led

import (
	"fmt"
	"strings"
)

// Order is a wire channel order such as "GRB" or "GRBW".
type Order string

// ParseOrder validates a channel order string.
func ParseOrder(s string) (Order, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return "GRB", nil
	}
	if len(s) != 3 && len(s) != 4 {
		return "", fmt.Errorf("color order %q: want 3 or 4 channels", s)
	}
	seen := map[rune]bool{}
	for _, c := range s {
		switch c {
		case 'R', 'G', 'B', 'W':
		default:
			return "", fmt.Errorf("color order %q: unknown channel %q", s, c)
		}
		if seen[c] {
			return "", fmt.Errorf("color order %q: duplicate channel %q", s, c)
		}
		seen[c] = true
	}
	if len(s) == 3 && seen['W'] {
		return "", fmt.Errorf("color order %q: 3-channel order cannot carry W", s)
	}
	return Order(s), nil
}

// Channels is the number of wire bytes per LED.
func (o Order) Channels() int { return len(o) }

// HasWhite reports whether the strip has a dedicated white emitter.
func (o Order) HasWhite() bool { return strings.ContainsRune(string(o), 'W') }

// Encode writes one RGBW pixel into dst in wire order. Strips without a
// white emitter get W folded into R, G and B.
func (o Order) Encode(r, g, b, w byte, dst []byte) {
	if !o.HasWhite() {
		r, g, b = addSat(r, w), addSat(g, w), addSat(b, w)
	}
	for i := 0; i < len(o); i++ {
		switch o[i] {
		case 'R':
			dst[i] = r
		case 'G':
			dst[i] = g
		case 'B':
			dst[i] = b
		case 'W':
			dst[i] = w
		}
	}
}

// Reorder converts a whole RGBW frame into wire order.
func (o Order) Reorder(rgbw []byte) []byte {
	n := len(rgbw) / Channels
	out := make([]byte, n*o.Channels())
	for i := 0; i < n; i++ {
		p := rgbw[i*Channels : i*Channels+Channels]
		o.Encode(p[0], p[1], p[2], p[3], out[i*o.Channels():])
	}
	return out
}

func addSat(a, b byte) byte {
	v := int(a) + int(b)
	if v > 255 {
		return 255
	}
	return byte(v)
}
