package led

// Channels is the number of bytes per LED in a frame passed to a Driver:
// R, G, B, W in that order. Drivers reorder for their wire format.
const Channels = 4

// Driver abstracts an LED output sink.
type Driver interface {
	// Write pushes an RGBW frame to hardware. len(rgbw) must be 4*N.
	Write(rgbw []byte) error
	// Close releases resources.
	Close() error
}
