package led

// nrzLUT expands one byte into the 3-byte SPI bit pattern used to clock
// WS281x data: bit=1 -> '110' (high longer), bit=0 -> '100' (high shorter).
type nrzLUT [256][3]byte

func buildNRZLUT() *nrzLUT {
	var lut nrzLUT
	for v := 0; v < 256; v++ {
		out := uint32(0)
		for i := 7; i >= 0; i-- {
			var tri uint32 = 0b100
			if (v>>i)&1 == 1 {
				tri = 0b110
			}
			out = (out << 3) | tri
		}
		lut[v][0] = byte((out >> 16) & 0xFF)
		lut[v][1] = byte((out >> 8) & 0xFF)
		lut[v][2] = byte(out & 0xFF)
	}
	return &lut
}

// encode expands wire-ordered channel bytes into dst (3 bytes per input byte).
func (l *nrzLUT) encode(src, dst []byte) {
	for i, v := range src {
		dst[i*3+0] = l[v][0]
		dst[i*3+1] = l[v][1]
		dst[i*3+2] = l[v][2]
	}
}
