package layout

// Layout describes how a rows x cols panel is wired as a single LED chain.
type Layout struct {
	Rows int
	Cols int
	// Serpentine reverses every odd row, the usual zig-zag panel wiring.
	Serpentine bool
}

// Index maps x,y -> linear LED index (0..N-1). Returns -1 when out of range.
func (l Layout) Index(x, y int) int {
	if x < 0 || y < 0 || x >= l.Cols || y >= l.Rows {
		return -1
	}
	xx := x
	if l.Serpentine && y%2 == 1 {
		xx = l.Cols - 1 - x
	}
	return y*l.Cols + xx
}

func (l Layout) Count() int {
	if l.Rows <= 0 || l.Cols <= 0 {
		return 0
	}
	return l.Rows * l.Cols
}
