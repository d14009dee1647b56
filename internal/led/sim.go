package led

import (
	"sync"

	"github.com/rs/zerolog"
)

// Sim accepts frames without hardware. It keeps the last frame and logs a
// compact summary (average and first LED) every LogEvery frames.
type Sim struct {
	Log      zerolog.Logger
	LogEvery int

	mu    sync.Mutex
	count int
	last  []byte
}

func NewSim(log zerolog.Logger) *Sim {
	return &Sim{Log: log, LogEvery: 300}
}

func (s *Sim) Write(rgbw []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count++
	s.last = append(s.last[:0], rgbw...)

	if s.LogEvery <= 0 || s.count%s.LogEvery != 0 || len(rgbw) < Channels {
		return nil
	}
	var sum [Channels]float64
	for i := 0; i+Channels <= len(rgbw); i += Channels {
		for c := 0; c < Channels; c++ {
			sum[c] += float64(rgbw[i+c])
		}
	}
	n := float64(len(rgbw) / Channels)
	s.Log.Debug().
		Int("frame", s.count).
		Floats64("avg", []float64{sum[0] / n, sum[1] / n, sum[2] / n, sum[3] / n}).
		Bytes("first", rgbw[:Channels]).
		Msg("sim frame")
	return nil
}

// Frames returns how many frames were written.
func (s *Sim) Frames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// Last returns a copy of the most recent frame.
func (s *Sim) Last() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.last...)
}

func (s *Sim) Close() error { return nil }
