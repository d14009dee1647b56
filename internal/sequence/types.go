package sequence

import (
	"errors"

	"github.com/coreman2200/lightbox/internal/display"
)

var (
	ErrEmptyPlaylist = errors.New("sequence: playlist is empty")
	ErrNoDisplay     = errors.New("sequence: no display")
	ErrBadInterval   = errors.New("sequence: frame interval must be positive")
	ErrZeroGrid      = display.ErrZeroGrid
)

// Effect is what the scheduler needs from an animation. effect.Effect
// satisfies it.
type Effect interface {
	Name() string
	Setup(d display.Display)
	Update(d display.Display, delta, elapsed float64)
	Finished(d display.Display, elapsed float64) bool
}

// Entry is one playlist slot. Brightness, when set, drives the display
// brightness over the entry's elapsed time.
type Entry struct {
	Effect     Effect
	Brightness *Envelope
}

// Playlist plays in order and wraps around.
type Playlist []Entry

// Effects builds a playlist with no brightness automation.
func Effects(effects ...Effect) Playlist {
	pl := make(Playlist, len(effects))
	for i, e := range effects {
		pl[i] = Entry{Effect: e}
	}
	return pl
}

// State enumerates scheduler states.
type State string

const (
	Uninitialized State = "uninitialized"
	Active        State = "active"
	Stopped       State = "stopped"
)

// Hooks are called on the loop goroutine. Either may be nil.
type Hooks struct {
	// OnActivate runs right after an entry's Setup.
	OnActivate func(index int, name string)
	// OnFinish runs when the entry at from finished and to is next.
	OnFinish func(from, to int)
}
