package sequence

import "time"

// DefaultInterval is the frame budget, about 30 fps.
const DefaultInterval = 33 * time.Millisecond

// Clock is the time source for a scheduler.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// SystemClock is the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time        { return time.Now() }
func (SystemClock) Sleep(d time.Duration) { time.Sleep(d) }

// ManualClock only moves when told to. Sleep advances it unless NoSleep is
// set, in which case sleeps are recorded and time stands still.
type ManualClock struct {
	T       time.Time
	NoSleep bool
	Slept   []time.Duration
}

func NewManualClock() *ManualClock {
	return &ManualClock{T: time.Unix(0, 0)}
}

func (c *ManualClock) Now() time.Time { return c.T }

func (c *ManualClock) Sleep(d time.Duration) {
	c.Slept = append(c.Slept, d)
	if !c.NoSleep {
		c.T = c.T.Add(d)
	}
}

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) { c.T = c.T.Add(d) }

// Pacer holds frames to a fixed interval.
type Pacer struct {
	Interval time.Duration
}

// Wait sleeps out whatever is left of the interval since start and returns
// the time slept. An overrun frame does not sleep.
func (p Pacer) Wait(c Clock, start time.Time) time.Duration {
	cost := c.Now().Sub(start)
	if cost >= p.Interval {
		return 0
	}
	d := p.Interval - cost
	c.Sleep(d)
	return d
}
