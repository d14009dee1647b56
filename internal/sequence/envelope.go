package sequence

import (
	"math"
	"slices"
	"sort"
)

// Keyframe is a value at time T (seconds). Ease shapes the segment that
// starts at this key: "linear" (default), "smooth" or "cubic".
type Keyframe struct {
	T    float64 `yaml:"t" json:"t"`
	V    float64 `yaml:"v" json:"v"`
	Ease string  `yaml:"ease,omitempty" json:"ease,omitempty"`
}

// Envelope interpolates between keyframes sorted by T.
type Envelope struct {
	Keys []Keyframe
}

// NewEnvelope sorts keys by time, keeping the given order for equal times.
func NewEnvelope(keys ...Keyframe) *Envelope {
	ks := slices.Clone(keys)
	slices.SortStableFunc(ks, func(a, b Keyframe) int {
		switch {
		case a.T < b.T:
			return -1
		case a.T > b.T:
			return 1
		}
		return 0
	})
	return &Envelope{Keys: ks}
}

func ease(kind string, x float64) float64 {
	switch kind {
	case "smooth":
		return x * x * (3 - 2*x)
	case "cubic":
		return x * x * x * (x*(x*6-15) + 10)
	}
	return x
}

// Eval returns the envelope at t. No keys gives 0; before the first key and
// after the last the end values hold.
func (e *Envelope) Eval(t float64) float64 {
	if e == nil || len(e.Keys) == 0 {
		return 0
	}
	n := len(e.Keys)
	if math.IsNaN(t) || t <= e.Keys[0].T {
		return e.Keys[0].V
	}
	if t >= e.Keys[n-1].T {
		return e.Keys[n-1].V
	}
	// first key strictly after t; t lies in [Keys[i-1].T, Keys[i].T)
	i := sort.Search(n, func(i int) bool { return e.Keys[i].T > t })
	a, b := e.Keys[i-1], e.Keys[i]
	u := (t - a.T) / (b.T - a.T)
	return a.V + (b.V-a.V)*ease(a.Ease, u)
}
