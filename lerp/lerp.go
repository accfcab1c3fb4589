// Package lerp advances scalar and color values toward a target once per
// tick. The caller owns the state and the tick loop.
package lerp

import (
	"errors"
	"fmt"
	"math"
)

// Epsilon is the distance at which a value counts as having reached its
// target.
const Epsilon = 0.01

// ErrInvalidRate is returned when a rate lies outside (0, 1].
var ErrInvalidRate = errors.New("lerp: rate must be in (0, 1]")

// State is one in-flight interpolation.
type State struct {
	Current float64
	Target  float64
	Rate    float64
}

// ValidRate reports whether rate lies in (0, 1].
func ValidRate(rate float64) bool {
	return rate > 0 && rate <= 1
}

// Equal reports whether a and b are closer than eps.
func Equal(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

// Step moves s.Current toward s.Target by s.Rate of the remaining distance.
// done is true once the result is within Epsilon of the target; a value that
// already is within Epsilon is returned unchanged.
func Step(s State) (next float64, done bool, err error) {
	if !ValidRate(s.Rate) {
		return s.Current, false, fmt.Errorf("%w: got %v", ErrInvalidRate, s.Rate)
	}
	if Equal(s.Current, s.Target, Epsilon) {
		return s.Current, true, nil
	}
	if s.Rate == 1 {
		return s.Target, true, nil
	}
	next = s.Current + (s.Target-s.Current)*s.Rate
	return next, Equal(next, s.Target, Epsilon), nil
}

// Advance applies Step and stores the result in s.
func (s *State) Advance() (done bool, err error) {
	next, done, err := Step(*s)
	if err != nil {
		return false, err
	}
	s.Current = next
	return done, nil
}
