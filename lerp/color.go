package lerp

import (
	"image/color"
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Color blends a toward b by t, clamped to [0, 1].
func Color(a, b color.NRGBA, t float64) color.NRGBA {
	t = clamp01(t)
	return color.NRGBA{
		R: channel(a.R, b.R, t),
		G: channel(a.G, b.G, t),
		B: channel(a.B, b.B, t),
		A: channel(a.A, b.A, t),
	}
}

func channel(a, b uint8, t float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*t))
}

func clamp01(t float64) float64 {
	if t < 0 || math.IsNaN(t) {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// ColorTween animates between two colors over a fixed number of ticks.
// Each leg is a linear gween tween of the mix factor advanced one unit per
// tick.
type ColorTween struct {
	Start    color.NRGBA
	End      color.NRGBA
	Duration int
	// PingPong plays forward then back; Loops counts round trips (0 = once).
	PingPong bool
	Loops    int

	leg      *gween.Tween
	legs     int
	progress float32
}

// Progress returns the normalized position in [0, 1].
func (c *ColorTween) Progress() float64 {
	if c.Duration <= 0 {
		return 1
	}
	return clamp01(float64(c.progress))
}

// Value returns the current color.
func (c *ColorTween) Value() color.NRGBA {
	return Color(c.Start, c.End, c.Progress())
}

// Tick advances one tick and reports the new color.
func (c *ColorTween) Tick() (color.NRGBA, bool) {
	if c.Duration <= 0 {
		return c.End, true
	}
	if c.Done() {
		return c.Value(), true
	}
	if c.leg == nil {
		// Even legs run toward End, odd legs back to Start.
		from, to := float32(0), float32(1)
		if c.legs%2 == 1 {
			from, to = 1, 0
		}
		c.leg = gween.New(from, to, float32(c.Duration), ease.Linear)
	}
	p, finished := c.leg.Update(1)
	c.progress = p
	if finished {
		c.legs++
		c.leg = nil
	}
	return c.Value(), c.Done()
}

// Done reports whether the tween has finished.
func (c *ColorTween) Done() bool {
	if c.Duration <= 0 {
		return true
	}
	return c.legs >= c.totalLegs()
}

func (c *ColorTween) totalLegs() int {
	if !c.PingPong {
		return 1
	}
	if c.Loops <= 0 {
		return 2
	}
	return 2 * c.Loops
}
