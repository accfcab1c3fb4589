package component

import "github.com/milk9111/rendererupdate/lerp"

// AlphaLerp is an alpha interpolation in flight on a target renderer.
// State drives plain lerps; when PingPong is set it is left zero.
type AlphaLerp struct {
	Source   uint64
	Slot     int
	State    lerp.State
	PingPong *lerp.PingPong
	OnFinish Callback
}

var AlphaLerpComponent = NewComponent[AlphaLerp]()

// ColorTween is an albedo color animation in flight on a target renderer.
// Once an AlphaLerp has run on the same renderer the tween leaves the
// alpha channel to it.
type ColorTween struct {
	Source    uint64
	Slot      int
	Tween     lerp.ColorTween
	KeepAlpha bool
	OnFinish  Callback
}

var ColorTweenComponent = NewComponent[ColorTween]()
