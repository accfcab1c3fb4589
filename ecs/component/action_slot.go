package component

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/milk9111/rendererupdate/blend"
)

// Finish describes a timed slot that has completed. Source is the entity
// holding the RendererUpdate; Source and Target are raw entity handles.
type Finish struct {
	Source uint64
	Target uint64
	Slot   int
	Action string
}

// Callback runs once when a timed slot finishes.
type Callback func(Finish)

// ActionSlot is one configured renderer action. The set of implementations
// is closed: SetRenderingMode, LerpAlpha and ChangeAlbedoColor.
type ActionSlot interface {
	ActionName() string
	slot()
}

// SetRenderingMode switches the target material to Mode.
type SetRenderingMode struct {
	Mode blend.Mode
}

func (SetRenderingMode) ActionName() string { return "set_rendering_mode" }
func (SetRenderingMode) slot()              {}

// LerpMethod selects how LerpAlpha drives the alpha value.
type LerpMethod int

const (
	LerpMethodLerp LerpMethod = iota
	LerpMethodPingPong
)

func (m LerpMethod) String() string {
	switch m {
	case LerpMethodLerp:
		return "lerp"
	case LerpMethodPingPong:
		return "ping_pong"
	default:
		return fmt.Sprintf("LerpMethod(%d)", int(m))
	}
}

func ParseLerpMethod(s string) (LerpMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "lerp":
		return LerpMethodLerp, nil
	case "ping_pong", "pingpong":
		return LerpMethodPingPong, nil
	default:
		return 0, fmt.Errorf("unknown lerp method %q", s)
	}
}

// LerpAlpha moves the material alpha toward Target by Rate of the remaining
// distance each tick. With LerpMethodPingPong the value swings between the
// starting alpha and Target for Cycles round trips (0 = forever).
type LerpAlpha struct {
	Target   float64
	Rate     float64
	Method   LerpMethod
	Cycles   int
	OnFinish Callback
}

func (LerpAlpha) ActionName() string { return "lerp_alpha" }
func (LerpAlpha) slot()              {}

// AlbedoEffect selects how ChangeAlbedoColor applies its colors.
type AlbedoEffect int

const (
	AlbedoSet AlbedoEffect = iota
	AlbedoLerp
	AlbedoPingPong
)

func (e AlbedoEffect) String() string {
	switch e {
	case AlbedoSet:
		return "set"
	case AlbedoLerp:
		return "lerp"
	case AlbedoPingPong:
		return "ping_pong"
	default:
		return fmt.Sprintf("AlbedoEffect(%d)", int(e))
	}
}

func ParseAlbedoEffect(s string) (AlbedoEffect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "set":
		return AlbedoSet, nil
	case "lerp":
		return AlbedoLerp, nil
	case "ping_pong", "pingpong":
		return AlbedoPingPong, nil
	default:
		return 0, fmt.Errorf("unknown albedo effect %q", s)
	}
}

// ChangeAlbedoColor sets or animates the material color. Start is only
// used by AlbedoPingPong; AlbedoLerp starts from the current color.
// Duration is in ticks.
type ChangeAlbedoColor struct {
	Effect   AlbedoEffect
	Start    color.NRGBA
	End      color.NRGBA
	Duration int
	Loops    int
	OnFinish Callback
}

func (ChangeAlbedoColor) ActionName() string { return "change_albedo_color" }
func (ChangeAlbedoColor) slot()              {}
