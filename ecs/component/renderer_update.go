package component

import (
	"fmt"
	"strings"
)

// TargetMode selects how a RendererUpdate finds the renderer it changes.
type TargetMode int

const (
	// TargetReference uses the configured Target entity.
	TargetReference TargetMode = iota
	// TargetTag applies to every renderer carrying Tag.
	TargetTag
	// TargetMethodCall uses the target passed with each trigger.
	TargetMethodCall
)

func (m TargetMode) String() string {
	switch m {
	case TargetReference:
		return "reference"
	case TargetTag:
		return "tag"
	case TargetMethodCall:
		return "method_call"
	default:
		return fmt.Sprintf("TargetMode(%d)", int(m))
	}
}

func ParseTargetMode(s string) (TargetMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "reference":
		return TargetReference, nil
	case "tag":
		return TargetTag, nil
	case "method_call", "methodcall":
		return TargetMethodCall, nil
	default:
		return 0, fmt.Errorf("unknown target mode %q", s)
	}
}

// RendererUpdate holds the action slots run against a renderer each time
// it is triggered.
type RendererUpdate struct {
	Description string
	Mode        TargetMode
	Target      uint64
	Tag         string
	// OnStart runs the slots on the first tick. Ignored in method-call mode.
	OnStart bool
	Slots   []ActionSlot

	Started bool
}

var RendererUpdateComponent = NewComponent[RendererUpdate]()

// TriggerRequest asks the renderer-update system to run the slots of the
// entity it is attached to. Target overrides the configured target and is
// required in method-call mode.
type TriggerRequest struct {
	Targets []uint64
}

var TriggerRequestComponent = NewComponent[TriggerRequest]()
