package blend

import "github.com/gogpu/gputypes"

func gpuFactor(f Factor) gputypes.BlendFactor {
	switch f {
	case FactorZero:
		return gputypes.BlendFactorZero
	case FactorSrcAlpha:
		return gputypes.BlendFactorSrcAlpha
	case FactorOneMinusSrcAlpha:
		return gputypes.BlendFactorOneMinusSrcAlpha
	default:
		return gputypes.BlendFactorOne
	}
}

// Replaces reports whether the source fully replaces the destination.
func (p Parameters) Replaces() bool {
	return p.Src == FactorOne && p.Dst == FactorZero
}

// BlendState returns the WebGPU blend state for p, or nil when the mode
// replaces the destination and blending can be disabled.
func (p Parameters) BlendState() *gputypes.BlendState {
	if p.Replaces() {
		return nil
	}
	c := gputypes.BlendComponent{
		SrcFactor: gpuFactor(p.Src),
		DstFactor: gpuFactor(p.Dst),
		Operation: gputypes.BlendOperationAdd,
	}
	return &gputypes.BlendState{Color: c, Alpha: c}
}

// ColorTarget builds a color target for a pipeline rendering with p.
func (p Parameters) ColorTarget(format gputypes.TextureFormat) gputypes.ColorTargetState {
	return gputypes.ColorTargetState{
		Format:    format,
		Blend:     p.BlendState(),
		WriteMask: gputypes.ColorWriteMaskAll,
	}
}
