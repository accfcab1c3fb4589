package blend

import "github.com/hajimehoshi/ebiten/v2"

func ebitenFactor(f Factor) ebiten.BlendFactor {
	switch f {
	case FactorZero:
		return ebiten.BlendFactorZero
	case FactorSrcAlpha:
		return ebiten.BlendFactorSourceAlpha
	case FactorOneMinusSrcAlpha:
		return ebiten.BlendFactorOneMinusSourceAlpha
	default:
		return ebiten.BlendFactorOne
	}
}

// EbitenBlend converts p to an ebiten blend. The same factors are used for
// the color and alpha channels. ebiten colors are premultiplied, so a
// SrcAlpha source factor becomes One.
func (p Parameters) EbitenBlend() ebiten.Blend {
	src := ebitenFactor(p.Src)
	if p.Src == FactorSrcAlpha {
		src = ebiten.BlendFactorOne
	}
	dst := ebitenFactor(p.Dst)
	return ebiten.Blend{
		BlendFactorSourceRGB:        src,
		BlendFactorSourceAlpha:      src,
		BlendFactorDestinationRGB:   dst,
		BlendFactorDestinationAlpha: dst,
		BlendOperationRGB:           ebiten.BlendOperationAdd,
		BlendOperationAlpha:         ebiten.BlendOperationAdd,
	}
}
