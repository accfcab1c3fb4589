package blend

import (
	"fmt"
	"strings"
)

// Factor is a blend factor. Values match the integer material properties
// (_SrcBlend/_DstBlend) consumed by standard shaders.
type Factor int

const (
	FactorZero             Factor = 0
	FactorOne              Factor = 1
	FactorSrcAlpha         Factor = 5
	FactorOneMinusSrcAlpha Factor = 10
)

func (f Factor) String() string {
	switch f {
	case FactorZero:
		return "Zero"
	case FactorOne:
		return "One"
	case FactorSrcAlpha:
		return "SrcAlpha"
	case FactorOneMinusSrcAlpha:
		return "OneMinusSrcAlpha"
	default:
		return fmt.Sprintf("Factor(%d)", int(f))
	}
}

// Keywords is a set of shader keywords.
type Keywords uint8

const (
	KeywordAlphaTest Keywords = 1 << iota
	KeywordAlphaBlend
	KeywordAlphaPremultiply

	KeywordNone Keywords = 0
)

// Shader keyword names.
const (
	NameAlphaTest        = "_ALPHATEST_ON"
	NameAlphaBlend       = "_ALPHABLEND_ON"
	NameAlphaPremultiply = "_ALPHAPREMULTIPLY_ON"
)

var keywordNames = []struct {
	kw   Keywords
	name string
}{
	{KeywordAlphaTest, NameAlphaTest},
	{KeywordAlphaBlend, NameAlphaBlend},
	{KeywordAlphaPremultiply, NameAlphaPremultiply},
}

func (k Keywords) Has(kw Keywords) bool {
	return kw != 0 && k&kw == kw
}

// Names returns the shader keyword names enabled in k.
func (k Keywords) Names() []string {
	var out []string
	for _, n := range keywordNames {
		if k.Has(n.kw) {
			out = append(out, n.name)
		}
	}
	return out
}

func (k Keywords) String() string {
	names := k.Names()
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// RenderQueueDefault leaves the queue to the shader.
const RenderQueueDefault = -1

const (
	RenderQueueAlphaTest   = 2450
	RenderQueueTransparent = 3000
)

// Parameters is the render state for one Mode.
type Parameters struct {
	Src         Factor
	Dst         Factor
	DepthWrite  bool
	Keywords    Keywords
	RenderQueue int
}

// HasRenderQueue reports whether the mode overrides the render queue.
func (p Parameters) HasRenderQueue() bool {
	return p.RenderQueue != RenderQueueDefault
}

var table = [...]Parameters{
	ModeOpaque: {
		Src:         FactorOne,
		Dst:         FactorZero,
		DepthWrite:  true,
		Keywords:    KeywordNone,
		RenderQueue: RenderQueueDefault,
	},
	ModeCutout: {
		Src:         FactorOne,
		Dst:         FactorZero,
		DepthWrite:  true,
		Keywords:    KeywordAlphaTest,
		RenderQueue: RenderQueueAlphaTest,
	},
	ModeFade: {
		Src:         FactorSrcAlpha,
		Dst:         FactorOneMinusSrcAlpha,
		DepthWrite:  false,
		Keywords:    KeywordAlphaBlend,
		RenderQueue: RenderQueueTransparent,
	},
	ModeTransparent: {
		Src:         FactorOne,
		Dst:         FactorOneMinusSrcAlpha,
		DepthWrite:  false,
		Keywords:    KeywordAlphaPremultiply,
		RenderQueue: RenderQueueTransparent,
	},
}

// Configure returns the render state for mode. Values outside the enum
// fail with ErrInvalidMode.
func Configure(mode Mode) (Parameters, error) {
	if !mode.Valid() {
		return Parameters{}, fmt.Errorf("%w: %d", ErrInvalidMode, int(mode))
	}
	return table[mode], nil
}

// MustConfigure is Configure for modes known to be valid.
func MustConfigure(mode Mode) Parameters {
	p, err := Configure(mode)
	if err != nil {
		panic(err)
	}
	return p
}
