package component

import (
	"fmt"
	"image/color"

	"github.com/milk9111/rendererupdate/blend"
)

// RenderQueueGeometry is the queue used when a mode leaves the render queue
// to the shader.
const RenderQueueGeometry = 2000

// Material is the GPU-facing render state of one renderer. It implements
// blend.MaterialWriter so blend parameters can be written into it the same
// way they would be written into an engine material.
type Material struct {
	Mode   blend.Mode
	Params blend.Parameters
	Color  color.NRGBA

	Ints        map[string]int
	Keywords    map[string]bool
	RenderQueue int
}

var MaterialComponent = NewComponent[Material]()

// NewMaterial returns a material configured for mode with the given albedo.
func NewMaterial(mode blend.Mode, albedo color.NRGBA) (*Material, error) {
	m := &Material{Color: albedo}
	if err := m.SetMode(mode); err != nil {
		return nil, err
	}
	return m, nil
}

// SetMode configures the material for mode.
func (m *Material) SetMode(mode blend.Mode) error {
	params, err := blend.Configure(mode)
	if err != nil {
		return fmt.Errorf("material: %w", err)
	}
	params.ApplyTo(m)
	m.Mode = mode
	m.Params = params
	return nil
}

func (m *Material) SetInt(name string, v int) {
	if m.Ints == nil {
		m.Ints = map[string]int{}
	}
	m.Ints[name] = v
}

func (m *Material) EnableKeyword(name string) {
	if m.Keywords == nil {
		m.Keywords = map[string]bool{}
	}
	m.Keywords[name] = true
}

func (m *Material) DisableKeyword(name string) {
	if m.Keywords == nil {
		m.Keywords = map[string]bool{}
	}
	m.Keywords[name] = false
}

func (m *Material) SetRenderQueue(queue int) {
	m.RenderQueue = queue
}

// IsKeywordEnabled reports whether keyword is on.
func (m *Material) IsKeywordEnabled(keyword string) bool {
	return m.Keywords[keyword]
}

// Queue returns the effective render queue.
func (m *Material) Queue() int {
	if m.RenderQueue == blend.RenderQueueDefault {
		return RenderQueueGeometry
	}
	return m.RenderQueue
}

// Alpha returns the albedo alpha in [0, 1].
func (m *Material) Alpha() float64 {
	return float64(m.Color.A) / 255
}

// SetAlpha sets the albedo alpha from a value in [0, 1].
func (m *Material) SetAlpha(a float64) {
	switch {
	case a <= 0:
		m.Color.A = 0
	case a >= 1:
		m.Color.A = 255
	default:
		m.Color.A = uint8(a*255 + 0.5)
	}
}
