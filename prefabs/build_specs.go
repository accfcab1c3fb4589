package prefabs

import (
	"github.com/milk9111/rendererupdate/blend"
	"gopkg.in/yaml.v3"
)

// EntityBuildSpec is one entity: either inline components, a prefab file
// whose components are merged under the inline ones, or both.
type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Prefab     string         `yaml:"prefab"`
	Components map[string]any `yaml:"components"`
}

func LoadEntityBuildSpec(filename string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](filename)
}

func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

type TransformComponentSpec struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	ScaleX   float64 `yaml:"scale_x"`
	ScaleY   float64 `yaml:"scale_y"`
	Rotation float64 `yaml:"rotation"`
}

type SpriteComponentSpec struct {
	Image              string  `yaml:"image"`
	Width              int     `yaml:"width"`
	Height             int     `yaml:"height"`
	OriginX            float64 `yaml:"origin_x"`
	OriginY            float64 `yaml:"origin_y"`
	CenterOriginIfZero bool    `yaml:"center_origin_if_zero"`
}

type RenderLayerComponentSpec struct {
	Index int `yaml:"index"`
}

type MaterialComponentSpec struct {
	Mode  blend.Mode `yaml:"mode"`
	Color *YAMLColor `yaml:"color"`
	Alpha *float64   `yaml:"alpha"`
}

type TagComponentSpec struct {
	Value string `yaml:"value"`
}

type RendererUpdateComponentSpec struct {
	Description string           `yaml:"description"`
	Mode        string           `yaml:"mode"`
	Target      string           `yaml:"target"`
	Tag         string           `yaml:"tag"`
	OnStart     bool             `yaml:"on_start"`
	Slots       []ActionSlotSpec `yaml:"slots"`
}

// ActionSlotSpec is the flat YAML form of an action slot; which fields
// apply depends on Action.
type ActionSlotSpec struct {
	Action        string      `yaml:"action"`
	RenderingMode *blend.Mode `yaml:"rendering_mode"`
	LerpValue     float64     `yaml:"lerp_value"`
	LerpSpeed     float64     `yaml:"lerp_speed"`
	LerpMethod    string      `yaml:"lerp_method"`
	Cycles        int         `yaml:"cycles"`
	AlbedoEffect  string      `yaml:"albedo_effect"`
	StartColor    *YAMLColor  `yaml:"start_color"`
	EndColor      *YAMLColor  `yaml:"end_color"`
	Duration      int         `yaml:"duration"`
	Loops         int         `yaml:"loops"`
	Callback      string      `yaml:"callback"`
}
