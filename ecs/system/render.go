package system

import (
	"image"
	"image/color"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/rendererupdate/blend"
	"github.com/milk9111/rendererupdate/ecs"
	"github.com/milk9111/rendererupdate/ecs/component"
)

// AlphaCutoff is the alpha below which cutout renderers are discarded.
const AlphaCutoff = 0.5

type RenderSystem struct {
	quads map[image.Point]*ebiten.Image
}

func NewRenderSystem() *RenderSystem {
	return &RenderSystem{quads: make(map[image.Point]*ebiten.Image)}
}

// quad returns a cached white image of the given size.
func (r *RenderSystem) quad(w, h int) *ebiten.Image {
	if w <= 0 || h <= 0 {
		return nil
	}
	if r.quads == nil {
		r.quads = make(map[image.Point]*ebiten.Image)
	}
	key := image.Pt(w, h)
	if img, ok := r.quads[key]; ok {
		return img
	}
	img := ebiten.NewImage(w, h)
	img.Fill(color.White)
	r.quads[key] = img
	return img
}

// DrawOrder returns renderable entities sorted by render queue, then render
// layer, then entity id.
func DrawOrder(w *ecs.World) []ecs.Entity {
	entities := w.Query(component.TransformComponent.Kind(), component.SpriteComponent.Kind(), component.MaterialComponent.Kind())
	queue := func(e ecs.Entity) int {
		if m, ok := ecs.Get(w, e, component.MaterialComponent.Kind()); ok {
			return m.Queue()
		}
		return component.RenderQueueGeometry
	}
	layer := func(e ecs.Entity) int {
		if l, ok := ecs.Get(w, e, component.RenderLayerComponent.Kind()); ok {
			return l.Index
		}
		return 0
	}
	sort.SliceStable(entities, func(i, j int) bool {
		qi, qj := queue(entities[i]), queue(entities[j])
		if qi != qj {
			return qi < qj
		}
		li, lj := layer(entities[i]), layer(entities[j])
		if li != lj {
			return li < lj
		}
		return uint64(entities[i]) < uint64(entities[j])
	})
	return entities
}

// Tint returns the color a material draws with and whether it is visible.
// Opaque output ignores alpha; cutout keeps pixels at or above AlphaCutoff
// at full opacity.
func Tint(m *component.Material) (color.NRGBA, bool) {
	c := m.Color
	switch {
	case m.IsKeywordEnabled(blend.NameAlphaTest):
		if m.Alpha() < AlphaCutoff {
			return c, false
		}
		c.A = 255
	case !m.IsKeywordEnabled(blend.NameAlphaBlend) && !m.IsKeywordEnabled(blend.NameAlphaPremultiply):
		c.A = 255
	}
	return c, c.A > 0
}

func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if r == nil || w == nil || screen == nil {
		return
	}

	for _, e := range DrawOrder(w) {
		t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			continue
		}
		s, ok := ecs.Get(w, e, component.SpriteComponent.Kind())
		if !ok {
			continue
		}
		mat, ok := ecs.Get(w, e, component.MaterialComponent.Kind())
		if !ok {
			continue
		}
		tint, visible := Tint(mat)
		if !visible {
			continue
		}

		img := s.Image
		if img == nil {
			img = r.quad(s.Width, s.Height)
			if img == nil {
				continue
			}
		} else if s.UseSource {
			if sub, ok := s.Image.SubImage(s.Source).(*ebiten.Image); ok {
				img = sub
			}
		}

		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(-s.OriginX, -s.OriginY)

		op.GeoM.Scale(t.Scale())
		op.GeoM.Rotate(t.Rotation)
		op.GeoM.Translate(t.X, t.Y)
		op.ColorScale.ScaleWithColor(tint)
		op.Blend = mat.Params.EbitenBlend()

		screen.DrawImage(img, op)
	}
}
