package system

import (
	"github.com/milk9111/rendererupdate/ecs"
	"github.com/milk9111/rendererupdate/ecs/component"
)

// ColorTweenSystem advances albedo color animations.
type ColorTweenSystem struct{}

func NewColorTweenSystem() *ColorTweenSystem { return &ColorTweenSystem{} }

func (s *ColorTweenSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach2(w, component.ColorTweenComponent.Kind(), component.MaterialComponent.Kind(), func(e ecs.Entity, ct *component.ColorTween, mat *component.Material) {
		c, done := ct.Tween.Tick()
		if ecs.Has(w, e, component.AlphaLerpComponent.Kind()) {
			ct.KeepAlpha = true
		}
		if ct.KeepAlpha {
			c.A = mat.Color.A
		}
		mat.Color = c
		if !done {
			return
		}
		_ = ecs.Remove(w, e, component.ColorTweenComponent.Kind())
		w.Events().Push(ecs.Event{Type: ecs.EventTweenFinished, Data: ecs.SlotEvent{
			Source: ecs.Entity(ct.Source),
			Target: e,
			Slot:   ct.Slot,
			Action: component.ChangeAlbedoColor{}.ActionName(),
		}})
		finish(ct.OnFinish, ecs.Entity(ct.Source), e, ct.Slot, component.ChangeAlbedoColor{})
	})
}
