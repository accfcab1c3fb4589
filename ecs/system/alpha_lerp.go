package system

import (
	"github.com/milk9111/rendererupdate/ecs"
	"github.com/milk9111/rendererupdate/ecs/component"
)

// AlphaLerpSystem advances every AlphaLerp by one step per tick and writes
// the value into the target material.
type AlphaLerpSystem struct{}

func NewAlphaLerpSystem() *AlphaLerpSystem { return &AlphaLerpSystem{} }

func (s *AlphaLerpSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach2(w, component.AlphaLerpComponent.Kind(), component.MaterialComponent.Kind(), func(e ecs.Entity, al *component.AlphaLerp, mat *component.Material) {
		var (
			value float64
			done  bool
			err   error
		)
		if al.PingPong != nil {
			value, done, err = al.PingPong.Tick()
		} else {
			done, err = al.State.Advance()
			value = al.State.Current
		}
		if err != nil {
			ecs.Logger().Warn("alpha lerp: dropped", "entity", e, "err", err)
			_ = ecs.Remove(w, e, component.AlphaLerpComponent.Kind())
			w.Events().Push(ecs.Event{Type: ecs.EventInvalidSetting, Data: ecs.SlotEvent{
				Source: ecs.Entity(al.Source),
				Target: e,
				Slot:   al.Slot,
				Action: component.LerpAlpha{}.ActionName(),
			}})
			return
		}

		mat.SetAlpha(value)
		ecs.Logger().Debug("alpha lerp", "entity", e, "alpha", value, "done", done)
		if !done {
			return
		}

		_ = ecs.Remove(w, e, component.AlphaLerpComponent.Kind())
		w.Events().Push(ecs.Event{Type: ecs.EventLerpFinished, Data: ecs.SlotEvent{
			Source: ecs.Entity(al.Source),
			Target: e,
			Slot:   al.Slot,
			Action: component.LerpAlpha{}.ActionName(),
		}})
		finish(al.OnFinish, ecs.Entity(al.Source), e, al.Slot, component.LerpAlpha{})
	})
}
