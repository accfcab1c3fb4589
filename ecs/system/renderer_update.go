package system

import (
	"errors"
	"fmt"

	"github.com/milk9111/rendererupdate/ecs"
	"github.com/milk9111/rendererupdate/ecs/component"
	"github.com/milk9111/rendererupdate/lerp"
)

var (
	ErrNoRendererUpdate = errors.New("renderer update: entity has no renderer_update component")
	ErrNoTarget         = errors.New("renderer update: no target renderer")
)

// RendererUpdateSystem runs action slots: once on the first tick for
// OnStart updates, and whenever a TriggerRequest is attached.
type RendererUpdateSystem struct{}

func NewRendererUpdateSystem() *RendererUpdateSystem { return &RendererUpdateSystem{} }

func (s *RendererUpdateSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	for _, e := range w.Query(component.RendererUpdateComponent.Kind()) {
		ru, ok := ecs.Get(w, e, component.RendererUpdateComponent.Kind())
		if !ok {
			continue
		}

		if !ru.Started {
			ru.Started = true
			if ru.OnStart && ru.Mode != component.TargetMethodCall {
				if err := Perform(w, e); err != nil {
					ecs.Logger().Warn("renderer update: on start", "entity", e, "err", err)
				}
			}
		}

		req, ok := ecs.Get(w, e, component.TriggerRequestComponent.Kind())
		if !ok {
			continue
		}
		_ = ecs.Remove(w, e, component.TriggerRequestComponent.Kind())
		if err := Perform(w, e, toEntities(req.Targets)...); err != nil {
			ecs.Logger().Warn("renderer update: trigger", "entity", e, "err", err)
		}
	}
}

// RequestTrigger queues the slots of e to run on the next update. Targets
// override the configured target.
func RequestTrigger(w *ecs.World, e ecs.Entity, targets ...ecs.Entity) error {
	if !ecs.Has(w, e, component.RendererUpdateComponent.Kind()) {
		return fmt.Errorf("%w: %v", ErrNoRendererUpdate, e)
	}
	req, ok := ecs.Get(w, e, component.TriggerRequestComponent.Kind())
	if !ok {
		req = &component.TriggerRequest{}
	}
	for _, t := range targets {
		req.Targets = append(req.Targets, uint64(t))
	}
	return ecs.Add(w, e, component.TriggerRequestComponent.Kind(), req)
}

// Perform runs every slot of the RendererUpdate on e immediately. Targets
// override the configured target and are required in method-call mode.
func Perform(w *ecs.World, e ecs.Entity, targets ...ecs.Entity) error {
	ru, ok := ecs.Get(w, e, component.RendererUpdateComponent.Kind())
	if !ok {
		return fmt.Errorf("%w: %v", ErrNoRendererUpdate, e)
	}

	resolved, err := resolveTargets(w, e, ru, targets)
	if err != nil {
		return err
	}

	for _, target := range resolved {
		mat, ok := ecs.Get(w, target, component.MaterialComponent.Kind())
		if !ok {
			missingReference(w, e, "material", fmt.Sprintf("target %v has no material", target))
			continue
		}
		for i, slot := range ru.Slots {
			performSlot(w, e, target, i, slot, mat)
		}
	}
	return nil
}

func resolveTargets(w *ecs.World, e ecs.Entity, ru *component.RendererUpdate, override []ecs.Entity) ([]ecs.Entity, error) {
	if len(override) > 0 {
		out := make([]ecs.Entity, 0, len(override))
		for _, t := range override {
			if !ecs.IsAlive(w, t) {
				missingReference(w, e, "target", fmt.Sprintf("entity %v is not alive", t))
				continue
			}
			out = append(out, t)
		}
		return out, nil
	}

	switch ru.Mode {
	case component.TargetReference:
		target := ecs.Entity(ru.Target)
		if !ecs.IsAlive(w, target) {
			missingReference(w, e, "target", "reference target is not set or destroyed")
			return nil, fmt.Errorf("%w: reference", ErrNoTarget)
		}
		return []ecs.Entity{target}, nil
	case component.TargetTag:
		var out []ecs.Entity
		for _, t := range w.Query(component.TagComponent.Kind(), component.MaterialComponent.Kind()) {
			if tag, ok := ecs.Get(w, t, component.TagComponent.Kind()); ok && tag.Value == ru.Tag {
				out = append(out, t)
			}
		}
		if len(out) == 0 {
			missingReference(w, e, "tag", fmt.Sprintf("no renderer tagged %q", ru.Tag))
		}
		return out, nil
	case component.TargetMethodCall:
		return nil, fmt.Errorf("%w: method-call mode requires a target", ErrNoTarget)
	default:
		return nil, fmt.Errorf("renderer update: unknown target mode %v", ru.Mode)
	}
}

func performSlot(w *ecs.World, source, target ecs.Entity, idx int, slot component.ActionSlot, mat *component.Material) {
	log := ecs.Logger().With("source", source, "target", target, "slot", idx)

	switch a := slot.(type) {
	case component.SetRenderingMode:
		if err := mat.SetMode(a.Mode); err != nil {
			log.Error("renderer update: set rendering mode", "err", err)
			pushSlotEvent(w, ecs.EventInvalidSetting, source, target, idx, slot)
			return
		}
		log.Debug("renderer update: rendering mode", "mode", a.Mode)

	case component.LerpAlpha:
		if !lerp.ValidRate(a.Rate) {
			log.Error("renderer update: lerp alpha", "err", lerp.ErrInvalidRate, "rate", a.Rate)
			pushSlotEvent(w, ecs.EventInvalidSetting, source, target, idx, slot)
			return
		}
		al := &component.AlphaLerp{
			Source:   uint64(source),
			Slot:     idx,
			OnFinish: a.OnFinish,
		}
		if a.Method == component.LerpMethodPingPong {
			al.PingPong = lerp.NewPingPong(mat.Alpha(), a.Target, a.Rate, a.Cycles)
		} else {
			al.State = lerp.State{Current: mat.Alpha(), Target: a.Target, Rate: a.Rate}
		}
		if err := ecs.Add(w, target, component.AlphaLerpComponent.Kind(), al); err != nil {
			log.Error("renderer update: start alpha lerp", "err", err)
			return
		}
		if ct, ok := ecs.Get(w, target, component.ColorTweenComponent.Kind()); ok {
			ct.KeepAlpha = true
		}
		log.Debug("renderer update: alpha lerp", "from", mat.Alpha(), "to", a.Target, "method", a.Method)

	case component.ChangeAlbedoColor:
		switch a.Effect {
		case component.AlbedoSet:
			mat.Color = a.End
			_ = ecs.Remove(w, target, component.ColorTweenComponent.Kind())
			finish(a.OnFinish, source, target, idx, slot)
		case component.AlbedoLerp, component.AlbedoPingPong:
			tw := lerp.ColorTween{Start: mat.Color, End: a.End, Duration: a.Duration}
			if a.Effect == component.AlbedoPingPong {
				tw.Start = a.Start
				tw.PingPong = true
				tw.Loops = a.Loops
			}
			if err := ecs.Add(w, target, component.ColorTweenComponent.Kind(), &component.ColorTween{
				Source:    uint64(source),
				Slot:      idx,
				Tween:     tw,
				KeepAlpha: ecs.Has(w, target, component.AlphaLerpComponent.Kind()),
				OnFinish:  a.OnFinish,
			}); err != nil {
				log.Error("renderer update: start color tween", "err", err)
				return
			}
		default:
			log.Error("renderer update: unknown albedo effect", "effect", a.Effect)
			pushSlotEvent(w, ecs.EventInvalidSetting, source, target, idx, slot)
			return
		}
		log.Debug("renderer update: albedo", "effect", a.Effect, "end", a.End)

	default:
		log.Error("renderer update: unsupported action slot", "type", fmt.Sprintf("%T", slot))
		return
	}

	pushSlotEvent(w, ecs.EventSlotPerformed, source, target, idx, slot)
}

func finish(cb component.Callback, source, target ecs.Entity, idx int, slot component.ActionSlot) {
	if cb == nil {
		return
	}
	cb(component.Finish{
		Source: uint64(source),
		Target: uint64(target),
		Slot:   idx,
		Action: slot.ActionName(),
	})
}

func pushSlotEvent(w *ecs.World, typ string, source, target ecs.Entity, idx int, slot component.ActionSlot) {
	action := ""
	if slot != nil {
		action = slot.ActionName()
	}
	w.Events().Push(ecs.Event{Type: typ, Data: ecs.SlotEvent{
		Source: source,
		Target: target,
		Slot:   idx,
		Action: action,
	}})
}

// missingReference logs a renderer update whose target could not be found.
func missingReference(w *ecs.World, source ecs.Entity, field, detail string) {
	name := ""
	if n, ok := ecs.Get(w, source, component.NameComponent.Kind()); ok {
		name = n.Value
	}
	ecs.Logger().Warn("renderer update: missing reference", "entity", source, "name", name, "field", field, "detail", detail)
	w.Events().Push(ecs.Event{Type: ecs.EventMissingTarget, Data: ecs.SlotEvent{Source: source, Slot: -1}})
}

func toEntities(ids []uint64) []ecs.Entity {
	out := make([]ecs.Entity, 0, len(ids))
	for _, id := range ids {
		out = append(out, ecs.Entity(id))
	}
	return out
}
