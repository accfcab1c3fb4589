package system

import (
	"errors"
	"image/color"
	"testing"

	"github.com/milk9111/rendererupdate/blend"
	"github.com/milk9111/rendererupdate/ecs"
	"github.com/milk9111/rendererupdate/ecs/component"
)

var white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

func addRenderer(t *testing.T, w *ecs.World, name, tag string, mode blend.Mode) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	mat, err := component.NewMaterial(mode, white)
	if err != nil {
		t.Fatalf("NewMaterial: %v", err)
	}
	if err := ecs.Add(w, e, component.MaterialComponent.Kind(), mat); err != nil {
		t.Fatalf("add material: %v", err)
	}
	if name != "" {
		if err := ecs.Add(w, e, component.NameComponent.Kind(), &component.Name{Value: name}); err != nil {
			t.Fatalf("add name: %v", err)
		}
	}
	if tag != "" {
		if err := ecs.Add(w, e, component.TagComponent.Kind(), &component.Tag{Value: tag}); err != nil {
			t.Fatalf("add tag: %v", err)
		}
	}
	return e
}

func addUpdate(t *testing.T, w *ecs.World, ru *component.RendererUpdate) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.RendererUpdateComponent.Kind(), ru); err != nil {
		t.Fatalf("add renderer update: %v", err)
	}
	return e
}

func material(t *testing.T, w *ecs.World, e ecs.Entity) *component.Material {
	t.Helper()
	mat, ok := ecs.Get(w, e, component.MaterialComponent.Kind())
	if !ok {
		t.Fatalf("entity %v has no material", e)
	}
	return mat
}

func countEvents(w *ecs.World, typ string) int {
	n := 0
	for _, evt := range w.Events().Peek() {
		if evt.Type == typ {
			n++
		}
	}
	return n
}

func TestPerformReferenceMode(t *testing.T) {
	w := ecs.NewWorld()
	target := addRenderer(t, w, "box", "", blend.ModeOpaque)
	src := addUpdate(t, w, &component.RendererUpdate{
		Mode:   component.TargetReference,
		Target: uint64(target),
		Slots:  []component.ActionSlot{component.SetRenderingMode{Mode: blend.ModeTransparent}},
	})

	if err := Perform(w, src); err != nil {
		t.Fatalf("Perform: %v", err)
	}

	mat := material(t, w, target)
	if mat.Mode != blend.ModeTransparent {
		t.Fatalf("mode = %v, want transparent", mat.Mode)
	}
	if mat.Ints[blend.PropSrcBlend] != int(blend.FactorOne) || mat.Ints[blend.PropDstBlend] != int(blend.FactorOneMinusSrcAlpha) {
		t.Fatalf("ints = %v", mat.Ints)
	}
	if !mat.IsKeywordEnabled(blend.NameAlphaPremultiply) || mat.IsKeywordEnabled(blend.NameAlphaBlend) {
		t.Fatalf("keywords = %v", mat.Keywords)
	}
	if mat.Queue() != blend.RenderQueueTransparent {
		t.Fatalf("queue = %d", mat.Queue())
	}

	evts := w.Events().Peek()
	if len(evts) != 1 || evts[0].Type != ecs.EventSlotPerformed {
		t.Fatalf("events = %+v", evts)
	}
	data := evts[0].Data.(ecs.SlotEvent)
	if data.Source != src || data.Target != target || data.Slot != 0 || data.Action != "set_rendering_mode" {
		t.Fatalf("event data = %+v", data)
	}
}

func TestPerformTagMode(t *testing.T) {
	w := ecs.NewWorld()
	a := addRenderer(t, w, "", "walls", blend.ModeOpaque)
	b := addRenderer(t, w, "", "walls", blend.ModeOpaque)
	other := addRenderer(t, w, "", "floor", blend.ModeOpaque)
	src := addUpdate(t, w, &component.RendererUpdate{
		Mode:  component.TargetTag,
		Tag:   "walls",
		Slots: []component.ActionSlot{component.SetRenderingMode{Mode: blend.ModeCutout}},
	})

	if err := Perform(w, src); err != nil {
		t.Fatalf("Perform: %v", err)
	}
	for _, e := range []ecs.Entity{a, b} {
		if got := material(t, w, e).Mode; got != blend.ModeCutout {
			t.Fatalf("tagged %v mode = %v", e, got)
		}
	}
	if got := material(t, w, other).Mode; got != blend.ModeOpaque {
		t.Fatalf("untagged mode = %v", got)
	}
}

func TestPerformTagModeNoMatches(t *testing.T) {
	w := ecs.NewWorld()
	addRenderer(t, w, "", "floor", blend.ModeOpaque)
	src := addUpdate(t, w, &component.RendererUpdate{
		Mode:  component.TargetTag,
		Tag:   "walls",
		Slots: []component.ActionSlot{component.SetRenderingMode{Mode: blend.ModeFade}},
	})
	if err := Perform(w, src); err != nil {
		t.Fatalf("Perform: %v", err)
	}
	if countEvents(w, ecs.EventMissingTarget) != 1 {
		t.Fatalf("events = %+v", w.Events().Peek())
	}
}

func TestPerformMethodCall(t *testing.T) {
	w := ecs.NewWorld()
	target := addRenderer(t, w, "", "", blend.ModeOpaque)
	src := addUpdate(t, w, &component.RendererUpdate{
		Mode:  component.TargetMethodCall,
		Slots: []component.ActionSlot{component.SetRenderingMode{Mode: blend.ModeFade}},
	})

	if err := Perform(w, src); !errors.Is(err, ErrNoTarget) {
		t.Fatalf("Perform without target err = %v, want ErrNoTarget", err)
	}
	if err := Perform(w, src, target); err != nil {
		t.Fatalf("Perform: %v", err)
	}
	if got := material(t, w, target).Mode; got != blend.ModeFade {
		t.Fatalf("mode = %v, want fade", got)
	}
}

func TestPerformMissingReference(t *testing.T) {
	w := ecs.NewWorld()
	gone := addRenderer(t, w, "", "", blend.ModeOpaque)
	ecs.DestroyEntity(w, gone)

	src := addUpdate(t, w, &component.RendererUpdate{
		Mode:   component.TargetReference,
		Target: uint64(gone),
		Slots:  []component.ActionSlot{component.SetRenderingMode{Mode: blend.ModeFade}},
	})
	if err := Perform(w, src); !errors.Is(err, ErrNoTarget) {
		t.Fatalf("err = %v, want ErrNoTarget", err)
	}
	if countEvents(w, ecs.EventMissingTarget) != 1 {
		t.Fatalf("events = %+v", w.Events().Peek())
	}

	if err := Perform(w, ecs.CreateEntity(w)); !errors.Is(err, ErrNoRendererUpdate) {
		t.Fatalf("err = %v, want ErrNoRendererUpdate", err)
	}
}

func TestPerformTargetWithoutMaterial(t *testing.T) {
	w := ecs.NewWorld()
	bare := ecs.CreateEntity(w)
	src := addUpdate(t, w, &component.RendererUpdate{
		Mode:  component.TargetMethodCall,
		Slots: []component.ActionSlot{component.SetRenderingMode{Mode: blend.ModeFade}},
	})
	if err := Perform(w, src, bare); err != nil {
		t.Fatalf("Perform: %v", err)
	}
	if countEvents(w, ecs.EventMissingTarget) != 1 || countEvents(w, ecs.EventSlotPerformed) != 0 {
		t.Fatalf("events = %+v", w.Events().Peek())
	}
}

func TestPerformInvalidSettings(t *testing.T) {
	cases := []struct {
		name string
		slot component.ActionSlot
	}{
		{"zero rate", component.LerpAlpha{Target: 0, Rate: 0}},
		{"rate above one", component.LerpAlpha{Target: 0, Rate: 2}},
		{"invalid mode", component.SetRenderingMode{Mode: blend.Mode(42)}},
		{"unknown albedo effect", component.ChangeAlbedoColor{Effect: component.AlbedoEffect(9)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := ecs.NewWorld()
			target := addRenderer(t, w, "", "", blend.ModeFade)
			src := addUpdate(t, w, &component.RendererUpdate{
				Mode:   component.TargetReference,
				Target: uint64(target),
				Slots:  []component.ActionSlot{tc.slot},
			})
			if err := Perform(w, src); err != nil {
				t.Fatalf("Perform: %v", err)
			}
			if countEvents(w, ecs.EventInvalidSetting) != 1 {
				t.Fatalf("events = %+v", w.Events().Peek())
			}
			if ecs.Has(w, target, component.AlphaLerpComponent.Kind()) {
				t.Fatalf("invalid slot installed an alpha lerp")
			}
			if got := material(t, w, target).Mode; got != blend.ModeFade {
				t.Fatalf("mode changed to %v", got)
			}
		})
	}
}

func TestPerformSlotsInOrder(t *testing.T) {
	w := ecs.NewWorld()
	target := addRenderer(t, w, "", "", blend.ModeOpaque)
	src := addUpdate(t, w, &component.RendererUpdate{
		Mode:   component.TargetReference,
		Target: uint64(target),
		Slots: []component.ActionSlot{
			component.SetRenderingMode{Mode: blend.ModeFade},
			component.SetRenderingMode{Mode: blend.ModeCutout},
			component.ChangeAlbedoColor{Effect: component.AlbedoSet, End: color.NRGBA{R: 10, G: 20, B: 30, A: 40}},
		},
	})
	if err := Perform(w, src); err != nil {
		t.Fatalf("Perform: %v", err)
	}
	mat := material(t, w, target)
	if mat.Mode != blend.ModeCutout {
		t.Fatalf("mode = %v, want last slot's cutout", mat.Mode)
	}
	if mat.Color != (color.NRGBA{R: 10, G: 20, B: 30, A: 40}) {
		t.Fatalf("color = %+v", mat.Color)
	}
	if countEvents(w, ecs.EventSlotPerformed) != 3 {
		t.Fatalf("events = %+v", w.Events().Peek())
	}
}

func TestRendererUpdateSystemOnStart(t *testing.T) {
	w := ecs.NewWorld()
	target := addRenderer(t, w, "", "", blend.ModeOpaque)
	src := addUpdate(t, w, &component.RendererUpdate{
		Mode:    component.TargetReference,
		Target:  uint64(target),
		OnStart: true,
		Slots:   []component.ActionSlot{component.SetRenderingMode{Mode: blend.ModeFade}},
	})
	w.AddSystem(NewRendererUpdateSystem())

	w.Update()
	if got := material(t, w, target).Mode; got != blend.ModeFade {
		t.Fatalf("mode after first tick = %v", got)
	}
	if countEvents(w, ecs.EventSlotPerformed) != 1 {
		t.Fatalf("events = %+v", w.Events().Peek())
	}

	material(t, w, target).SetMode(blend.ModeOpaque)
	w.Update()
	if got := material(t, w, target).Mode; got != blend.ModeOpaque {
		t.Fatalf("on start ran twice")
	}
	ru, _ := ecs.Get(w, src, component.RendererUpdateComponent.Kind())
	if !ru.Started {
		t.Fatalf("Started not set")
	}
}

func TestRendererUpdateSystemOnStartIgnoredForMethodCall(t *testing.T) {
	w := ecs.NewWorld()
	addRenderer(t, w, "", "", blend.ModeOpaque)
	addUpdate(t, w, &component.RendererUpdate{
		Mode:    component.TargetMethodCall,
		OnStart: true,
		Slots:   []component.ActionSlot{component.SetRenderingMode{Mode: blend.ModeFade}},
	})
	w.AddSystem(NewRendererUpdateSystem())
	w.Update()
	if n := len(w.Events().Peek()); n != 0 {
		t.Fatalf("events = %d, want none", n)
	}
}

func TestRequestTrigger(t *testing.T) {
	w := ecs.NewWorld()
	a := addRenderer(t, w, "", "", blend.ModeOpaque)
	b := addRenderer(t, w, "", "", blend.ModeOpaque)
	src := addUpdate(t, w, &component.RendererUpdate{
		Mode:  component.TargetMethodCall,
		Slots: []component.ActionSlot{component.SetRenderingMode{Mode: blend.ModeTransparent}},
	})
	w.AddSystem(NewRendererUpdateSystem())

	if err := RequestTrigger(w, src, a); err != nil {
		t.Fatalf("RequestTrigger: %v", err)
	}
	if err := RequestTrigger(w, src, b); err != nil {
		t.Fatalf("RequestTrigger: %v", err)
	}
	if err := RequestTrigger(w, a); !errors.Is(err, ErrNoRendererUpdate) {
		t.Fatalf("err = %v, want ErrNoRendererUpdate", err)
	}

	w.Update()
	for _, e := range []ecs.Entity{a, b} {
		if got := material(t, w, e).Mode; got != blend.ModeTransparent {
			t.Fatalf("%v mode = %v", e, got)
		}
	}
	if ecs.Has(w, src, component.TriggerRequestComponent.Kind()) {
		t.Fatalf("trigger request not consumed")
	}
}

func TestChangeAlbedoSetFiresCallback(t *testing.T) {
	w := ecs.NewWorld()
	target := addRenderer(t, w, "", "", blend.ModeFade)
	var got []component.Finish
	src := addUpdate(t, w, &component.RendererUpdate{
		Mode: component.TargetMethodCall,
		Slots: []component.ActionSlot{component.ChangeAlbedoColor{
			Effect:   component.AlbedoSet,
			End:      color.NRGBA{R: 1, A: 255},
			OnFinish: func(f component.Finish) { got = append(got, f) },
		}},
	})
	if err := Perform(w, src, target); err != nil {
		t.Fatalf("Perform: %v", err)
	}
	if len(got) != 1 || got[0].Target != uint64(target) || got[0].Source != uint64(src) || got[0].Action != "change_albedo_color" {
		t.Fatalf("finish = %+v", got)
	}
}
