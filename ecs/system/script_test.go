package system

import (
	"errors"
	"testing"

	"github.com/milk9111/rendererupdate/blend"
	"github.com/milk9111/rendererupdate/ecs"
	"github.com/milk9111/rendererupdate/ecs/component"
)

func sources(files map[string]string) func(string) ([]byte, error) {
	return func(path string) ([]byte, error) {
		src, ok := files[path]
		if !ok {
			return nil, errors.New("not found")
		}
		return []byte(src), nil
	}
}

func TestScriptSystemTriggers(t *testing.T) {
	w := ecs.NewWorld()
	box := addRenderer(t, w, "box", "", blend.ModeOpaque)
	src := addUpdate(t, w, &component.RendererUpdate{
		Mode:  component.TargetMethodCall,
		Slots: []component.ActionSlot{component.SetRenderingMode{Mode: blend.ModeFade}},
	})
	_ = ecs.Add(w, src, component.NameComponent.Kind(), &component.Name{Value: "to_fade"})

	script := `
update := func(engine, state) {
	if engine.tick() == 2 {
		state.ok = engine.trigger("to_fade", "box")
	}
}
`
	scripts := NewScriptSystemWithLoader(sources(map[string]string{"a.tengo": script}), "a.tengo")
	w.AddSystem(scripts)
	w.AddSystem(NewRendererUpdateSystem())

	w.Update()
	if got := material(t, w, box).Mode; got != blend.ModeOpaque {
		t.Fatalf("triggered too early: %v", got)
	}
	w.Update()
	if got := material(t, w, box).Mode; got != blend.ModeFade {
		t.Fatalf("mode = %v, want fade", got)
	}
}

func TestScriptSystemSetModeAndAlpha(t *testing.T) {
	w := ecs.NewWorld()
	box := addRenderer(t, w, "box", "", blend.ModeOpaque)
	material(t, w, box).SetAlpha(0.5)

	script := `
update := func(engine, state) {
	if engine.alpha("box") > 0.4 && !engine.animating("box") {
		engine.set_mode("box", "Transparent")
	}
	engine.set_mode("missing", "fade")
}
`
	sys := NewScriptSystemWithLoader(sources(map[string]string{"b.tengo": script}), "b.tengo")
	sys.Update(w)
	if got := material(t, w, box).Mode; got != blend.ModeTransparent {
		t.Fatalf("mode = %v, want transparent", got)
	}
}

func TestScriptSystemReload(t *testing.T) {
	w := ecs.NewWorld()
	script := `update := func(engine, state) { engine.reload() }`
	sys := NewScriptSystemWithLoader(sources(map[string]string{"r.tengo": script}), "r.tengo")
	sys.Update(w)
	if _, ok := w.First(component.ReloadRequestComponent.Kind()); !ok {
		t.Fatalf("reload request not created")
	}
}

func TestScriptSystemBrokenScriptDisabled(t *testing.T) {
	w := ecs.NewWorld()
	calls := 0
	files := map[string]string{"bad.tengo": `update := func(engine, state) {`}
	load := sources(files)
	counting := func(path string) ([]byte, error) {
		calls++
		return load(path)
	}
	sys := NewScriptSystemWithLoader(counting, "bad.tengo")
	sys.Update(w)
	sys.Update(w)
	if calls != 1 {
		t.Fatalf("loader calls = %d, want 1", calls)
	}

	files["bad.tengo"] = `update := func(engine, state) { engine.reload() }`
	sys.Invalidate("bad.tengo")
	sys.Update(w)
	if calls != 2 {
		t.Fatalf("loader calls after invalidate = %d, want 2", calls)
	}
	if _, ok := w.First(component.ReloadRequestComponent.Kind()); !ok {
		t.Fatalf("fixed script did not run")
	}
}

func TestScriptRuntimeErrorDisables(t *testing.T) {
	w := ecs.NewWorld()
	script := `
update := func(engine, state) {
	if state.n == undefined {
		state.n = 0
	}
	state.n += 1
	engine.no_such_function()
}
`
	sys := NewScriptSystemWithLoader(sources(map[string]string{"e.tengo": script}), "e.tengo")
	sys.Update(w)
	sys.Update(w)
	rt := sys.cache["e.tengo"]
	if rt == nil || !rt.failed {
		t.Fatalf("runtime not disabled after error")
	}
	if n, ok := rt.stateData.Value["n"]; !ok || n.String() != "1" {
		t.Fatalf("state n = %v, want 1", n)
	}
}
