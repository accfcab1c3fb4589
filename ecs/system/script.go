package system

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/rendererupdate/blend"
	"github.com/milk9111/rendererupdate/ecs"
	"github.com/milk9111/rendererupdate/ecs/component"
	"github.com/milk9111/rendererupdate/prefabs"
)

// Scripts define `update := func(engine, state) { ... }`; it runs once per
// tick with the engine bindings built in buildScriptEngine.
const scriptDispatch = `
if __phase == "update" {
	update(__engine, __state)
}
`

type scriptRuntime struct {
	path      string
	compiled  *tengo.Compiled
	stateData *tengo.Map
	failed    bool
}

// ScriptSystem runs tengo scripts that trigger renderer updates.
type ScriptSystem struct {
	load  func(string) ([]byte, error)
	paths []string
	cache map[string]*scriptRuntime
}

// NewScriptSystem runs the named scripts from the prefab script directory.
func NewScriptSystem(paths ...string) *ScriptSystem {
	return NewScriptSystemWithLoader(prefabs.LoadScript, paths...)
}

func NewScriptSystemWithLoader(load func(string) ([]byte, error), paths ...string) *ScriptSystem {
	return &ScriptSystem{
		load:  load,
		paths: append([]string(nil), paths...),
		cache: map[string]*scriptRuntime{},
	}
}

// Invalidate drops the compiled script for path so the next tick reloads
// it. An empty path drops every script.
func (s *ScriptSystem) Invalidate(path string) {
	if path == "" {
		s.cache = map[string]*scriptRuntime{}
		return
	}
	for p := range s.cache {
		if strings.HasSuffix(p, path) || strings.HasSuffix(path, p) {
			delete(s.cache, p)
		}
	}
}

func (s *ScriptSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	for _, path := range s.paths {
		rt, err := s.runtime(path)
		if err != nil {
			ecs.Logger().Error("script: load", "path", path, "err", err)
			continue
		}
		if rt.failed {
			continue
		}
		if err := rt.run("update", buildScriptEngine(w)); err != nil {
			// Disable until reloaded instead of logging every tick.
			rt.failed = true
			ecs.Logger().Error("script: update", "path", path, "err", err)
		}
	}
}

func (s *ScriptSystem) runtime(path string) (*scriptRuntime, error) {
	if rt, ok := s.cache[path]; ok {
		return rt, nil
	}
	rt, err := compileScript(path, s.load)
	if err != nil {
		// Cache a failed runtime so a broken script is reported once.
		s.cache[path] = &scriptRuntime{path: path, failed: true}
		return nil, err
	}
	s.cache[path] = rt
	return rt, nil
}

func compileScript(path string, load func(string) ([]byte, error)) (*scriptRuntime, error) {
	if load == nil {
		return nil, fmt.Errorf("script %q: no loader", path)
	}
	src, err := load(path)
	if err != nil {
		return nil, err
	}

	script := tengo.NewScript([]byte(string(src) + "\n" + scriptDispatch))
	_ = script.Add("__phase", "")
	_ = script.Add("__engine", map[string]any{})
	_ = script.Add("__state", map[string]any{})
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("script %q: compile: %w", path, err)
	}
	return &scriptRuntime{
		path:      path,
		compiled:  compiled,
		stateData: &tengo.Map{Value: map[string]tengo.Object{}},
	}, nil
}

func (rt *scriptRuntime) run(phase string, engine *tengo.ImmutableMap) error {
	if rt == nil || rt.compiled == nil {
		return fmt.Errorf("nil script runtime")
	}
	if err := rt.compiled.Set("__phase", phase); err != nil {
		return err
	}
	if err := rt.compiled.Set("__engine", engine); err != nil {
		return err
	}
	if err := rt.compiled.Set("__state", rt.stateData); err != nil {
		return err
	}
	return rt.compiled.Run()
}

func buildScriptEngine(w *ecs.World) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["tick"] = &tengo.UserFunction{Name: "tick", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Int{Value: int64(w.Tick())}, nil
	}}

	values["trigger"] = &tengo.UserFunction{Name: "trigger", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		e, ok := FindByName(w, objectAsString(args[0]))
		if !ok {
			return tengo.FalseValue, nil
		}
		var targets []ecs.Entity
		for _, arg := range args[1:] {
			t, ok := FindByName(w, objectAsString(arg))
			if !ok {
				return tengo.FalseValue, nil
			}
			targets = append(targets, t)
		}
		if err := RequestTrigger(w, e, targets...); err != nil {
			ecs.Logger().Warn("script: trigger", "name", objectAsString(args[0]), "err", err)
			return tengo.FalseValue, nil
		}
		return tengo.TrueValue, nil
	}}

	values["set_mode"] = &tengo.UserFunction{Name: "set_mode", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 2 {
			return tengo.FalseValue, nil
		}
		e, ok := FindByName(w, objectAsString(args[0]))
		if !ok {
			return tengo.FalseValue, nil
		}
		mat, ok := ecs.Get(w, e, component.MaterialComponent.Kind())
		if !ok {
			return tengo.FalseValue, nil
		}
		mode, err := blend.ParseMode(objectAsString(args[1]))
		if err != nil {
			return &tengo.Error{Value: &tengo.String{Value: err.Error()}}, nil
		}
		if err := mat.SetMode(mode); err != nil {
			return &tengo.Error{Value: &tengo.String{Value: err.Error()}}, nil
		}
		return tengo.TrueValue, nil
	}}

	values["alpha"] = &tengo.UserFunction{Name: "alpha", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return &tengo.Float{Value: -1}, nil
		}
		e, ok := FindByName(w, objectAsString(args[0]))
		if !ok {
			return &tengo.Float{Value: -1}, nil
		}
		mat, ok := ecs.Get(w, e, component.MaterialComponent.Kind())
		if !ok {
			return &tengo.Float{Value: -1}, nil
		}
		return &tengo.Float{Value: mat.Alpha()}, nil
	}}

	values["animating"] = &tengo.UserFunction{Name: "animating", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		e, ok := FindByName(w, objectAsString(args[0]))
		if !ok {
			return tengo.FalseValue, nil
		}
		if ecs.Has(w, e, component.AlphaLerpComponent.Kind()) || ecs.Has(w, e, component.ColorTweenComponent.Kind()) {
			return tengo.TrueValue, nil
		}
		return tengo.FalseValue, nil
	}}

	values["reload"] = &tengo.UserFunction{Name: "reload", Value: func(args ...tengo.Object) (tengo.Object, error) {
		e := ecs.CreateEntity(w)
		if err := ecs.Add(w, e, component.ReloadRequestComponent.Kind(), &component.ReloadRequest{}); err != nil {
			return tengo.FalseValue, nil
		}
		return tengo.TrueValue, nil
	}}

	values["log"] = &tengo.UserFunction{Name: "log", Value: func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]string, 0, len(args))
		for _, a := range args {
			parts = append(parts, objectAsString(a))
		}
		ecs.Logger().Info("script", "msg", strings.Join(parts, " "))
		return tengo.UndefinedValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}
