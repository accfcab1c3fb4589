package entity

import (
	"errors"
	"fmt"
	"image/color"
	"sort"

	"github.com/milk9111/rendererupdate/assets"
	"github.com/milk9111/rendererupdate/ecs"
	"github.com/milk9111/rendererupdate/ecs/component"
	"github.com/milk9111/rendererupdate/ecs/system"
	"github.com/milk9111/rendererupdate/lerp"
	"github.com/milk9111/rendererupdate/prefabs"
)

var (
	ErrUnknownCallback = errors.New("build entity: unknown callback")
	ErrUnknownTarget   = errors.New("build entity: unknown target")
	ErrInvalidSlot     = errors.New("build entity: invalid action slot")
)

// CallbackSource resolves the callback names used in prefabs.
type CallbackSource interface {
	Lookup(name string) (component.Callback, bool)
}

// Callbacks maps callback names to functions.
type Callbacks map[string]component.Callback

func (c Callbacks) Lookup(name string) (component.Callback, bool) {
	cb, ok := c[name]
	return cb, ok && cb != nil
}

type buildContext struct {
	PrefabPath string
	Callbacks  CallbackSource
	// Names holds entities built so far in the current scene.
	Names map[string]ecs.Entity
}

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error

var componentRegistry = map[string]componentBuildFn{
	"tag":             addTag,
	"transform":       addTransform,
	"sprite":          addSprite,
	"render_layer":    addRenderLayer,
	"material":        addMaterial,
	"renderer_update": addRendererUpdate,
}

var componentBuildOrder = []string{
	"tag",
	"transform",
	"sprite",
	"render_layer",
	"material",
}

// deferredComponents are built after every entity in a scene exists so
// they can reference entities by name.
var deferredComponents = []string{
	"renderer_update",
}

// BuildEntity creates one entity from a prefab file. Name references are
// resolved against entities already in the world.
func BuildEntity(w *ecs.World, prefabPath string, callbacks CallbackSource) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}

	spec, err := prefabs.LoadEntityBuildSpec(prefabPath)
	if err != nil {
		return 0, fmt.Errorf("build entity: load %q: %w", prefabPath, err)
	}
	ctx := &buildContext{PrefabPath: prefabPath, Callbacks: callbacks}

	e, components, err := createEntity(w, spec, ctx)
	if err != nil {
		return 0, err
	}
	if err := buildComponents(w, e, components, deferredComponents, ctx); err != nil {
		ecs.DestroyEntity(w, e)
		return 0, err
	}
	return e, nil
}

// BuildScene creates every entity of scene and returns them by name. On
// error nothing built by the call is left in the world.
func BuildScene(w *ecs.World, scene prefabs.SceneSpec, callbacks CallbackSource) (map[string]ecs.Entity, error) {
	if w == nil {
		return nil, fmt.Errorf("build scene: world is nil")
	}

	ctx := &buildContext{PrefabPath: scene.Name, Callbacks: callbacks, Names: map[string]ecs.Entity{}}
	built := make([]ecs.Entity, 0, len(scene.Entities))
	pending := make([]map[string]any, 0, len(scene.Entities))
	fail := func(err error) (map[string]ecs.Entity, error) {
		for _, e := range built {
			ecs.DestroyEntity(w, e)
		}
		return nil, fmt.Errorf("build scene %q: %w", scene.Name, err)
	}

	for i, spec := range scene.Entities {
		resolved, err := resolvePrefab(spec)
		if err != nil {
			return fail(fmt.Errorf("entity %d: %w", i, err))
		}
		if resolved.Name != "" {
			if _, dup := ctx.Names[resolved.Name]; dup {
				return fail(fmt.Errorf("entity %d: duplicate name %q", i, resolved.Name))
			}
		}
		e, components, err := createEntity(w, resolved, ctx)
		if err != nil {
			return fail(err)
		}
		built = append(built, e)
		pending = append(pending, components)
		if resolved.Name != "" {
			ctx.Names[resolved.Name] = e
		}
	}

	for i, e := range built {
		if err := buildComponents(w, e, pending[i], deferredComponents, ctx); err != nil {
			return fail(err)
		}
	}

	return ctx.Names, nil
}

// LoadScene reads a scene file and builds it into w.
func LoadScene(w *ecs.World, path string, callbacks CallbackSource) (prefabs.SceneSpec, map[string]ecs.Entity, error) {
	scene, err := prefabs.LoadSceneSpec(path)
	if err != nil {
		return prefabs.SceneSpec{}, nil, err
	}
	if scene.Name == "" {
		scene.Name = path
	}
	names, err := BuildScene(w, scene, callbacks)
	if err != nil {
		return prefabs.SceneSpec{}, nil, err
	}
	return scene, names, nil
}

// resolvePrefab merges the referenced prefab under the inline components.
func resolvePrefab(spec prefabs.EntityBuildSpec) (prefabs.EntityBuildSpec, error) {
	if spec.Prefab == "" {
		return spec, nil
	}
	base, err := prefabs.LoadEntityBuildSpec(spec.Prefab)
	if err != nil {
		return prefabs.EntityBuildSpec{}, fmt.Errorf("load prefab %q: %w", spec.Prefab, err)
	}
	out := prefabs.EntityBuildSpec{
		Name:       base.Name,
		Components: make(map[string]any, len(base.Components)+len(spec.Components)),
	}
	if spec.Name != "" {
		out.Name = spec.Name
	}
	for k, v := range base.Components {
		out.Components[k] = v
	}
	for k, v := range spec.Components {
		out.Components[k] = v
	}
	return out, nil
}

// createEntity builds the immediate components of spec and returns the
// deferred ones still to build.
func createEntity(w *ecs.World, spec prefabs.EntityBuildSpec, ctx *buildContext) (ecs.Entity, map[string]any, error) {
	if len(spec.Components) == 0 {
		return 0, nil, fmt.Errorf("build entity: %q does not define components", label(spec, ctx))
	}

	e := ecs.CreateEntity(w)
	if spec.Name != "" {
		if err := ecs.Add(w, e, component.NameComponent.Kind(), &component.Name{Value: spec.Name}); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, nil, fmt.Errorf("build entity: %q: add name: %w", label(spec, ctx), err)
		}
	}

	remaining := make(map[string]any, len(spec.Components))
	for k, v := range spec.Components {
		remaining[k] = v
	}
	deferred := make(map[string]any)
	for _, name := range deferredComponents {
		if raw, ok := remaining[name]; ok {
			deferred[name] = raw
			delete(remaining, name)
		}
	}

	order := append([]string(nil), componentBuildOrder...)
	extra := make([]string, 0)
	for name := range remaining {
		if !contains(componentBuildOrder, name) {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	order = append(order, extra...)

	if err := buildComponents(w, e, remaining, order, ctx); err != nil {
		ecs.DestroyEntity(w, e)
		return 0, nil, fmt.Errorf("build entity: %q: %w", label(spec, ctx), err)
	}
	return e, deferred, nil
}

func buildComponents(w *ecs.World, e ecs.Entity, components map[string]any, order []string, ctx *buildContext) error {
	for _, name := range order {
		raw, ok := components[name]
		if !ok {
			continue
		}
		builder, ok := componentRegistry[name]
		if !ok {
			return fmt.Errorf("no builder for component %q", name)
		}
		if err := builder(w, e, raw, ctx); err != nil {
			return fmt.Errorf("add %q: %w", name, err)
		}
	}
	return nil
}

func label(spec prefabs.EntityBuildSpec, ctx *buildContext) string {
	if spec.Name != "" {
		return spec.Name
	}
	if ctx != nil {
		return ctx.PrefabPath
	}
	return ""
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func addTag(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.TagComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode tag spec: %w", err)
	}
	if spec.Value == "" {
		return fmt.Errorf("tag value is empty")
	}
	return ecs.Add(w, e, component.TagComponent.Kind(), &component.Tag{Value: spec.Value})
}

func addTransform(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.TransformComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode transform spec: %w", err)
	}
	if spec.ScaleX == 0 {
		spec.ScaleX = 1
	}
	if spec.ScaleY == 0 {
		spec.ScaleY = 1
	}
	return ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{
		X:        spec.X,
		Y:        spec.Y,
		ScaleX:   spec.ScaleX,
		ScaleY:   spec.ScaleY,
		Rotation: spec.Rotation,
	})
}

func addSprite(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.SpriteComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode sprite spec: %w", err)
	}

	sprite := &component.Sprite{
		Width:   spec.Width,
		Height:  spec.Height,
		OriginX: spec.OriginX,
		OriginY: spec.OriginY,
	}
	if spec.Image != "" {
		img, err := assets.LoadImage(spec.Image)
		if err != nil {
			return fmt.Errorf("load sprite image %q: %w", spec.Image, err)
		}
		sprite.Image = img
		b := img.Bounds()
		sprite.Width, sprite.Height = b.Dx(), b.Dy()
	}
	if sprite.Width <= 0 || sprite.Height <= 0 {
		return fmt.Errorf("sprite needs an image or a positive width and height")
	}
	if spec.CenterOriginIfZero && sprite.OriginX == 0 && sprite.OriginY == 0 {
		sprite.OriginX = float64(sprite.Width) / 2
		sprite.OriginY = float64(sprite.Height) / 2
	}
	return ecs.Add(w, e, component.SpriteComponent.Kind(), sprite)
}

func addRenderLayer(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.RenderLayerComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode render layer spec: %w", err)
	}
	return ecs.Add(w, e, component.RenderLayerComponent.Kind(), &component.RenderLayer{Index: spec.Index})
}

func addMaterial(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.MaterialComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode material spec: %w", err)
	}

	albedo := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	if spec.Color != nil {
		albedo = spec.Color.NRGBA
	}
	mat, err := component.NewMaterial(spec.Mode, albedo)
	if err != nil {
		return err
	}
	if spec.Alpha != nil {
		mat.SetAlpha(*spec.Alpha)
	}
	return ecs.Add(w, e, component.MaterialComponent.Kind(), mat)
}

func addRendererUpdate(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.RendererUpdateComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode renderer update spec: %w", err)
	}

	mode, err := component.ParseTargetMode(spec.Mode)
	if err != nil {
		return err
	}

	ru := &component.RendererUpdate{
		Description: spec.Description,
		Mode:        mode,
		Tag:         spec.Tag,
		OnStart:     spec.OnStart,
	}

	switch mode {
	case component.TargetReference:
		if spec.Target == "" {
			return fmt.Errorf("%w: reference mode needs a target name", ErrUnknownTarget)
		}
		target, ok := lookupName(w, ctx, spec.Target)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownTarget, spec.Target)
		}
		ru.Target = uint64(target)
	case component.TargetTag:
		if spec.Tag == "" {
			return fmt.Errorf("tag mode needs a tag")
		}
	}

	for i, s := range spec.Slots {
		slot, err := buildSlot(s, ctx)
		if err != nil {
			return fmt.Errorf("slot %d: %w", i, err)
		}
		ru.Slots = append(ru.Slots, slot)
	}

	return ecs.Add(w, e, component.RendererUpdateComponent.Kind(), ru)
}

func lookupName(w *ecs.World, ctx *buildContext, name string) (ecs.Entity, bool) {
	if ctx != nil {
		if e, ok := ctx.Names[name]; ok {
			return e, true
		}
	}
	return system.FindByName(w, name)
}

func buildSlot(spec prefabs.ActionSlotSpec, ctx *buildContext) (component.ActionSlot, error) {
	if spec.Action == "set_rendering_mode" && spec.Callback != "" {
		return nil, fmt.Errorf("%w: set_rendering_mode does not take a callback", ErrInvalidSlot)
	}
	cb, err := lookupCallback(ctx, spec.Callback)
	if err != nil {
		return nil, err
	}

	switch spec.Action {
	case "set_rendering_mode":
		if spec.RenderingMode == nil {
			return nil, fmt.Errorf("%w: set_rendering_mode needs rendering_mode", ErrInvalidSlot)
		}
		return component.SetRenderingMode{Mode: *spec.RenderingMode}, nil

	case "lerp_alpha":
		if !lerp.ValidRate(spec.LerpSpeed) {
			return nil, fmt.Errorf("%w: lerp_speed %v: %w", ErrInvalidSlot, spec.LerpSpeed, lerp.ErrInvalidRate)
		}
		method, err := component.ParseLerpMethod(spec.LerpMethod)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSlot, err)
		}
		return component.LerpAlpha{
			Target:   spec.LerpValue,
			Rate:     spec.LerpSpeed,
			Method:   method,
			Cycles:   spec.Cycles,
			OnFinish: cb,
		}, nil

	case "change_albedo_color":
		effect, err := component.ParseAlbedoEffect(spec.AlbedoEffect)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSlot, err)
		}
		if spec.EndColor == nil {
			return nil, fmt.Errorf("%w: change_albedo_color needs end_color", ErrInvalidSlot)
		}
		slot := component.ChangeAlbedoColor{
			Effect:   effect,
			End:      spec.EndColor.NRGBA,
			Duration: spec.Duration,
			Loops:    spec.Loops,
			OnFinish: cb,
		}
		if effect == component.AlbedoPingPong {
			if spec.StartColor == nil {
				return nil, fmt.Errorf("%w: ping_pong needs start_color", ErrInvalidSlot)
			}
			slot.Start = spec.StartColor.NRGBA
		}
		return slot, nil

	default:
		return nil, fmt.Errorf("%w: unknown action %q", ErrInvalidSlot, spec.Action)
	}
}

func lookupCallback(ctx *buildContext, name string) (component.Callback, error) {
	if name == "" {
		return nil, nil
	}
	if ctx != nil && ctx.Callbacks != nil {
		if cb, ok := ctx.Callbacks.Lookup(name); ok {
			return cb, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCallback, name)
}
