package main

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/rendererupdate/blend"
	"github.com/milk9111/rendererupdate/ecs"
	"github.com/milk9111/rendererupdate/ecs/component"
	"github.com/milk9111/rendererupdate/ecs/entity"
	"github.com/milk9111/rendererupdate/ecs/system"
	"github.com/milk9111/rendererupdate/prefabs"
)

const (
	baseWidth  = 880
	baseHeight = 480
)

var background = color.NRGBA{R: 0x1b, G: 0x1d, B: 0x24, A: 0xff}

type Game struct {
	scenePath string
	debug     bool

	world   *ecs.World
	names   map[string]ecs.Entity
	scripts *system.ScriptSystem
	render  *system.RenderSystem
	watcher *prefabs.Watcher

	frames  int
	lastErr error
}

func NewGame(scenePath string, debug, watch bool) (*Game, error) {
	g := &Game{
		scenePath: scenePath,
		debug:     debug,
		render:    system.NewRenderSystem(),
	}
	if err := g.loadScene(); err != nil {
		return nil, err
	}
	if watch {
		w, err := prefabs.NewWatcher()
		if err != nil {
			ecs.Logger().Warn("hot reload disabled", "err", err)
		} else {
			g.watcher = w
		}
	}
	return g, nil
}

// callbacks are the completion callbacks scenes may name.
func (g *Game) callbacks() entity.Callbacks {
	return entity.Callbacks{
		"log": func(f component.Finish) {
			ecs.Logger().Info("slot finished", "source", f.Source, "target", f.Target, "slot", f.Slot, "action", f.Action)
		},
		"restore_opaque": func(f component.Finish) {
			mat, ok := ecs.Get(g.world, ecs.Entity(f.Target), component.MaterialComponent.Kind())
			if !ok {
				return
			}
			mat.SetAlpha(1)
			if err := mat.SetMode(blend.ModeOpaque); err != nil {
				ecs.Logger().Error("restore opaque", "err", err)
			}
		},
		"flash_panels": func(component.Finish) {
			if e, ok := g.names["flash_panels"]; ok {
				_ = system.RequestTrigger(g.world, e)
			}
		},
	}
}

// loadScene builds the scene into a fresh world. The current world is kept
// if the scene fails to build.
func (g *Game) loadScene() error {
	world := ecs.NewWorld()
	prev, prevNames := g.world, g.names
	g.world = world

	scene, names, err := entity.LoadScene(world, g.scenePath, g.callbacks())
	if err != nil {
		g.world, g.names = prev, prevNames
		g.lastErr = err
		return fmt.Errorf("load scene %q: %w", g.scenePath, err)
	}

	scripts := system.NewScriptSystem(scene.Scripts...)
	world.AddSystem(scripts)
	world.AddSystem(system.NewRendererUpdateSystem())
	world.AddSystem(system.NewAlphaLerpSystem())
	world.AddSystem(system.NewColorTweenSystem())

	g.names = names
	g.scripts = scripts
	g.lastErr = nil
	ecs.Logger().Info("scene loaded", "scene", scene.Name, "entities", len(names), "scripts", len(scene.Scripts))
	return nil
}

func (g *Game) reload() {
	if err := g.loadScene(); err != nil {
		ecs.Logger().Error("reload", "err", err)
	}
}

func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case change, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			if change.Script {
				ecs.Logger().Info("script changed", "path", change.Path)
				g.scripts.Invalidate(strings.TrimPrefix(change.Path, "prefabs/scripts/"))
				continue
			}
			ecs.Logger().Info("scene changed", "path", change.Path)
			g.reload()
		case err, ok := <-g.watcher.Errors:
			if ok && err != nil {
				ecs.Logger().Warn("watcher", "err", err)
			}
		default:
			return
		}
	}
}

func (g *Game) handleInput() {
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.reload()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		if e, ok := g.names["fade_panel"]; ok {
			_ = system.RequestTrigger(g.world, e)
		}
	}

	keys := []ebiten.Key{ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4}
	for i, key := range keys {
		if !inpututil.IsKeyJustPressed(key) {
			continue
		}
		e, ok := g.names["glass"]
		if !ok {
			continue
		}
		if mat, ok := ecs.Get(g.world, e, component.MaterialComponent.Kind()); ok {
			_ = mat.SetMode(blend.Modes()[i])
		}
	}
}

func (g *Game) Update() error {
	g.frames++

	g.pollWatcher()
	g.handleInput()

	if e, ok := g.world.First(component.ReloadRequestComponent.Kind()); ok {
		ecs.DestroyEntity(g.world, e)
		g.reload()
	}

	g.world.Update()

	if g.debug {
		for _, evt := range g.world.Events().Peek() {
			ecs.Logger().Debug("event", "type", evt.Type, "data", evt.Data)
		}
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(background)
	g.render.Draw(g.world, screen)

	if !g.debug {
		return
	}
	ebitenutil.DebugPrint(screen, fmt.Sprintf("Frames: %d    FPS: %.2f    tick: %d", g.frames, ebiten.ActualFPS(), g.world.Tick()))
	y := 20
	for _, e := range system.DrawOrder(g.world) {
		mat, _ := ecs.Get(g.world, e, component.MaterialComponent.Kind())
		name := ""
		if n, ok := ecs.Get(g.world, e, component.NameComponent.Kind()); ok {
			name = n.Value
		}
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%-8s %-11s queue=%d alpha=%.2f", name, mat.Mode, mat.Queue(), mat.Alpha()), 0, y)
		y += 16
	}
	if g.lastErr != nil {
		ebitenutil.DebugPrintAt(screen, "reload failed: "+g.lastErr.Error(), 0, y)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return baseWidth, baseHeight
}

func (g *Game) Close() error {
	if g.watcher == nil {
		return nil
	}
	return g.watcher.Close()
}
