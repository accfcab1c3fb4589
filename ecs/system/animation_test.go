package system

import (
	"image/color"
	"testing"

	"github.com/milk9111/rendererupdate/blend"
	"github.com/milk9111/rendererupdate/ecs"
	"github.com/milk9111/rendererupdate/ecs/component"
	"github.com/milk9111/rendererupdate/lerp"
)

func TestAlphaLerpConverges(t *testing.T) {
	w := ecs.NewWorld()
	target := addRenderer(t, w, "", "", blend.ModeFade)
	calls := 0
	src := addUpdate(t, w, &component.RendererUpdate{
		Mode: component.TargetMethodCall,
		Slots: []component.ActionSlot{component.LerpAlpha{
			Target:   0,
			Rate:     0.5,
			OnFinish: func(component.Finish) { calls++ },
		}},
	})
	if err := Perform(w, src, target); err != nil {
		t.Fatalf("Perform: %v", err)
	}
	if !ecs.Has(w, target, component.AlphaLerpComponent.Kind()) {
		t.Fatalf("alpha lerp not installed")
	}

	sys := NewAlphaLerpSystem()
	prev := material(t, w, target).Alpha()
	ticks := 0
	for ecs.Has(w, target, component.AlphaLerpComponent.Kind()) {
		ticks++
		if ticks > 20 {
			t.Fatalf("lerp did not finish")
		}
		sys.Update(w)
		a := material(t, w, target).Alpha()
		if a > prev {
			t.Fatalf("alpha increased from %v to %v", prev, a)
		}
		prev = a
	}

	// 1 * 0.5^7 is the first value within 0.01 of 0.
	if ticks != 7 {
		t.Fatalf("ticks = %d, want 7", ticks)
	}
	if calls != 1 {
		t.Fatalf("callback calls = %d, want 1", calls)
	}
	if prev > 0.02 {
		t.Fatalf("final alpha = %v", prev)
	}
	if countEvents(w, ecs.EventLerpFinished) != 1 {
		t.Fatalf("events = %+v", w.Events().Peek())
	}

	sys.Update(w)
	if calls != 1 {
		t.Fatalf("callback fired again after completion")
	}
}

func TestAlphaLerpPingPong(t *testing.T) {
	w := ecs.NewWorld()
	target := addRenderer(t, w, "", "", blend.ModeFade)
	var finished []component.Finish
	src := addUpdate(t, w, &component.RendererUpdate{
		Mode: component.TargetMethodCall,
		Slots: []component.ActionSlot{component.LerpAlpha{
			Target:   0,
			Rate:     1,
			Method:   component.LerpMethodPingPong,
			Cycles:   1,
			OnFinish: func(f component.Finish) { finished = append(finished, f) },
		}},
	})
	if err := Perform(w, src, target); err != nil {
		t.Fatalf("Perform: %v", err)
	}

	al, ok := ecs.Get(w, target, component.AlphaLerpComponent.Kind())
	if !ok || al.PingPong == nil || al.State != (lerp.State{}) {
		t.Fatalf("ping pong lerp = %+v", al)
	}

	sys := NewAlphaLerpSystem()
	sys.Update(w)
	if a := material(t, w, target).Alpha(); a != 0 {
		t.Fatalf("alpha after first leg = %v, want 0", a)
	}
	if len(finished) != 0 {
		t.Fatalf("finished after one leg")
	}
	sys.Update(w)
	if a := material(t, w, target).Alpha(); a != 1 {
		t.Fatalf("alpha after second leg = %v, want 1", a)
	}
	if len(finished) != 1 || finished[0].Slot != 0 || finished[0].Action != "lerp_alpha" {
		t.Fatalf("finished = %+v", finished)
	}
	if ecs.Has(w, target, component.AlphaLerpComponent.Kind()) {
		t.Fatalf("alpha lerp not removed")
	}
}

func TestAlphaLerpInvalidStateDropped(t *testing.T) {
	w := ecs.NewWorld()
	target := addRenderer(t, w, "", "", blend.ModeFade)
	al := &component.AlphaLerp{}
	al.State.Current, al.State.Target, al.State.Rate = 1, 0, -1
	if err := ecs.Add(w, target, component.AlphaLerpComponent.Kind(), al); err != nil {
		t.Fatalf("add: %v", err)
	}
	NewAlphaLerpSystem().Update(w)
	if ecs.Has(w, target, component.AlphaLerpComponent.Kind()) {
		t.Fatalf("invalid lerp kept")
	}
	if material(t, w, target).Alpha() != 1 {
		t.Fatalf("alpha changed")
	}
	if countEvents(w, ecs.EventInvalidSetting) != 1 {
		t.Fatalf("events = %+v", w.Events().Peek())
	}
}

func TestColorTweenSystem(t *testing.T) {
	red := color.NRGBA{R: 255, A: 255}
	cases := []struct {
		name   string
		slot   component.ChangeAlbedoColor
		ticks  int
		final  color.NRGBA
		midway color.NRGBA
	}{
		{
			name:   "lerp",
			slot:   component.ChangeAlbedoColor{Effect: component.AlbedoLerp, End: red, Duration: 4},
			ticks:  4,
			final:  red,
			midway: color.NRGBA{R: 255, G: 128, B: 128, A: 255},
		},
		{
			name:   "ping pong",
			slot:   component.ChangeAlbedoColor{Effect: component.AlbedoPingPong, Start: white, End: red, Duration: 2},
			ticks:  4,
			final:  white,
			midway: red,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := ecs.NewWorld()
			target := addRenderer(t, w, "", "", blend.ModeOpaque)
			calls := 0
			tc.slot.OnFinish = func(component.Finish) { calls++ }
			src := addUpdate(t, w, &component.RendererUpdate{
				Mode:  component.TargetMethodCall,
				Slots: []component.ActionSlot{tc.slot},
			})
			if err := Perform(w, src, target); err != nil {
				t.Fatalf("Perform: %v", err)
			}

			sys := NewColorTweenSystem()
			for i := 1; i <= tc.ticks; i++ {
				sys.Update(w)
				if i == tc.ticks/2 {
					if got := material(t, w, target).Color; got != tc.midway {
						t.Fatalf("midway color = %+v, want %+v", got, tc.midway)
					}
				}
				if i < tc.ticks && calls != 0 {
					t.Fatalf("finished early at tick %d", i)
				}
			}
			if got := material(t, w, target).Color; got != tc.final {
				t.Fatalf("final color = %+v, want %+v", got, tc.final)
			}
			if calls != 1 {
				t.Fatalf("callback calls = %d", calls)
			}
			if ecs.Has(w, target, component.ColorTweenComponent.Kind()) {
				t.Fatalf("tween not removed")
			}
			if countEvents(w, ecs.EventTweenFinished) != 1 {
				t.Fatalf("events = %+v", w.Events().Peek())
			}
		})
	}
}

func TestColorTweenLeavesAlphaToLerp(t *testing.T) {
	orange := color.NRGBA{R: 255, G: 165, A: 255}
	cases := []struct {
		name       string
		tweenFirst bool
	}{
		{"lerp then tween", false},
		{"tween then lerp", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := ecs.NewWorld()
			target := addRenderer(t, w, "", "", blend.ModeFade)
			fade := addUpdate(t, w, &component.RendererUpdate{
				Mode:  component.TargetMethodCall,
				Slots: []component.ActionSlot{component.LerpAlpha{Target: 0.1, Rate: 0.05}},
			})
			flash := addUpdate(t, w, &component.RendererUpdate{
				Mode: component.TargetMethodCall,
				Slots: []component.ActionSlot{component.ChangeAlbedoColor{
					Effect:   component.AlbedoPingPong,
					Start:    white,
					End:      orange,
					Duration: 20,
				}},
			})
			alphaSys := NewAlphaLerpSystem()
			tweenSys := NewColorTweenSystem()

			first, second := fade, flash
			if tc.tweenFirst {
				first, second = flash, fade
			}
			if err := Perform(w, first, target); err != nil {
				t.Fatalf("Perform: %v", err)
			}
			for i := 0; i < 5; i++ {
				alphaSys.Update(w)
				tweenSys.Update(w)
			}
			if err := Perform(w, second, target); err != nil {
				t.Fatalf("Perform: %v", err)
			}

			for i := 0; i < 15; i++ {
				alphaSys.Update(w)
				want := material(t, w, target).Color.A
				tweenSys.Update(w)
				got := material(t, w, target).Color
				if got.A != want {
					t.Fatalf("tick %d: alpha = %d, want lerp value %d", i, got.A, want)
				}
			}
			got := material(t, w, target).Color
			if got.A == 255 {
				t.Fatalf("alpha not lerped: %+v", got)
			}
			if got.G == 255 {
				t.Fatalf("albedo not tweened: %+v", got)
			}
		})
	}
}
