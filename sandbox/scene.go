// Package sandbox stands in for a compositor: it owns a few fake windows and a layer bar,
// renders a backdrop behind them and runs the glass pipeline over every one each frame.
package sandbox

import (
	"math"

	"github.com/richinsley/liquidglass/geometry"
	"github.com/richinsley/liquidglass/surface"
)

// WorkspaceSwitchDuration is how long the slide-in after a workspace switch lasts.
const WorkspaceSwitchDuration = 0.35

// Window is one surface of the scene.
type Window struct {
	Handle  surface.Handle
	Surface *surface.Static

	// layout places the window for a given output size.
	layout func(w, h float64) geometry.Box
	drift  bool
}

// Scene is the fake desktop: a single output with windows on one workspace.
type Scene struct {
	Surfaces *surface.Table
	Monitor  geometry.Monitor

	windows     []*Window
	width       float64
	height      float64
	switchStart float64
	switchEnd   float64
	switching   bool
}

// NewScene lays out the stock windows on a width×height output.
func NewScene(width, height int) *Scene {
	s := &Scene{Surfaces: surface.NewTable()}
	s.add(&surface.Static{SurfaceKind: surface.KindWindow, Title: "molten-glass-notch", IsPinned: true, CornerRadius: 22},
		func(w, h float64) geometry.Box { return geometry.Box{X: w * 0.35, Y: 12, W: w * 0.3, H: 44} }, false)
	s.add(&surface.Static{SurfaceKind: surface.KindWindow, Title: "molten-glass-dock", CornerRadius: 24},
		func(w, h float64) geometry.Box { return geometry.Box{X: w * 0.25, Y: h - 88, W: w * 0.5, H: 72} }, false)
	s.add(&surface.Static{SurfaceKind: surface.KindWindow, Title: "terminal", CornerRadius: 14},
		func(w, h float64) geometry.Box { return geometry.Box{X: w * 0.1, Y: h * 0.25, W: w * 0.35, H: h * 0.4} }, true)
	s.add(&surface.Static{SurfaceKind: surface.KindLayer, Title: "waybar", NoWorkspace: true},
		func(w, h float64) geometry.Box { return geometry.Box{X: 0, Y: 0, W: 56, H: h} }, false)
	s.Resize(width, height)
	return s
}

func (s *Scene) add(st *surface.Static, layout func(w, h float64) geometry.Box, drift bool) {
	s.windows = append(s.windows, &Window{
		Handle:  s.Surfaces.Insert(st),
		Surface: st,
		layout:  layout,
		drift:   drift,
	})
}

// Resize updates the output size and re-lays out every window.
func (s *Scene) Resize(width, height int) {
	s.width, s.height = float64(width), float64(height)
	size := geometry.Vec2{X: s.width, Y: s.height}
	s.Monitor = geometry.Monitor{
		Scale:           1,
		Transform:       geometry.TransformNormal,
		Size:            size,
		TransformedSize: size,
	}
	for _, win := range s.windows {
		win.Surface.Bounds = win.layout(s.width, s.height)
	}
}

// Windows returns the scene's surfaces in stacking order, bottom first.
func (s *Scene) Windows() []*Window { return s.windows }

// Handles returns the handles of every surface still in the table.
func (s *Scene) Handles() []surface.Handle { return s.Surfaces.Handles() }

// Close removes a window from the surface table; its handle goes stale.
func (s *Scene) Close(title string) bool {
	for i, win := range s.windows {
		if win.Surface.Title == title {
			s.Surfaces.Remove(win.Handle)
			s.windows = append(s.windows[:i], s.windows[i+1:]...)
			return true
		}
	}
	return false
}

// SwitchWorkspace starts the slide-in animation at time t.
func (s *Scene) SwitchWorkspace(t float64) {
	s.switchStart = t
	s.switchEnd = t + WorkspaceSwitchDuration
	s.switching = true
}

// Step advances the scene to time t in seconds.
func (s *Scene) Step(t float64) {
	offset := geometry.Vec2{}
	animating := false
	if s.switching {
		if t >= s.switchEnd {
			s.switching = false
		} else {
			p := (t - s.switchStart) / WorkspaceSwitchDuration
			if p < 0 {
				p = 0
			}
			// ease-out
			p = 1 - (1-p)*(1-p)
			offset.X = s.width * (1 - p)
			animating = true
		}
	}

	for _, win := range s.windows {
		box := win.layout(s.width, s.height)
		if win.drift {
			box.X += s.width * 0.08 * math.Sin(t*0.5)
			box.Y += s.height * 0.05 * math.Cos(t*0.35)
		}
		win.Surface.Bounds = box
		win.Surface.WorkspaceOff = offset
		win.Surface.Animating = animating
	}
}
