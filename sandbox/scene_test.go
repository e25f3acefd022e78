package sandbox

import (
	"testing"

	"github.com/richinsley/liquidglass/adaptive"
	"github.com/richinsley/liquidglass/geometry"
	"github.com/richinsley/liquidglass/surface"
)

func TestNewSceneLayout(t *testing.T) {
	s := NewScene(1000, 800)
	if got := len(s.Handles()); got != 4 {
		t.Fatalf("handles = %d, want 4", got)
	}

	names := map[string]geometry.Box{}
	for _, win := range s.Windows() {
		surf, ok := s.Surfaces.Resolve(win.Handle)
		if !ok {
			t.Fatalf("%s does not resolve", win.Surface.Title)
		}
		names[surf.Name()] = surf.Box()
	}

	notch, ok := names["molten-glass-notch"]
	if !ok {
		t.Fatal("missing notch window")
	}
	if want := (geometry.Box{X: 350, Y: 12, W: 300, H: 44}); notch != want {
		t.Errorf("notch = %v, want %v", notch, want)
	}
	if _, ok := adaptive.RegionKey("molten-glass-notch", adaptive.DefaultPrefix); !ok {
		t.Error("notch title should carry the region prefix")
	}
	if s.Monitor.Size != (geometry.Vec2{X: 1000, Y: 800}) || s.Monitor.Scale != 1 {
		t.Errorf("monitor = %+v", s.Monitor)
	}
}

func TestLayerHasNoWorkspace(t *testing.T) {
	s := NewScene(640, 480)
	for _, win := range s.Windows() {
		if win.Surface.Kind() != surface.KindLayer {
			continue
		}
		if _, ok := win.Surface.Workspace(); ok {
			t.Errorf("layer %s should not belong to a workspace", win.Surface.Title)
		}
		return
	}
	t.Fatal("scene has no layer surface")
}

func TestWorkspaceSwitchAnimation(t *testing.T) {
	s := NewScene(1000, 800)
	s.SwitchWorkspace(10)

	s.Step(10)
	for _, win := range s.Windows() {
		if !win.Surface.Animating {
			t.Fatalf("%s should be animating at the start of a switch", win.Surface.Title)
		}
		if win.Surface.WorkspaceOff.X != 1000 {
			t.Errorf("%s offset = %v, want 1000", win.Surface.Title, win.Surface.WorkspaceOff)
		}
	}

	s.Step(10 + WorkspaceSwitchDuration/2)
	mid := s.Windows()[0].Surface.WorkspaceOff.X
	if mid <= 0 || mid >= 1000 {
		t.Errorf("mid-switch offset = %v, want strictly between 0 and 1000", mid)
	}

	s.Step(10 + WorkspaceSwitchDuration)
	for _, win := range s.Windows() {
		if win.Surface.Animating || win.Surface.WorkspaceOff != (geometry.Vec2{}) {
			t.Errorf("%s still animating after the switch", win.Surface.Title)
		}
	}
}

func TestWorkspaceSwitchEndsOnTime(t *testing.T) {
	for _, start := range []float64{0, 0.1, 3.7, 10, 1234.567} {
		s := NewScene(1000, 800)
		s.SwitchWorkspace(start)
		s.Step(start + WorkspaceSwitchDuration)
		for _, win := range s.Windows() {
			if win.Surface.Animating || win.Surface.WorkspaceOff != (geometry.Vec2{}) {
				t.Errorf("start %v: %s still animating on the end frame", start, win.Surface.Title)
			}
		}
	}
}

func TestPinnedWindowIgnoresWorkspaceOffset(t *testing.T) {
	s := NewScene(1000, 800)
	s.SwitchWorkspace(0)
	s.Step(0.1)

	for _, win := range s.Windows() {
		if win.Surface.Title != "molten-glass-notch" {
			continue
		}
		res := geometry.Project(surface.Geometry(win.Surface), s.Monitor)
		if res.Device.X != 350 {
			t.Errorf("pinned notch moved to x=%v during a switch", res.Device.X)
		}
		return
	}
	t.Fatal("notch not found")
}

func TestResize(t *testing.T) {
	s := NewScene(1000, 800)
	s.Resize(2000, 1000)
	for _, win := range s.Windows() {
		if win.Surface.Title == "molten-glass-dock" {
			if want := (geometry.Box{X: 500, Y: 912, W: 1000, H: 72}); win.Surface.Bounds != want {
				t.Errorf("dock = %v, want %v", win.Surface.Bounds, want)
			}
		}
	}
}

func TestCloseInvalidatesHandle(t *testing.T) {
	s := NewScene(800, 600)
	var h surface.Handle
	for _, win := range s.Windows() {
		if win.Surface.Title == "terminal" {
			h = win.Handle
		}
	}
	if !s.Close("terminal") {
		t.Fatal("Close(terminal) = false")
	}
	if _, ok := s.Surfaces.Resolve(h); ok {
		t.Error("closed window still resolves")
	}
	if len(s.Windows()) != 3 {
		t.Errorf("windows = %d, want 3", len(s.Windows()))
	}
	if s.Close("terminal") {
		t.Error("closing twice should report false")
	}
}
