package surface

import (
	"testing"

	"github.com/richinsley/liquidglass/geometry"
)

func TestTableResolve(t *testing.T) {
	tab := NewTable()
	a := &Static{Title: "a"}
	b := &Static{Title: "b"}
	ha := tab.Insert(a)
	hb := tab.Insert(b)

	if s, ok := tab.Resolve(ha); !ok || s.Name() != "a" {
		t.Fatalf("Resolve(a) = %v, %v", s, ok)
	}
	if s, ok := tab.Resolve(hb); !ok || s.Name() != "b" {
		t.Fatalf("Resolve(b) = %v, %v", s, ok)
	}
	if tab.Len() != 2 {
		t.Errorf("Len = %d", tab.Len())
	}
	if _, ok := tab.Resolve(Handle{}); ok {
		t.Error("zero handle resolved")
	}
}

func TestRemovedHandleStaysDeadAfterReuse(t *testing.T) {
	tab := NewTable()
	old := tab.Insert(&Static{Title: "old"})
	if !tab.Remove(old) {
		t.Fatal("Remove of live handle failed")
	}
	if tab.Remove(old) {
		t.Error("second Remove reported success")
	}
	if _, ok := tab.Resolve(old); ok {
		t.Error("removed handle still resolves")
	}

	fresh := tab.Insert(&Static{Title: "new"})
	if fresh.index != old.index {
		t.Fatalf("slot not reused: %v vs %v", fresh, old)
	}
	if _, ok := tab.Resolve(old); ok {
		t.Error("stale handle resolved to the new occupant")
	}
	if s, ok := tab.Resolve(fresh); !ok || s.Name() != "new" {
		t.Error("new handle does not resolve")
	}
}

func TestHandles(t *testing.T) {
	tab := NewTable()
	h1 := tab.Insert(&Static{Title: "1"})
	h2 := tab.Insert(&Static{Title: "2"})
	tab.Insert(&Static{Title: "3"})
	tab.Remove(h2)

	hs := tab.Handles()
	if len(hs) != 2 || hs[0] != h1 {
		t.Errorf("Handles = %v", hs)
	}
}

func TestGeometry(t *testing.T) {
	s := &Static{
		Bounds:       geometry.Box{X: 10, Y: 20, W: 300, H: 200},
		WorkspaceOff: geometry.Vec2{X: 5},
		Animating:    true,
		Floating:     geometry.Vec2{Y: 2},
	}
	in := Geometry(s)
	if !in.HasWorkspace || in.WorkspaceOffset.X != 5 || !in.WorkspaceAnimates || in.FloatingOffset.Y != 2 {
		t.Errorf("Geometry = %+v", in)
	}

	s.NoWorkspace = true
	if Geometry(s).HasWorkspace {
		t.Error("surface without a workspace reported one")
	}
}

func TestKindString(t *testing.T) {
	if KindWindow.String() != "window" || KindLayer.String() != "layer" {
		t.Error("unexpected kind names")
	}
}
