package surface

import "github.com/richinsley/liquidglass/geometry"

// Static is a plain-value Surface for hosts that snapshot their state each frame, and for
// tests.
type Static struct {
	SurfaceKind  Kind
	Title        string
	Bounds       geometry.Box
	WorkspaceOff geometry.Vec2
	NoWorkspace  bool
	Animating    bool
	IsPinned     bool
	Floating     geometry.Vec2
	CornerRadius float64
}

func (s *Static) Kind() Kind                    { return s.SurfaceKind }
func (s *Static) Name() string                  { return s.Title }
func (s *Static) Box() geometry.Box             { return s.Bounds }
func (s *Static) WorkspaceAnimating() bool      { return s.Animating }
func (s *Static) Pinned() bool                  { return s.IsPinned }
func (s *Static) FloatingOffset() geometry.Vec2 { return s.Floating }
func (s *Static) Rounding() float64             { return s.CornerRadius }

func (s *Static) Workspace() (geometry.Vec2, bool) {
	if s.NoWorkspace {
		return geometry.Vec2{}, false
	}
	return s.WorkspaceOff, true
}
