// Package surface is the boundary to the host's window model. The host owns every surface;
// the effect only keeps generation-checked handles into the host's Table.
package surface

import "github.com/richinsley/liquidglass/geometry"

type Kind int

const (
	KindWindow Kind = iota
	// KindLayer is a layer-shell surface such as a bar or notch panel.
	KindLayer
)

func (k Kind) String() string {
	if k == KindLayer {
		return "layer"
	}
	return "window"
}

// Surface is implemented by the host.
type Surface interface {
	Kind() Kind
	// Name is the window title, or the namespace of a layer surface.
	Name() string
	// Box is the logical main-surface box.
	Box() geometry.Box
	// Workspace returns the workspace render offset, or ok == false when the surface has
	// no workspace.
	Workspace() (offset geometry.Vec2, ok bool)
	WorkspaceAnimating() bool
	Pinned() bool
	FloatingOffset() geometry.Vec2
	// Rounding is the current corner radius in logical pixels.
	Rounding() float64
}

// Geometry collects the projection input for s.
func Geometry(s Surface) geometry.Input {
	offset, ok := s.Workspace()
	return geometry.Input{
		Box:               s.Box(),
		WorkspaceOffset:   offset,
		HasWorkspace:      ok,
		WorkspaceAnimates: s.WorkspaceAnimating(),
		Pinned:            s.Pinned(),
		FloatingOffset:    s.FloatingOffset(),
	}
}
