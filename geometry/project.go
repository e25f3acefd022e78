package geometry

import "github.com/go-gl/mathgl/mgl32"

// Monitor describes the output a surface is being rendered on.
type Monitor struct {
	Position  Vec2
	Scale     float64
	Transform Transform
	// Size is the output mode size in device pixels, TransformedSize the same after the
	// output transform (width and height swap for 90/270).
	Size            Vec2
	TransformedSize Vec2
}

// Projection is the monitor's output projection.
func (m Monitor) Projection() mgl32.Mat3 {
	return OutputProjection(m.TransformedSize, m.Transform)
}

// BoxMatrix combines the monitor projection with the box projection of a device-space box,
// using the inverse output transform so the quad lands on the right pixels on rotated or
// flipped outputs.
func (m Monitor) BoxMatrix(device Box) mgl32.Mat3 {
	return m.Projection().Mul3(ProjectBox(device, m.Transform.Invert(), 0))
}

// Input is the per-frame geometry of one surface.
type Input struct {
	Box               Box
	WorkspaceOffset   Vec2
	HasWorkspace      bool
	WorkspaceAnimates bool
	Pinned            bool
	FloatingOffset    Vec2
}

func (in Input) workspaceOffset() Vec2 {
	if !in.HasWorkspace || in.Pinned {
		return Vec2{}
	}
	return in.WorkspaceOffset
}

// Result holds the boxes derived for one surface on one monitor.
type Result struct {
	// Device is the rounded box in monitor pixels, used for the box projection.
	Device Box
	// Shader is Device mapped into the monitor's transformed (framebuffer) pixel space,
	// used for sampling, luminance and scissoring.
	Shader Box
}

// Project never fails; a degenerate input yields an empty box that later stages reject.
func Project(in Input, mon Monitor) Result {
	device := in.Box.
		Translate(in.workspaceOffset()).
		Translate(mon.Position.Neg().Add(in.FloatingOffset)).
		Scale(mon.Scale).
		Round()

	shader := device.Transform(mon.Transform.Invert(), mon.TransformedSize.X, mon.TransformedSize.Y)
	return Result{Device: device, Shader: shader}
}

// DamageBox is the logical area to invalidate for a surface. The workspace offset only
// counts while the workspace is animating.
func DamageBox(in Input) Box {
	box := in.Box
	if in.HasWorkspace && in.WorkspaceAnimates && !in.Pinned {
		box = box.Translate(in.WorkspaceOffset)
	}
	return box.Translate(in.FloatingOffset)
}
