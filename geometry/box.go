// Package geometry maps a surface's logical box onto a monitor's device pixels and into the
// transformed space the effect kernel samples in.
package geometry

import (
	"fmt"
	"image"
	"math"
)

// Vec2 is a 2D vector in logical or device coordinates.
type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2        { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2        { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Mul(s float64) Vec2     { return Vec2{v.X * s, v.Y * s} }
func (v Vec2) Neg() Vec2              { return Vec2{-v.X, -v.Y} }
func (v Vec2) String() string         { return fmt.Sprintf("[%g, %g]", v.X, v.Y) }
func (v Vec2) Floats() (x, y float32) { return float32(v.X), float32(v.Y) }

// Box is an axis-aligned rectangle. All operations return a new Box.
type Box struct {
	X, Y, W, H float64
}

// Pos returns the top-left corner.
func (b Box) Pos() Vec2 { return Vec2{b.X, b.Y} }

// Size returns the width and height as a vector.
func (b Box) Size() Vec2 { return Vec2{b.W, b.H} }

// Empty reports whether the box has no area. Downstream stages reject empty boxes.
func (b Box) Empty() bool { return b.W <= 0 || b.H <= 0 }

func (b Box) Translate(v Vec2) Box {
	b.X += v.X
	b.Y += v.Y
	return b
}

func (b Box) Scale(s float64) Box {
	return Box{b.X * s, b.Y * s, b.W * s, b.H * s}
}

// Round snaps the origin to the nearest pixel and rounds the far edge so the box keeps
// covering the same pixels after the origin moved.
func (b Box) Round() Box {
	rx, ry := math.Round(b.X), math.Round(b.Y)
	w := b.X + b.W - rx
	h := b.Y + b.H - ry
	return Box{rx, ry, math.Round(w), math.Round(h)}
}

// Transform maps the box through an output transform inside a w×h space.
func (b Box) Transform(t Transform, w, h float64) Box {
	out := b
	if t.swapsAxes() {
		out.W, out.H = b.H, b.W
	}
	switch t {
	case Transform90:
		out.X = h - b.Y - b.H
		out.Y = b.X
	case Transform180:
		out.X = w - b.X - b.W
		out.Y = h - b.Y - b.H
	case Transform270:
		out.X = b.Y
		out.Y = w - b.X - b.W
	case TransformFlipped:
		out.X = w - b.X - b.W
	case TransformFlipped90:
		out.X = b.Y
		out.Y = b.X
	case TransformFlipped180:
		out.Y = h - b.Y - b.H
	case TransformFlipped270:
		out.X = h - b.Y - b.H
		out.Y = w - b.X - b.W
	}
	return out
}

// Rect returns the integer pixel bounds of the box (origin truncated, extent truncated).
func (b Box) Rect() image.Rectangle {
	x0, y0 := int(b.X), int(b.Y)
	return image.Rect(x0, y0, int(b.X+b.W), int(b.Y+b.H))
}

// Dims returns the integer width and height.
func (b Box) Dims() (int, int) { return int(b.W), int(b.H) }

func (b Box) String() string {
	return fmt.Sprintf("[%g, %g, %gx%g]", b.X, b.Y, b.W, b.H)
}
