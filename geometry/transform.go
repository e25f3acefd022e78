package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Transform is a monitor output transform (wl_output_transform ordering).
type Transform int

const (
	TransformNormal Transform = iota
	Transform90
	Transform180
	Transform270
	TransformFlipped
	TransformFlipped90
	TransformFlipped180
	TransformFlipped270
)

// row-major rotation/reflection for each transform
var transformRows = [8][9]float32{
	TransformNormal:     {1, 0, 0, 0, 1, 0, 0, 0, 1},
	Transform90:         {0, 1, 0, -1, 0, 0, 0, 0, 1},
	Transform180:        {-1, 0, 0, 0, -1, 0, 0, 0, 1},
	Transform270:        {0, -1, 0, 1, 0, 0, 0, 0, 1},
	TransformFlipped:    {-1, 0, 0, 0, 1, 0, 0, 0, 1},
	TransformFlipped90:  {0, 1, 0, 1, 0, 0, 0, 0, 1},
	TransformFlipped180: {1, 0, 0, 0, -1, 0, 0, 0, 1},
	TransformFlipped270: {0, -1, 0, -1, 0, 0, 0, 0, 1},
}

func (t Transform) valid() bool { return t >= TransformNormal && t <= TransformFlipped270 }

func (t Transform) swapsAxes() bool { return t.valid() && t%2 == 1 }

// Invert returns the transform that undoes t. Only the pure 90/270 rotations differ from
// their inverse; reflections and 180 are involutions.
func (t Transform) Invert() Transform {
	switch t {
	case Transform90:
		return Transform270
	case Transform270:
		return Transform90
	}
	return t
}

// Matrix returns the 3x3 rotation/reflection for t in mathgl's column-major layout.
func (t Transform) Matrix() mgl32.Mat3 {
	if !t.valid() {
		t = TransformNormal
	}
	r := transformRows[t]
	return mgl32.Mat3FromRows(
		mgl32.Vec3{r[0], r[1], r[2]},
		mgl32.Vec3{r[3], r[4], r[5]},
		mgl32.Vec3{r[6], r[7], r[8]},
	)
}

func (t Transform) String() string {
	switch t {
	case TransformNormal:
		return "normal"
	case Transform90:
		return "90"
	case Transform180:
		return "180"
	case Transform270:
		return "270"
	case TransformFlipped:
		return "flipped"
	case TransformFlipped90:
		return "flipped-90"
	case TransformFlipped180:
		return "flipped-180"
	case TransformFlipped270:
		return "flipped-270"
	}
	return "invalid"
}

// OutputProjection maps pixel coordinates of a size.X×size.Y output into normalized device
// coordinates, applying the output transform.
func OutputProjection(size Vec2, t Transform) mgl32.Mat3 {
	if !t.valid() {
		t = TransformNormal
	}
	r := transformRows[t]
	x := float32(2.0 / size.X)
	y := float32(2.0 / size.Y)

	m0, m1 := x*r[0], x*r[1]
	m3, m4 := y*r[3], y*r[4]
	return mgl32.Mat3FromRows(
		mgl32.Vec3{m0, m1, -copysign(m0 + m1)},
		mgl32.Vec3{m3, m4, -copysign(m3 + m4)},
		mgl32.Vec3{0, 0, 1},
	)
}

func copysign(v float32) float32 {
	return float32(math.Copysign(1, float64(v)))
}

// ProjectBox builds the matrix that maps the unit quad onto box, rotating by rot radians
// around the box centre and applying t inside the quad.
func ProjectBox(box Box, t Transform, rot float32) mgl32.Mat3 {
	pos := box.Pos()
	size := box.Size()
	w, h := float32(size.X), float32(size.Y)

	m := mgl32.Translate2D(float32(pos.X), float32(pos.Y))
	if rot != 0 {
		m = m.Mul3(mgl32.Translate2D(w/2, h/2)).
			Mul3(mgl32.HomogRotate2D(rot)).
			Mul3(mgl32.Translate2D(-w/2, -h/2))
	}
	m = m.Mul3(mgl32.Scale2D(w, h))
	if t != TransformNormal {
		m = m.Mul3(mgl32.Translate2D(0.5, 0.5)).
			Mul3(t.Matrix()).
			Mul3(mgl32.Translate2D(-0.5, -0.5))
	}
	return m
}
