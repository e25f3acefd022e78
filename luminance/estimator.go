// Package luminance estimates how bright the background behind a surface is by reading back
// a sparse grid of pixels from its capture buffer.
package luminance

import (
	"github.com/richinsley/liquidglass/geometry"
	"github.com/richinsley/liquidglass/graphics"
)

const (
	// DefaultInterval is how many Update calls share one readback.
	DefaultInterval = 10
	// Default is the value reported before the first readback: mid grey.
	Default = 0.5

	minStep   = 16
	gridCells = 8
)

// Relative returns BT.709 relative luminance of an 8-bit colour, in [0, 1].
func Relative(r, g, b uint8) float64 {
	return 0.2126*float64(r)/255 + 0.7152*float64(g)/255 + 0.0722*float64(b)/255
}

// Estimator keeps a cached luminance for one capture buffer.
type Estimator struct {
	surface  graphics.Surface
	interval int

	counter   int
	last      float64
	readbacks int
}

// NewEstimator creates an estimator with the given cadence; interval < 1 selects
// DefaultInterval.
func NewEstimator(surface graphics.Surface, interval int) *Estimator {
	if interval < 1 {
		interval = DefaultInterval
	}
	return &Estimator{surface: surface, interval: interval, last: Default}
}

// Last returns the cached value without counting a call.
func (e *Estimator) Last() float64 { return e.last }

// Readbacks is the number of sampling passes performed so far.
func (e *Estimator) Readbacks() int { return e.readbacks }

// Update counts one frame and, on every interval-th call, re-reads fb over box. Between
// readbacks, and whenever the box or grid is degenerate, the cached value is returned.
func (e *Estimator) Update(fb graphics.Framebuffer, box geometry.Box) float64 {
	e.counter++
	if e.counter < e.interval {
		return e.last
	}
	e.counter = 0

	width, height := box.Dims()
	if width <= 0 || height <= 0 || fb == nil || !fb.Allocated() {
		return e.last
	}

	// Sizes that are not a multiple of gridCells get one extra row or column.
	stepX := max(minStep, width/gridCells)
	stepY := max(minStep, height/gridCells)

	e.readbacks++
	total := 0.0
	samples := 0
	for y := 0; y < height; y += stepY {
		for x := 0; x < width; x += stepX {
			px := e.surface.ReadPixel(fb, x, y)
			total += Relative(px.R, px.G, px.B)
			samples++
		}
	}

	if samples > 0 {
		e.last = total / float64(samples)
	}
	return e.last
}
