// Package capture copies the pixels already rendered behind a surface into a buffer the
// effect kernel can sample from.
package capture

import (
	"image"

	"github.com/richinsley/liquidglass/geometry"
	"github.com/richinsley/liquidglass/graphics"
)

// Sampler owns one capture buffer, sized to the last sampled device box.
type Sampler struct {
	surface graphics.Surface
	buf     graphics.Framebuffer
}

func NewSampler(surface graphics.Surface) *Sampler {
	return &Sampler{surface: surface}
}

// Buffer returns the capture buffer, or nil before the first allocation attempt.
func (s *Sampler) Buffer() graphics.Framebuffer { return s.buf }

// Sample blits box out of src into the capture buffer at the origin. It returns false, and
// leaves the buffer untouched, for an empty box; it returns false after a failed
// reallocation. Callers treat false as "no background this frame".
func (s *Sampler) Sample(src graphics.Framebuffer, box geometry.Box) bool {
	if box.Empty() || src == nil || !src.Allocated() {
		return false
	}

	width, height := box.Dims()
	if width <= 0 || height <= 0 {
		return false
	}

	if s.buf == nil {
		s.buf = s.surface.NewFramebuffer()
	}
	if size := s.buf.Size(); !s.buf.Allocated() || size.X != width || size.Y != height {
		if !s.buf.Alloc(width, height, src.Format()) {
			return false
		}
	}
	if !s.buf.Allocated() {
		return false
	}

	srcRect := box.Rect()
	if srcRect.Min.X < 0 {
		srcRect.Min.X = 0
	}
	if srcRect.Min.Y < 0 {
		srcRect.Min.Y = 0
	}

	prev := s.surface.BoundTarget()
	s.surface.Blit(src, srcRect, s.buf, image.Rect(0, 0, width, height), graphics.FilterLinear)
	s.surface.BindTarget(prev)
	return true
}

// Release frees the capture buffer. The sampler can be reused afterwards.
func (s *Sampler) Release() {
	if s.buf != nil {
		s.buf.Release()
		s.buf = nil
	}
}
