// Package graphics declares the narrow capability set the effect pipeline needs from the
// host's GPU layer. The renderer package implements it on OpenGL; graphicstest records calls
// for tests that run without a GPU context.
package graphics

import (
	"image"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
)

// PixelFormat is the backend's native storage format (a GL internal format or a DRM fourcc).
type PixelFormat uint32

// Filter selects the sampling filter for a blit.
type Filter int

const (
	FilterNearest Filter = iota
	FilterLinear
)

// Framebuffer is an offscreen render target with a single colour texture attachment.
type Framebuffer interface {
	// Alloc (re)creates the storage at the given size. The previous storage is released
	// first. It reports whether the framebuffer is usable afterwards.
	Alloc(width, height int, format PixelFormat) bool
	Allocated() bool
	Size() image.Point
	Format() PixelFormat
	// Texture returns the colour attachment, or 0 when there is none.
	Texture() uint32
	Release()
}

// Program is a linked effect kernel. Uniform setters silently ignore names the kernel does
// not declare.
type Program interface {
	SetInt(name string, v int32)
	SetFloat(name string, v float32)
	SetVec2(name string, x, y float32)
	SetMat3(name string, m mgl32.Mat3)
	Release()
}

// Surface is the set of GPU operations the effect pipeline issues.
type Surface interface {
	NewFramebuffer() Framebuffer
	NewProgram(vertex, fragment string, names map[string]string) (Program, error)

	// Blit copies src's srcRect into dst's dstRect. Bind state is restored afterwards.
	Blit(src Framebuffer, srcRect image.Rectangle, dst Framebuffer, dstRect image.Rectangle, filter Filter)
	BindTarget(fb Framebuffer)
	BoundTarget() Framebuffer
	BindTexture(fb Framebuffer, unit int)
	UseProgram(p Program)
	EnableBlend()
	// Scissor restricts drawing to r; a nil r clears the scissor.
	Scissor(r *image.Rectangle)
	// DrawQuad issues a 4-vertex triangle strip with the current program.
	DrawQuad()
	ReadPixel(fb Framebuffer, x, y int) color.RGBA
}
