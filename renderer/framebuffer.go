package renderer

import (
	"image"
	"image/draw"

	"github.com/charmbracelet/log"
	gl "github.com/go-gl/gl/v4.1-core/gl"

	"github.com/richinsley/liquidglass/graphics"
)

// FormatRGBA8 is the storage used for captures and host passes.
const FormatRGBA8 graphics.PixelFormat = gl.RGBA8

// Framebuffer is a texture-backed FBO. The screen framebuffer wraps FBO 0 and owns nothing.
type Framebuffer struct {
	fbo       uint32
	textureID uint32
	size      image.Point
	format    graphics.PixelFormat
	screen    bool
}

// Alloc creates texture and FBO storage, releasing anything held before.
func (f *Framebuffer) Alloc(width, height int, format graphics.PixelFormat) bool {
	if f.screen {
		return true
	}
	f.Release()
	if width <= 0 || height <= 0 {
		return false
	}
	if format == 0 {
		format = FormatRGBA8
	}

	var prev int32
	gl.GetIntegerv(gl.FRAMEBUFFER_BINDING, &prev)

	gl.GenTextures(1, &f.textureID)
	gl.BindTexture(gl.TEXTURE_2D, f.textureID)
	gl.TexImage2D(gl.TEXTURE_2D, 0, int32(format), int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)

	gl.GenFramebuffers(1, &f.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, f.fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, f.textureID, 0)
	complete := gl.CheckFramebufferStatus(gl.FRAMEBUFFER) == gl.FRAMEBUFFER_COMPLETE

	// Unbind to avoid accidental modifications
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(prev))
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if !complete {
		log.Debugf("framebuffer %dx%d is not complete", width, height)
		f.Release()
		return false
	}
	f.size = image.Pt(width, height)
	f.format = format
	return true
}

func (f *Framebuffer) Allocated() bool { return f.screen || f.fbo != 0 }

func (f *Framebuffer) Size() image.Point { return f.size }

func (f *Framebuffer) Format() graphics.PixelFormat { return f.format }

func (f *Framebuffer) Texture() uint32 { return f.textureID }

func (f *Framebuffer) Release() {
	if f.screen {
		return
	}
	if f.fbo != 0 {
		gl.DeleteFramebuffers(1, &f.fbo)
		f.fbo = 0
	}
	if f.textureID != 0 {
		gl.DeleteTextures(1, &f.textureID)
		f.textureID = 0
	}
	f.size = image.Point{}
}

// Upload allocates f to img's size and fills it with img's pixels.
func (f *Framebuffer) Upload(img image.Image) bool {
	// Convert source image to RGBA for consistency.
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != rgba.Rect.Dx()*4 {
		rgba = image.NewRGBA(img.Bounds())
		draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	}
	size := rgba.Rect.Size()
	if !f.Alloc(size.X, size.Y, FormatRGBA8) {
		return false
	}
	gl.BindTexture(gl.TEXTURE_2D, f.textureID)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, int32(size.X), int32(size.Y), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(rgba.Pix))
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return true
}
