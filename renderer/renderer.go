// Package renderer implements graphics.Surface on OpenGL 4.1 core / OpenGL ES 3.
package renderer

import (
	"fmt"
	"image"
	"image/color"
	"strings"
	"sync"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"github.com/richinsley/liquidglass/graphics"
)

// glInitOnce makes sure gl.Init() runs once per process.
var glInitOnce sync.Once

// A unit quad as a triangle strip; the box projection places it.
var unitQuad = []float32{
	0, 0,
	1, 0,
	0, 1,
	1, 1,
}

// Two triangles covering clip space for full-screen passes.
var screenQuad = []float32{
	-1.0, 1.0, -1.0, -1.0, 1.0, -1.0,
	-1.0, 1.0, 1.0, -1.0, 1.0, 1.0,
}

var _ graphics.Surface = (*Renderer)(nil)

// Renderer issues GL calls on the context that was current when it was created.
type Renderer struct {
	context   graphics.Context
	quadVAO   uint32
	quadVBO   uint32
	screenVAO uint32
	screenVBO uint32
	target    graphics.Framebuffer
	screen    *Framebuffer
}

func NewRenderer(ctx graphics.Context) (*Renderer, error) {
	r := &Renderer{context: ctx}

	// Make the context current BEFORE initializing OpenGL.
	r.context.MakeCurrent()

	var initErr error
	glInitOnce.Do(func() {
		initErr = gl.Init()
	})
	if initErr != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", initErr)
	}

	r.quadVAO, r.quadVBO = newVertexArray(unitQuad)
	r.screenVAO, r.screenVBO = newVertexArray(screenQuad)

	w, h := ctx.GetFramebufferSize()
	r.screen = &Framebuffer{size: image.Pt(w, h), format: FormatRGBA8, screen: true}
	return r, nil
}

func newVertexArray(vertices []float32) (vao, vbo uint32) {
	gl.GenVertexArrays(1, &vao)
	gl.GenBuffers(1, &vbo)
	gl.BindVertexArray(vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 2*4, gl.PtrOffset(0))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
	return vao, vbo
}

func (r *Renderer) IsGLES() bool { return r.context.IsGLES() }

// Screen is the context's default framebuffer, resized to the current drawable.
func (r *Renderer) Screen() *Framebuffer {
	w, h := r.context.GetFramebufferSize()
	r.screen.size = image.Pt(w, h)
	return r.screen
}

func (r *Renderer) Shutdown() {
	gl.DeleteBuffers(1, &r.quadVBO)
	gl.DeleteVertexArrays(1, &r.quadVAO)
	gl.DeleteBuffers(1, &r.screenVBO)
	gl.DeleteVertexArrays(1, &r.screenVAO)
}

func (r *Renderer) NewFramebuffer() graphics.Framebuffer { return &Framebuffer{} }

func (r *Renderer) NewProgram(vertex, fragment string, names map[string]string) (graphics.Program, error) {
	id, err := newProgram(vertex, fragment)
	if err != nil {
		return nil, err
	}
	return &Program{id: id, names: names, locs: make(map[string]int32)}, nil
}

func fboOf(fb graphics.Framebuffer) uint32 {
	if f, ok := fb.(*Framebuffer); ok {
		return f.fbo
	}
	return 0
}

func (r *Renderer) Blit(src graphics.Framebuffer, srcRect image.Rectangle, dst graphics.Framebuffer, dstRect image.Rectangle, filter graphics.Filter) {
	var prevRead, prevDraw int32
	gl.GetIntegerv(gl.READ_FRAMEBUFFER_BINDING, &prevRead)
	gl.GetIntegerv(gl.DRAW_FRAMEBUFFER_BINDING, &prevDraw)

	glFilter := uint32(gl.NEAREST)
	if filter == graphics.FilterLinear {
		glFilter = gl.LINEAR
	}
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, fboOf(src))
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, fboOf(dst))
	gl.BlitFramebuffer(
		int32(srcRect.Min.X), int32(srcRect.Min.Y), int32(srcRect.Max.X), int32(srcRect.Max.Y),
		int32(dstRect.Min.X), int32(dstRect.Min.Y), int32(dstRect.Max.X), int32(dstRect.Max.Y),
		gl.COLOR_BUFFER_BIT, glFilter)

	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, uint32(prevRead))
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, uint32(prevDraw))
}

func (r *Renderer) BindTarget(fb graphics.Framebuffer) {
	r.target = fb
	gl.BindFramebuffer(gl.FRAMEBUFFER, fboOf(fb))
	if fb != nil {
		size := fb.Size()
		gl.Viewport(0, 0, int32(size.X), int32(size.Y))
	}
}

func (r *Renderer) BoundTarget() graphics.Framebuffer { return r.target }

func (r *Renderer) BindTexture(fb graphics.Framebuffer, unit int) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D, fb.Texture())
}

func (r *Renderer) UseProgram(p graphics.Program) {
	if prog, ok := p.(*Program); ok {
		gl.UseProgram(prog.id)
	}
}

func (r *Renderer) EnableBlend() {
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
}

// DisableBlend turns blending off for opaque host passes.
func (r *Renderer) DisableBlend() {
	gl.Disable(gl.BLEND)
}

func (r *Renderer) Scissor(rect *image.Rectangle) {
	if rect == nil {
		gl.Disable(gl.SCISSOR_TEST)
		return
	}
	gl.Enable(gl.SCISSOR_TEST)
	gl.Scissor(int32(rect.Min.X), int32(rect.Min.Y), int32(rect.Dx()), int32(rect.Dy()))
}

func (r *Renderer) DrawQuad() {
	gl.BindVertexArray(r.quadVAO)
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
	gl.BindVertexArray(0)
}

// DrawScreen draws the full-screen triangles used by host passes.
func (r *Renderer) DrawScreen() {
	gl.BindVertexArray(r.screenVAO)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
	gl.BindVertexArray(0)
}

func (r *Renderer) ReadPixel(fb graphics.Framebuffer, x, y int) color.RGBA {
	var prevRead int32
	gl.GetIntegerv(gl.READ_FRAMEBUFFER_BINDING, &prevRead)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, fboOf(fb))

	var px [4]uint8
	gl.ReadPixels(int32(x), int32(y), 1, 1, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(&px[0]))

	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, uint32(prevRead))
	return color.RGBA{R: px[0], G: px[1], B: px[2], A: px[3]}
}

// ReadFrame reads the whole framebuffer as tightly packed RGBA rows, bottom row first.
func (r *Renderer) ReadFrame(fb graphics.Framebuffer, dst []byte) ([]byte, error) {
	size := fb.Size()
	n := size.X * size.Y * 4
	if n == 0 {
		return nil, fmt.Errorf("framebuffer has no pixels")
	}
	if cap(dst) < n {
		dst = make([]byte, n)
	}
	dst = dst[:n]

	var prevRead int32
	gl.GetIntegerv(gl.READ_FRAMEBUFFER_BINDING, &prevRead)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, fboOf(fb))
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(size.X), int32(size.Y), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(&dst[0]))
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, uint32(prevRead))
	return dst, nil
}

func newProgram(vertexShaderSource, fragmentShaderSource string) (uint32, error) {
	vertexShader, err := compileShader(vertexShaderSource, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fragmentShader, err := compileShader(fragmentShaderSource, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vertexShader)
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)
	gl.DeleteShader(vertexShader)
	gl.DeleteShader(fragmentShader)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("failed to link program: %v", log)
	}
	return program, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		logText := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(logText))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("failed to compile shader: %v", logText)
	}
	return shader, nil
}
