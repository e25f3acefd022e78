// Package graphicstest provides a CPU-backed graphics.Surface that records every call, so
// the effect pipeline's control flow can be tested without a GPU context.
package graphicstest

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/draw"

	"github.com/richinsley/liquidglass/graphics"
)

// FormatRGBA8 is the only format the recorder stores; any value is accepted.
const FormatRGBA8 graphics.PixelFormat = 0x8058

// Recorder implements graphics.Surface on image.RGBA buffers.
type Recorder struct {
	Calls []string
	// FailAlloc makes every Framebuffer.Alloc fail.
	FailAlloc bool
	// FailProgram makes NewProgram return this error.
	FailProgram error

	Reads    int
	Draws    int
	Blends   int
	Programs []*Program

	target  graphics.Framebuffer
	nextID  int
	scissor *image.Rectangle
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) record(format string, args ...any) {
	r.Calls = append(r.Calls, fmt.Sprintf(format, args...))
}

// Reset clears the call log and counters but keeps the framebuffers.
func (r *Recorder) Reset() {
	r.Calls = nil
	r.Reads, r.Draws, r.Blends = 0, 0, 0
}

// Count returns how many recorded calls start with prefix.
func (r *Recorder) Count(prefix string) int {
	n := 0
	for _, c := range r.Calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

// Scissored reports whether a scissor rectangle is currently set.
func (r *Recorder) Scissored() bool { return r.scissor != nil }

func (r *Recorder) NewFramebuffer() graphics.Framebuffer {
	r.nextID++
	return &Framebuffer{id: r.nextID, rec: r}
}

// NewTarget returns an allocated framebuffer filled with c, standing in for the host's
// current render target.
func (r *Recorder) NewTarget(width, height int, c color.RGBA) *Framebuffer {
	fb := r.NewFramebuffer().(*Framebuffer)
	fb.img = image.NewRGBA(image.Rect(0, 0, width, height))
	fb.format = FormatRGBA8
	fb.Fill(c)
	return fb
}

func (r *Recorder) NewProgram(vertex, fragment string, names map[string]string) (graphics.Program, error) {
	r.record("program")
	if r.FailProgram != nil {
		return nil, r.FailProgram
	}
	p := &Program{Uniforms: make(map[string]any), names: names}
	r.Programs = append(r.Programs, p)
	return p, nil
}

func (r *Recorder) Blit(src graphics.Framebuffer, srcRect image.Rectangle, dst graphics.Framebuffer, dstRect image.Rectangle, filter graphics.Filter) {
	r.record("blit %v -> %v", srcRect, dstRect)
	s, ok1 := src.(*Framebuffer)
	d, ok2 := dst.(*Framebuffer)
	if !ok1 || !ok2 || s.img == nil || d.img == nil {
		return
	}
	var scaler draw.Scaler = draw.NearestNeighbor
	if filter == graphics.FilterLinear {
		scaler = draw.ApproxBiLinear
	}
	scaler.Scale(d.img, dstRect, s.img, srcRect, draw.Src, nil)
}

func (r *Recorder) BindTarget(fb graphics.Framebuffer) {
	r.record("bind-target %s", name(fb))
	r.target = fb
}

func (r *Recorder) BoundTarget() graphics.Framebuffer { return r.target }

func (r *Recorder) BindTexture(fb graphics.Framebuffer, unit int) {
	r.record("bind-texture %s %d", name(fb), unit)
}

func (r *Recorder) UseProgram(p graphics.Program) { r.record("use-program") }

func (r *Recorder) EnableBlend() {
	r.Blends++
	r.record("blend")
}

func (r *Recorder) Scissor(rect *image.Rectangle) {
	if rect == nil {
		r.record("scissor nil")
		r.scissor = nil
		return
	}
	cp := *rect
	r.scissor = &cp
	r.record("scissor %v", cp)
}

func (r *Recorder) DrawQuad() {
	r.Draws++
	r.record("draw")
}

func (r *Recorder) ReadPixel(fb graphics.Framebuffer, x, y int) color.RGBA {
	r.Reads++
	f, ok := fb.(*Framebuffer)
	if !ok || f.img == nil {
		return color.RGBA{}
	}
	return f.img.RGBAAt(x, y)
}

func name(fb graphics.Framebuffer) string {
	if f, ok := fb.(*Framebuffer); ok {
		return fmt.Sprintf("fb%d", f.id)
	}
	return "nil"
}

// Framebuffer is an image.RGBA standing in for a GPU framebuffer.
type Framebuffer struct {
	id       int
	rec      *Recorder
	img      *image.RGBA
	format   graphics.PixelFormat
	Allocs   int
	Released bool
}

func (f *Framebuffer) Alloc(width, height int, format graphics.PixelFormat) bool {
	f.rec.record("alloc fb%d %dx%d", f.id, width, height)
	f.Allocs++
	f.img = nil
	if f.rec.FailAlloc || width <= 0 || height <= 0 {
		return false
	}
	f.img = image.NewRGBA(image.Rect(0, 0, width, height))
	f.format = format
	return true
}

func (f *Framebuffer) Allocated() bool { return f.img != nil }

func (f *Framebuffer) Size() image.Point {
	if f.img == nil {
		return image.Point{}
	}
	return f.img.Bounds().Size()
}

func (f *Framebuffer) Format() graphics.PixelFormat { return f.format }

func (f *Framebuffer) Texture() uint32 {
	if f.img == nil {
		return 0
	}
	return uint32(f.id)
}

func (f *Framebuffer) Release() {
	f.rec.record("release fb%d", f.id)
	f.img = nil
	f.Released = true
}

// Fill paints the whole framebuffer with c.
func (f *Framebuffer) Fill(c color.RGBA) {
	if f.img == nil {
		return
	}
	draw.Draw(f.img, f.img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

// Image exposes the backing pixels.
func (f *Framebuffer) Image() *image.RGBA { return f.img }

// Program records the last value set for each uniform.
type Program struct {
	Uniforms map[string]any
	Released bool
	names    map[string]string
}

func (p *Program) SetInt(name string, v int32)       { p.Uniforms[name] = v }
func (p *Program) SetFloat(name string, v float32)   { p.Uniforms[name] = v }
func (p *Program) SetVec2(name string, x, y float32) { p.Uniforms[name] = [2]float32{x, y} }
func (p *Program) SetMat3(name string, m mgl32.Mat3) { p.Uniforms[name] = m }
func (p *Program) Release()                          { p.Released = true }

// Float returns a float uniform and whether it was set.
func (p *Program) Float(name string) (float32, bool) {
	v, ok := p.Uniforms[name].(float32)
	return v, ok
}

// Vec2 returns a vec2 uniform.
func (p *Program) Vec2(name string) ([2]float32, bool) {
	v, ok := p.Uniforms[name].([2]float32)
	return v, ok
}
