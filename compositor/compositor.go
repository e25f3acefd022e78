// Package compositor draws the glass kernel over a surface's device box, sampling the
// capture buffer filled earlier in the frame.
package compositor

import (
	"fmt"

	"github.com/richinsley/liquidglass/config"
	"github.com/richinsley/liquidglass/geometry"
	"github.com/richinsley/liquidglass/graphics"
	"github.com/richinsley/liquidglass/shader"
	"github.com/richinsley/liquidglass/translator"
)

// Params are the kernel coefficients for one draw.
type Params struct {
	BlurStrength        float32
	RefractionStrength  float32
	ChromaticAberration float32
	FresnelStrength     float32
	SpecularStrength    float32
	GlassOpacity        float32
	EdgeThickness       float32
}

func ParamsFrom(p config.Params) Params {
	return Params{
		BlurStrength:        p.BlurStrength,
		RefractionStrength:  p.RefractionStrength,
		ChromaticAberration: p.ChromaticAberration,
		FresnelStrength:     p.FresnelStrength,
		SpecularStrength:    p.SpecularStrength,
		GlassOpacity:        p.GlassOpacity,
		EdgeThickness:       p.EdgeThickness,
	}
}

// Frame carries the per-draw geometry and timing.
type Frame struct {
	Monitor geometry.Monitor
	// Device is the rounded box in monitor pixels; Shader the same box in transformed space.
	Device geometry.Box
	Shader geometry.Box
	Radius float32
	Time   float32
	Alpha  float32
}

// Compiler turns a kernel into a program for surface. The default translates the kernel
// for the context dialect first.
type Compiler func(surface graphics.Surface, k shader.Kernel) (graphics.Program, error)

// TranslateCompiler builds programs through the shader translator.
func TranslateCompiler(gles bool) Compiler {
	return func(surface graphics.Surface, k shader.Kernel) (graphics.Program, error) {
		fs, err := translator.Fragment(k.Source, gles)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k.Name, err)
		}
		return surface.NewProgram(shader.QuadVertex(gles), fs.Code, fs.Names)
	}
}

// DirectCompiler hands the kernel source to the surface untranslated.
func DirectCompiler(surface graphics.Surface, k shader.Kernel) (graphics.Program, error) {
	return surface.NewProgram(shader.QuadVertex(true), k.Source, nil)
}

type Compositor struct {
	surface graphics.Surface
	program graphics.Program
}

// New compiles k once. A failure here disables the whole effect.
func New(surface graphics.Surface, k shader.Kernel, compile Compiler) (*Compositor, error) {
	if compile == nil {
		compile = DirectCompiler
	}
	prog, err := compile(surface, k)
	if err != nil {
		return nil, fmt.Errorf("build effect kernel %s: %w", k.Name, err)
	}
	return &Compositor{surface: surface, program: prog}, nil
}

// Composite draws the kernel into target, scissored to the surface box. It returns false
// without touching GPU state when either buffer is unusable or the geometry does not match
// the capture.
func (c *Compositor) Composite(capture, target graphics.Framebuffer, f Frame, p Params) bool {
	if capture == nil || target == nil || !capture.Allocated() || !target.Allocated() {
		return false
	}
	if capture.Texture() == 0 || f.Device.Empty() || f.Shader.Empty() {
		return false
	}
	w, h := f.Shader.Dims()
	if size := capture.Size(); size.X != w || size.Y != h {
		return false
	}

	s := c.surface
	s.BindTarget(target)
	s.BindTexture(capture, 0)
	s.EnableBlend()
	s.UseProgram(c.program)

	prog := c.program
	prog.SetMat3("proj", f.Monitor.BoxMatrix(f.Device))
	prog.SetInt("tex", 0)
	x, y := f.Shader.Pos().Floats()
	prog.SetVec2("topLeft", x, y)
	sw, sh := f.Shader.Size().Floats()
	prog.SetVec2("fullSize", sw, sh)
	sw, sh = f.Device.Size().Floats()
	prog.SetVec2("fullSizeUntransformed", sw, sh)
	prog.SetFloat("radius", f.Radius)
	prog.SetFloat("time", f.Time)
	prog.SetFloat("blurStrength", p.BlurStrength)
	prog.SetFloat("refractionStrength", p.RefractionStrength)
	prog.SetFloat("chromaticAberration", p.ChromaticAberration)
	prog.SetFloat("fresnelStrength", p.FresnelStrength)
	prog.SetFloat("specularStrength", p.SpecularStrength)
	prog.SetFloat("glassOpacity", p.GlassOpacity*f.Alpha)
	prog.SetFloat("edgeThickness", p.EdgeThickness)

	// Scissor and capture live in framebuffer space, which is the transformed box.
	clip := f.Shader.Rect()
	s.Scissor(&clip)
	defer s.Scissor(nil)
	s.DrawQuad()
	return true
}

func (c *Compositor) Release() {
	if c.program != nil {
		c.program.Release()
		c.program = nil
	}
}
