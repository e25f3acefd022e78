package renderer

import (
	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// Program is a linked GL program. Uniform setters act on the program in use, so callers
// bind it with UseProgram first.
type Program struct {
	id    uint32
	names map[string]string
	locs  map[string]int32
}

// location resolves a uniform through the translator's name map, falling back to the source
// name for uniforms that were not translated (the vertex stage). -1 means "skip".
func (p *Program) location(name string) int32 {
	if loc, ok := p.locs[name]; ok {
		return loc
	}
	loc := int32(-1)
	if mapped, ok := p.names[name]; ok {
		loc = gl.GetUniformLocation(p.id, gl.Str(mapped+"\x00"))
	}
	if loc < 0 {
		loc = gl.GetUniformLocation(p.id, gl.Str(name+"\x00"))
	}
	p.locs[name] = loc
	return loc
}

func (p *Program) SetInt(name string, v int32) {
	if loc := p.location(name); loc >= 0 {
		gl.Uniform1i(loc, v)
	}
}

func (p *Program) SetFloat(name string, v float32) {
	if loc := p.location(name); loc >= 0 {
		gl.Uniform1f(loc, v)
	}
}

func (p *Program) SetVec2(name string, x, y float32) {
	if loc := p.location(name); loc >= 0 {
		gl.Uniform2f(loc, x, y)
	}
}

// SetMat3 uploads m as-is; mgl32 matrices are already column-major.
func (p *Program) SetMat3(name string, m mgl32.Mat3) {
	if loc := p.location(name); loc >= 0 {
		gl.UniformMatrix3fv(loc, 1, false, &m[0])
	}
}

func (p *Program) Release() {
	if p.id != 0 {
		gl.DeleteProgram(p.id)
		p.id = 0
	}
}
