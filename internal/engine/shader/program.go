package shader

import (
	"github.com/Faultbox/sceneview/internal/engine/gpu"
)

// Program is a linked shader program with cached attribute and uniform
// locations. Many objects may share one Program.
type Program struct {
	ID   uint32
	Name string

	dev      gpu.Device
	attribs  map[string]int32
	uniforms map[string]int32
}

// NewProgram wraps an already linked program handle.
func NewProgram(dev gpu.Device, id uint32, name string) *Program {
	return &Program{
		ID:       id,
		Name:     name,
		dev:      dev,
		attribs:  make(map[string]int32),
		uniforms: make(map[string]int32),
	}
}

// Attrib returns the location of the named vertex attribute,
// or gpu.NotFound if the program does not expose it.
func (p *Program) Attrib(name string) int32 {
	if loc, ok := p.attribs[name]; ok {
		return loc
	}
	loc := p.dev.AttribLocation(p.ID, name)
	p.attribs[name] = loc
	return loc
}

// Uniform returns the location of the named uniform,
// or gpu.NotFound if the program does not expose it.
func (p *Program) Uniform(name string) int32 {
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	loc := p.dev.UniformLocation(p.ID, name)
	p.uniforms[name] = loc
	return loc
}
