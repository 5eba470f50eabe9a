// Package gputest provides a recording gpu.Device for tests.
package gputest

import (
	"fmt"

	"github.com/Faultbox/sceneview/internal/engine/gpu"
	"github.com/Faultbox/sceneview/pkg/math"
)

// Call operation names.
const (
	OpCreateVertexArray   = "CreateVertexArray"
	OpCreateBuffer        = "CreateBuffer"
	OpCreateTexture       = "CreateTexture"
	OpDeleteVertexArray   = "DeleteVertexArray"
	OpDeleteBuffer        = "DeleteBuffer"
	OpDeleteTexture       = "DeleteTexture"
	OpBindVertexArray     = "BindVertexArray"
	OpArrayBufferData     = "ArrayBufferData"
	OpVertexAttribPointer = "VertexAttribPointer"
	OpElementBufferData   = "ElementBufferData"
	OpBindElementBuffer   = "BindElementBuffer"
	OpCompileProgram      = "CompileProgram"
	OpDeleteProgram       = "DeleteProgram"
	OpUseProgram          = "UseProgram"
	OpAttribLocation      = "AttribLocation"
	OpUniformLocation     = "UniformLocation"
	OpUniform             = "Uniform"
	OpTextureParameters   = "TextureParameters"
	OpTextureImage        = "TextureImageRGBA"
	OpBindTexture         = "BindTexture"
	OpDrawTriangles       = "DrawTriangles"
)

// Call is one recorded Device call.
type Call struct {
	Op     string
	Handle uint32 // object, program or texture unit, depending on Op
	Name   string // uniform or attribute name, if any
	Value  any    // uploaded value or count
}

// Draw describes the bound state at the time of a DrawTriangles call.
type Draw struct {
	Program       uint32
	VertexArray   uint32
	ElementBuffer uint32
	Count         int32
	Textures      map[uint32]uint32 // unit -> texture
}

// TextureImage is a recorded texture upload.
type TextureImage struct {
	Width, Height int32
	Pixels        []byte
}

// Recorder implements gpu.Device by recording every call.
// Programs expose the attribute and uniform names given to NewRecorder.
type Recorder struct {
	Calls []Call
	Draws []Draw

	// FailCreate makes every Create* call fail.
	FailCreate bool
	// CompileErr is returned by CompileProgram when set.
	CompileErr error
	// Sources records the shader sources passed to CompileProgram.
	Sources map[uint32][2]string

	ArrayData   map[uint32][]float32
	ElementData map[uint32][]uint16
	Images      map[uint32]TextureImage
	// Enabled maps attribute location to the array buffer it reads from.
	Enabled map[uint32]uint32
	// Targets maps live render target framebuffers to their size.
	Targets map[uint32][2]int32
	// Pixels, when set, is returned by ReadPixels.
	Pixels []byte

	attribs  map[string]int32
	uniforms map[string]int32
	names    map[int32]string
	values   map[string]any

	nextHandle     uint32
	program        uint32
	vertexArray    uint32
	arrayBuffer    uint32
	elementBuffers map[uint32]uint32 // vao -> element buffer
	textures       map[uint32]uint32
	state          FrameState
}

var _ gpu.Device = (*Recorder)(nil)

// NewRecorder returns a Recorder whose programs expose the given attribute
// and uniform names. Locations are assigned in order starting at 0.
func NewRecorder(attribs, uniforms []string) *Recorder {
	r := &Recorder{
		ArrayData:      make(map[uint32][]float32),
		ElementData:    make(map[uint32][]uint16),
		Images:         make(map[uint32]TextureImage),
		Enabled:        make(map[uint32]uint32),
		Targets:        make(map[uint32][2]int32),
		Sources:        make(map[uint32][2]string),
		attribs:        make(map[string]int32),
		uniforms:       make(map[string]int32),
		names:          make(map[int32]string),
		values:         make(map[string]any),
		elementBuffers: make(map[uint32]uint32),
		textures:       make(map[uint32]uint32),
	}
	for i, name := range attribs {
		r.attribs[name] = int32(i)
	}
	for i, name := range uniforms {
		r.uniforms[name] = int32(i)
		r.names[int32(i)] = name
	}
	return r
}

// Reset forgets recorded calls and draws but keeps GPU state.
func (r *Recorder) Reset() {
	r.Calls = nil
	r.Draws = nil
}

// Count returns how many recorded calls have the given op.
func (r *Recorder) Count(op string) int {
	n := 0
	for _, c := range r.Calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Uniform returns the last value uploaded to the named uniform.
func (r *Recorder) Uniform(name string) (any, bool) {
	v, ok := r.values[name]
	return v, ok
}

// UniformUploads returns every value uploaded to the named uniform in order.
func (r *Recorder) UniformUploads(name string) []any {
	var out []any
	for _, c := range r.Calls {
		if c.Op == OpUniform && c.Name == name {
			out = append(out, c.Value)
		}
	}
	return out
}

// BoundProgram returns the program currently in use.
func (r *Recorder) BoundProgram() uint32 { return r.program }

// BoundVertexArray returns the vertex array currently bound.
func (r *Recorder) BoundVertexArray() uint32 { return r.vertexArray }

func (r *Recorder) record(c Call) {
	r.Calls = append(r.Calls, c)
}

func (r *Recorder) create(op string) (uint32, error) {
	r.record(Call{Op: op})
	if r.FailCreate {
		return 0, fmt.Errorf("%s: %w", op, gpu.ErrResourceCreation)
	}
	r.nextHandle++
	return r.nextHandle, nil
}

func (r *Recorder) CreateVertexArray() (uint32, error) { return r.create(OpCreateVertexArray) }
func (r *Recorder) CreateBuffer() (uint32, error)      { return r.create(OpCreateBuffer) }
func (r *Recorder) CreateTexture() (uint32, error)     { return r.create(OpCreateTexture) }

func (r *Recorder) DeleteVertexArray(vao uint32) {
	r.record(Call{Op: OpDeleteVertexArray, Handle: vao})
}

func (r *Recorder) DeleteBuffer(buf uint32) {
	r.record(Call{Op: OpDeleteBuffer, Handle: buf})
	delete(r.ArrayData, buf)
	delete(r.ElementData, buf)
}

func (r *Recorder) DeleteTexture(tex uint32) {
	r.record(Call{Op: OpDeleteTexture, Handle: tex})
	delete(r.Images, tex)
}

func (r *Recorder) BindVertexArray(vao uint32) {
	r.record(Call{Op: OpBindVertexArray, Handle: vao})
	r.vertexArray = vao
}

func (r *Recorder) ArrayBufferData(buf uint32, data []float32) {
	r.record(Call{Op: OpArrayBufferData, Handle: buf, Value: len(data)})
	r.arrayBuffer = buf
	r.ArrayData[buf] = append([]float32(nil), data...)
}

func (r *Recorder) VertexAttribPointer(location uint32, size int32) {
	r.record(Call{Op: OpVertexAttribPointer, Handle: location, Value: size})
	r.Enabled[location] = r.arrayBuffer
}

func (r *Recorder) ElementBufferData(buf uint32, data []uint16) {
	r.record(Call{Op: OpElementBufferData, Handle: buf, Value: len(data)})
	r.elementBuffers[r.vertexArray] = buf
	r.ElementData[buf] = append([]uint16(nil), data...)
}

func (r *Recorder) BindElementBuffer(buf uint32) {
	r.record(Call{Op: OpBindElementBuffer, Handle: buf})
	r.elementBuffers[r.vertexArray] = buf
}

func (r *Recorder) CompileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	r.record(Call{Op: OpCompileProgram})
	if r.CompileErr != nil {
		return 0, r.CompileErr
	}
	r.nextHandle++
	r.Sources[r.nextHandle] = [2]string{vertexSrc, fragmentSrc}
	return r.nextHandle, nil
}

func (r *Recorder) DeleteProgram(program uint32) {
	r.record(Call{Op: OpDeleteProgram, Handle: program})
}

func (r *Recorder) UseProgram(program uint32) {
	r.record(Call{Op: OpUseProgram, Handle: program})
	r.program = program
}

func (r *Recorder) AttribLocation(program uint32, name string) int32 {
	r.record(Call{Op: OpAttribLocation, Handle: program, Name: name})
	if loc, ok := r.attribs[name]; ok {
		return loc
	}
	return gpu.NotFound
}

func (r *Recorder) UniformLocation(program uint32, name string) int32 {
	r.record(Call{Op: OpUniformLocation, Handle: program, Name: name})
	if loc, ok := r.uniforms[name]; ok {
		return loc
	}
	return gpu.NotFound
}

func (r *Recorder) uniform(location int32, v any) {
	if location < 0 {
		return
	}
	name := r.names[location]
	r.record(Call{Op: OpUniform, Handle: r.program, Name: name, Value: v})
	r.values[name] = v
}

func (r *Recorder) UniformMatrix4(location int32, m math.Mat4) { r.uniform(location, m) }
func (r *Recorder) UniformMatrix3(location int32, m math.Mat3) { r.uniform(location, m) }
func (r *Recorder) Uniform3f(location int32, v math.Vec3)      { r.uniform(location, v) }
func (r *Recorder) Uniform1f(location int32, v float32)        { r.uniform(location, v) }
func (r *Recorder) Uniform1i(location int32, v int32)          { r.uniform(location, v) }

func (r *Recorder) TextureParameters(tex uint32) {
	r.record(Call{Op: OpTextureParameters, Handle: tex})
}

func (r *Recorder) TextureImageRGBA(tex uint32, width, height int32, pixels []byte) {
	r.record(Call{Op: OpTextureImage, Handle: tex, Value: [2]int32{width, height}})
	r.Images[tex] = TextureImage{Width: width, Height: height, Pixels: append([]byte(nil), pixels...)}
}

func (r *Recorder) BindTexture(unit uint32, tex uint32) {
	r.record(Call{Op: OpBindTexture, Handle: unit, Value: tex})
	r.textures[unit] = tex
}

func (r *Recorder) DrawTriangles(count int32) {
	r.record(Call{Op: OpDrawTriangles, Handle: r.program, Value: count})
	textures := make(map[uint32]uint32, len(r.textures))
	for unit, tex := range r.textures {
		textures[unit] = tex
	}
	r.Draws = append(r.Draws, Draw{
		Program:       r.program,
		VertexArray:   r.vertexArray,
		ElementBuffer: r.elementBuffers[r.vertexArray],
		Count:         count,
		Textures:      textures,
	})
}
