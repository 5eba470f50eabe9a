// Package gpu defines the narrow set of GPU operations the scene pipeline
// issues, so draw protocols can run against OpenGL or a recorder in tests.
package gpu

import (
	"errors"

	"github.com/Faultbox/sceneview/pkg/math"
)

// GPU errors.
var (
	ErrResourceCreation = errors.New("gpu resource creation failed")
)

// NotFound is the location returned for attributes and uniforms a program
// does not expose.
const NotFound int32 = -1

// Device issues GPU commands. All methods must be called from the thread
// that owns the GL context.
type Device interface {
	Frame
	RenderTargets

	// Object creation. A zero handle is reported as ErrResourceCreation.
	CreateVertexArray() (uint32, error)
	CreateBuffer() (uint32, error)
	CreateTexture() (uint32, error)

	DeleteVertexArray(vao uint32)
	DeleteBuffer(buf uint32)
	DeleteTexture(tex uint32)

	// Vertex layout.
	BindVertexArray(vao uint32)
	ArrayBufferData(buf uint32, data []float32)
	VertexAttribPointer(location uint32, size int32)
	ElementBufferData(buf uint32, data []uint16)
	BindElementBuffer(buf uint32)

	// Programs and uniforms. Uploads to NotFound are ignored.
	CompileProgram(vertexSrc, fragmentSrc string) (uint32, error)
	DeleteProgram(program uint32)
	UseProgram(program uint32)
	AttribLocation(program uint32, name string) int32
	UniformLocation(program uint32, name string) int32
	UniformMatrix4(location int32, m math.Mat4)
	UniformMatrix3(location int32, m math.Mat3)
	Uniform3f(location int32, v math.Vec3)
	Uniform1f(location int32, v float32)
	Uniform1i(location int32, v int32)

	// Textures.
	TextureParameters(tex uint32)
	TextureImageRGBA(tex uint32, width, height int32, pixels []byte)
	BindTexture(unit uint32, tex uint32)

	// DrawTriangles draws count uint16 indices from the bound element buffer.
	DrawTriangles(count int32)
}
