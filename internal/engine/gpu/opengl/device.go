// Package opengl implements gpu.Device on the OpenGL 4.1 core profile.
package opengl

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/sceneview/internal/engine/gpu"
	"github.com/Faultbox/sceneview/pkg/math"
)

// Device issues commands to the current GL context.
// gl.Init must have succeeded before use.
type Device struct{}

var _ gpu.Device = Device{}

// New returns the OpenGL device.
func New() Device {
	return Device{}
}

// CreateVertexArray generates a vertex array object.
func (Device) CreateVertexArray() (uint32, error) {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	if vao == 0 {
		return 0, fmt.Errorf("vertex array: %w", gpu.ErrResourceCreation)
	}
	return vao, nil
}

// CreateBuffer generates a buffer object.
func (Device) CreateBuffer() (uint32, error) {
	var buf uint32
	gl.GenBuffers(1, &buf)
	if buf == 0 {
		return 0, fmt.Errorf("buffer: %w", gpu.ErrResourceCreation)
	}
	return buf, nil
}

// CreateTexture generates a texture object.
func (Device) CreateTexture() (uint32, error) {
	var tex uint32
	gl.GenTextures(1, &tex)
	if tex == 0 {
		return 0, fmt.Errorf("texture: %w", gpu.ErrResourceCreation)
	}
	return tex, nil
}

func (Device) DeleteVertexArray(vao uint32) { gl.DeleteVertexArrays(1, &vao) }
func (Device) DeleteBuffer(buf uint32)      { gl.DeleteBuffers(1, &buf) }
func (Device) DeleteTexture(tex uint32)     { gl.DeleteTextures(1, &tex) }

func (Device) BindVertexArray(vao uint32) {
	gl.BindVertexArray(vao)
}

// ArrayBufferData binds buf as the array buffer and uploads data.
// An empty slice allocates an empty store.
func (Device) ArrayBufferData(buf uint32, data []float32) {
	gl.BindBuffer(gl.ARRAY_BUFFER, buf)
	if len(data) == 0 {
		gl.BufferData(gl.ARRAY_BUFFER, 0, nil, gl.STATIC_DRAW)
		return
	}
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
}

// VertexAttribPointer enables location and points it at the bound array
// buffer as tightly packed float32 components.
func (Device) VertexAttribPointer(location uint32, size int32) {
	gl.EnableVertexAttribArray(location)
	gl.VertexAttribPointerWithOffset(location, size, gl.FLOAT, false, 0, 0)
}

// ElementBufferData binds buf as the element buffer and uploads data.
func (Device) ElementBufferData(buf uint32, data []uint16) {
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, buf)
	if len(data) == 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, 0, nil, gl.STATIC_DRAW)
		return
	}
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(data)*2, gl.Ptr(data), gl.STATIC_DRAW)
}

func (Device) BindElementBuffer(buf uint32) {
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, buf)
}

func (Device) UseProgram(program uint32) {
	gl.UseProgram(program)
}

func (Device) AttribLocation(program uint32, name string) int32 {
	return gl.GetAttribLocation(program, gl.Str(name+"\x00"))
}

func (Device) UniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (Device) UniformMatrix4(location int32, m math.Mat4) {
	if location < 0 {
		return
	}
	gl.UniformMatrix4fv(location, 1, false, m.Ptr())
}

func (Device) UniformMatrix3(location int32, m math.Mat3) {
	if location < 0 {
		return
	}
	gl.UniformMatrix3fv(location, 1, false, m.Ptr())
}

func (Device) Uniform3f(location int32, v math.Vec3) {
	if location < 0 {
		return
	}
	gl.Uniform3f(location, v.X, v.Y, v.Z)
}

func (Device) Uniform1f(location int32, v float32) {
	if location < 0 {
		return
	}
	gl.Uniform1f(location, v)
}

func (Device) Uniform1i(location int32, v int32) {
	if location < 0 {
		return
	}
	gl.Uniform1i(location, v)
}

// TextureParameters sets clamp-to-edge wrapping and linear filtering.
func (Device) TextureParameters(tex uint32) {
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// TextureImageRGBA uploads tightly packed RGBA8 pixels into tex.
func (Device) TextureImageRGBA(tex uint32, width, height int32, pixels []byte) {
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, width, height, 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// BindTexture binds tex to the given texture unit.
func (Device) BindTexture(unit uint32, tex uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, tex)
}

func (Device) DrawTriangles(count int32) {
	gl.DrawElements(gl.TRIANGLES, count, gl.UNSIGNED_SHORT, nil)
}
