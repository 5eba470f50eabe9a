// Package geometry uploads mesh arrays into GPU vertex and index buffers.
package geometry

import (
	"fmt"

	"github.com/Faultbox/sceneview/internal/engine/gpu"
)

// Attribute names shared by every scene program.
const (
	AttribPosition = "a_position"
	AttribNormal   = "a_normal"
	AttribUV       = "a_uv"
)

// Attribs holds vertex attribute locations. gpu.NotFound marks an
// attribute the program does not expose.
type Attribs struct {
	Position int32
	Normal   int32
	UV       int32
}

// AttribLookup resolves an attribute name to a location.
type AttribLookup interface {
	Attrib(name string) int32
}

// LookupAttribs resolves the standard attributes against p.
func LookupAttribs(p AttribLookup) Attribs {
	return Attribs{
		Position: p.Attrib(AttribPosition),
		Normal:   p.Attrib(AttribNormal),
		UV:       p.Attrib(AttribUV),
	}
}

// Arrays is the raw vertex data of one mesh.
type Arrays struct {
	Positions []float32
	Normals   []float32
	UVs       []float32
	Indices   []uint16
}

// Buffer is the GPU-resident vertex array of one mesh. It is built once
// and never mutated.
type Buffer struct {
	VAO        uint32
	Position   uint32
	Normal     uint32 // 0 when normals were not uploaded
	UV         uint32 // 0 when the program has no uv attribute
	Index      uint32
	IndexCount int32

	dev   gpu.Device
	extra []uint32
}

// New creates the vertex array and uploads a into it.
// Positions and indices are always uploaded. Normals are uploaded only when
// the program reads them and a has some; uvs whenever the program reads them.
func New(dev gpu.Device, a Arrays, attribs Attribs) (*Buffer, error) {
	b := &Buffer{dev: dev, IndexCount: int32(len(a.Indices))}

	vao, err := dev.CreateVertexArray()
	if err != nil {
		return nil, err
	}
	b.VAO = vao
	dev.BindVertexArray(vao)
	defer dev.BindVertexArray(0)

	if b.Position, err = b.attribute(attribs.Position, 3, a.Positions); err != nil {
		b.Release()
		return nil, fmt.Errorf("positions: %w", err)
	}
	if attribs.Normal >= 0 && len(a.Normals) > 0 {
		if b.Normal, err = b.attribute(attribs.Normal, 3, a.Normals); err != nil {
			b.Release()
			return nil, fmt.Errorf("normals: %w", err)
		}
	}
	if attribs.UV >= 0 {
		if b.UV, err = b.attribute(attribs.UV, 2, a.UVs); err != nil {
			b.Release()
			return nil, fmt.Errorf("uvs: %w", err)
		}
	}

	if b.Index, err = dev.CreateBuffer(); err != nil {
		b.Release()
		return nil, fmt.Errorf("indices: %w", err)
	}
	dev.ElementBufferData(b.Index, a.Indices)

	return b, nil
}

func (b *Buffer) attribute(location int32, size int32, data []float32) (uint32, error) {
	buf, err := b.dev.CreateBuffer()
	if err != nil {
		return 0, err
	}
	b.dev.ArrayBufferData(buf, data)
	if location >= 0 {
		b.dev.VertexAttribPointer(uint32(location), size)
	}
	return buf, nil
}

// IndexBuffer uploads an additional index buffer for this vertex array,
// typically one per material group. It is released with the Buffer.
func (b *Buffer) IndexBuffer(indices []uint16) (uint32, error) {
	buf, err := b.dev.CreateBuffer()
	if err != nil {
		return 0, err
	}
	b.dev.BindVertexArray(b.VAO)
	b.dev.ElementBufferData(buf, indices)
	b.dev.BindElementBuffer(b.Index)
	b.dev.BindVertexArray(0)
	b.extra = append(b.extra, buf)
	return buf, nil
}

// Bind binds the vertex array.
func (b *Buffer) Bind() {
	b.dev.BindVertexArray(b.VAO)
}

// Unbind clears the vertex array binding.
func (b *Buffer) Unbind() {
	b.dev.BindVertexArray(0)
}

// Release deletes every GPU object owned by the buffer.
func (b *Buffer) Release() {
	for _, buf := range []uint32{b.Position, b.Normal, b.UV, b.Index} {
		if buf != 0 {
			b.dev.DeleteBuffer(buf)
		}
	}
	for _, buf := range b.extra {
		b.dev.DeleteBuffer(buf)
	}
	if b.VAO != 0 {
		b.dev.DeleteVertexArray(b.VAO)
	}
	*b = Buffer{dev: b.dev}
}
