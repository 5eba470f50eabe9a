// Package mesh holds CPU-side mesh data as produced by loaders and generators.
package mesh

import (
	"errors"
	"fmt"

	"github.com/Faultbox/sceneview/internal/engine/material"
)

// MaxVertices is the largest vertex count addressable by 16-bit indices.
const MaxVertices = 65535

// Mesh validation errors.
var (
	ErrInvalidPositions  = errors.New("position array length is not a multiple of 3")
	ErrNormalCount       = errors.New("normal count does not match vertex count")
	ErrUVCount           = errors.New("uv count does not match vertex count")
	ErrIndexOutOfRange   = errors.New("index out of range")
	ErrGroupNotTriangles = errors.New("group index count is not a multiple of 3")
	ErrTooManyVertices   = errors.New("vertex count exceeds 16-bit index range")
	ErrNoGroups          = errors.New("mesh has no material groups")
)

// Group is a run of triangle indices sharing one material.
type Group struct {
	Material string
	Indices  []uint16
}

// Data is a mesh ready for upload. Normals and UVs may be empty.
type Data struct {
	Positions []float32
	Normals   []float32
	UVs       []float32
	Indices   []uint16
	Groups    []Group
	Materials material.Table
}

// VertexCount returns the number of vertices.
func (d *Data) VertexCount() int {
	return len(d.Positions) / 3
}

// Validate checks the buffer layout of the geometry.
// Material names are checked later, when an object resolves its groups.
func (d *Data) Validate() error {
	if len(d.Positions)%3 != 0 {
		return fmt.Errorf("%w: %d floats", ErrInvalidPositions, len(d.Positions))
	}
	n := d.VertexCount()
	if n > MaxVertices {
		return fmt.Errorf("%w: %d vertices", ErrTooManyVertices, n)
	}
	if len(d.Normals) != 0 && len(d.Normals) != len(d.Positions) {
		return fmt.Errorf("%w: %d normals for %d vertices", ErrNormalCount, len(d.Normals)/3, n)
	}
	if len(d.UVs) != 0 && len(d.UVs) != n*2 {
		return fmt.Errorf("%w: %d uvs for %d vertices", ErrUVCount, len(d.UVs)/2, n)
	}
	if err := checkIndices(d.Indices, n); err != nil {
		return err
	}
	for i, g := range d.Groups {
		if len(g.Indices)%3 != 0 {
			return fmt.Errorf("group %d (%s): %w", i, g.Material, ErrGroupNotTriangles)
		}
		if err := checkIndices(g.Indices, n); err != nil {
			return fmt.Errorf("group %d (%s): %w", i, g.Material, err)
		}
	}
	return nil
}

// GroupIndexCount returns the sum of all group index counts.
func (d *Data) GroupIndexCount() int {
	total := 0
	for _, g := range d.Groups {
		total += len(g.Indices)
	}
	return total
}

func checkIndices(indices []uint16, vertexCount int) error {
	for i, idx := range indices {
		if int(idx) >= vertexCount {
			return fmt.Errorf("%w: indices[%d] = %d, %d vertices", ErrIndexOutOfRange, i, idx, vertexCount)
		}
	}
	return nil
}
