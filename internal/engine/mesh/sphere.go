package mesh

import (
	"errors"
	"fmt"
	gomath "math"
)

// ErrInvalidSphere is returned for non-positive radius or band counts.
var ErrInvalidSphere = errors.New("invalid sphere parameters")

// SphereVertexCount returns the vertex count of a sphere with the given bands.
func SphereVertexCount(latBands, lonBands int) int {
	return (latBands + 1) * (lonBands + 1)
}

// Sphere generates a UV sphere of the given radius with latBands rings and
// lonBands segments. Normals are unit length and UVs lie in [0,1].
// The result has no material groups; callers draw its whole index buffer.
func Sphere(radius float32, latBands, lonBands int) (*Data, error) {
	if radius <= 0 || latBands < 1 || lonBands < 1 {
		return nil, fmt.Errorf("%w: radius %v, bands %dx%d", ErrInvalidSphere, radius, latBands, lonBands)
	}
	vertexCount := SphereVertexCount(latBands, lonBands)
	if vertexCount > MaxVertices {
		return nil, fmt.Errorf("%w: %d vertices", ErrTooManyVertices, vertexCount)
	}

	d := &Data{
		Positions: make([]float32, 0, vertexCount*3),
		Normals:   make([]float32, 0, vertexCount*3),
		UVs:       make([]float32, 0, vertexCount*2),
		Indices:   make([]uint16, 0, latBands*lonBands*6),
	}

	for lat := 0; lat <= latBands; lat++ {
		theta := float64(lat) * gomath.Pi / float64(latBands)
		sinTheta, cosTheta := gomath.Sincos(theta)

		for lon := 0; lon <= lonBands; lon++ {
			phi := float64(lon) * 2 * gomath.Pi / float64(lonBands)
			sinPhi, cosPhi := gomath.Sincos(phi)

			x := float32(cosPhi * sinTheta)
			y := float32(cosTheta)
			z := float32(sinPhi * sinTheta)

			d.Normals = append(d.Normals, x, y, z)
			d.Positions = append(d.Positions, radius*x, radius*y, radius*z)
			d.UVs = append(d.UVs,
				1-float32(lon)/float32(lonBands),
				1-float32(lat)/float32(latBands),
			)
		}
	}

	for lat := 0; lat < latBands; lat++ {
		for lon := 0; lon < lonBands; lon++ {
			first := uint16(lat*(lonBands+1) + lon)
			second := first + uint16(lonBands) + 1

			d.Indices = append(d.Indices,
				first, second, first+1,
				second, second+1, first+1,
			)
		}
	}

	return d, nil
}
