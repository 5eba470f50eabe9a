// Package material holds surface shading parameters and their uniform upload.
package material

import (
	"errors"
	"fmt"

	"github.com/Faultbox/sceneview/internal/engine/gpu"
	"github.com/Faultbox/sceneview/pkg/math"
)

// Material errors.
var (
	ErrUnknownMaterial = errors.New("unknown material")
)

// Material is a named set of Phong shading parameters. Immutable after load.
type Material struct {
	Name              string
	AmbientColor      math.Vec3
	DiffuseColor      math.Vec3
	SpecularColor     math.Vec3
	EmissiveColor     math.Vec3
	ShininessConstant float32
	Density           float32
	Transparency      float32
}

// Default returns the material used when a mesh file declares none:
// mid grey, opaque, no emission.
func Default() Material {
	return Material{
		Name:              "default",
		AmbientColor:      math.Vec3{X: 0.1, Y: 0.1, Z: 0.1},
		DiffuseColor:      math.Vec3{X: 0.8, Y: 0.8, Z: 0.8},
		SpecularColor:     math.Vec3{X: 0.5, Y: 0.5, Z: 0.5},
		ShininessConstant: 32,
		Density:           1,
		Transparency:      1,
	}
}

// Table maps material names to materials.
type Table map[string]Material

// ConfigurationError reports a material group that references a material
// the table does not define. It indicates a loader/object mismatch.
type ConfigurationError struct {
	Object string
	Group  int
	Name   string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("object %q group %d: %v %q", e.Object, e.Group, ErrUnknownMaterial, e.Name)
}

// Unwrap lets errors.Is match ErrUnknownMaterial.
func (e *ConfigurationError) Unwrap() error {
	return ErrUnknownMaterial
}

// Resolve looks up the material for group index group of object.
func (t Table) Resolve(object string, group int, name string) (Material, error) {
	m, ok := t[name]
	if !ok {
		return Material{}, &ConfigurationError{Object: object, Group: group, Name: name}
	}
	return m, nil
}

// Uniform names of the material block.
const (
	UniformShininess    = "u_material.shininessConstant"
	UniformAmbient      = "u_material.ambientColor"
	UniformDiffuse      = "u_material.diffuseColor"
	UniformSpecular     = "u_material.specularColor"
	UniformEmissive     = "u_material.emissiveColor"
	UniformDensity      = "u_material.density"
	UniformTransparency = "u_material.transparency"
)

// Locations caches the material block uniform locations of one program.
type Locations struct {
	Shininess    int32
	Ambient      int32
	Diffuse      int32
	Specular     int32
	Emissive     int32
	Density      int32
	Transparency int32
}

// UniformLookup resolves a uniform name to a location.
type UniformLookup interface {
	Uniform(name string) int32
}

// LookupLocations resolves the material block in p.
func LookupLocations(p UniformLookup) Locations {
	return Locations{
		Shininess:    p.Uniform(UniformShininess),
		Ambient:      p.Uniform(UniformAmbient),
		Diffuse:      p.Uniform(UniformDiffuse),
		Specular:     p.Uniform(UniformSpecular),
		Emissive:     p.Uniform(UniformEmissive),
		Density:      p.Uniform(UniformDensity),
		Transparency: p.Uniform(UniformTransparency),
	}
}

// Apply uploads m into the bound program.
func (m Material) Apply(dev gpu.Device, loc Locations) {
	dev.Uniform1f(loc.Shininess, m.ShininessConstant)
	dev.Uniform3f(loc.Ambient, m.AmbientColor)
	dev.Uniform3f(loc.Diffuse, m.DiffuseColor)
	dev.Uniform3f(loc.Specular, m.SpecularColor)
	dev.Uniform3f(loc.Emissive, m.EmissiveColor)
	dev.Uniform1f(loc.Density, m.Density)
	dev.Uniform1f(loc.Transparency, m.Transparency)
}
